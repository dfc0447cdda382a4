package locale

const (
	DefaultRegion   = "CA"
	DefaultTimezone = "America/Toronto"
)

type Country struct {
	Code      string // ISO 3166-1 alpha-2
	Name      string
	Timezones []string // IANA identifiers that imply this country
}

var Countries = []Country{
	{
		Code: "CA",
		Name: "Canada",
		Timezones: []string{
			"America/Toronto", "America/Montreal", "America/Vancouver", "America/Edmonton",
			"America/Winnipeg", "America/Halifax", "America/St_Johns", "Canada/Eastern",
		},
	},
	{
		Code: "US",
		Name: "United States",
		Timezones: []string{
			"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles",
			"US/Eastern", "US/Central", "US/Pacific",
		},
	},
}
