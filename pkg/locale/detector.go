package locale

import "strings"

// DetectRegion maps a restaurant timezone to the country used for local phone numbers.
func DetectRegion(tz string) string {
	for _, country := range Countries {
		for _, z := range country.Timezones {
			if strings.EqualFold(tz, z) {
				return country.Code
			}
		}
	}
	return DefaultRegion
}

// PhoneRegions lists the regions to try when parsing a phone number, the
// restaurant's own region first.
func PhoneRegions(tz string) []string {
	primary := DetectRegion(tz)
	regions := []string{primary}
	for _, country := range Countries {
		if country.Code != primary {
			regions = append(regions, country.Code)
		}
	}
	return regions
}
