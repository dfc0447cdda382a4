package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone returns the E.164 form of phone for the first region in which it
// is a valid number. Otherwise the trimmed input is returned with ok=false.
func NormalizePhone(phone string, regions ...string) (string, bool) {
	phone = TrimAndNormalize(phone)
	if phone == "" {
		return "", false
	}

	for _, region := range regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164), true
	}

	if strings.HasPrefix(phone, "+") {
		if parsed, err := phonenumbers.Parse(phone, ""); err == nil && phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164), true
		}
	}
	return phone, false
}
