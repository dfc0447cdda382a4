package scheduling

import (
	"net/url"
	"strconv"
)

type Prefill struct {
	Name       string
	Email      string
	Phone      string
	Guests     int
	UTMContent string
}

// PrefillURL appends the widget's prefill parameters to base. Phone and guest
// count go in the custom answers a1 and a2.
func PrefillURL(base string, p Prefill) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("name", p.Name)
	q.Set("email", p.Email)
	q.Set("a1", p.Phone)
	q.Set("a2", strconv.Itoa(p.Guests))
	if p.UTMContent != "" {
		q.Set("utm_content", p.UTMContent)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
