package policy

import (
	"strings"
)

// nzMobilePrefixes are the digits a +64 number must start with after the
// country code to count as a mobile handset.
var nzMobilePrefixes = []string{"21", "22", "27", "29"}

// CallerPolicy decides whether a caller may use the service. It is pure and
// synchronous: the check runs inside the inbound webhook response while the
// caller is live on the line.
type CallerPolicy struct {
	allowedCountryCodes []string
}

// NewCallerPolicy creates a policy for the configured country codes.
func NewCallerPolicy(allowedCountryCodes []string) *CallerPolicy {
	return &CallerPolicy{allowedCountryCodes: allowedCountryCodes}
}

// IsAllowed reports whether the number is a recognizable mobile number for
// one of the allowed country codes. Formatting characters are ignored.
func (p *CallerPolicy) IsAllowed(phoneNumber string) bool {
	clean := cleanNumber(phoneNumber)

	for _, code := range p.allowedCountryCodes {
		if !strings.HasPrefix(clean, code) {
			continue
		}
		if code == "+64" {
			rest := strings.TrimPrefix(clean, code)
			if len(rest) < 8 {
				return false
			}
			for _, prefix := range nzMobilePrefixes {
				if strings.HasPrefix(rest, prefix) {
					return true
				}
			}
			return false
		}
		// Other regions have no mobile prefix table; accept any
		// sufficiently long number under that code.
		return len(clean) >= 10
	}
	return false
}

func cleanNumber(phoneNumber string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(phoneNumber)
}
