// Package phone normalizes raw phone input to the canonical form stored in
// org_members.phone_number. Every lookup and insert goes through Normalize
// so formatting differences never produce a false "new member".
package phone

import "strings"

// Normalize strips all non-digit characters and applies the country-code
// rule: exactly 10 digits is assumed to be a US number and gets "+1",
// anything else keeps its digits behind a bare "+". Normalizing an
// already-normalized value returns it unchanged.
func Normalize(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	number := digits.String()
	if len(number) == 10 {
		return "+1" + number
	}
	return "+" + number
}
