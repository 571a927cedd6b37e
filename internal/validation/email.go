package validation

import "regexp"

// Email rules (deliberately permissive, this is not full RFC 5322):
// - Exactly one "@".
// - Local part: 1+ chars, no whitespace and no "@".
// - Domain part: 1+ chars, no whitespace and no "@", must contain a ".".
//
// Examples valid: user@box.com, a.b+c@sub.example.org
// Examples invalid: "not-an-email", "a@b" (no dot), "a b@c.d", "@x.com", "a@".
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail returns true if s has a local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
