// Package emailaddr classifies email addresses for delivery purposes.
//
// Classification is pure: no I/O, no side effects, and no error returns.
// Bad input is data, not a failure.
package emailaddr

import (
	"regexp"
	"strings"
)

// Classification is the outcome of classifying a single address.
type Classification int

const (
	// Missing means the address is absent, empty, or whitespace only.
	Missing Classification = iota
	// Invalid means the address is present but fails the grammar check.
	Invalid
	// Valid means the address passed the grammar check.
	Valid
)

// String returns the lower-case name of the classification.
func (c Classification) String() string {
	switch c {
	case Missing:
		return "missing"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	}
	return "unknown"
}

// addressPattern restricts the character set after the structural checks
// below have passed. Local part: letters, digits, dot, underscore, percent,
// plus, hyphen. Domain: letters, digits, dot, hyphen, with an alphabetic TLD.
var addressPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// Normalize trims surrounding whitespace and lower-cases the address.
// Equality of normalized addresses defines duplicate detection.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Classify classifies a single raw address as Valid, Invalid or Missing.
func Classify(raw string) Classification {
	addr := Normalize(raw)
	if addr == "" {
		return Missing
	}
	if !wellFormed(addr) {
		return Invalid
	}
	return Valid
}

// ClassifyPtr classifies an optional address. A nil pointer is Missing.
func ClassifyPtr(raw *string) Classification {
	if raw == nil {
		return Missing
	}
	return Classify(*raw)
}

// IsValid reports whether the address classifies as Valid.
func IsValid(raw string) bool {
	return Classify(raw) == Valid
}

// wellFormed applies the structural grammar rules to a normalized address:
// exactly one '@', non-empty local and domain parts, a dotted domain with a
// TLD, no consecutive dots, no leading or trailing dots on either side, and
// no embedded whitespace.
func wellFormed(addr string) bool {
	if strings.ContainsAny(addr, " \t\r\n") {
		return false
	}
	if strings.Count(addr, "@") != 1 {
		return false
	}

	at := strings.Index(addr, "@")
	local, domain := addr[:at], addr[at+1:]
	if local == "" || domain == "" {
		return false
	}
	if strings.Contains(addr, "..") {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}

	return addressPattern.MatchString(addr)
}

// LooksDeliverable is the minimal screen applied to caller-supplied custom
// address lists: the address must at least contain an '@' and a dot. It is
// intentionally weaker than Classify.
func LooksDeliverable(raw string) bool {
	addr := Normalize(raw)
	return strings.Contains(addr, "@") && strings.Contains(addr, ".")
}
