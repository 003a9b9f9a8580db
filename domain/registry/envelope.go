package registry

import "strings"

const (
	envelopePrefix = "callback("
	envelopeSuffix = ")"
	invalidMarker  = "not a valid"
)

// Unwrap strips the JSONP envelope the registry wraps its payload in.
// A leading "callback(" is removed only at the very start and a single ")"
// only at the very end; everything between is returned untouched.
func Unwrap(body string) string {
	body = strings.TrimPrefix(body, envelopePrefix)
	return strings.TrimSuffix(body, envelopeSuffix)
}

// ReportsInvalid returns true when the registry payload says the
// identifier is not valid. The match is a case-sensitive substring.
func ReportsInvalid(payload string) bool {
	return strings.Contains(payload, invalidMarker)
}
