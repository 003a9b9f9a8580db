package registry

// Status classifies a lookup outcome.
type Status int

const (
	// StatusFound means the registry answered and the payload is usable.
	StatusFound Status = iota
	// StatusInvalid means the registry reported the identifier as invalid.
	StatusInvalid
	// StatusUnavailable means the registry could not be reached or answered
	// with an error status.
	StatusUnavailable
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusInvalid:
		return "invalid"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Outcome is the result of one registry lookup.
type Outcome struct {
	// Status is the classification of the lookup.
	Status Status

	// Payload is the unwrapped registry response. Set for StatusFound and
	// StatusInvalid.
	Payload string

	// Err describes the transport failure for StatusUnavailable.
	Err error
}

// Found creates a successful outcome.
func Found(payload string) Outcome {
	return Outcome{Status: StatusFound, Payload: payload}
}

// Invalid creates an outcome for an identifier the registry rejected.
func Invalid(payload string) Outcome {
	return Outcome{Status: StatusInvalid, Payload: payload}
}

// Unavailable creates an outcome for a transport failure.
func Unavailable(err error) Outcome {
	return Outcome{Status: StatusUnavailable, Err: err}
}

// OK returns true if the lookup produced a usable payload.
func (o Outcome) OK() bool {
	return o.Status == StatusFound
}

// Classify turns an unwrapped payload into an outcome. Identifier lookups
// are checked for the registry's invalid-identifier message; name searches
// are always found, the payload itself conveys an empty match list.
func Classify(kind Kind, payload string) Outcome {
	if kind != KindName && ReportsInvalid(payload) {
		return Invalid(payload)
	}
	return Found(payload)
}
