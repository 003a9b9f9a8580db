package tool

// RiskLevel indicates the potential impact of a tool execution.
type RiskLevel int

const (
	RiskNone   RiskLevel = iota // No risk - purely informational
	RiskLow                     // Low risk - reversible changes
	RiskMedium                  // Medium risk - may require cleanup
	RiskHigh                    // High risk - difficult to reverse
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskNone:
		return "none"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Annotations describe tool behavior for clients listing the tools.
type Annotations struct {
	// ReadOnly indicates the tool has no side effects.
	ReadOnly bool `json:"read_only"`

	// Idempotent indicates multiple calls with same input yield same result.
	Idempotent bool `json:"idempotent"`

	// OpenWorld indicates the tool reaches a system outside this process.
	OpenWorld bool `json:"open_world"`

	// RiskLevel indicates the potential impact of execution.
	RiskLevel RiskLevel `json:"risk_level"`

	// Tags are arbitrary labels for categorization.
	Tags []string `json:"tags,omitempty"`
}

// DefaultAnnotations returns annotations with safe defaults.
func DefaultAnnotations() Annotations {
	return Annotations{
		RiskLevel: RiskLow,
	}
}

// LookupAnnotations returns annotations for a read-only remote lookup.
func LookupAnnotations() Annotations {
	return Annotations{
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
		RiskLevel:  RiskNone,
	}
}
