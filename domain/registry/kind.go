// Package registry provides the domain model for Australian Business
// Register lookups: identifier kinds, queries, lookup outcomes and the
// callback envelope the registry wraps its JSON in.
package registry

// Kind identifies which registry identifier a lookup uses.
type Kind string

const (
	// KindABN is an Australian Business Number.
	KindABN Kind = "abn"
	// KindACN is an Australian Company Number.
	KindACN Kind = "acn"
	// KindName is a free-text entity name.
	KindName Kind = "name"
)

// Identifier lengths. Length is the only property validated.
const (
	ABNLength = 11
	ACNLength = 9
)

// MaxNameResults is the number of matches requested for a name search.
const MaxNameResults = 10

// Length returns the exact length an identifier of this kind must have,
// or 0 when the kind is unconstrained.
func (k Kind) Length() int {
	switch k {
	case KindABN:
		return ABNLength
	case KindACN:
		return ACNLength
	default:
		return 0
	}
}

// Endpoint returns the registry page that serves this kind.
func (k Kind) Endpoint() string {
	switch k {
	case KindABN:
		return "AbnDetails.aspx"
	case KindACN:
		return "AcnDetails.aspx"
	case KindName:
		return "MatchingNames.aspx"
	default:
		return ""
	}
}

// Param returns the query parameter that carries the lookup value.
func (k Kind) Param() string {
	return string(k)
}

// Valid returns true for kinds the registry serves.
func (k Kind) Valid() bool {
	return k.Endpoint() != ""
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}
