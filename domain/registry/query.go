package registry

import "fmt"

// Query is a single registry request. It is built per call and discarded.
type Query struct {
	// Kind selects the endpoint and parameter name.
	Kind Kind

	// Value is the identifier or the name to search for.
	Value string

	// MaxResults limits name searches; ignored for identifier lookups.
	MaxResults int
}

// NewIdentifierQuery creates a query for an ABN or ACN.
func NewIdentifierQuery(kind Kind, id string) (Query, error) {
	if kind != KindABN && kind != KindACN {
		return Query{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return Query{Kind: kind, Value: id}, nil
}

// NewNameQuery creates a name search query requesting MaxNameResults matches.
func NewNameQuery(name string) Query {
	return Query{Kind: KindName, Value: name, MaxResults: MaxNameResults}
}
