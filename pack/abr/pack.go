// Package abr provides the Australian Business Register lookup tools.
package abr

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/abn-mcp/domain/pack"
	"github.com/felixgeelhaar/abn-mcp/domain/registry"
	"github.com/felixgeelhaar/abn-mcp/domain/tool"
)

// Tool names.
const (
	BusinessNumberSearch = "business-number-search"
	CompanyNumberSearch  = "company-number-search"
	NameSearch           = "name-search"
)

// Fixed texts returned in place of a payload.
const (
	MsgABNInvalid     = "abn number is not valid"
	MsgACNInvalid     = "acn number is not valid"
	MsgABNUnavailable = "failed to retrieve data from abn server"
	MsgACNUnavailable = "failed to retrieve data from acn server"
)

// Gateway is the registry client the tools call.
type Gateway interface {
	LookupABN(ctx context.Context, abn string) registry.Outcome
	LookupACN(ctx context.Context, acn string) registry.Outcome
	SearchName(ctx context.Context, name string) registry.Outcome
}

// New creates the ABR pack backed by the given gateway.
func New(gw Gateway) *pack.Pack {
	return pack.NewBuilder("abr").
		WithDescription("Australian Business Register lookups").
		WithVersion("0.0.3").
		AddTools(
			businessNumberTool(gw),
			companyNumberTool(gw),
			nameSearchTool(gw),
		).
		Build()
}

// Render turns a lookup outcome into the text a tool returns.
func Render(kind registry.Kind, out registry.Outcome) string {
	switch out.Status {
	case registry.StatusFound:
		return out.Payload
	case registry.StatusInvalid:
		if kind == registry.KindACN {
			return MsgACNInvalid
		}
		return MsgABNInvalid
	default:
		if kind == registry.KindACN {
			return MsgACNUnavailable
		}
		return MsgABNUnavailable
	}
}

// ABNInput is the argument of business-number-search.
type ABNInput struct {
	ABN string `json:"abn" jsonschema:"required,description=ABN number (11 digits)"`
}

// ACNInput is the argument of company-number-search.
type ACNInput struct {
	ACN string `json:"acn" jsonschema:"required,description=ACN number (9 digits)"`
}

// NameInput is the argument of name-search.
type NameInput struct {
	Name string `json:"name" jsonschema:"required,description=name to search"`
}

func businessNumberTool(gw Gateway) tool.Tool {
	schema := mustObject("abn", tool.StringProperty("ABN number (11 digits)", registry.ABNLength))

	return tool.NewBuilder(BusinessNumberSearch).
		WithDescription("Use the abn number provided to search for business information").
		WithInputSchema(schema).
		WithAnnotations(tool.LookupAnnotations()).
		WithTags("abr", "abn").
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in ABNInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, err
			}
			start := time.Now()
			out := gw.LookupABN(ctx, in.ABN)
			return tool.NewResultWithDuration(Render(registry.KindABN, out), time.Since(start)), nil
		}).
		MustBuild()
}

func companyNumberTool(gw Gateway) tool.Tool {
	schema := mustObject("acn", tool.StringProperty("ACN number (9 digits)", registry.ACNLength))

	return tool.NewBuilder(CompanyNumberSearch).
		WithDescription("Use the acn number provided to search for business information").
		WithInputSchema(schema).
		WithAnnotations(tool.LookupAnnotations()).
		WithTags("abr", "acn").
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in ACNInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, err
			}
			start := time.Now()
			out := gw.LookupACN(ctx, in.ACN)
			return tool.NewResultWithDuration(Render(registry.KindACN, out), time.Since(start)), nil
		}).
		MustBuild()
}

func nameSearchTool(gw Gateway) tool.Tool {
	schema := mustObject("name", tool.StringProperty("name to search", 0))

	return tool.NewBuilder(NameSearch).
		WithDescription("Search for ABN by entity name, returns up to 10 results").
		WithInputSchema(schema).
		WithAnnotations(tool.LookupAnnotations()).
		WithTags("abr", "name").
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in NameInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, err
			}
			start := time.Now()
			out := gw.SearchName(ctx, in.Name)
			return tool.NewResultWithDuration(Render(registry.KindName, out), time.Since(start)), nil
		}).
		MustBuild()
}

// mustObject builds a single-property object schema with that property
// required. The inputs are static so a failure is a programming error.
func mustObject(name string, prop json.RawMessage) tool.Schema {
	schema, err := tool.ObjectSchema(map[string]json.RawMessage{name: prop}, []string{name})
	if err != nil {
		panic(err)
	}
	return schema
}
