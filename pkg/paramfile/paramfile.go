// Package paramfile models a parameter-values document: the file that
// assigns concrete values to the parameters a deployment template declares.
// A document is parsed once at construction and is immutable afterwards.
package paramfile

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/armls/pkg/jsontoken"
	"github.com/walteh/armls/pkg/span"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// NamedValue is a JSON string literal acting as a name. RawSpan covers the
// token including its quotes; Value is the decoded string content.
type NamedValue struct {
	Value   string
	RawSpan span.Span
}

// UnquotedSpan returns the span of the name's content, without the
// surrounding quotes.
func (nv NamedValue) UnquotedSpan() span.Span {
	if nv.RawSpan.Length < 2 {
		return nv.RawSpan
	}
	return span.New(nv.RawSpan.Start+1, nv.RawSpan.Length-2)
}

// ParameterValue is a single entry of the file's parameters object: the
// parameter's name as written, plus the span of its assigned value
// expression.
type ParameterValue struct {
	Name      NamedValue
	ValueSpan span.Span
}

// ParamsDoc is a parsed parameter-values document.
type ParamsDoc struct {
	URI    string
	Source string

	values   []*ParameterValue
	problems error
}

// Parse constructs a ParamsDoc from JSONC source. Malformed JSON is a fatal
// error; per-entry oddities (duplicate names) are aggregated as non-fatal
// problems and the entries are kept in declaration order.
func Parse(ctx context.Context, uri, source string) (*ParamsDoc, error) {
	std, err := jsontoken.Standardize(source)
	if err != nil {
		return nil, errors.Errorf("parsing parameter file %s: %w", uri, err)
	}

	members, err := jsontoken.MembersOf(std, "parameters")
	if err != nil {
		return nil, errors.Errorf("parsing parameter file %s: %w", uri, err)
	}

	doc := &ParamsDoc{URI: uri, Source: source}
	seen := map[string]bool{}
	for _, m := range members {
		key := strings.ToLower(m.Name)
		if seen[key] {
			doc.problems = multierr.Append(doc.problems,
				errors.Errorf("parameter %q assigned more than once", m.Name))
			zerolog.Ctx(ctx).Warn().Str("uri", uri).Str("parameter", m.Name).Msg("duplicate parameter value")
		}
		seen[key] = true
		doc.values = append(doc.values, &ParameterValue{
			Name:      NamedValue{Value: m.Name, RawSpan: m.NameSpan},
			ValueSpan: m.ValueSpan,
		})
	}
	return doc, nil
}

// ParameterValues returns the document's parameter value definitions in
// declaration order.
func (d *ParamsDoc) ParameterValues() []*ParameterValue {
	return d.values
}

// Problems returns the non-fatal issues recorded during parsing, combined.
func (d *ParamsDoc) Problems() error {
	return d.problems
}

// ReferenceList is the ordered set of spans in one document referring to the
// same definition. Spans are unquoted name spans.
type ReferenceList struct {
	URI   string
	Spans []span.Span
}

// FindReferencesToDefinition returns every occurrence in this document of a
// name referring to the given definition name. Matching is
// case-insensitive, following the associated template's scope policy. The
// list may be empty but is never nil.
func (d *ParamsDoc) FindReferencesToDefinition(definitionName string) *ReferenceList {
	list := &ReferenceList{URI: d.URI, Spans: []span.Span{}}
	for _, pv := range d.values {
		if strings.EqualFold(pv.Name.Value, definitionName) {
			list.Spans = append(list.Spans, pv.Name.UnquotedSpan())
		}
	}
	return list
}
