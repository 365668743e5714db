// Package completion produces ranked completion candidates for parameter
// files: property-value suggestions from the associated template's scope and
// snippet candidates from the catalogue.
package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/armls/pkg/span"
	"github.com/walteh/armls/pkg/template"
)

// Kind classifies a completion candidate.
type Kind int

const (
	KindParameter Kind = iota
	KindPropertyValue
	KindSnippet
)

func (k Kind) String() string {
	switch k {
	case KindParameter:
		return "parameter"
	case KindPropertyValue:
		return "propertyValue"
	case KindSnippet:
		return "snippet"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sort prefixes. Items sharing a replacement span are ordered by SortText,
// so snippets carry the low priority and sort below ordinary candidates.
const (
	sortPriorityNormal = "10_"
	sortPriorityLow    = "99_"
)

// Item is one completion candidate.
type Item struct {
	Label       string
	InsertText  string
	Detail      string
	SortText    string
	Kind        Kind
	ReplaceSpan span.Span
}

// PropertyValueFunc is the contract of the property-value completion helper:
// given the associated template's scope (nil when no template is linked),
// the parameter file's source, the resolved offset, and the trigger
// character (0 when completion was invoked manually), produce candidates.
// Hosts may substitute their own implementation.
type PropertyValueFunc func(ctx context.Context, scope *template.Scope, source string, offset int, trigger rune) ([]Item, error)

// DefaultPropertyValues suggests declared-but-unassigned parameter names
// from the template's scope. With no scope there is nothing to suggest;
// absence is success.
func DefaultPropertyValues(ctx context.Context, scope *template.Scope, source string, offset int, trigger rune) ([]Item, error) {
	if scope == nil {
		return []Item{}, nil
	}

	items := []Item{}
	for _, def := range scope.ParameterDefinitions() {
		if containsName(source, def.Name) {
			continue
		}
		detail := def.Type
		if def.Description != "" {
			detail = fmt.Sprintf("%s - %s", def.Type, def.Description)
		}
		items = append(items, Item{
			Label:       fmt.Sprintf("%q", def.Name),
			InsertText:  fmt.Sprintf("%q: {\n\t\"value\": \n}", def.Name),
			Detail:      detail,
			SortText:    sortPriorityNormal + def.Name,
			Kind:        KindParameter,
			ReplaceSpan: span.New(offset, 0),
		})
	}
	return items, nil
}

func containsName(source, name string) bool {
	return strings.Contains(strings.ToLower(source), strings.ToLower(fmt.Sprintf("%q", name)))
}
