// Package resolve is the position-to-semantic resolution engine: it turns a
// cursor location inside a document into the symbolic construct at that
// location, resolved against the associated template when one is linked.
package resolve

import (
	"context"

	"github.com/walteh/armls/pkg/completion"
	"github.com/walteh/armls/pkg/paramfile"
	"github.com/walteh/armls/pkg/span"
	"github.com/walteh/armls/pkg/template"
)

// SiteKind distinguishes a reference to a definition from the definition
// itself.
type SiteKind int

const (
	SiteReference SiteKind = iota
	SiteDefinition
)

func (k SiteKind) String() string {
	if k == SiteDefinition {
		return "definition"
	}
	return "reference"
}

// ReferenceSite describes a cursor sitting on a reference to a definition.
// Request-scoped: constructed per query and discarded, never persisted. The
// reference and definition documents may differ; for a parameter file the
// definition side is the associated template.
type ReferenceSite struct {
	Kind             SiteKind
	ReferenceSpan    span.Span
	ReferenceDocURI  string
	Definition       *template.ParameterDefinition
	DefinitionDocURI string
}

// SignatureHelp describes the callable under the cursor. Parameter-value
// documents contain no callable expressions, so their contexts always
// report nil.
type SignatureHelp struct {
	FunctionName    string
	Signature       string
	ActiveParameter int
}

// Context is a resolved cursor location inside a document. Implementations
// are immutable after construction; every query is a pure function of the
// frozen state, so a Context needs no synchronization and is discarded after
// the request it served.
//
// Queries represent absence with nil rather than errors: no reference at the
// cursor, no associated template, and no matching definition are all
// successful resolutions of "nothing here".
type Context interface {
	// DocumentURI identifies the document the cursor is in.
	DocumentURI() string

	// Offset is the resolved character offset, clamped to document bounds.
	Offset() int

	// ReferenceSiteInfo resolves the construct at the cursor to a reference
	// site, or nil when the cursor is not on a resolvable reference.
	ReferenceSiteInfo(ctx context.Context, includeDefinition bool) *ReferenceSite

	// References lists every reference to the definition under the cursor.
	// Nil means the position does not support reference queries, which is
	// distinct from a supported-but-empty list.
	References(ctx context.Context) *paramfile.ReferenceList

	// CompletionItems produces candidates for the cursor position. trigger
	// is the character that triggered completion, 0 for manual invocation.
	CompletionItems(ctx context.Context, trigger rune) ([]completion.Item, error)

	// SignatureHelp resolves the enclosing call, or nil where the document
	// kind has none.
	SignatureHelp(ctx context.Context) *SignatureHelp
}
