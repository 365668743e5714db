package resolve

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/armls/pkg/completion"
	"github.com/walteh/armls/pkg/paramfile"
	"github.com/walteh/armls/pkg/span"
	"github.com/walteh/armls/pkg/template"
)

var _ Context = (*ParamsContext)(nil)

// ParamsContext resolves cursor positions inside a parameter-values
// document. The associated template may be nil, in which case cross-document
// resolution is impossible and reference queries report absence.
type ParamsContext struct {
	doc        *paramfile.ParamsDoc
	tpl        *template.DeploymentTemplate
	offset     int
	completeFn completion.PropertyValueFunc
}

// NewParamsContextFromOffset builds a context from a flat character offset.
// Out-of-bounds offsets are clamped into the document, never rejected.
func NewParamsContextFromOffset(doc *paramfile.ParamsDoc, offset int, tpl *template.DeploymentTemplate) *ParamsContext {
	return &ParamsContext{
		doc:        doc,
		tpl:        tpl,
		offset:     span.Clamp(offset, len(doc.Source)),
		completeFn: completion.DefaultPropertyValues,
	}
}

// NewParamsContextFromLineAndColumn builds a context from zero-based line
// and column coordinates. Equivalent coordinates produce a context
// indistinguishable from one built with NewParamsContextFromOffset.
func NewParamsContextFromLineAndColumn(doc *paramfile.ParamsDoc, line, col int, tpl *template.DeploymentTemplate) *ParamsContext {
	return NewParamsContextFromOffset(doc, span.OffsetFromLineAndColumn(doc.Source, line, col), tpl)
}

// WithCompletionFunc substitutes the property-value completion helper. Must
// be called before the context is handed out for queries.
func (pc *ParamsContext) WithCompletionFunc(fn completion.PropertyValueFunc) *ParamsContext {
	pc.completeFn = fn
	return pc
}

func (pc *ParamsContext) DocumentURI() string {
	return pc.doc.URI
}

func (pc *ParamsContext) Offset() int {
	return pc.offset
}

// AssociatedTemplate returns the linked template, nil when none is linked.
func (pc *ParamsContext) AssociatedTemplate() *template.DeploymentTemplate {
	return pc.tpl
}

// ReferenceSiteInfo scans the document's parameter values in declaration
// order for one whose name's raw span contains the cursor, boundaries
// included, then resolves the unquoted name against the associated
// template's top-level scope. Sibling name spans cannot overlap, so the
// first containing match stops the scan regardless of whether it resolves.
// includeDefinition is accepted for the base contract but does not change
// behavior for parameter files.
func (pc *ParamsContext) ReferenceSiteInfo(ctx context.Context, includeDefinition bool) *ReferenceSite {
	_ = includeDefinition
	if pc.tpl == nil {
		return nil
	}

	for _, pv := range pc.doc.ParameterValues() {
		if !pv.Name.RawSpan.ContainsExtended(pc.offset) {
			continue
		}
		def := pc.tpl.TopLevelScope().GetParameterDefinition(pv.Name.Value)
		if def == nil {
			// Orphan reference: assigned in the file, never declared.
			zerolog.Ctx(ctx).Debug().
				Str("uri", pc.doc.URI).
				Str("parameter", pv.Name.Value).
				Msg("no definition in associated template")
			return nil
		}
		return &ReferenceSite{
			Kind:             SiteReference,
			ReferenceSpan:    pv.Name.UnquotedSpan(),
			ReferenceDocURI:  pc.doc.URI,
			Definition:       def,
			DefinitionDocURI: pc.tpl.URI,
		}
	}
	return nil
}

// References re-derives the reference site and asks the document for every
// reference to the resolved definition. Nil when the cursor resolves to no
// site; the returned list always includes the originating span.
func (pc *ParamsContext) References(ctx context.Context) *paramfile.ReferenceList {
	site := pc.ReferenceSiteInfo(ctx, false)
	if site == nil {
		return nil
	}
	return pc.doc.FindReferencesToDefinition(site.Definition.Name)
}

// CompletionItems delegates entirely to the property-value completion
// helper; the helper's contract governs all completion behavior for this
// document kind.
func (pc *ParamsContext) CompletionItems(ctx context.Context, trigger rune) ([]completion.Item, error) {
	var scope *template.Scope
	if pc.tpl != nil {
		scope = pc.tpl.TopLevelScope()
	}
	return pc.completeFn(ctx, scope, pc.doc.Source, pc.offset, trigger)
}

// SignatureHelp is always nil: parameter-value documents contain no callable
// expressions.
func (pc *ParamsContext) SignatureHelp(ctx context.Context) *SignatureHelp {
	return nil
}
