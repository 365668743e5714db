package lsp

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/walteh/armls/pkg/completion"
	"github.com/walteh/armls/pkg/paramfile"
	"github.com/walteh/armls/pkg/resolve"
	"github.com/walteh/armls/pkg/snippets"
	"github.com/walteh/armls/pkg/span"
	"github.com/walteh/armls/pkg/template"
)

func (s *Server) initialize(glspCtx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.logger.Debug().Str("server_id", s.id).Msg("initializing server")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.DefinitionProvider = true
	capabilities.ReferencesProvider = true
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{`"`, ":"},
	}

	version := "dev"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(glspCtx *glsp.Context, params *protocol.InitializedParams) error {
	s.logger.Debug().Msg("client initialized")
	return nil
}

func (s *Server) shutdown(glspCtx *glsp.Context) error {
	s.logger.Debug().Msg("shutdown requested")
	return nil
}

func (s *Server) setTrace(glspCtx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (s *Server) textDocumentDidOpen(glspCtx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Debug().Str("uri", string(params.TextDocument.URI)).Msg("document opened")
	s.documents.Store(string(params.TextDocument.URI), &Document{
		URI:        string(params.TextDocument.URI),
		LanguageID: params.TextDocument.LanguageID,
		Version:    params.TextDocument.Version,
		Content:    params.TextDocument.Text,
	})
	return nil
}

func (s *Server) textDocumentDidChange(glspCtx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc, ok := s.documents.Get(string(params.TextDocument.URI))
	if !ok {
		s.logger.Warn().Str("uri", string(params.TextDocument.URI)).Msg("change for unknown document")
		return nil
	}

	doc.Version = params.TextDocument.Version
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				doc.Content = c.Text
			} else {
				start := span.OffsetFromLineAndColumn(doc.Content, int(c.Range.Start.Line), int(c.Range.Start.Character))
				end := span.OffsetFromLineAndColumn(doc.Content, int(c.Range.End.Line), int(c.Range.End.Character))
				doc.Content = doc.Content[:start] + c.Text + doc.Content[end:]
			}
		case protocol.TextDocumentContentChangeEventWhole:
			doc.Content = c.Text
		}
	}
	s.documents.Store(doc.URI, doc)
	return nil
}

func (s *Server) textDocumentDidClose(glspCtx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Debug().Str("uri", string(params.TextDocument.URI)).Msg("document closed")
	s.documents.Delete(string(params.TextDocument.URI))
	return nil
}

// contextAt builds the resolution context for a cursor position in a
// parameter file, linking the sibling template when one can be found. A nil
// context means the document is not a parameter file or failed to parse.
func (s *Server) contextAt(ctx context.Context, uri string, pos protocol.Position) *resolve.ParamsContext {
	doc, ok := s.documents.Get(uri)
	if !ok || !doc.IsParameterFile() {
		return nil
	}

	paramsDoc, err := paramfile.Parse(ctx, doc.URI, doc.Content)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("uri", doc.URI).Msg("parameter file does not parse")
		return nil
	}

	var tpl *template.DeploymentTemplate
	if tplURI := doc.AssociatedTemplateURI(); tplURI != "" {
		if tplDoc, ok := s.documents.Get(tplURI); ok {
			tpl, err = template.Parse(ctx, tplDoc.URI, tplDoc.Content)
			if err != nil {
				zerolog.Ctx(ctx).Debug().Err(err).Str("uri", tplURI).Msg("associated template does not parse")
			}
		}
	}

	return resolve.NewParamsContextFromLineAndColumn(paramsDoc, int(pos.Line), int(pos.Character), tpl)
}

func (s *Server) textDocumentDefinition(glspCtx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	ctx := s.reqCtx(glspCtx)

	pctx := s.contextAt(ctx, string(params.TextDocument.URI), params.Position)
	if pctx == nil {
		return nil, nil
	}

	site := pctx.ReferenceSiteInfo(ctx, true)
	if site == nil {
		return nil, nil
	}

	tpl := pctx.AssociatedTemplate()
	return protocol.Location{
		URI:   toProtocolURI(site.DefinitionDocURI),
		Range: rangeFromSpan(tpl.Source, site.Definition.UnquotedNameSpan()),
	}, nil
}

func (s *Server) textDocumentReferences(glspCtx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	ctx := s.reqCtx(glspCtx)

	pctx := s.contextAt(ctx, string(params.TextDocument.URI), params.Position)
	if pctx == nil {
		return nil, nil
	}

	refs := pctx.References(ctx)
	if refs == nil {
		return nil, nil
	}

	doc, ok := s.documents.Get(refs.URI)
	if !ok {
		return nil, nil
	}
	locations := make([]protocol.Location, 0, len(refs.Spans))
	for _, sp := range refs.Spans {
		locations = append(locations, protocol.Location{
			URI:   toProtocolURI(refs.URI),
			Range: rangeFromSpan(doc.Content, sp),
		})
	}
	return locations, nil
}

func (s *Server) textDocumentCompletion(glspCtx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	ctx := s.reqCtx(glspCtx)

	pctx := s.contextAt(ctx, string(params.TextDocument.URI), params.Position)
	if pctx == nil {
		return nil, nil
	}

	trigger := triggerRune(params.Context)

	items, err := pctx.CompletionItems(ctx, trigger)
	if err != nil {
		// Completion never fails the client; degrade to snippets only.
		zerolog.Ctx(ctx).Warn().Err(err).Msg("property-value completion failed")
		items = nil
	}

	if s.snippets != nil {
		replaceSpan := span.New(pctx.Offset(), 0)
		quoted := trigger != '"'
		items = append(items, completion.SnippetItems(ctx, s.snippets, snippets.TagParameterValues, replaceSpan, trigger, quoted)...)
	}

	result := make([]protocol.CompletionItem, 0, len(items))
	for _, item := range items {
		result = append(result, toProtocolItem(item))
	}
	return protocol.CompletionList{IsIncomplete: false, Items: result}, nil
}

// triggerRune extracts the completion trigger character, 0 for manual
// invocation. The decode goes through runes so a multi-byte trigger would
// survive intact.
func triggerRune(c *protocol.CompletionContext) rune {
	if c == nil || c.TriggerCharacter == nil || *c.TriggerCharacter == "" {
		return 0
	}
	return []rune(*c.TriggerCharacter)[0]
}

func toProtocolItem(item completion.Item) protocol.CompletionItem {
	kind := protocol.CompletionItemKindProperty
	if item.Kind == completion.KindSnippet {
		kind = protocol.CompletionItemKindSnippet
	}
	detail := item.Detail
	sortText := item.SortText
	insertText := item.InsertText
	return protocol.CompletionItem{
		Label:      item.Label,
		Kind:       &kind,
		Detail:     &detail,
		SortText:   &sortText,
		InsertText: &insertText,
	}
}

func rangeFromSpan(source string, sp span.Span) protocol.Range {
	startLine, startCol := span.LineAndColumnFromOffset(source, sp.Start)
	endLine, endCol := span.LineAndColumnFromOffset(source, sp.End())
	return protocol.Range{
		Start: protocol.Position{Line: uint32(startLine), Character: uint32(startCol)},
		End:   protocol.Position{Line: uint32(endLine), Character: uint32(endCol)},
	}
}

func toProtocolURI(uri string) protocol.DocumentUri {
	if strings.Contains(uri, "://") {
		return protocol.DocumentUri(uri)
	}
	return protocol.DocumentUri("file://" + uri)
}
