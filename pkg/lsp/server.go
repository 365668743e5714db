// Package lsp wires the resolution and snippet engines to a language server
// endpoint.
package lsp

import (
	"context"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/walteh/armls/pkg/snippets"
)

const lsName = "armls"

// Server is one language server instance.
type Server struct {
	id        string
	logger    zerolog.Logger
	handler   *protocol.Handler
	documents *DocumentManager
	snippets  *snippets.Catalogue
}

// NewServer builds a server around the given snippet catalogue. The
// catalogue may be nil, in which case completion offers no snippets.
func NewServer(ctx context.Context, catalogue *snippets.Catalogue) *Server {
	s := &Server{
		id:        xid.New().String(),
		logger:    *zerolog.Ctx(ctx),
		documents: NewDocumentManager(),
		snippets:  catalogue,
	}
	s.handler = &protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentDefinition: s.textDocumentDefinition,
		TextDocumentReferences: s.textDocumentReferences,
		TextDocumentCompletion: s.textDocumentCompletion,
	}
	return s
}

func (s *Server) Documents() *DocumentManager {
	return s.documents
}

// RunStdio serves LSP over stdin/stdout until the client disconnects.
func (s *Server) RunStdio(ctx context.Context, debug bool) error {
	s.logger.Info().Str("server_id", s.id).Msg("starting language server on stdio")
	return server.NewServer(s.handler, lsName, debug).RunStdio()
}

// reqCtx attaches the server logger to the request context. glsp hands out
// a nil context on some transports.
func (s *Server) reqCtx(glspCtx *glsp.Context) context.Context {
	base := glspCtx.Context
	if base == nil {
		base = context.Background()
	}
	return s.logger.WithContext(base)
}
