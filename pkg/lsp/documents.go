package lsp

import (
	"io"
	"os"
	"strings"
	"sync"
)

// normalizeURI ensures consistent URI handling by removing the file:// prefix
// if present and converting to a clean path
func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

// Document is a text document held by the server.
type Document struct {
	URI        string
	LanguageID string
	Version    int32
	Content    string
}

// IsParameterFile reports whether the document looks like a parameter-values
// file rather than a template.
func (d *Document) IsParameterFile() bool {
	return strings.HasSuffix(strings.ToLower(d.URI), ".parameters.json") ||
		strings.HasSuffix(strings.ToLower(d.URI), ".parameters.jsonc")
}

// AssociatedTemplateURI derives the template a parameter file belongs to by
// the sibling naming convention (x.parameters.json -> x.json). Empty when
// the document is not a parameter file.
func (d *Document) AssociatedTemplateURI() string {
	lower := strings.ToLower(d.URI)
	for _, suffix := range []string{".parameters.json", ".parameters.jsonc"} {
		if strings.HasSuffix(lower, suffix) {
			return d.URI[:len(d.URI)-len(suffix)] + ".json"
		}
	}
	return ""
}

// DocumentManager handles document operations
type DocumentManager struct {
	store *sync.Map // map[string]*Document
}

func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		store: &sync.Map{},
	}
}

// Get returns the open document for uri, falling back to the filesystem for
// documents the client never opened (the associated template usually is
// one).
func (m *DocumentManager) Get(uri string) (*Document, bool) {
	normalizedURI := normalizeURI(uri)
	content, ok := m.store.Load(normalizedURI)
	if ok {
		doc, ok := content.(*Document)
		return doc, ok
	}

	file, err := os.Open(normalizedURI)
	if err != nil {
		return nil, false
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, false
	}
	doc := &Document{
		URI:     normalizedURI,
		Content: string(raw),
	}
	m.store.Store(normalizedURI, doc)
	return doc, true
}

func (m *DocumentManager) Store(uri string, doc *Document) {
	m.store.Store(normalizeURI(uri), doc)
}

func (m *DocumentManager) Delete(uri string) {
	m.store.Delete(normalizeURI(uri))
}
