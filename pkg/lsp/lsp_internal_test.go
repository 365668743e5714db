package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/walteh/armls/pkg/span"
)

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"file scheme", "file:///tmp/a.json", "/tmp/a.json"},
		{"bare path", "/tmp/a.json", "/tmp/a.json"},
		{"file prefix without slashes", "file:/tmp/a.json", "/tmp/a.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeURI(tt.uri))
		})
	}
}

func TestAssociatedTemplateURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		isParam bool
		want    string
	}{
		{"parameters json", "/deploy/site.parameters.json", true, "/deploy/site.json"},
		{"parameters jsonc", "/deploy/site.parameters.jsonc", true, "/deploy/site.json"},
		{"mixed case suffix", "/deploy/site.Parameters.JSON", true, "/deploy/site.json"},
		{"template itself", "/deploy/site.json", false, ""},
		{"unrelated file", "/deploy/readme.md", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{URI: tt.uri}
			assert.Equal(t, tt.isParam, doc.IsParameterFile())
			assert.Equal(t, tt.want, doc.AssociatedTemplateURI())
		})
	}
}

func TestRangeFromSpan(t *testing.T) {
	source := "ab\ncdef\ng"

	rng := rangeFromSpan(source, span.New(4, 2)) // "de"
	assert.Equal(t, uint32(1), rng.Start.Line)
	assert.Equal(t, uint32(1), rng.Start.Character)
	assert.Equal(t, uint32(1), rng.End.Line)
	assert.Equal(t, uint32(3), rng.End.Character)
}

func TestTriggerRune(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name string
		ctx  *protocol.CompletionContext
		want rune
	}{
		{"nil context", nil, 0},
		{"no trigger character", &protocol.CompletionContext{}, 0},
		{"empty trigger character", &protocol.CompletionContext{TriggerCharacter: str("")}, 0},
		{"quote", &protocol.CompletionContext{TriggerCharacter: str(`"`)}, '"'},
		{"multi-byte trigger yields the rune, not the first byte", &protocol.CompletionContext{TriggerCharacter: str("é")}, 'é'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, triggerRune(tt.ctx))
		})
	}
}

func TestToProtocolURI(t *testing.T) {
	assert.Equal(t, "file:///tmp/a.json", string(toProtocolURI("/tmp/a.json")))
	assert.Equal(t, "file:///tmp/a.json", string(toProtocolURI("file:///tmp/a.json")))
}
