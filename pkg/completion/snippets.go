package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/armls/pkg/snippets"
	"github.com/walteh/armls/pkg/span"
	"gitlab.com/tozd/go/errors"
)

// productName appears in the detail line of snippet candidates.
const productName = "armls"

// SnippetItems turns the catalogue entries valid in the given context into
// completion candidates replacing replaceSpan. When quoted is set, labels
// are wrapped in double quotes unless the prefix already starts with one.
// The trigger character is accepted but deliberately unused: snippet
// filtering does not vary by trigger. Any internal failure degrades to an
// empty list; completion must never block the editing surface.
func SnippetItems(ctx context.Context, cat *snippets.Catalogue, tag snippets.ContextTag, replaceSpan span.Span, trigger rune, quoted bool) []Item {
	_ = trigger

	items, err := snippetItems(ctx, cat, tag, replaceSpan, quoted)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("context", string(tag)).Msg("snippet completion degraded to empty")
		return []Item{}
	}
	return items
}

func snippetItems(ctx context.Context, cat *snippets.Catalogue, tag snippets.ContextTag, replaceSpan span.Span, quoted bool) (items []Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = errors.Errorf("snippet completion panicked: %v", r)
		}
	}()

	matched, err := cat.Snippets(ctx, tag)
	if err != nil {
		return nil, err
	}

	items = []Item{}
	for _, s := range matched {
		label := s.Prefix
		if quoted && !strings.HasPrefix(label, `"`) {
			label = `"` + label + `"`
		}
		items = append(items, Item{
			Label:       label,
			InsertText:  s.InsertText,
			Detail:      fmt.Sprintf("%s (%s)", s.Description, productName),
			SortText:    sortPriorityLow + s.Name,
			Kind:        KindSnippet,
			ReplaceSpan: replaceSpan,
		})
	}
	return items, nil
}
