// Package snippets loads and serves the reusable template fragments offered
// through completion. The catalogue is lazily loaded from a single
// comment-tolerant JSON file and cached until invalidated.
package snippets

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/armls/pkg/jsontoken"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/singleflight"
)

// ContextTag is the structural context a snippet is valid in. The set is
// open: tags beyond the predefined ones are legal and simply gate on exact
// match.
type ContextTag string

const (
	TagNone            ContextTag = ""
	TagEmpty           ContextTag = "empty"
	TagResources       ContextTag = "resources"
	TagParameterValues ContextTag = "parameterValues"
)

// Snippet is one reusable fragment. Immutable after load.
type Snippet struct {
	Name        string
	Prefix      string
	InsertText  string
	Description string
	Context     ContextTag
}

// fileRecord is the on-disk shape of one snippet entry.
type fileRecord struct {
	Prefix      string   `json:"prefix"`
	Body        []string `json:"body"`
	Description string   `json:"description"`
	Context     *string  `json:"context"`
}

var apiVersionPattern = regexp.MustCompile(`"apiVersion"\s*:`)

// Catalogue serves snippets from one fragment-source file. Construct one per
// host and pass it to consumers; there is no package-level instance.
type Catalogue struct {
	fs   afero.Fs
	path string

	group  singleflight.Group
	mu     sync.Mutex
	loaded *loadResult // nil until a load succeeds; a failed load leaves it nil
}

type loadResult struct {
	snippets map[string]Snippet
	order    []string
	warnings []string
}

func NewCatalogue(fs afero.Fs, path string) *Catalogue {
	return &Catalogue{fs: fs, path: path}
}

// Snippets returns every catalogue entry whose context tag equals tag, in
// deterministic (name) order. The catalogue is loaded on first use; an
// unknown tag yields an empty result, not an error.
func (c *Catalogue) Snippets(ctx context.Context, tag ContextTag) ([]Snippet, error) {
	res, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	out := []Snippet{}
	for _, name := range res.order {
		if s := res.snippets[name]; s.Context == tag {
			out = append(out, s)
		}
	}
	return out, nil
}

// Warnings returns the advisory warnings from the most recent successful
// load, or nil when nothing is loaded.
func (c *Catalogue) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded == nil {
		return nil
	}
	return c.loaded.warnings
}

// Invalidate drops the cached catalogue so the next query reloads it.
func (c *Catalogue) Invalidate() {
	c.mu.Lock()
	c.loaded = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached load result, coalescing concurrent loads
// into a single file read. Only successful loads are memoized, so a failure
// is retried by the next query.
func (c *Catalogue) ensureLoaded(ctx context.Context) (*loadResult, error) {
	c.mu.Lock()
	cached := c.loaded
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do("load", func() (any, error) {
		c.mu.Lock()
		cached := c.loaded
		c.mu.Unlock()
		if cached != nil {
			return cached, nil
		}

		res, err := c.load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.loaded = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, errors.Errorf("loading snippet catalogue %s: %w", c.path, err)
	}
	return v.(*loadResult), nil
}

func (c *Catalogue) load(ctx context.Context) (*loadResult, error) {
	logger := zerolog.Ctx(ctx)

	raw, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return nil, errors.Errorf("reading fragment source: %w", err)
	}

	std, err := jsontoken.Standardize(string(raw))
	if err != nil {
		return nil, errors.Errorf("standardizing fragment source: %w", err)
	}

	// Reserved $-prefixed keys hold metadata of arbitrary shape, so entries
	// stay raw until after the skip.
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(std), &entries); err != nil {
		return nil, errors.Errorf("decoding fragment source: %w", err)
	}

	res := &loadResult{snippets: map[string]Snippet{}}
	for name, raw := range entries {
		if strings.HasPrefix(name, "$") {
			continue
		}
		var rec fileRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errors.Errorf("decoding snippet %q: %w", name, err)
		}

		snippet := Snippet{
			Name:        name,
			Prefix:      rec.Prefix,
			InsertText:  strings.Join(rec.Body, "\n"),
			Description: rec.Description,
			Context:     TagNone,
		}
		if rec.Context != nil {
			snippet.Context = ContextTag(*rec.Context)
		} else {
			res.warn(logger, "snippet %q has no context tag and will never be offered", name)
		}

		hasAPIVersion := false
		for _, line := range rec.Body {
			if apiVersionPattern.MatchString(line) {
				hasAPIVersion = true
				break
			}
		}
		if hasAPIVersion && snippet.Context != TagResources {
			res.warn(logger, "snippet %q contains an apiVersion line but is not tagged %q", name, TagResources)
		} else if !hasAPIVersion && snippet.Context == TagResources {
			res.warn(logger, "snippet %q is tagged %q but contains no apiVersion line", name, TagResources)
		}

		res.snippets[name] = snippet
		res.order = append(res.order, name)
	}
	sort.Strings(res.order)

	logger.Debug().Str("path", c.path).Int("snippets", len(res.order)).Int("warnings", len(res.warnings)).Msg("snippet catalogue loaded")
	return res, nil
}

// warn records an advisory authoring warning; the load always proceeds.
func (r *loadResult) warn(logger *zerolog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn().Msg(msg)
	r.warnings = append(r.warnings, msg)
}
