// Package jsontoken scans comment-tolerant JSON source and reports the
// source spans of object member names and values. Offsets always refer to
// the original source text, so callers can hand spans straight back to an
// editor.
package jsontoken

import (
	"encoding/json"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/walteh/armls/pkg/span"
	"gitlab.com/tozd/go/errors"
)

const bom = "\uFEFF"

// Member is one name/value pair of a JSON object, with the spans of the raw
// (quote-bearing) name token and of the value expression.
type Member struct {
	Name      string
	NameSpan  span.Span
	ValueSpan span.Span
}

// Standardize strips // and /* */ comments, trailing commas, and a leading
// byte-order mark, producing plain JSON of exactly the same length as the
// input so that token offsets are preserved.
func Standardize(source string) (string, error) {
	if strings.HasPrefix(source, bom) {
		// Blank the mark in place instead of trimming it, otherwise every
		// span downstream would be shifted.
		source = strings.Repeat(" ", len(bom)) + source[len(bom):]
	}
	std, err := hujson.Standardize([]byte(source))
	if err != nil {
		return "", errors.Errorf("standardizing jsonc: %w", err)
	}
	return string(std), nil
}

// MembersOf returns the members of the object held by the top-level member
// named key (matched case-insensitively), in declaration order. A missing
// key yields nil members and no error. The input must already be
// standardized JSON.
func MembersOf(std string, key string) ([]Member, error) {
	dec := json.NewDecoder(strings.NewReader(std))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Errorf("reading document start: %w", err)
	}
	if tok != json.Delim('{') {
		return nil, errors.New("document root is not an object")
	}

	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, errors.Errorf("reading member name: %w", err)
		}
		name, ok := nameTok.(string)
		if !ok {
			return nil, errors.New("object member name is not a string")
		}
		if !strings.EqualFold(name, key) {
			if err := skipValue(dec); err != nil {
				return nil, errors.Errorf("skipping member %q: %w", name, err)
			}
			continue
		}
		return objectMembers(dec, std)
	}
	return nil, nil
}

// objectMembers consumes one object value from dec and records each member's
// spans.
func objectMembers(dec *json.Decoder, std string) ([]Member, error) {
	open, err := dec.Token()
	if err != nil {
		return nil, errors.Errorf("reading object start: %w", err)
	}
	if open != json.Delim('{') {
		return nil, errors.New("member value is not an object")
	}

	var members []Member
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, errors.Errorf("reading member name: %w", err)
		}
		name, ok := nameTok.(string)
		if !ok {
			return nil, errors.New("object member name is not a string")
		}
		nameSpan := stringTokenSpan(std, int(dec.InputOffset()))

		valueStart := valueStart(std, int(dec.InputOffset()))
		if err := skipValue(dec); err != nil {
			return nil, errors.Errorf("reading value of %q: %w", name, err)
		}
		members = append(members, Member{
			Name:      name,
			NameSpan:  nameSpan,
			ValueSpan: span.Between(valueStart, int(dec.InputOffset())),
		})
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Errorf("reading object end: %w", err)
	}
	return members, nil
}

// skipValue consumes exactly one JSON value, of any shape.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') && tok != json.Delim('[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
	}
	return nil
}

// stringTokenSpan derives the raw span of a string token from the decoder
// offset just past its closing quote, by walking back to the unescaped
// opening quote.
func stringTokenSpan(std string, end int) span.Span {
	i := end - 2 // std[end-1] is the closing quote
	for i >= 0 {
		if std[i] == '"' && !isEscaped(std, i) {
			break
		}
		i--
	}
	if i < 0 {
		i = 0
	}
	return span.Between(i, end)
}

func isEscaped(std string, i int) bool {
	backslashes := 0
	for j := i - 1; j >= 0 && std[j] == '\\'; j-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// valueStart finds the first byte of a member's value, given an offset just
// past the member's name token.
func valueStart(std string, from int) int {
	for i := from; i < len(std); i++ {
		switch std[i] {
		case ' ', '\t', '\r', '\n', ':':
			continue
		default:
			return i
		}
	}
	return len(std)
}
