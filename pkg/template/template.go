// Package template models the deployment template side of a template /
// parameter-file pair: the document whose top-level scope declares the
// parameters a parameter file may assign.
package template

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/walteh/armls/pkg/jsontoken"
	"github.com/walteh/armls/pkg/span"
	"gitlab.com/tozd/go/errors"
)

// ParameterDefinition is the authoritative declaration of one parameter in
// a template's parameters block.
type ParameterDefinition struct {
	Name        string
	NameSpan    span.Span // raw span of the name token, quotes included
	Type        string
	Description string
	HasDefault  bool
}

// UnquotedNameSpan returns the definition name's span without quotes.
func (d *ParameterDefinition) UnquotedNameSpan() span.Span {
	if d.NameSpan.Length < 2 {
		return d.NameSpan
	}
	return span.New(d.NameSpan.Start+1, d.NameSpan.Length-2)
}

// Scope holds a template's top-level parameter definitions.
type Scope struct {
	params []*ParameterDefinition
}

// ParameterDefinitions returns the definitions in declaration order.
func (s *Scope) ParameterDefinitions() []*ParameterDefinition {
	if s == nil {
		return nil
	}
	return s.params
}

// GetParameterDefinition looks a definition up by unquoted name. Matching is
// case-insensitive; the scope owns this policy, callers only forward names.
// Returns nil when the scope has no such parameter.
func (s *Scope) GetParameterDefinition(name string) *ParameterDefinition {
	if s == nil {
		return nil
	}
	for _, p := range s.params {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// DeploymentTemplate is a parsed template document. Parsed once at
// construction, immutable afterwards.
type DeploymentTemplate struct {
	URI    string
	Source string

	scope *Scope
}

// definitionBody is the decoded shape of one parameter definition's value.
type definitionBody struct {
	Type         string          `json:"type"`
	DefaultValue json.RawMessage `json:"defaultValue"`
	Metadata     struct {
		Description string `json:"description"`
	} `json:"metadata"`
}

// Parse constructs a DeploymentTemplate from JSONC source. A template with
// no parameters block has an empty scope, not an error.
func Parse(ctx context.Context, uri, source string) (*DeploymentTemplate, error) {
	std, err := jsontoken.Standardize(source)
	if err != nil {
		return nil, errors.Errorf("parsing template %s: %w", uri, err)
	}

	members, err := jsontoken.MembersOf(std, "parameters")
	if err != nil {
		return nil, errors.Errorf("parsing template %s: %w", uri, err)
	}

	scope := &Scope{}
	for _, m := range members {
		var body definitionBody
		if err := json.Unmarshal([]byte(m.ValueSpan.Text(std)), &body); err != nil {
			return nil, errors.Errorf("parsing definition of parameter %q in %s: %w", m.Name, uri, err)
		}
		scope.params = append(scope.params, &ParameterDefinition{
			Name:        m.Name,
			NameSpan:    m.NameSpan,
			Type:        body.Type,
			Description: body.Metadata.Description,
			HasDefault:  body.DefaultValue != nil,
		})
	}

	return &DeploymentTemplate{URI: uri, Source: source, scope: scope}, nil
}

// TopLevelScope returns the template's parameter scope.
func (t *DeploymentTemplate) TopLevelScope() *Scope {
	return t.scope
}
