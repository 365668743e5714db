package template_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/armls/pkg/template"
)

const templateSource = `{
  "$schema": "https://example.invalid/deploymentTemplate.json",
  "contentVersion": "1.0.0.0",
  "parameters": {
    // the storage account to deploy into
    "storageName": {
      "type": "string",
      "metadata": { "description": "storage account name" }
    },
    "location": {
      "type": "string",
      "defaultValue": "westus"
    }
  },
  "resources": []
}`

func TestParse(t *testing.T) {
	tpl, err := template.Parse(context.Background(), "file.json", templateSource)
	require.NoError(t, err)

	defs := tpl.TopLevelScope().ParameterDefinitions()
	require.Len(t, defs, 2)

	assert.Equal(t, "storageName", defs[0].Name)
	assert.Equal(t, "string", defs[0].Type)
	assert.Equal(t, "storage account name", defs[0].Description)
	assert.False(t, defs[0].HasDefault)
	assert.Equal(t, strings.Index(templateSource, `"storageName"`), defs[0].NameSpan.Start)
	assert.Equal(t, "storageName", defs[0].UnquotedNameSpan().Text(templateSource))

	assert.Equal(t, "location", defs[1].Name)
	assert.True(t, defs[1].HasDefault)
}

func TestScopeLookup(t *testing.T) {
	tpl, err := template.Parse(context.Background(), "file.json", templateSource)
	require.NoError(t, err)
	scope := tpl.TopLevelScope()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact match", "storageName", "storageName"},
		{"case-insensitive match", "STORAGENAME", "storageName"},
		{"mixed case", "Location", "location"},
		{"unknown parameter", "missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := scope.GetParameterDefinition(tt.query)
			if tt.want == "" {
				assert.Nil(t, def)
				return
			}
			require.NotNil(t, def)
			assert.Equal(t, tt.want, def.Name)
		})
	}
}

func TestParseNoParameters(t *testing.T) {
	tpl, err := template.Parse(context.Background(), "file.json", `{"resources": []}`)
	require.NoError(t, err)
	assert.Empty(t, tpl.TopLevelScope().ParameterDefinitions())
	assert.Nil(t, tpl.TopLevelScope().GetParameterDefinition("anything"))
}

func TestParseMalformed(t *testing.T) {
	_, err := template.Parse(context.Background(), "file.json", `{"parameters": {`)
	require.Error(t, err)
}

func TestNilScopeIsSafe(t *testing.T) {
	var scope *template.Scope
	assert.Nil(t, scope.GetParameterDefinition("a"))
	assert.Empty(t, scope.ParameterDefinitions())
}
