package completion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/armls/pkg/completion"
	"github.com/walteh/armls/pkg/template"
)

const tplSource = `{
  "parameters": {
    "storageName": { "type": "string", "metadata": { "description": "storage account name" } },
    "location": { "type": "string" }
  }
}`

func TestDefaultPropertyValues(t *testing.T) {
	tpl, err := template.Parse(context.Background(), "file.json", tplSource)
	require.NoError(t, err)

	// location is already assigned, storageName is not
	paramsSource := `{"parameters": {"location": {"value": "westus"}}}`

	items, err := completion.DefaultPropertyValues(context.Background(), tpl.TopLevelScope(), paramsSource, 16, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, `"storageName"`, items[0].Label)
	assert.Equal(t, completion.KindParameter, items[0].Kind)
	assert.Contains(t, items[0].InsertText, `"storageName"`)
	assert.Contains(t, items[0].Detail, "string")
	assert.Contains(t, items[0].Detail, "storage account name")
	assert.Equal(t, 16, items[0].ReplaceSpan.Start)
}

func TestDefaultPropertyValuesNilScope(t *testing.T) {
	items, err := completion.DefaultPropertyValues(context.Background(), nil, "{}", 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items, "no associated template means nothing to suggest, not an error")
}

func TestDefaultPropertyValuesAllAssigned(t *testing.T) {
	tpl, err := template.Parse(context.Background(), "file.json", tplSource)
	require.NoError(t, err)

	paramsSource := `{"parameters": {"storagename": {"value": "x"}, "LOCATION": {"value": "y"}}}`

	items, err := completion.DefaultPropertyValues(context.Background(), tpl.TopLevelScope(), paramsSource, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items, "assignment matching is case-insensitive")
}
