package cdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJSON = `{
	"name": "city",
	"type": "Package",
	"sourceId": "pkg-1",
	"properties": [
		{"name": "source_id", "value": "ignored", "type": "string"},
		{"name": "classes", "value": "2", "type": "INT"}
	],
	"children": [
		{"name": "Main", "type": "Class", "content": "payload", "children": [{"name": "run", "type": "Method"}]},
		{"name": "Util", "type": "Class", "properties": [{"name": "since", "value": "2014-01-01", "type": "date"}]}
	]
}`

func TestNode_UnmarshalJSON(t *testing.T) {
	var root Node
	require.NoError(t, json.Unmarshal([]byte(testJSON), &root))

	assert.Equal(t, "city", root.Name())
	assert.Equal(t, "Package", root.Type())

	id, ok := root.SourceID()
	assert.True(t, ok)
	assert.Equal(t, "pkg-1", id)

	props := root.Properties()
	require.Len(t, props, 3)
	assert.Equal(t, PropertyTypeInt, props[2].Type)

	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "payload", children[0].Content())
	assert.Equal(t, 1, children[0].ChildCount())
	assert.Equal(t, PropertyTypeDate, children[1].Property("since").Type)
	assert.Len(t, root.Descendants(), 3)
}

func TestNode_UnmarshalJSON_UnknownType(t *testing.T) {
	var root Node
	err := json.Unmarshal([]byte(`{"name":"a","type":"b","properties":[{"name":"x","value":"1","type":"bool"}]}`), &root)
	require.Error(t, err)
}

func TestNode_MarshalJSON(t *testing.T) {
	root := newTestTree()

	data, err := json.Marshal(root)
	require.NoError(t, err)

	var decoded Node
	require.NoError(t, json.Unmarshal(data, &decoded))

	want, err := root.DocumentElement()
	require.NoError(t, err)
	got, err := decoded.DocumentElement()
	require.NoError(t, err)
	assert.Equal(t, shapeOf(want), shapeOf(got))
	assert.Equal(t, "util payload", decoded.Children()[1].Content())
}
