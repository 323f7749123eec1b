package cdf

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

// newTestTree builds
//
//	city (Package)
//	├── Main (Class) lines=120
//	│   └── run (Method)
//	└── Util (Class) "util payload"
func newTestTree() *Node {
	root := NewNode("city", "Package")
	root.SetSourceID("pkg-1")

	main := NewNode("Main", "Class")
	main.AddProperty("lines", "120", PropertyTypeInt)
	main.AddChild(NewNode("run", "Method"))

	util := NewNode("Util", "Class")
	util.AddProperty("comment", `a < b & "c"`, PropertyTypeString)
	util.SetContent("util payload")

	root.AddChild(main)
	root.AddChild(util)
	return root
}

type shape struct {
	tag      string
	attrs    map[string]string
	children []shape
}

// shapeOf reduces an element to its tags and attributes, ignoring attribute
// order and character data
func shapeOf(e *etree.Element) shape {
	s := shape{tag: e.Tag, attrs: map[string]string{}}
	for _, a := range e.Attr {
		s.attrs[a.Key] = a.Value
	}
	for _, c := range e.ChildElements() {
		s.children = append(s.children, shapeOf(c))
	}
	return s
}

func parse(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func attrKeys(e *etree.Element) []string {
	ret := make([]string, 0, len(e.Attr))
	for _, a := range e.Attr {
		ret = append(ret, a.Key)
	}
	return ret
}
