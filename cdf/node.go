package cdf

import (
	"github.com/foomo/cdf/pkg/tree"
)

// Node a named and typed element of a property tree
//
// A node owns its children. Adding the same node twice, or adding an ancestor
// as a child, breaks the tree; this is not checked when linking but rejected
// by Validate and by the XML writers.
type Node struct {
	name       string
	typ        string
	properties []*Property
	base       tree.Base[*Node]
}

// NewNode constructor
func NewNode(name, typ string) *Node {
	return &Node{
		name:       name,
		typ:        typ,
		properties: []*Property{},
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter / Setter
// ------------------------------------------------------------------------------------------------

func (n *Node) Name() string {
	return n.name
}

func (n *Node) SetName(v string) {
	n.name = v
}

func (n *Node) Type() string {
	return n.typ
}

func (n *Node) SetType(v string) {
	n.typ = v
}

// Content opaque text written next to the children by WriteXML
func (n *Node) Content() string {
	return n.base.Content()
}

func (n *Node) SetContent(v string) {
	n.base.SetContent(v)
}

// ------------------------------------------------------------------------------------------------
// ~ Properties
// ------------------------------------------------------------------------------------------------

// Properties returns a copy of the property list in insertion order
func (n *Node) Properties() []*Property {
	ret := make([]*Property, len(n.properties))
	copy(ret, n.properties)
	return ret
}

// Property returns the first property with the given name or nil
func (n *Node) Property(name string) *Property {
	for _, p := range n.properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// PropertyValue value of the first property with the given name
func (n *Node) PropertyValue(name string) (string, bool) {
	p := n.Property(name)
	if p == nil {
		return "", false
	}
	return p.Value, true
}

// AddProperty appends a property. Existing properties with the same name are
// kept and shadow the new one on lookup.
func (n *Node) AddProperty(name, value string, typ PropertyType) {
	n.properties = append(n.properties, NewProperty(name, value, typ))
}

func (n *Node) SourceID() (string, bool) {
	return n.PropertyValue(SourceIDKey)
}

// SetSourceID appends a source_id property. Since lookups return the first
// match, only the first call is visible through SourceID.
func (n *Node) SetSourceID(id string) {
	n.AddProperty(SourceIDKey, id, PropertyTypeString)
}

// ------------------------------------------------------------------------------------------------
// ~ Children
// ------------------------------------------------------------------------------------------------

// Children returns a copy of the child list
func (n *Node) Children() []*Node {
	return n.base.Children()
}

func (n *Node) AddChild(child *Node) {
	n.base.Add(child)
}

// RemoveChild removes the first occurrence of child, if any
func (n *Node) RemoveChild(child *Node) {
	n.base.Remove(child)
}

func (n *Node) ChildCount() int {
	return n.base.Len()
}

// Descendants returns all nodes below n, excluding n.
//
// The walk uses an explicit stack: a popped node contributes all of its
// children in order before the last of them is popped next. Siblings keep
// their order, deeper levels come out last sibling first.
func (n *Node) Descendants() []*Node {
	var (
		ret   []*Node
		stack = []*Node{n}
	)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		current.base.Each(func(child *Node) {
			ret = append(ret, child)
			stack = append(stack, child)
		})
	}
	return ret
}
