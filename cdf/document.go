package cdf

import (
	"strings"

	"github.com/beevik/etree"
)

// DocumentElement builds the element for n and its whole subtree. The element
// is detached and can be added to any etree document or element. Property
// attributes are ordered type, name, value.
func (n *Node) DocumentElement() (*etree.Element, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n.documentElement(), nil
}

// Document wraps the element of n into a document with an XML declaration
func (n *Node) Document() (*etree.Document, error) {
	root, err := n.DocumentElement()
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	return doc, nil
}

func (n *Node) documentElement() *etree.Element {
	element := etree.NewElement(elementTag)
	element.CreateAttr(attrName, n.name)
	element.CreateAttr(attrType, strings.ToLower(n.typ))

	children := element.CreateElement(childrenTag)
	n.base.Each(func(child *Node) {
		children.AddChild(child.documentElement())
	})

	properties := element.CreateElement(propertiesTag)
	for _, p := range n.properties {
		property := properties.CreateElement(propertyTag)
		property.CreateAttr(attrType, p.Type.String())
		property.CreateAttr(attrName, p.Name)
		property.CreateAttr(attrValue, p.Value)
	}
	return element
}
