package cdf

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

type (
	encodeOptions struct {
		prefix string
		indent string
	}
	EncodeOption func(*encodeOptions)
)

// EncodeWithIndent indents the output, see xml.Encoder.Indent
func EncodeWithIndent(prefix, indent string) EncodeOption {
	return func(o *encodeOptions) {
		o.prefix = prefix
		o.indent = indent
	}
}

// Encode writes an XML declaration and the tree below root to w
func Encode(w io.Writer, root *Node, opts ...EncodeOption) error {
	o := &encodeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	enc := xml.NewEncoder(w)
	if o.indent != "" || o.prefix != "" {
		enc.Indent(o.prefix, o.indent)
	}
	if err := enc.EncodeToken(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}); err != nil {
		return errors.Wrap(err, "failed to write xml declaration")
	}
	return root.WriteXML(enc)
}

// WriteXML streams n and its subtree onto enc and flushes it. The content of
// a node follows its child elements inside <children>. Property attributes
// are ordered name, value, type. The encoder is never closed; after an error
// the output is incomplete but n is unchanged.
func (n *Node) WriteXML(enc *xml.Encoder) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if err := n.writeXML(enc); err != nil {
		return errors.Wrapf(err, "failed to write element %q", n.name)
	}
	return errors.Wrap(enc.Flush(), "failed to flush xml")
}

func (n *Node) writeXML(enc *xml.Encoder) error {
	element := startElement(elementTag,
		attr(attrName, n.name),
		attr(attrType, strings.ToLower(n.typ)),
	)
	if err := enc.EncodeToken(element); err != nil {
		return err
	}

	children := startElement(childrenTag)
	if err := enc.EncodeToken(children); err != nil {
		return err
	}
	for _, child := range n.base.Children() {
		if err := child.writeXML(enc); err != nil {
			return err
		}
	}
	if content := n.base.Content(); content != "" {
		if err := enc.EncodeToken(xml.CharData(content)); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(children.End()); err != nil {
		return err
	}

	properties := startElement(propertiesTag)
	if err := enc.EncodeToken(properties); err != nil {
		return err
	}
	for _, p := range n.properties {
		property := startElement(propertyTag,
			attr(attrName, p.Name),
			attr(attrValue, p.Value),
			attr(attrType, p.Type.String()),
		)
		if err := enc.EncodeToken(property); err != nil {
			return err
		}
		if err := enc.EncodeToken(property.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(properties.End()); err != nil {
		return err
	}

	return enc.EncodeToken(element.End())
}

func startElement(name string, attrs ...xml.Attr) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
