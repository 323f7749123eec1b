// Package cdf contains the typed property tree and its XML renderings.
//
// A tree is built by the caller from nodes and properties and written once it
// is complete, either into an in-memory etree document or token by token onto
// an xml.Encoder. Nothing in this package is internally synchronized: readers
// may run concurrently as long as no writer is active.
package cdf

import (
	"github.com/pkg/errors"
)

const (
	// SourceIDKey name of the property that carries a node's origin id
	SourceIDKey = "source_id"
	// PathSeparator separator for node paths in error messages
	PathSeparator = "/"

	elementTag    = "element"
	childrenTag   = "children"
	propertiesTag = "properties"
	propertyTag   = "property"

	attrName  = "name"
	attrType  = "type"
	attrValue = "value"
)

var (
	// ErrInvalidNode a node misses its name or type
	ErrInvalidNode = errors.New("invalid node")
	// ErrCycle a node is reachable more than once from the root
	ErrCycle = errors.New("node is not part of a tree")
)
