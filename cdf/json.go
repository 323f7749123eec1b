package cdf

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonNode wire format of a node in a JSON tree source
type jsonNode struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	SourceID   string      `json:"sourceId,omitempty"`
	Content    string      `json:"content,omitempty"`
	Properties []*Property `json:"properties"`
	Children   []*Node     `json:"children"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	// source_id stays a regular property
	return json.Marshal(jsonNode{
		Name:       n.name,
		Type:       n.typ,
		Content:    n.base.Content(),
		Properties: n.Properties(),
		Children:   n.Children(),
	})
}

// UnmarshalJSON replaces n with the decoded node. A sourceId is stored before
// the listed properties and therefore wins over a listed source_id.
func (n *Node) UnmarshalJSON(data []byte) error {
	var v jsonNode
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "failed to decode node")
	}
	*n = *NewNode(v.Name, v.Type)
	if v.SourceID != "" {
		n.SetSourceID(v.SourceID)
	}
	for _, p := range v.Properties {
		if p == nil {
			continue
		}
		n.AddProperty(p.Name, p.Value, p.Type)
	}
	for _, child := range v.Children {
		if child == nil {
			continue
		}
		n.AddChild(child)
	}
	n.base.SetContent(v.Content)
	return nil
}
