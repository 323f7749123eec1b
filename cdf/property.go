package cdf

import (
	"strings"

	"github.com/pkg/errors"
)

// PropertyType kind of a property value
type PropertyType int

const (
	// PropertyTypeString plain text
	PropertyTypeString PropertyType = iota
	// PropertyTypeInt integer number
	PropertyTypeInt
	// PropertyTypeFloat floating point number
	PropertyTypeFloat
	// PropertyTypeDate date
	PropertyTypeDate
)

var propertyTypeNames = map[PropertyType]string{
	PropertyTypeString: "string",
	PropertyTypeInt:    "int",
	PropertyTypeFloat:  "float",
	PropertyTypeDate:   "date",
}

// ParsePropertyType case insensitive lookup of a kind by its name
func ParsePropertyType(s string) (PropertyType, error) {
	lower := strings.ToLower(s)
	for t, name := range propertyTypeNames {
		if name == lower {
			return t, nil
		}
	}
	return PropertyTypeString, errors.Errorf("unknown property type %q", s)
}

// String lower case name, as written to XML
func (t PropertyType) String() string {
	if name, ok := propertyTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t PropertyType) MarshalText() ([]byte, error) {
	if _, ok := propertyTypeNames[t]; !ok {
		return nil, errors.Errorf("unknown property type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *PropertyType) UnmarshalText(text []byte) error {
	v, err := ParsePropertyType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Property a typed name value pair on a node
type Property struct {
	Name  string       `json:"name"`
	Value string       `json:"value"`
	Type  PropertyType `json:"type"`
}

// NewProperty constructor
func NewProperty(name, value string, typ PropertyType) *Property {
	return &Property{
		Name:  name,
		Value: value,
		Type:  typ,
	}
}
