package cdf

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Validate checks the preconditions of the XML writers for n and its whole
// subtree: every node needs a name and a type, every property a known kind,
// and every node must be reachable exactly once. All violations are returned combined.
func (n *Node) Validate() error {
	var (
		err  error
		seen = map[*Node]struct{}{}
	)
	n.validate(seen, nil, &err)
	return err
}

func (n *Node) validate(seen map[*Node]struct{}, path []string, err *error) {
	path = append(path, n.name)
	if _, ok := seen[n]; ok {
		*err = multierr.Append(*err, errors.Wrapf(ErrCycle, "at %q", strings.Join(path, PathSeparator)))
		return
	}
	seen[n] = struct{}{}

	if n.name == "" {
		*err = multierr.Append(*err, errors.Wrapf(ErrInvalidNode, "missing name at %q", strings.Join(path, PathSeparator)))
	}
	if n.typ == "" {
		*err = multierr.Append(*err, errors.Wrapf(ErrInvalidNode, "missing type at %q", strings.Join(path, PathSeparator)))
	}
	for _, p := range n.properties {
		if _, ok := propertyTypeNames[p.Type]; !ok {
			*err = multierr.Append(*err, errors.Wrapf(ErrInvalidNode, "unknown kind %d of property %q at %q", int(p.Type), p.Name, strings.Join(path, PathSeparator)))
		}
	}
	n.base.Each(func(child *Node) {
		child.validate(seen, path, err)
	})
}
