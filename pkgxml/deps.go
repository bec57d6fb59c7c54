package pkgxml

import (
	"github.com/andaru/repodata/databind"
)

// DependencyLists are the names of the rpm dependency list elements.
var DependencyLists = []string{
	"rpm:provides",
	"rpm:requires",
	"rpm:conflicts",
	"rpm:obsoletes",
	"rpm:suggests",
	"rpm:recommends",
	"rpm:supplements",
	"rpm:enhances",
}

// Dependency is an rpm:entry element of a dependency list.
type Dependency struct {
	databind.Element
	Name  string
	Flags string
	Epoch string
	Ver   string
	Rel   string
	// Pre is set for requirements needed before installation.
	Pre bool
	// Kind qualifies entries of patch documents, e.g. "atom".
	Kind string
}

func (d *Dependency) BindAttr(a databind.Attr) error {
	switch a.Name.String() {
	case "name":
		d.Name = a.Value
	case "flags":
		d.Flags = a.Value
	case "epoch":
		d.Epoch = a.Value
	case "ver":
		d.Ver = a.Value
	case "rel":
		d.Rel = a.Value
	case "pre":
		d.Pre = a.Value == "1" || a.Value == "true"
	case "kind":
		d.Kind = a.Value
	default:
		return d.UnknownAttr(a)
	}
	return nil
}

// Version returns the version the dependency is constrained to.
func (d *Dependency) Version() Version { return Version{Epoch: d.Epoch, Ver: d.Ver, Rel: d.Rel} }

func (d *Dependency) String() string {
	if d.Flags == "" {
		return d.Name
	}
	return d.Name + " " + flagOps[d.Flags] + " " + d.Version().String()
}

var flagOps = map[string]string{
	"EQ": "=",
	"LT": "<",
	"LE": "<=",
	"GT": ">",
	"GE": ">=",
}

// List is a dependency list element, e.g. rpm:requires.
type List struct {
	databind.Element
}

func newList() databind.Record { return &List{} }

func (l *List) AddChild(c databind.Record) error {
	if _, ok := c.(*Dependency); !ok || c.Elem().QName() != "rpm:entry" {
		return l.UnknownChild(c)
	}
	l.Retain(c)
	return nil
}

// Entries returns the list's dependencies in document order.
func (l *List) Entries() []*Dependency {
	children := l.Children()
	out := make([]*Dependency, 0, len(children))
	for _, c := range children {
		out = append(out, c.(*Dependency))
	}
	return out
}

// Deps holds the dependency lists of a package or patch.
type Deps struct {
	Provides    []*Dependency
	Requires    []*Dependency
	Conflicts   []*Dependency
	Obsoletes   []*Dependency
	Suggests    []*Dependency
	Recommends  []*Dependency
	Supplements []*Dependency
	Enhances    []*Dependency
}

// AddDeps stores the entries of c if it is a dependency list. It
// returns false for any other record.
func (d *Deps) AddDeps(c databind.Record) bool {
	l, ok := c.(*List)
	if !ok {
		return false
	}
	var dst *[]*Dependency
	switch c.Elem().QName() {
	case "rpm:provides":
		dst = &d.Provides
	case "rpm:requires":
		dst = &d.Requires
	case "rpm:conflicts":
		dst = &d.Conflicts
	case "rpm:obsoletes":
		dst = &d.Obsoletes
	case "rpm:suggests":
		dst = &d.Suggests
	case "rpm:recommends":
		dst = &d.Recommends
	case "rpm:supplements":
		dst = &d.Supplements
	case "rpm:enhances":
		dst = &d.Enhances
	default:
		return false
	}
	*dst = append(*dst, l.Entries()...)
	return true
}
