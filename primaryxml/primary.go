// Package primaryxml binds primary.xml, the package catalog of an
// rpm-md repository.
//
// The catalog is streamed: each package element is returned as soon as
// it is complete and is not retained by the document root.
package primaryxml

import (
	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/pkgxml"
)

// Metadata is the root of a primary document.
type Metadata struct {
	databind.Element
	// Packages is the package count the document declares.
	Packages int64
}

func (m *Metadata) BindAttr(a databind.Attr) (err error) {
	if a.Name.String() != "packages" {
		return m.UnknownAttr(a)
	}
	m.Packages, err = m.IntAttr(a)
	return err
}

// AddChild retains packages, which reach the root only when the whole
// document is bound with Parse.
func (m *Metadata) AddChild(c databind.Record) error {
	if _, ok := pkgxml.Of(c); !ok || c.Elem().QName() != "package" {
		return m.UnknownChild(c)
	}
	m.Retain(c)
	return nil
}

// Entries returns the retained packages.
func (m *Metadata) Entries() []*pkgxml.Package {
	var out []*pkgxml.Package
	for _, c := range m.Children("package") {
		p, _ := pkgxml.Of(c)
		out = append(out, p)
	}
	return out
}

// Schema returns the primary document schema. Package elements are
// bound with f, or pkgxml.New when f is nil.
func Schema(f databind.Factory) *databind.Schema {
	reg := databind.NewRegistry("primary").
		Namespace("", pkgxml.NamespaceCommon).
		Root("metadata").
		Register("metadata", func() databind.Record { return &Metadata{} })
	pkgxml.Register(reg, f, databind.Yield())
	return &databind.Schema{Name: "primary", Registry: reg}
}
