// Package filelistsxml binds filelists.xml, the per-package file lists
// of an rpm-md repository. Packages are streamed as for primary.xml.
package filelistsxml

import (
	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/pkgxml"
)

// Namespace is the filelists document namespace.
const Namespace = "http://linux.duke.edu/metadata/filelists"

// FileLists is the root of a filelists document.
type FileLists struct {
	databind.Element
	Packages int64
}

func (fl *FileLists) BindAttr(a databind.Attr) (err error) {
	if a.Name.String() != "packages" {
		return fl.UnknownAttr(a)
	}
	fl.Packages, err = fl.IntAttr(a)
	return err
}

func (fl *FileLists) AddChild(c databind.Record) error {
	if _, ok := pkgxml.Of(c); !ok || c.Elem().QName() != "package" {
		return fl.UnknownChild(c)
	}
	fl.Retain(c)
	return nil
}

// Entries returns the packages retained by Parse.
func (fl *FileLists) Entries() []*pkgxml.Package {
	var out []*pkgxml.Package
	for _, c := range fl.Children("package") {
		p, _ := pkgxml.Of(c)
		out = append(out, p)
	}
	return out
}

// Schema returns the filelists document schema, binding package
// elements with f or pkgxml.New.
func Schema(f databind.Factory) *databind.Schema {
	reg := databind.NewRegistry("filelists").
		Root("filelists").
		Register("filelists", func() databind.Record { return &FileLists{} })
	pkgxml.Register(reg, f, databind.Yield())
	return &databind.Schema{Name: "filelists", Registry: reg}
}
