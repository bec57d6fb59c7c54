// Package patchxml binds patch-*.xml, the descriptor of one patch in a
// SUSE rpm-md repository. Patch descriptors are small and are bound
// whole.
package patchxml

import (
	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/pkgxml"
)

const (
	// Namespace is the patch document namespace.
	Namespace = "http://novell.com/package/metadata/suse/patch"
	// NamespaceSUSE is the namespace of SUSE extensions.
	NamespaceSUSE = "http://novell.com/package/metadata/suse/common"
)

// Patch is the root of a patch document.
type Patch struct {
	databind.Element
	pkgxml.Deps

	PatchID   string
	Timestamp int64
	Engine    string

	Name    string
	Version string
	Release string
	// Summary and Description hold the English text only.
	Summary     string
	Description string

	Category         string
	LicenseToConfirm string
	RebootNeeded     bool
	PackageManager   bool

	Packages []*pkgxml.Package
}

func (p *Patch) BindAttr(a databind.Attr) (err error) {
	switch a.Name.String() {
	case "patchid":
		p.PatchID = a.Value
	case "timestamp":
		p.Timestamp, err = p.IntAttr(a)
	case "engine":
		p.Engine = a.Value
	default:
		return p.UnknownAttr(a)
	}
	return err
}

func (p *Patch) AddChild(c databind.Record) error {
	e := c.Elem()
	switch e.QName() {
	case "yum:name":
		p.Name = databind.StringOf(c)
	case "summary":
		if e.AttrValue("lang") == "en" {
			p.Summary = databind.StringOf(c)
		}
	case "description":
		if e.AttrValue("lang") == "en" {
			p.Description = databind.StringOf(c)
		}
	case "yum:version":
		p.Version = e.AttrValue("ver")
		p.Release = e.AttrValue("rel")
	case "reboot-needed":
		p.RebootNeeded = true
	case "package-manager":
		p.PackageManager = true
	case "license-to-confirm":
		p.LicenseToConfirm = databind.StringOf(c)
	case "category":
		p.Category = databind.StringOf(c)
	case "atoms":
		for _, child := range e.Children("package") {
			if pkg, ok := pkgxml.Of(child); ok {
				p.Packages = append(p.Packages, pkg)
			}
		}
	default:
		if !p.AddDeps(c) {
			return p.UnknownChild(c)
		}
	}
	return nil
}

// Same returns true if p and other describe the same patch: the same
// version, release, summary and description.
func (p *Patch) Same(other *Patch) bool {
	return p.Version == other.Version &&
		p.Release == other.Release &&
		p.Summary == other.Summary &&
		p.Description == other.Description
}

// Merge adds other's packages which p does not already hold.
func (p *Patch) Merge(other *Patch) {
	have := make(map[string]bool, len(p.Packages))
	for _, pkg := range p.Packages {
		have[pkg.NEVRA()] = true
	}
	for _, pkg := range other.Packages {
		if !have[pkg.NEVRA()] {
			have[pkg.NEVRA()] = true
			p.Packages = append(p.Packages, pkg)
		}
	}
}

type atoms struct {
	databind.Element
}

func (a *atoms) AddChild(c databind.Record) error {
	if _, ok := pkgxml.Of(c); !ok || c.Elem().QName() != "package" {
		return a.UnknownChild(c)
	}
	a.Retain(c)
	return nil
}

// Schema returns the patch document schema. Package elements are bound
// with f, or pkgxml.New when f is nil.
func Schema(f databind.Factory) *databind.Schema {
	reg := databind.NewRegistry("patch").
		Namespace("", Namespace).
		Namespace("yum", pkgxml.NamespaceCommon).
		Namespace("suse", NamespaceSUSE).
		Root("patch").
		Register("patch", func() databind.Record { return &Patch{} }).
		Register("yum:name", databind.NewString).
		Register("yum:version", databind.NewPresence).
		Register("reboot-needed", databind.NewPresence).
		Register("package-manager", databind.NewPresence).
		Register("license-to-confirm", databind.NewString).
		Register("category", databind.NewString).
		Register("atoms", func() databind.Record { return &atoms{} }).
		Skip("message").
		Skip("script").
		Skip("pkgfiles").
		Skip("suse:freshens")
	pkgxml.Register(reg, f)
	return &databind.Schema{Name: "patch", Registry: reg}
}
