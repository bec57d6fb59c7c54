package pkgxml

import (
	"strings"

	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/mderr"
)

const (
	// NamespaceCommon is the namespace of the primary document and of
	// package elements in patch documents.
	NamespaceCommon = "http://linux.duke.edu/metadata/common"
	// NamespaceRPM is the namespace of rpm header data.
	NamespaceRPM = "http://linux.duke.edu/metadata/rpm"
)

// Record is implemented by Package and by types embedding it.
type Record interface {
	databind.Record
	Pkg() *Package
}

// Of returns the Package of r, if r is a package record.
func Of(r databind.Record) (*Package, bool) {
	if pr, ok := r.(Record); ok {
		return pr.Pkg(), true
	}
	return nil, false
}

// Version is an rpm epoch, version and release.
type Version struct {
	Epoch string
	Ver   string
	Rel   string
}

// String returns "epoch:ver-rel", omitting a zero or empty epoch.
func (v Version) String() string {
	s := v.Ver
	if v.Rel != "" {
		s += "-" + v.Rel
	}
	if v.Epoch != "" && v.Epoch != "0" {
		s = v.Epoch + ":" + s
	}
	return s
}

// Checksum is a package checksum.
type Checksum struct {
	Type  string
	Value string
	// PkgID is set when the checksum is the package's identifier.
	PkgID bool
}

// File is a file or directory owned by a package.
type File struct {
	Path string
	// Type is empty for files, or e.g. "dir" or "ghost".
	Type string
}

// Package is a package element.
type Package struct {
	databind.Element

	Type  string
	PkgID string
	Name  string
	Arch  string

	Version     Version
	Checksum    Checksum
	Summary     string
	Description string
	Packager    string
	URL         string

	FileTime  int64
	BuildTime int64

	PackageSize   int64
	InstalledSize int64
	ArchiveSize   int64

	Location     string
	LocationBase string

	// Format holds the package's rpm header data, when present.
	Format *Format
	// Files lists the package's files, whether given in its format
	// (primary) or directly (filelists).
	Files []File
}

// New is the default package Factory.
func New() databind.Record { return &Package{} }

// Pkg returns p.
func (p *Package) Pkg() *Package { return p }

// NEVRA returns the package's name-[epoch:]version-release.arch.
func (p *Package) NEVRA() string {
	s := p.Name + "-" + p.Version.String()
	if p.Arch != "" {
		s += "." + p.Arch
	}
	return s
}

func (p *Package) BindAttr(a databind.Attr) error {
	switch a.Name.String() {
	case "type":
		p.Type = a.Value
	case "pkgid":
		p.PkgID = a.Value
	case "name":
		p.Name = a.Value
	case "arch":
		p.Arch = a.Value
	default:
		return p.UnknownAttr(a)
	}
	return nil
}

func (p *Package) AddChild(c databind.Record) (err error) {
	e := c.Elem()
	switch e.QName() {
	case "name":
		p.Name = databind.StringOf(c)
	case "arch":
		p.Arch = databind.StringOf(c)
	case "version":
		p.Version = Version{Epoch: e.AttrValue("epoch"), Ver: e.AttrValue("ver"), Rel: e.AttrValue("rel")}
	case "checksum":
		p.Checksum = Checksum{
			Type:  e.AttrValue("type"),
			Value: databind.StringOf(c),
			PkgID: strings.EqualFold(e.AttrValue("pkgid"), "YES"),
		}
		if p.Checksum.PkgID && p.PkgID == "" {
			p.PkgID = p.Checksum.Value
		}
	case "summary":
		p.Summary = databind.StringOf(c)
	case "description":
		p.Description = databind.StringOf(c)
	case "packager":
		p.Packager = databind.StringOf(c)
	case "url":
		p.URL = databind.StringOf(c)
	case "time":
		if p.FileTime, err = e.IntAttrValue("file"); err != nil {
			return err
		}
		p.BuildTime, err = e.IntAttrValue("build")
	case "size":
		if p.PackageSize, err = e.IntAttrValue("package"); err != nil {
			return err
		}
		if p.InstalledSize, err = e.IntAttrValue("installed"); err != nil {
			return err
		}
		p.ArchiveSize, err = e.IntAttrValue("archive")
	case "location":
		p.Location = e.AttrValue("href")
		p.LocationBase = e.AttrValue("xml:base")
	case "format":
		f, ok := c.(*Format)
		if !ok {
			return p.UnknownChild(c)
		}
		p.Format = f
		p.Files = append(p.Files, f.files...)
		f.files = nil
	case "file":
		p.Files = append(p.Files, fileOf(c))
	default:
		return p.UnknownChild(c)
	}
	return err
}

func (p *Package) Finalize() error {
	if p.Name == "" {
		return mderr.MissingElement("name", p.QName(), mderr.WithLine(p.Line, 0))
	}
	return nil
}

// Format is the format element of a package, holding rpm header data.
type Format struct {
	databind.Element
	Deps

	License   string
	Vendor    string
	Group     string
	BuildHost string
	SourceRPM string

	HeaderStart int64
	HeaderEnd   int64

	files []File
}

func newFormat() databind.Record { return &Format{} }

func (f *Format) AddChild(c databind.Record) (err error) {
	e := c.Elem()
	switch e.QName() {
	case "rpm:license":
		f.License = databind.StringOf(c)
	case "rpm:vendor":
		f.Vendor = databind.StringOf(c)
	case "rpm:group":
		f.Group = databind.StringOf(c)
	case "rpm:buildhost":
		f.BuildHost = databind.StringOf(c)
	case "rpm:sourcerpm":
		f.SourceRPM = databind.StringOf(c)
	case "rpm:header-range":
		if f.HeaderStart, err = e.IntAttrValue("start"); err != nil {
			return err
		}
		f.HeaderEnd, err = e.IntAttrValue("end")
	case "file":
		f.files = append(f.files, fileOf(c))
	default:
		if !f.AddDeps(c) {
			return f.UnknownChild(c)
		}
	}
	return err
}

func fileOf(c databind.Record) File {
	return File{Path: databind.StringOf(c), Type: c.Elem().AttrValue("type")}
}

// Register adds the package element family to reg. Package elements
// are bound with f, or New when f is nil, and registered with opts.
func Register(reg *databind.Registry, f databind.Factory, opts ...databind.EntryOption) *databind.Registry {
	if f == nil {
		f = New
	}
	reg.Namespace("rpm", NamespaceRPM).
		Register("package", f, opts...).
		Register("version", databind.NewPresence).
		Register("checksum", databind.NewString).
		Register("time", databind.NewPresence).
		Register("size", databind.NewPresence).
		Register("location", databind.NewPresence).
		Register("format", newFormat).
		Register("file", databind.NewString).
		Register("rpm:license", databind.NewString).
		Register("rpm:vendor", databind.NewString).
		Register("rpm:group", databind.NewString).
		Register("rpm:buildhost", databind.NewString).
		Register("rpm:sourcerpm", databind.NewString).
		Register("rpm:header-range", databind.NewPresence).
		Register("rpm:entry", func() databind.Record { return &Dependency{} })
	for _, name := range DependencyLists {
		reg.Register(name, newList)
	}
	// name, arch, summary, description, packager and url may already
	// be known to a document registering its own elements of the same
	// name
	for _, name := range []string{"name", "arch", "summary", "description", "packager", "url"} {
		if _, ok := reg.Resolve(databind.Name{Local: name}); !ok {
			reg.Register(name, databind.NewString)
		}
	}
	return reg
}
