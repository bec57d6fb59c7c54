// Package repomdxml binds repomd.xml, the index of an rpm-md
// repository.
//
// The index is bound whole. Each data entry naming a document type
// with a schema carries a deferred reference to that document, which
// is read only when the entry is opened:
//
//	md, err := repomdxml.Load(ctx, repo)
//	...
//	s := md.Data("primary").Open(ctx)
//	defer s.Close()
//	for s.Next() {
//		pkg, _ := pkgxml.Of(s.Record())
//		...
//	}
package repomdxml

import (
	"context"

	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/filelistsxml"
	"github.com/andaru/repodata/mderr"
	"github.com/andaru/repodata/patchesxml"
	"github.com/andaru/repodata/primaryxml"
	"github.com/andaru/repodata/source"
	"github.com/andaru/repodata/updateinfoxml"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// Namespace is the repomd document namespace.
	Namespace = "http://linux.duke.edu/metadata/repo"
	// Location is the location of the index in a repository.
	Location = "repodata/repomd.xml"
)

// RepoMd is the root of a repomd document.
type RepoMd struct {
	databind.Element
	Revision string
}

func (md *RepoMd) AddChild(c databind.Record) error {
	switch c.Elem().QName() {
	case "revision":
		md.Revision = databind.StringOf(c)
	case "data":
		if _, ok := c.(*Data); !ok {
			return md.UnknownChild(c)
		}
		md.Retain(c)
	default:
		return md.UnknownChild(c)
	}
	return nil
}

// Entries returns the data entries in document order.
func (md *RepoMd) Entries() []*Data {
	var out []*Data
	for _, c := range md.Children("data") {
		out = append(out, c.(*Data))
	}
	return out
}

// Data returns the first data entry of type typ, or nil.
func (md *RepoMd) Data(typ string) *Data {
	for _, d := range md.Entries() {
		if d.Type == typ {
			return d
		}
	}
	return nil
}

// Data is an index entry, describing one metadata document.
type Data struct {
	databind.Element

	Type         string
	Location     string
	LocationBase string

	Checksum           string
	ChecksumType       string
	OpenChecksum       string
	OpenChecksumType   string
	HeaderChecksum     string
	HeaderChecksumType string

	Timestamp       int64
	Size            int64
	OpenSize        int64
	HeaderSize      int64
	DatabaseVersion int64

	// Ref refers to the described document. Documents of types without
	// a schema have a reference which fails to open.
	Ref *databind.Ref

	cfg *config
}

func (d *Data) BindAttr(a databind.Attr) error {
	if a.Name.String() != "type" {
		return d.UnknownAttr(a)
	}
	d.Type = a.Value
	return nil
}

func (d *Data) AddChild(c databind.Record) (err error) {
	e := c.Elem()
	switch e.QName() {
	case "location":
		d.Location = e.AttrValue("href")
		d.LocationBase = e.AttrValue("xml:base")
	case "checksum":
		d.Checksum, d.ChecksumType = databind.StringOf(c), e.AttrValue("type")
	case "open-checksum":
		d.OpenChecksum, d.OpenChecksumType = databind.StringOf(c), e.AttrValue("type")
	case "header-checksum":
		d.HeaderChecksum, d.HeaderChecksumType = databind.StringOf(c), e.AttrValue("type")
	case "timestamp":
		d.Timestamp, err = databind.IntegerOf(c)
	case "size":
		d.Size, err = databind.IntegerOf(c)
	case "open-size":
		d.OpenSize, err = databind.IntegerOf(c)
	case "header-size":
		d.HeaderSize, err = databind.IntegerOf(c)
	case "database_version":
		d.DatabaseVersion, err = databind.IntegerOf(c)
	default:
		return d.UnknownChild(c)
	}
	return err
}

// Finalize attaches the reference to the described document.
func (d *Data) Finalize() error {
	if d.Location == "" {
		return mderr.MissingElement("location", d.QName(), mderr.WithLine(d.Line, 0))
	}
	schema := d.cfg.schema(d.Type)
	if schema == nil {
		glog.V(2).Infof("repomd: no parser for %s (%s)", d.Type, d.Location)
		d.Ref = databind.ErrRef(d.Location, nil, mderr.NoParser(d.Type, mderr.WithDocument(d.Location)))
		return nil
	}
	var open databind.OpenFunc
	if d.cfg.opener != nil {
		open = source.OpenFunc(d.cfg.opener, d.Location, d.ChecksumType, d.Checksum)
	}
	d.Ref = databind.NewRef(d.Location, schema, open)
	return nil
}

// Open returns a Stream of the described document's records: packages
// for primary and filelists, patches for patches and updates for
// updateinfo. The document is read as the Stream is advanced.
func (d *Data) Open(ctx context.Context) *databind.Stream { return d.Ref.Open(ctx) }

// Option is a Schema option function.
type Option func(*config)

type config struct {
	opener   source.Opener
	packages databind.Factory
	schemas  map[string]*databind.Schema
}

// WithPackageFactory binds the package elements of the documents the
// index refers to with f, in place of pkgxml.New.
func WithPackageFactory(f databind.Factory) Option {
	return func(c *config) { c.packages = f }
}

func (c *config) schema(typ string) *databind.Schema { return c.schemas[typ] }

// Schema returns the repomd document schema. Referenced documents are
// read from o.
func Schema(o source.Opener, opts ...Option) *databind.Schema {
	cfg := &config{opener: o}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.schemas = map[string]*databind.Schema{
		"primary":    primaryxml.Schema(cfg.packages),
		"filelists":  filelistsxml.Schema(cfg.packages),
		"patches":    patchesxml.Schema(o, cfg.packages),
		"updateinfo": updateinfoxml.Schema(),
	}
	reg := databind.NewRegistry("repomd").
		Namespace("", Namespace).
		Root("repomd").
		Register("repomd", func() databind.Record { return &RepoMd{} }).
		Register("revision", databind.NewString).
		Register("data", func() databind.Record { return &Data{cfg: cfg} }).
		Register("location", databind.NewPresence).
		Register("checksum", databind.NewString).
		Register("open-checksum", databind.NewString).
		Register("header-checksum", databind.NewString).
		Register("timestamp", databind.NewInteger).
		Register("size", databind.NewInteger).
		Register("open-size", databind.NewInteger).
		Register("header-size", databind.NewInteger).
		Register("database_version", databind.NewInteger).
		Skip("tags")
	return &databind.Schema{
		Name:     "repomd",
		Registry: reg,
		Items:    func(root databind.Record) []databind.Record { return root.Elem().Children("data") },
	}
}

// Load reads the index of the repository o.
func Load(ctx context.Context, o source.Opener, opts ...Option) (*RepoMd, error) {
	f, err := o.Open(ctx, Location)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	root, err := Schema(o, opts...).Parse(f, databind.WithDocument(Location))
	if err != nil {
		return nil, err
	}
	md, ok := root.(*RepoMd)
	if !ok {
		return nil, errors.Errorf("%s: unexpected %T root", Location, root)
	}
	return md, nil
}
