// Package patchesxml binds patches.xml, the list of patch descriptors
// of a SUSE rpm-md repository. Each listed patch carries a deferred
// reference to its patch-*.xml descriptor.
package patchesxml

import (
	"context"

	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/mderr"
	"github.com/andaru/repodata/patchxml"
	"github.com/andaru/repodata/source"
	"github.com/pkg/errors"
)

// Patches is the root of a patches document.
type Patches struct {
	databind.Element
}

func (ps *Patches) AddChild(c databind.Record) error {
	if _, ok := c.(*Patch); !ok {
		return ps.UnknownChild(c)
	}
	ps.Retain(c)
	return nil
}

// Entries returns the listed patches.
func (ps *Patches) Entries() []*Patch {
	var out []*Patch
	for _, c := range ps.Children("patch") {
		out = append(out, c.(*Patch))
	}
	return out
}

// Patch is a patches document entry.
type Patch struct {
	databind.Element

	ID           string
	Checksum     string
	ChecksumType string
	Location     string

	// Ref refers to the patch descriptor.
	Ref *databind.Ref

	schema *databind.Schema
	opener source.Opener
}

func (p *Patch) BindAttr(a databind.Attr) error {
	if a.Name.String() != "id" {
		return p.UnknownAttr(a)
	}
	p.ID = a.Value
	return nil
}

func (p *Patch) AddChild(c databind.Record) error {
	switch c.Elem().QName() {
	case "checksum":
		p.Checksum = databind.StringOf(c)
		p.ChecksumType = c.Elem().AttrValue("type")
	case "location":
		p.Location = c.Elem().AttrValue("href")
	default:
		return p.UnknownChild(c)
	}
	return nil
}

func (p *Patch) Finalize() error {
	if p.Location == "" {
		return mderr.MissingElement("location", p.QName(), mderr.WithLine(p.Line, 0))
	}
	var open databind.OpenFunc
	if p.opener != nil {
		open = source.OpenFunc(p.opener, p.Location, p.ChecksumType, p.Checksum)
	}
	p.Ref = databind.NewRef(p.Location, p.schema, open)
	return nil
}

// Open returns a Stream of the patch descriptor's single record.
func (p *Patch) Open(ctx context.Context) *databind.Stream { return p.Ref.Open(ctx) }

// Descriptor reads and returns the patch descriptor.
func (p *Patch) Descriptor(ctx context.Context) (*patchxml.Patch, error) {
	records, err := databind.Collect(p.Open(ctx))
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, errors.Errorf("%s: %d patch records", p.Location, len(records))
	}
	d, ok := records[0].(*patchxml.Patch)
	if !ok {
		return nil, errors.Errorf("%s: unexpected %T record", p.Location, records[0])
	}
	return d, nil
}

// Schema returns the patches document schema. Patch descriptors are
// read from o, with package elements bound by f or pkgxml.New.
func Schema(o source.Opener, f databind.Factory) *databind.Schema {
	descriptor := patchxml.Schema(f)
	reg := databind.NewRegistry("patches").
		Root("patches").
		Register("patches", func() databind.Record { return &Patches{} }).
		Register("patch", func() databind.Record { return &Patch{schema: descriptor, opener: o} }).
		Register("checksum", databind.NewString).
		Register("location", databind.NewPresence)
	return &databind.Schema{
		Name:     "patches",
		Registry: reg,
		Items:    func(root databind.Record) []databind.Record { return root.Elem().Children("patch") },
	}
}
