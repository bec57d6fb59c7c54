package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/andaru/repodata/config"
	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/inspect"
	"github.com/andaru/repodata/patchesxml"
	"github.com/andaru/repodata/pkgxml"
	"github.com/andaru/repodata/repomdxml"
	"github.com/andaru/repodata/source"
	"github.com/andaru/repodata/updateinfoxml"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type app struct {
	cfg         *config.Config
	repo        *source.Repository
	enc         *json.Encoder
	out         io.Writer
	descriptors bool
	tolerant    bool
}

type command struct {
	args int
	run  func(a *app, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"index":    {0, (*app).index},
	"packages": {0, (*app).packages},
	"files":    {0, (*app).files},
	"updates":  {0, (*app).updates},
	"patches":  {0, (*app).patches},
	"query":    {2, (*app).query},
}

func (a *app) index(ctx context.Context, _ []string) error {
	if a.tolerant {
		return a.tolerantIndex(ctx)
	}
	md, err := repomdxml.Load(ctx, a.repo)
	if err != nil {
		return err
	}
	for _, d := range md.Entries() {
		if !a.cfg.Allowed(d.Type) {
			continue
		}
		if err := a.enc.Encode(indexOf(md, d)); err != nil {
			return err
		}
	}
	return nil
}

// tolerantIndex lists the index entries with XPath, so an index holding
// elements no schema knows can still be listed.
func (a *app) tolerantIndex(ctx context.Context) error {
	f, err := a.repo.Open(ctx, repomdxml.Location)
	if err != nil {
		return err
	}
	defer f.Close()
	entries, err := inspect.Index(f)
	if err != nil {
		return errors.Wrap(err, repomdxml.Location)
	}
	for _, e := range entries {
		if !a.cfg.Allowed(e.Type) {
			continue
		}
		if err := a.enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// open returns a Stream over the records of the document of type typ.
func (a *app) open(ctx context.Context, typ string) (*databind.Stream, error) {
	if !a.cfg.Allowed(typ) {
		return nil, errors.Errorf("document type %s is not allowed by the configuration", typ)
	}
	md, err := repomdxml.Load(ctx, a.repo)
	if err != nil {
		return nil, err
	}
	d := md.Data(typ)
	if d == nil {
		return nil, errors.Errorf("%s has no %s document", repomdxml.Location, typ)
	}
	return d.Open(ctx), nil
}

// each calls f with every record of the document of type typ.
func (a *app) each(ctx context.Context, typ string, f func(databind.Record) error) error {
	s, err := a.open(ctx, typ)
	if err != nil {
		return err
	}
	defer s.Close()
	for rec, err := range s.All() {
		if err != nil {
			return err
		}
		if err := f(rec); err != nil {
			return err
		}
	}
	stats := s.Stats()
	glog.V(1).Infof("%s: %d records yielded of %d bound", typ, stats.Yielded, stats.Records)
	return nil
}

func (a *app) packages(ctx context.Context, _ []string) error {
	return a.each(ctx, "primary", func(rec databind.Record) error {
		p, ok := pkgxml.Of(rec)
		if !ok {
			return errors.Errorf("primary: unexpected %T record", rec)
		}
		return a.enc.Encode(packageOf(p))
	})
}

func (a *app) files(ctx context.Context, _ []string) error {
	return a.each(ctx, "filelists", func(rec databind.Record) error {
		p, ok := pkgxml.Of(rec)
		if !ok {
			return errors.Errorf("filelists: unexpected %T record", rec)
		}
		return a.enc.Encode(filesOf(p))
	})
}

func (a *app) updates(ctx context.Context, _ []string) error {
	return a.each(ctx, "updateinfo", func(rec databind.Record) error {
		u, ok := rec.(*updateinfoxml.Update)
		if !ok {
			return errors.Errorf("updateinfo: unexpected %T record", rec)
		}
		return a.enc.Encode(updateOf(u))
	})
}

func (a *app) patches(ctx context.Context, _ []string) error {
	return a.each(ctx, "patches", func(rec databind.Record) error {
		p, ok := rec.(*patchesxml.Patch)
		if !ok {
			return errors.Errorf("patches: unexpected %T record", rec)
		}
		out := patchOut{ID: p.ID, Location: p.Location, ChecksumType: p.ChecksumType, Checksum: p.Checksum}
		if a.descriptors {
			d, err := p.Descriptor(ctx)
			if err != nil {
				return err
			}
			out.Descriptor = descriptorOf(d)
		}
		return a.enc.Encode(out)
	})
}

// query evaluates expr over a document, named by its data type in the
// index or by its location in the repository.
func (a *app) query(ctx context.Context, args []string) error {
	target, expr := args[0], args[1]
	location := target
	var opts []source.Option
	if target != repomdxml.Location {
		md, err := repomdxml.Load(ctx, a.repo)
		if err != nil {
			return err
		}
		if d := md.Data(target); d != nil {
			if !a.cfg.Allowed(target) {
				return errors.Errorf("document type %s is not allowed by the configuration", target)
			}
			location = d.Location
			opts = append(opts, source.WithChecksum(d.ChecksumType, d.Checksum))
		}
	}
	f, err := a.repo.Open(ctx, location, opts...)
	if err != nil {
		return err
	}
	defer f.Close()
	values, err := inspect.Query(f, expr)
	if err != nil {
		return errors.Wrapf(err, "query %s", location)
	}
	for _, v := range values {
		if _, err := fmt.Fprintln(a.out, v); err != nil {
			return err
		}
	}
	return nil
}
