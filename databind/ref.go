package databind

import (
	"context"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Schema describes how to bind one type of document.
type Schema struct {
	// Name is the schema name, e.g. "primary".
	Name string
	// Registry holds the schema's element names.
	Registry *Registry
	// Items selects the records a Stream over a fully built document
	// returns, given its root. It is unused by streaming schemas. When
	// nil, the root itself is returned.
	Items func(root Record) []Record
}

// Streaming returns true if the schema's documents are streamed
// rather than built whole.
func (s *Schema) Streaming() bool { return s.Registry.Streaming() }

// Parse binds the whole document read from r.
func (s *Schema) Parse(r io.Reader, opts ...Option) (Record, error) {
	return Parse(r, s.Registry, opts...)
}

// Stream returns the schema's records from the document read from r.
// Streaming schemas yield records as they complete; other schemas
// build the document on the first Next and return the records chosen
// by Items.
func (s *Schema) Stream(r io.Reader, opts ...Option) *Stream {
	if s.Streaming() {
		return NewStream(r, s.Registry, opts...)
	}
	return newTreeStream(r, s.Registry, s.Items, opts)
}

// OpenFunc returns the byte stream of a referenced document.
type OpenFunc func(ctx context.Context) (io.ReadCloser, error)

// Ref is a deferred reference to another document: its location, the
// schema it is bound with and the means to read it.
type Ref struct {
	Location string
	Schema   *Schema

	open OpenFunc
	err  error
}

// NewRef returns a reference to the document at location.
func NewRef(location string, schema *Schema, open OpenFunc) *Ref {
	return &Ref{Location: location, Schema: schema, open: open}
}

// ErrRef returns a reference to the document at location which
// cannot be read; every Stream opened from it fails with err.
func ErrRef(location string, schema *Schema, err error) *Ref {
	return &Ref{Location: location, Schema: schema, err: err}
}

// Open returns a Stream over the referenced document's records. The
// document is opened and read only once the Stream is advanced; every
// call to Open reads the document again from the start. Errors opening
// or binding the document are returned by the Stream's Err.
//
// ctx is checked before each record is produced; cancelling it ends
// the Stream with ctx's error.
func (r *Ref) Open(ctx context.Context) *Stream {
	if r.err != nil {
		return errStream(r.err)
	}
	if r.open == nil || r.Schema == nil {
		return errStream(errors.Errorf("reference to %s cannot be opened", r.Location))
	}
	s := &Stream{}
	s.pull = func() (Record, bool, error) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		glog.V(1).Infof("%s: opening %s", r.Schema.Name, r.Location)
		rc, err := r.open(ctx)
		if err != nil {
			return nil, false, errors.Wrapf(err, "open %s", r.Location)
		}
		s.closer = rc
		inner := r.Schema.Stream(rc, WithDocument(r.Location))
		s.m = inner.m
		s.pull = func() (Record, bool, error) {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
			return inner.pull()
		}
		return s.pull()
	}
	return s
}
