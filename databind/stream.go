package databind

import (
	"io"
	"iter"

	"github.com/pkg/errors"
)

// Stream is a forward-only, single pass sequence of records bound from
// one document. The input is read only as far as needed to produce the
// next record. Iterate with Next:
//
//	s := databind.NewStream(r, reg)
//	defer s.Close()
//	for s.Next() {
//		rec := s.Record()
//		...
//	}
//	if err := s.Err(); err != nil {
//		...
//	}
//
// A Stream is not safe for concurrent use.
type Stream struct {
	pull   func() (Record, bool, error)
	m      *machine
	cur    Record
	err    error
	closer io.Closer
	done   bool
}

// NewStream returns a Stream of the records registered in reg with the
// Yield option, in document order. Every other record is passed to its
// parent as by Parse; the root is available from Root once the stream
// is exhausted.
func NewStream(r io.Reader, reg *Registry, opts ...Option) *Stream {
	m := newMachine(r, reg, true, opts)
	return &Stream{m: m, pull: m.pull}
}

// newTreeStream returns a Stream binding the whole document on the
// first call to Next and then returning the records selected by items.
func newTreeStream(r io.Reader, reg *Registry, items func(root Record) []Record, opts []Option) *Stream {
	m := newMachine(r, reg, false, opts)
	s := &Stream{m: m}
	s.pull = func() (Record, bool, error) {
		m.run()
		if m.err != nil {
			return nil, false, m.err
		}
		var pending []Record
		if items != nil {
			pending = items(m.root)
		} else if m.root != nil {
			pending = []Record{m.root}
		}
		s.pull = func() (Record, bool, error) {
			if len(pending) == 0 {
				return nil, false, nil
			}
			rec := pending[0]
			pending = pending[1:]
			return rec, true, nil
		}
		return s.pull()
	}
	return s
}

// errStream returns a Stream failing with err on the first Next.
func errStream(err error) *Stream {
	return &Stream{pull: func() (Record, bool, error) { return nil, false, err }}
}

// Next advances to the next record, returning false at the end of the
// sequence or on error. Once it has returned false, Next always
// returns false and the underlying input has been closed.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	rec, ok, err := s.pull()
	if !ok {
		s.err = err
		s.finish()
		return false
	}
	s.cur = rec
	return true
}

// Record returns the record produced by the last call to Next. The
// caller owns the record.
func (s *Stream) Record() Record { return s.cur }

// Err returns the error which ended the sequence, if any.
func (s *Stream) Err() error { return s.err }

// Root returns the document's root record once the sequence is
// exhausted without error, or nil. Yielded records are not among its
// children.
func (s *Stream) Root() Record {
	if s.m == nil || !s.done || s.err != nil {
		return nil
	}
	return s.m.root
}

// Stats returns the binder counters so far.
func (s *Stream) Stats() Stats {
	if s.m == nil {
		return Stats{}
	}
	return s.m.stats
}

// Close abandons the sequence and closes the underlying input, if the
// Stream owns it. The unread remainder of the document is never read.
func (s *Stream) Close() error {
	if s.done {
		return nil
	}
	s.finish()
	return s.err
}

func (s *Stream) finish() {
	s.done = true
	s.cur = nil
	if s.m != nil {
		s.m.stack = nil
		s.m.state = nil
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil && s.err == nil {
			s.err = errors.Wrap(err, "close")
		}
		s.closer = nil
	}
}

// All returns an iterator over the remaining records. A binding error
// is passed to yield as the final element. The Stream is closed when
// iteration stops.
func (s *Stream) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Record(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Collect drains s, returning every record.
func Collect(s *Stream) ([]Record, error) {
	defer s.Close()
	var out []Record
	for s.Next() {
		out = append(out, s.Record())
	}
	return out, s.Err()
}
