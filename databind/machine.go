// Copyright 2018 Andrew Fort

package databind

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/andaru/repodata/mderr"
	"github.com/andaru/repodata/xmlutil"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Stats counts the work done by a binder.
type Stats struct {
	// Records is the number of records constructed.
	Records int
	// Skipped is the number of allow-listed subtrees discarded.
	Skipped int
	// Yielded is the number of records returned by a Stream.
	Yielded int
	// MaxDepth is the deepest the open record stack grew.
	MaxDepth int
}

// Option is a Parse and NewStream option function.
type Option func(*config)

type config struct {
	document string
	decoder  []func(*xml.Decoder)
	stats    *Stats
}

// WithDocument names the document being bound in errors and logs.
func WithDocument(name string) Option { return func(c *config) { c.document = name } }

// WithStats makes Parse store its counters in dst.
func WithStats(dst *Stats) Option { return func(c *config) { c.stats = dst } }

// WithDecoderOption applies f to the underlying xml.Decoder, e.g. to
// set a CharsetReader.
func WithDecoderOption(f func(*xml.Decoder)) Option {
	return func(c *config) { c.decoder = append(c.decoder, f) }
}

type frame struct {
	rec   Record
	entry Entry
}

// stateFn is a binder state; it consumes input and returns the next
// state, or nil once binding has finished.
type stateFn func(*machine) stateFn

// machine is the state of one binding session. It is not safe for
// concurrent use.
type machine struct {
	reg      *Registry
	dec      *xml.Decoder
	document string
	scope    *xmlutil.Scope
	stack    []frame
	state    stateFn

	// yield is true for streams; yield-marked records are emitted
	// rather than passed to their parent.
	yield   bool
	emitted Record

	root     Record
	sawRoot  bool
	err      error
	stats    Stats
	statsOut *Stats
}

func newMachine(r io.Reader, reg *Registry, yield bool, opts []Option) *machine {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.document == "" {
		cfg.document = reg.Schema()
	}
	dec := xml.NewDecoder(r)
	for _, f := range cfg.decoder {
		f(dec)
	}
	return &machine{
		reg:      reg,
		dec:      dec,
		document: cfg.document,
		scope:    xmlutil.NewScope(),
		state:    parseToken,
		yield:    yield,
		statsOut: cfg.stats,
	}
}

// run steps the machine until binding finishes.
func (m *machine) run() {
	for m.state != nil {
		m.state = m.state(m)
	}
}

// pull steps the machine until a record is emitted or binding
// finishes. ok is false once there are no more records; err is then
// set if binding failed.
func (m *machine) pull() (rec Record, ok bool, err error) {
	for m.state != nil && m.emitted == nil {
		m.state = m.state(m)
	}
	if rec = m.emitted; rec != nil {
		m.emitted = nil
		return rec, true, nil
	}
	return nil, false, m.err
}

// parseToken consumes the next token from the decoder.
func parseToken(m *machine) stateFn {
	token, err := m.dec.Token()
	if err == io.EOF {
		return endOfInput
	}
	if err != nil {
		return m.fail(readError(err))
	}

	switch token := token.(type) {
	case xml.StartElement:
		err = m.open(token)
	case xml.EndElement:
		err = m.close()
	case xml.CharData:
		err = m.text(token)
	case xml.ProcInst, xml.Comment, xml.Directive:
		// ignored
	}
	if err != nil {
		return m.fail(err)
	}
	return parseToken
}

// endOfInput is the final state on a clean end of input.
func endOfInput(m *machine) stateFn {
	switch {
	case len(m.stack) > 0:
		return m.fail(mderr.Malformed(mderr.WithMessage("unexpected end of document within <" + m.top().rec.Elem().QName() + ">")))
	case !m.sawRoot:
		return m.fail(mderr.Malformed(mderr.WithMessage("empty document")))
	case m.root == nil && m.stats.Yielded == 0:
		return m.fail(mderr.Malformed(mderr.WithMessage("document element was not bound")))
	}
	glog.V(1).Infof("%s: bound %d records (%d yielded, %d skipped, depth %d)",
		m.document, m.stats.Records, m.stats.Yielded, m.stats.Skipped, m.stats.MaxDepth)
	return nil
}

// fail records err, annotated with the input position, and stops the
// machine.
func (m *machine) fail(err error) stateFn {
	line, col := m.dec.InputPos()
	m.err = mderr.Locate(err, m.document, line, col)
	m.stack = nil
	m.emitted = nil
	return nil
}

func readError(err error) error {
	if _, ok := mderr.As(err); ok {
		return err
	}
	if se, ok := err.(*xml.SyntaxError); ok {
		return mderr.Malformed(mderr.WithLine(se.Line, 0), mderr.WithMessage(se.Msg))
	}
	return errors.Wrap(err, "read")
}

func (m *machine) top() *frame {
	if len(m.stack) == 0 {
		return nil
	}
	return &m.stack[len(m.stack)-1]
}

func (m *machine) parentName() string {
	if f := m.top(); f != nil {
		return f.rec.Elem().QName()
	}
	return ""
}

// name maps an element or attribute name from the decoder, whose Space
// holds a namespace URI, to a Name whose Space holds the schema prefix.
func (m *machine) name(n xml.Name, element bool) (Name, error) {
	if n.Space == "" {
		return Name{Local: n.Local}, nil
	}
	if element {
		if def, ok := m.scope.Namespace(""); ok && def == n.Space {
			return Name{Local: n.Local}, nil
		}
	}
	if pfx, ok := m.reg.prefix(n.Space); ok {
		return Name{Space: pfx, Local: n.Local}, nil
	}
	if pfx, ok := m.scope.Prefix(n.Space); ok && pfx != "" {
		// a schema prefix bound to another namespace
		if m.reg.declares(pfx) {
			return Name{}, mderr.UnknownNamespace(n.Local, n.Space)
		}
		return Name{Space: pfx, Local: n.Local}, nil
	}
	return Name{}, mderr.UnknownNamespace(n.Local, n.Space)
}

func (m *machine) open(se xml.StartElement) error {
	m.scope.Push(se.Attr)
	name, err := m.name(se.Name, true)
	if err != nil {
		return err
	}
	if len(m.stack) == 0 {
		if m.sawRoot {
			return mderr.Malformed(mderr.WithMessage("multiple root elements, found <" + name.String() + ">"))
		}
		m.sawRoot = true
	}

	entry, ok := m.reg.Resolve(name)
	if !ok {
		return mderr.UnknownElement(name.String(), m.parentName())
	}
	if len(m.stack) == 0 && !m.reg.isRoot(entry) {
		return mderr.UnknownElement(name.String(), "", mderr.WithMessage("not the document element"))
	}
	if entry.Skip {
		m.scope.Pop()
		m.stats.Skipped++
		if glog.V(2) {
			glog.Infof("%s: skipping <%s> in <%s>", m.document, name, m.parentName())
		}
		if err := m.dec.Skip(); err != nil {
			return readError(err)
		}
		return nil
	}

	rec := entry.New()
	elem := rec.Elem()
	elem.XMLName = name
	elem.Line, _ = m.dec.InputPos()
	for _, attr := range se.Attr {
		if xmlutil.IsNamespaceDecl(attr) {
			continue
		}
		an, err := m.name(attr.Name, false)
		if err != nil {
			return err
		}
		elem.Attrs = append(elem.Attrs, Attr{Name: an, Value: attr.Value})
	}
	if binder, ok := rec.(AttrBinder); ok {
		for _, attr := range elem.Attrs {
			if err := binder.BindAttr(attr); err != nil {
				return err
			}
		}
	}

	m.stack = append(m.stack, frame{rec: rec, entry: entry})
	m.stats.Records++
	if d := len(m.stack); d > m.stats.MaxDepth {
		m.stats.MaxDepth = d
	}
	return nil
}

func (m *machine) close() error {
	f := m.stack[len(m.stack)-1]
	m.stack[len(m.stack)-1] = frame{}
	m.stack = m.stack[:len(m.stack)-1]
	m.scope.Pop()

	if fin, ok := f.rec.(Finalizer); ok {
		if err := fin.Finalize(); err != nil {
			return err
		}
	}

	if m.yield && f.entry.Yield {
		m.emitted = f.rec
		m.stats.Yielded++
		if glog.V(2) {
			glog.Infof("%s: yield <%s> #%d", m.document, f.entry.Name, m.stats.Yielded)
		}
		return nil
	}

	parent := m.top()
	if parent == nil {
		m.root = f.rec
		return nil
	}
	adder, ok := parent.rec.(ChildAdder)
	if !ok {
		return parent.rec.Elem().UnknownChild(f.rec)
	}
	return adder.AddChild(f.rec)
}

func (m *machine) text(cd xml.CharData) error {
	f := m.top()
	if f == nil {
		if len(bytes.TrimSpace(cd)) > 0 {
			return mderr.Malformed(mderr.WithMessage("character data outside the document element"))
		}
		return nil
	}
	if ta, ok := f.rec.(TextAppender); ok {
		ta.AppendText(cd)
		return nil
	}
	if trimmed := bytes.TrimSpace(cd); len(trimmed) > 0 {
		return mderr.UnexpectedText(f.rec.Elem().QName(), mderr.WithMessage("unexpected character data "+quoteText(trimmed)))
	}
	return nil
}

func quoteText(b []byte) string {
	const max = 32
	if len(b) > max {
		return `"` + string(b[:max]) + `..."`
	}
	return `"` + string(b) + `"`
}
