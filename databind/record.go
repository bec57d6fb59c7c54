package databind

import (
	"strconv"
	"strings"

	"github.com/andaru/repodata/mderr"
)

// Record is a typed node bound from one element. Record types embed
// Element, which provides the Elem method.
type Record interface {
	Elem() *Element
}

// ChildAdder is implemented by records which accept child elements.
// AddChild is called with each child record once the child is
// complete. It either copies what it needs from the child, retains the
// child with Element.Retain, or returns an error for children the
// schema does not allow.
type ChildAdder interface {
	AddChild(child Record) error
}

// AttrBinder is implemented by records which enumerate their
// attributes. BindAttr is called for every attribute of the opening
// tag, other than namespace declarations, before any child is added.
type AttrBinder interface {
	BindAttr(attr Attr) error
}

// Finalizer is implemented by records needing work once all of their
// children have been added. Finalize is called exactly once.
type Finalizer interface {
	Finalize() error
}

// TextAppender is implemented by records accepting character data.
type TextAppender interface {
	AppendText(text []byte)
}

// Factory returns a new, empty record.
type Factory func() Record

// Attr is an attribute of an element.
type Attr struct {
	Name  Name
	Value string
}

// Element carries what the binder knows about any element: its
// qualified name, attributes, the input line it started on and the
// children its record chose to retain.
type Element struct {
	XMLName Name
	Attrs   []Attr
	Line    int

	children []Record
}

// Elem returns e, so that embedding Element implements Record.
func (e *Element) Elem() *Element { return e }

// QName returns the qualified element name, e.g. "rpm:entry".
func (e *Element) QName() string { return e.XMLName.String() }

// Attr returns the value of the attribute with the qualified name.
func (e *Element) Attr(name string) (string, bool) {
	n := ParseName(name)
	for _, a := range e.Attrs {
		if a.Name == n {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute, or the empty
// string.
func (e *Element) AttrValue(name string) string {
	v, _ := e.Attr(name)
	return v
}

// Retain appends child to e's ordered child collection.
func (e *Element) Retain(child Record) { e.children = append(e.children, child) }

// Children returns the retained children with any of the qualified
// names given, in document order. All retained children are returned
// when no name is given.
func (e *Element) Children(names ...string) []Record {
	if len(names) == 0 {
		return e.children
	}
	var out []Record
	for _, child := range e.children {
		qn := child.Elem().QName()
		for _, name := range names {
			if qn == name {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// UnknownChild returns the error for a child e does not accept.
func (e *Element) UnknownChild(child Record) error {
	return mderr.UnknownElement(child.Elem().QName(), e.QName(), mderr.WithLine(child.Elem().Line, 0))
}

// UnknownAttr returns the error for an attribute e does not accept.
func (e *Element) UnknownAttr(attr Attr) error {
	return mderr.UnknownAttribute(attr.Name.String(), e.QName(), mderr.WithLine(e.Line, 0))
}

// IntAttr parses attr's value as a base 10 integer.
func (e *Element) IntAttr(attr Attr) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(attr.Value), 10, 64)
	if err != nil {
		return 0, mderr.BadValue(e.QName(), attr.Name.String(),
			mderr.WithLine(e.Line, 0), mderr.WithMessage(strconv.Quote(attr.Value)+" is not an integer"))
	}
	return v, nil
}

// IntAttrValue parses the named attribute as a base 10 integer. A
// missing attribute is zero.
func (e *Element) IntAttrValue(name string) (int64, error) {
	v, ok := e.Attr(name)
	if !ok {
		return 0, nil
	}
	return e.IntAttr(Attr{Name: ParseName(name), Value: v})
}

// Text is an element accepting character data. It is embedded by the
// leaf record kinds.
type Text struct {
	Element
	buf []byte
}

func (t *Text) AppendText(b []byte) { t.buf = append(t.buf, b...) }

// Raw returns the untrimmed text accumulated so far.
func (t *Text) Raw() string { return string(t.buf) }

// String is a leaf record whose value is its trimmed text.
type String struct {
	Text
	Value string
}

// NewString is the Factory for String records.
func NewString() Record { return &String{} }

func (s *String) Finalize() error {
	s.Value = strings.TrimSpace(string(s.buf))
	s.buf = nil
	return nil
}

// Integer is a leaf record whose text is a base 10 integer.
type Integer struct {
	Text
	Value int64
}

// NewInteger is the Factory for Integer records.
func NewInteger() Record { return &Integer{} }

func (n *Integer) Finalize() error {
	text := strings.TrimSpace(string(n.buf))
	n.buf = nil
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return mderr.BadValue(n.QName(), "",
			mderr.WithLine(n.Line, 0), mderr.WithMessage(strconv.Quote(text)+" is not an integer"))
	}
	n.Value = v
	return nil
}

// Bool is a leaf record whose text is a boolean. An empty element is
// true.
type Bool struct {
	Text
	Value bool
}

// NewBool is the Factory for Bool records.
func NewBool() Record { return &Bool{} }

func (b *Bool) Finalize() error {
	text := strings.ToLower(strings.TrimSpace(string(b.buf)))
	b.buf = nil
	switch text {
	case "", "1", "true", "yes":
		b.Value = true
	case "0", "false", "no":
		b.Value = false
	default:
		return mderr.BadValue(b.QName(), "",
			mderr.WithLine(b.Line, 0), mderr.WithMessage(strconv.Quote(text)+" is not a boolean"))
	}
	return nil
}

// Presence is a leaf record for marker elements, whose only content
// is their presence. It accepts any attribute and no text.
type Presence struct {
	Element
}

// NewPresence is the Factory for Presence records.
func NewPresence() Record { return &Presence{} }

// StringOf returns the value of a String record, or the empty string
// for any other record.
func StringOf(r Record) string {
	if s, ok := r.(*String); ok {
		return s.Value
	}
	return ""
}

// IntegerOf returns the value of an Integer record.
func IntegerOf(r Record) (int64, error) {
	if n, ok := r.(*Integer); ok {
		return n.Value, nil
	}
	return 0, mderr.BadValue(r.Elem().QName(), "", mderr.WithLine(r.Elem().Line, 0),
		mderr.WithMessage("element is not bound as an integer"))
}

// BoolOf returns the value of a Bool record. Any other record is true,
// as the element is present.
func BoolOf(r Record) bool {
	if b, ok := r.(*Bool); ok {
		return b.Value
	}
	return true
}
