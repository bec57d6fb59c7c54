package databind

import (
	"fmt"
	"strings"
)

// A small two-namespace schema exercising the binder.

const nsExtra = "urn:test:extra"

type shelf struct {
	Element
	Label string
}

func (s *shelf) BindAttr(a Attr) error {
	switch a.Name.String() {
	case "label":
		s.Label = a.Value
	default:
		return s.UnknownAttr(a)
	}
	return nil
}

func (s *shelf) AddChild(c Record) error {
	if c.Elem().QName() != "book" {
		return s.UnknownChild(c)
	}
	s.Retain(c)
	return nil
}

func (s *shelf) books() (out []*book) {
	for _, c := range s.Children("book") {
		out = append(out, c.(*book))
	}
	return out
}

type book struct {
	Element
	ID        string
	Title     string
	Pages     int64
	Authors   []string
	Tags      []string
	finalized int
}

func (b *book) BindAttr(a Attr) error {
	switch a.Name.String() {
	case "id":
		b.ID = a.Value
	default:
		return b.UnknownAttr(a)
	}
	return nil
}

func (b *book) AddChild(c Record) (err error) {
	switch c.Elem().QName() {
	case "title":
		b.Title = StringOf(c)
	case "pages":
		b.Pages, err = IntegerOf(c)
	case "author":
		b.Authors = append(b.Authors, StringOf(c))
	case "x:tags":
		for _, tag := range c.Elem().Children("x:tag") {
			b.Tags = append(b.Tags, tag.Elem().AttrValue("name"))
		}
	default:
		return b.UnknownChild(c)
	}
	return err
}

func (b *book) Finalize() error {
	b.finalized++
	return nil
}

type tags struct {
	Element
}

func (t *tags) AddChild(c Record) error {
	if c.Elem().QName() != "x:tag" {
		return t.UnknownChild(c)
	}
	t.Retain(c)
	return nil
}

func shelfRegistry() *Registry { return shelfRegistryWith(Yield()) }

// shelfRegistryWith registers book with opts.
func shelfRegistryWith(opts ...EntryOption) *Registry {
	return NewRegistry("shelf").
		Namespace("x", nsExtra).
		Root("shelf").
		Register("shelf", func() Record { return &shelf{} }).
		Register("book", func() Record { return &book{} }, opts...).
		Register("title", NewString).
		Register("pages", NewInteger).
		Register("author", NewString).
		Register("x:tags", func() Record { return &tags{} }).
		Register("tag", NewPresence).
		Skip("x:comment")
}

// shelfDocument uses its own prefix for the extra namespace.
const shelfDocument = `<?xml version="1.0" encoding="UTF-8"?>
<shelf xmlns="urn:test:shelf" xmlns:e="urn:test:extra" label="fiction">
  <!-- two books -->
  <book id="b1">
    <title>Dune</title>
    <pages>412</pages>
    <author>Frank Herbert</author>
    <e:tags><e:tag name="sf"/><e:tag name="classic"/></e:tags>
  </book>
  <book id="b2">
    <title>  Good Omens </title>
    <pages>
      383
    </pages>
    <author>Terry Pratchett</author>
    <author>Neil Gaiman</author>
    <e:comment><anything at="all">text</anything></e:comment>
  </book>
</shelf>
`

// generateShelf returns a document holding n books.
func generateShelf(n int) string {
	var sb strings.Builder
	sb.WriteString(`<shelf xmlns="urn:test:shelf" label="generated">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<book id="b%d"><title>Title %d</title><pages>%d</pages></book>`, i, i, i+1)
	}
	sb.WriteString(`</shelf>`)
	return sb.String()
}
