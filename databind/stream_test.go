package databind

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/andaru/repodata/mderr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader counts the bytes read from it and whether it was
// closed.
type countingReader struct {
	r      io.Reader
	n      int
	closed bool
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func (c *countingReader) Close() error {
	c.closed = true
	return nil
}

func TestStream(t *testing.T) {
	a := assert.New(t)
	s := NewStream(strings.NewReader(shelfDocument), shelfRegistry())
	defer s.Close()

	a.Nil(s.Root(), "no root before the stream is exhausted")
	var ids []string
	for s.Next() {
		b, ok := s.Record().(*book)
		require.True(t, ok, "record is %T", s.Record())
		ids = append(ids, b.ID)
		a.Equal(1, b.finalized)
	}
	require.NoError(t, s.Err())
	a.Equal([]string{"b1", "b2"}, ids)

	root, ok := s.Root().(*shelf)
	require.True(t, ok)
	a.Equal("fiction", root.Label)
	a.Empty(root.books(), "yielded records are not passed to the root")
	a.Equal(2, s.Stats().Yielded)

	a.False(s.Next(), "Next stays false")
	a.Nil(s.Record())
}

func TestStreamBoundedDepth(t *testing.T) {
	for _, n := range []int{1, 10, 1000} {
		s := NewStream(strings.NewReader(generateShelf(n)), shelfRegistry())
		records, err := Collect(s)
		require.NoError(t, err)
		require.Len(t, records, n)
		for i, rec := range records {
			b := rec.(*book)
			assert.Equal(t, int64(i+1), b.Pages)
		}
		assert.Equal(t, 3, s.Stats().MaxDepth, "n=%d", n)
		assert.Equal(t, n, s.Stats().Yielded)
		assert.Equal(t, 1+3*n, s.Stats().Records)
	}
}

func TestStreamError(t *testing.T) {
	a := assert.New(t)
	doc := `<shelf xmlns="urn:test:shelf"><book id="1"/><book id="2"><chapter/></book><book id="3"/></shelf>`
	s := NewStream(strings.NewReader(doc), shelfRegistry(), WithDocument("broken.xml"))

	require.True(t, s.Next())
	a.Equal("1", s.Record().(*book).ID)
	a.False(s.Next())
	a.True(mderr.IsUnknownElement(s.Err()), "got %v", s.Err())
	e, _ := mderr.As(s.Err())
	a.Equal("broken.xml", e.Document)
	a.Equal("chapter", e.Info.BadElement)
	a.Nil(s.Root())
	a.False(s.Next())
}

func TestStreamClose(t *testing.T) {
	a := assert.New(t)
	doc := generateShelf(20000)
	cr := &countingReader{r: strings.NewReader(doc)}
	ref := NewRef("generated.xml", &Schema{Name: "shelf", Registry: shelfRegistry()},
		func(ctx context.Context) (io.ReadCloser, error) { return cr, nil })

	s := ref.Open(context.Background())
	for i := 0; i < 2; i++ {
		require.True(t, s.Next())
	}
	a.NoError(s.Close())
	a.True(cr.closed)
	a.Less(cr.n, len(doc)/4, "the remainder is not read")
	a.False(s.Next())
	a.NoError(s.Err())
}

func TestStreamAll(t *testing.T) {
	a := assert.New(t)
	s := NewStream(strings.NewReader(generateShelf(5)), shelfRegistry())
	var ids []string
	for rec, err := range s.All() {
		require.NoError(t, err)
		ids = append(ids, rec.(*book).ID)
		if len(ids) == 3 {
			break
		}
	}
	a.Equal([]string{"b0", "b1", "b2"}, ids)
	a.False(s.Next(), "breaking out of All closes the stream")

	s = NewStream(strings.NewReader(`<shelf><book id="1"/><book id="2" x="y"/></shelf>`), shelfRegistry())
	var errs []error
	for rec, err := range s.All() {
		if err != nil {
			errs = append(errs, err)
			a.Nil(rec)
		}
	}
	require.Len(t, errs, 1)
	a.True(mderr.IsUnknownAttribute(errs[0]))
}

func TestSchemaStream(t *testing.T) {
	a := assert.New(t)
	tree := &Schema{
		Name:     "shelf",
		Registry: shelfRegistryWith(),
		Items:    func(root Record) []Record { return root.Elem().Children("book") },
	}
	a.False(tree.Streaming())

	s := tree.Stream(strings.NewReader(shelfDocument))
	records, err := Collect(s)
	require.NoError(t, err)
	require.Len(t, records, 2)
	a.Equal("b2", records[1].(*book).ID)
	root := s.Root().(*shelf)
	a.Len(root.books(), 2, "a built document keeps its children")

	// without Items the root is the only record
	tree.Items = nil
	records, err = Collect(tree.Stream(strings.NewReader(shelfDocument)))
	require.NoError(t, err)
	require.Len(t, records, 1)
	a.Equal("fiction", records[0].(*shelf).Label)

	streaming := &Schema{Name: "shelf", Registry: shelfRegistry()}
	a.True(streaming.Streaming())
	records, err = Collect(streaming.Stream(strings.NewReader(shelfDocument)))
	require.NoError(t, err)
	a.Len(records, 2)

	_, err = Collect(tree.Stream(strings.NewReader(`<shelf><bogus/></shelf>`)))
	a.True(mderr.IsUnknownElement(err))
}

func BenchmarkStream(b *testing.B) {
	doc := generateShelf(1000)
	reg := shelfRegistry()
	b.SetBytes(int64(len(doc)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewStream(strings.NewReader(doc), reg)
		for s.Next() {
		}
		if err := s.Err(); err != nil {
			b.Fatal(err)
		}
	}
}
