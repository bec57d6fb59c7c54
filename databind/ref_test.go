package databind

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/andaru/repodata/mderr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingOpener struct {
	doc    string
	opens  int
	err    error
	reader *countingReader
}

func (o *countingOpener) open(ctx context.Context) (io.ReadCloser, error) {
	o.opens++
	if o.err != nil {
		return nil, o.err
	}
	o.reader = &countingReader{r: strings.NewReader(o.doc)}
	return o.reader, nil
}

func TestRefLazy(t *testing.T) {
	a := assert.New(t)
	opener := &countingOpener{doc: shelfDocument}
	ref := NewRef("shelf.xml", &Schema{Name: "shelf", Registry: shelfRegistry()}, opener.open)

	s := ref.Open(context.Background())
	a.Equal(0, opener.opens, "nothing is read until the stream is advanced")
	records, err := Collect(s)
	require.NoError(t, err)
	a.Len(records, 2)
	a.Equal(1, opener.opens)
	a.True(opener.reader.closed)

	// a second Open reads the document again
	records, err = Collect(ref.Open(context.Background()))
	require.NoError(t, err)
	a.Len(records, 2)
	a.Equal(2, opener.opens)

	// an unused stream never opens the document
	a.NoError(ref.Open(context.Background()).Close())
	a.Equal(2, opener.opens)
}

func TestRefErrors(t *testing.T) {
	a := assert.New(t)
	schema := &Schema{Name: "shelf", Registry: shelfRegistry()}

	opener := &countingOpener{err: errors.New("connection refused")}
	_, err := Collect(NewRef("shelf.xml", schema, opener.open).Open(context.Background()))
	a.EqualError(err, "open shelf.xml: connection refused")

	opener = &countingOpener{doc: `<shelf><book id="1"><pages>x</pages></book></shelf>`}
	_, err = Collect(NewRef("bad.xml", schema, opener.open).Open(context.Background()))
	e, ok := mderr.As(err)
	require.True(t, ok, "got %v", err)
	a.Equal(mderr.TagBadValue, e.Tag)
	a.Equal("bad.xml", e.Document)
	a.True(opener.reader.closed)

	_, err = Collect(ErrRef("other.xml", nil, mderr.NoParser("other")).Open(context.Background()))
	a.True(mderr.Is(err, mderr.TagNoParser))

	_, err = Collect(NewRef("nowhere.xml", schema, nil).Open(context.Background()))
	a.Error(err)
}

func TestRefContext(t *testing.T) {
	a := assert.New(t)
	opener := &countingOpener{doc: generateShelf(100)}
	ref := NewRef("generated.xml", &Schema{Name: "shelf", Registry: shelfRegistry()}, opener.open)

	ctx, cancel := context.WithCancel(context.Background())
	s := ref.Open(ctx)
	require.True(t, s.Next())
	cancel()
	a.False(s.Next())
	a.Equal(context.Canceled, s.Err())
	a.True(opener.reader.closed)

	// a cancelled context stops the stream before the document is opened
	opener = &countingOpener{doc: shelfDocument}
	ref = NewRef("shelf.xml", &Schema{Name: "shelf", Registry: shelfRegistry()}, opener.open)
	_, err := Collect(ref.Open(ctx))
	a.Equal(context.Canceled, err)
	a.Equal(0, opener.opens)
}
