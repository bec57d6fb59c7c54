package patchesxml

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/mderr"
	"github.com/andaru/repodata/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patchOne = `<patch xmlns="http://novell.com/package/metadata/suse/patch" xmlns:yum="http://linux.duke.edu/metadata/common" patchid="one-1">
  <yum:name>one</yum:name>
  <summary lang="en">First</summary>
  <yum:version ver="1" rel="0"/>
  <category>recommended</category>
</patch>`

const patchTwo = `<patch xmlns="http://novell.com/package/metadata/suse/patch" xmlns:yum="http://linux.duke.edu/metadata/common" patchid="two-1">
  <yum:name>two</yum:name>
  <yum:version ver="1" rel="0"/>
  <atoms>
    <package xmlns="http://linux.duke.edu/metadata/common" type="rpm"><name>two</name><arch>noarch</arch></package>
  </atoms>
</patch>`

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func patchesDocument(twoSum string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<patches xmlns="http://novell.com/package/metadata/suse/patches">
  <patch id="one-1">
    <checksum type="sha256">` + sha256Hex(patchOne) + `</checksum>
    <location href="repodata/patch-one-1.xml"/>
  </patch>
  <patch id="two-1">
    <checksum type="sha256">` + twoSum + `</checksum>
    <location href="repodata/patch-two-1.xml"/>
  </patch>
</patches>
`
}

// countingFetcher counts the documents fetched.
type countingFetcher struct {
	source.Fetcher
	fetched []string
}

func (c *countingFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	c.fetched = append(c.fetched, location)
	return c.Fetcher.Fetch(ctx, location)
}

func newRepository() (*source.Repository, *countingFetcher) {
	f := &countingFetcher{Fetcher: source.FS{FS: fstest.MapFS{
		"repodata/patch-one-1.xml": {Data: []byte(patchOne)},
		"repodata/patch-two-1.xml": {Data: []byte(patchTwo)},
	}}}
	return source.New(f), f
}

func TestPatches(t *testing.T) {
	a := assert.New(t)
	repo, fetcher := newRepository()
	root, err := Schema(repo, nil).Parse(strings.NewReader(patchesDocument(sha256Hex(patchTwo))))
	require.NoError(t, err)
	a.Empty(fetcher.fetched, "no descriptor is read while binding the list")

	patches := root.(*Patches).Entries()
	require.Len(t, patches, 2)
	a.Equal("one-1", patches[0].ID)
	a.Equal("sha256", patches[0].ChecksumType)
	a.Equal(sha256Hex(patchOne), patches[0].Checksum)
	a.Equal("repodata/patch-one-1.xml", patches[0].Location)
	a.Equal("repodata/patch-one-1.xml", patches[0].Ref.Location)
	a.Equal("patch", patches[0].Ref.Schema.Name)

	two, err := patches[1].Descriptor(context.Background())
	require.NoError(t, err)
	a.Equal([]string{"repodata/patch-two-1.xml"}, fetcher.fetched)
	a.Equal("two", two.Name)
	require.Len(t, two.Packages, 1)
	a.Equal("two", two.Packages[0].Name)

	one, err := patches[0].Descriptor(context.Background())
	require.NoError(t, err)
	a.Equal("First", one.Summary)
	a.Equal("recommended", one.Category)

	// each read fetches the descriptor again
	_, err = patches[0].Descriptor(context.Background())
	require.NoError(t, err)
	a.Len(fetcher.fetched, 3)
}

func TestPatchesStream(t *testing.T) {
	repo, _ := newRepository()
	records, err := databind.Collect(Schema(repo, nil).Stream(strings.NewReader(patchesDocument(sha256Hex(patchTwo)))))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "two-1", records[1].(*Patch).ID)
}

func TestPatchChecksumMismatch(t *testing.T) {
	repo, _ := newRepository()
	root, err := Schema(repo, nil).Parse(strings.NewReader(patchesDocument(sha256Hex("something else"))))
	require.NoError(t, err, "a bad descriptor does not fail the list")

	patches := root.(*Patches).Entries()
	_, err = patches[1].Descriptor(context.Background())
	assert.True(t, mderr.Is(err, mderr.TagChecksumMismatch), "got %v", err)
	_, err = patches[0].Descriptor(context.Background())
	assert.NoError(t, err)
}

func TestPatchesErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		tag   mderr.Tag
	}{
		{name: "unknown attribute", input: `<patches><patch id="a" name="b"><location href="x"/></patch></patches>`, tag: mderr.TagUnknownAttribute},
		{name: "unknown child", input: `<patches><patch id="a"><size>1</size></patch></patches>`, tag: mderr.TagUnknownElement},
		{name: "no location", input: `<patches><patch id="a"/></patches>`, tag: mderr.TagMissingElement},
		{name: "patch as root", input: `<patch id="a"><location href="x"/></patch>`, tag: mderr.TagUnknownElement},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Schema(nil, nil).Parse(strings.NewReader(tc.input))
			assert.True(t, mderr.Is(err, tc.tag), "got %v", err)
		})
	}
}

func TestPatchWithoutRepository(t *testing.T) {
	root, err := Schema(nil, nil).Parse(strings.NewReader(patchesDocument("")))
	require.NoError(t, err)
	_, err = root.(*Patches).Entries()[0].Descriptor(context.Background())
	assert.Error(t, err)
}
