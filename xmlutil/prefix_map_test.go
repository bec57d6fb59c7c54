package xmlutil

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
)

type strPair struct{ a, b string }

func TestPrefixMap(t *testing.T) {
	for _, tc := range []struct {
		attrs   []xml.Attr
		nsTest  []strPair
		pfxTest []strPair
	}{
		// #00: empty
		{},

		// #01
		{
			attrs: []xml.Attr{
				{Name: xname("pfx-b", "xmlns"), Value: "val-b"},
				{Name: xname("pfx-a", "xmlns"), Value: "val-a"},
				{Name: xname("pfx-c", "xmlns"), Value: "val-c"},
			},
			nsTest: []strPair{
				{a: "pfx-a", b: "val-a"},
				{a: "pfx-b", b: "val-b"},
				{a: "pfx-c", b: "val-c"},
			},
			pfxTest: []strPair{
				{b: "pfx-a", a: "val-a"},
				{b: "pfx-b", a: "val-b"},
				{b: "pfx-c", a: "val-c"},
			},
		},
	} {
		t.Run("", func(t *testing.T) {
			a := assert.New(t)
			pmap := NewPrefixMap(tc.attrs...)
			for _, tt := range tc.nsTest {
				a.Equal(tt.b, pmap.Namespace(tt.a))
			}
			for _, tt := range tc.pfxTest {
				var pfx string
				if pfxes := pmap.Prefix(tt.a); pfxes != nil {
					pfx = pfxes[0]
				}
				a.Equal(tt.b, pfx)
			}
			a.Len(pmap, len(tc.nsTest))
		})
	}
}

func TestPrefixMapDefault(t *testing.T) {
	a := assert.New(t)
	pmap := NewPrefixMap(
		xml.Attr{Name: xname("xmlns"), Value: "urn:default"},
		xml.Attr{Name: xname("rpm", "xmlns"), Value: "urn:rpm"},
		xml.Attr{Name: xname("type"), Value: "rpm"},
	)
	a.Len(pmap, 2)
	a.Equal("urn:default", pmap.Namespace(""))
	a.Equal([]string{""}, pmap.Prefix("urn:default"))
	a.Equal([]string{"rpm"}, pmap.Prefix("urn:rpm"))
	a.Nil(pmap.Prefix("rpm"))
}

func xname(local string, space ...string) xml.Name {
	n := xml.Name{Local: local}
	if len(space) > 0 {
		n.Space = space[0]
	}
	return n
}
