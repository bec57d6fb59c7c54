// Package inspect evaluates XPath expressions over metadata documents,
// independent of the binding schemas. It serves ad hoc queries and
// cross-checks of bound records against their source document.
package inspect

import (
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

// Query evaluates the XPath expression expr over the document read from
// r. Node sets are returned as the string value of each node in
// document order; other results as a single string.
func Query(r io.Reader, expr string) ([]string, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "xpath %q", expr)
	}
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return evaluate(doc, e), nil
}

func evaluate(doc *xmlquery.Node, e *xpath.Expr) []string {
	switch v := e.Evaluate(xmlquery.CreateXPathNavigator(doc)).(type) {
	case *xpath.NodeIterator:
		var out []string
		for v.MoveNext() {
			out = append(out, strings.TrimSpace(v.Current().Value()))
		}
		return out
	case float64:
		return []string{strconv.FormatFloat(v, 'f', -1, 64)}
	case bool:
		return []string{strconv.FormatBool(v)}
	case string:
		return []string{v}
	default:
		return nil
	}
}

var xpCountElements = xpath.MustCompile(`count(//*)`)

// CountElements returns the number of elements in the document read
// from r.
func CountElements(r io.Reader) (int, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return 0, errors.Wrap(err, "parse")
	}
	n, _ := xpCountElements.Evaluate(xmlquery.CreateXPathNavigator(doc)).(float64)
	return int(n), nil
}

// IndexEntry summarizes a data entry of a repomd document.
type IndexEntry struct {
	Type         string `json:"type"`
	Location     string `json:"location"`
	ChecksumType string `json:"checksum-type,omitempty"`
	Checksum     string `json:"checksum,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
}

var (
	xpRepoData     = xpath.MustCompile(`/repomd[namespace-uri()='http://linux.duke.edu/metadata/repo']/data`)
	xpDataLocation = xpath.MustCompile(`location`)
	xpDataChecksum = xpath.MustCompile(`checksum`)
	xpDataTime     = xpath.MustCompile(`timestamp`)
)

// Index lists the data entries of the repomd document read from r,
// tolerating elements no schema knows.
func Index(r io.Reader) ([]IndexEntry, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	var out []IndexEntry
	for _, n := range xmlquery.QuerySelectorAll(doc, xpRepoData) {
		entry := IndexEntry{Type: n.SelectAttr("type")}
		if loc := xmlquery.QuerySelector(n, xpDataLocation); loc != nil {
			entry.Location = loc.SelectAttr("href")
		}
		if sum := xmlquery.QuerySelector(n, xpDataChecksum); sum != nil {
			entry.ChecksumType = sum.SelectAttr("type")
			entry.Checksum = strings.TrimSpace(sum.InnerText())
		}
		if ts := xmlquery.QuerySelector(n, xpDataTime); ts != nil {
			entry.Timestamp = strings.TrimSpace(ts.InnerText())
		}
		out = append(out, entry)
	}
	return out, nil
}
