package databind

import "github.com/andaru/repodata/xmlutil"

// Name is a qualified element or attribute name. Space holds the
// schema prefix the namespace is known by (for example "rpm"), not the
// namespace URI, and is empty for unprefixed names.
type Name struct {
	Space string
	Local string
}

// ParseName parses a "prefix:local" or "local" name.
func ParseName(s string) Name {
	prefix, local := xmlutil.SplitQName(s)
	return Name{Space: prefix, Local: local}
}

func (n Name) String() string { return xmlutil.JoinQName(n.Space, n.Local) }
