package xmlutil

import "encoding/xml"

// NamespaceXML is the namespace URI bound to the reserved xml prefix.
const NamespaceXML = "http://www.w3.org/XML/1998/namespace"

// Scope is the stack of namespace declarations in effect while walking
// an XML document. Push is called for each start element and Pop for
// each end element.
type Scope struct {
	maps []PrefixMap
}

// NewScope returns a Scope holding only the reserved xml prefix.
func NewScope() *Scope {
	return &Scope{maps: []PrefixMap{{"xml": NamespaceXML}}}
}

// Push opens a new scope level with the declarations found in attrs.
func (s *Scope) Push(attrs []xml.Attr) { s.maps = append(s.maps, NewPrefixMap(attrs...)) }

// Pop closes the innermost scope level. The base level is never removed.
func (s *Scope) Pop() {
	if len(s.maps) > 1 {
		s.maps = s.maps[:len(s.maps)-1]
	}
}

// Depth returns the number of open levels above the base level.
func (s *Scope) Depth() int { return len(s.maps) - 1 }

// Namespace returns the namespace URI bound to prefix by the innermost
// declaration, and whether any declaration was found.
func (s *Scope) Namespace(prefix string) (string, bool) {
	for i := len(s.maps) - 1; i >= 0; i-- {
		if uri, ok := s.maps[i][prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

// Prefix returns the prefix through which nsURI is currently
// reachable. The default namespace wins over prefixed declarations,
// which are searched innermost first, lexically within a level.
// Prefixes shadowed by an inner declaration are not returned.
func (s *Scope) Prefix(nsURI string) (string, bool) {
	if def, ok := s.Namespace(""); ok && def == nsURI {
		return "", true
	}
	for i := len(s.maps) - 1; i >= 0; i-- {
		for _, pfx := range s.maps[i].Prefix(nsURI) {
			if pfx == "" {
				continue
			}
			if bound, _ := s.Namespace(pfx); bound == nsURI {
				return pfx, true
			}
		}
	}
	return "", false
}
