package xmlutil

import "strings"

// SplitQName splits the qualified name "prefix:local" into its prefix
// and local part. The prefix of an unqualified name is empty.
func SplitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i > -1 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// JoinQName returns the qualified name of local in prefix.
func JoinQName(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
