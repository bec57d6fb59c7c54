package databind

import (
	"fmt"
	"sort"
)

// Entry is a Registry entry for one qualified element name.
type Entry struct {
	Name Name
	New  Factory
	// Yield marks records which a Stream returns to its caller instead
	// of passing them to their parent.
	Yield bool
	// Skip marks elements whose subtree is discarded unread.
	Skip bool
}

// EntryOption is a Register option function.
type EntryOption func(*Entry)

// Yield marks the registered record type as a stream yield point.
func Yield() EntryOption { return func(e *Entry) { e.Yield = true } }

// Registry maps the element names of one document schema to record
// constructors. A Registry is built once and must not be changed once
// in use; it may then be shared by concurrent parses.
type Registry struct {
	schema     string
	entries    map[Name]Entry
	namespaces map[string]string
	streaming  bool
	root       *Name
}

// NewRegistry returns an empty registry for the named schema.
func NewRegistry(schema string) *Registry {
	return &Registry{schema: schema, entries: map[Name]Entry{}, namespaces: map[string]string{}}
}

// Schema returns the schema name the registry was created with.
func (r *Registry) Schema() string { return r.schema }

// Namespace declares that elements in the namespace uri are known to
// the schema by prefix, whatever prefix a document binds uri to.
func (r *Registry) Namespace(prefix, uri string) *Registry {
	r.namespaces[uri] = prefix
	return r
}

// Root declares the qualified name of the document element. Once
// declared, any other root element is an unknown-element error.
func (r *Registry) Root(name string) *Registry {
	n := ParseName(name)
	r.root = &n
	return r
}

// Register maps the qualified element name ("rpm:entry", "package")
// to the record Factory f. Registering a name twice panics.
func (r *Registry) Register(name string, f Factory, opts ...EntryOption) *Registry {
	if f == nil {
		panic(fmt.Sprintf("databind: nil Factory for %q in %s registry", name, r.schema))
	}
	e := Entry{Name: ParseName(name), New: f}
	for _, opt := range opts {
		opt(&e)
	}
	r.add(e)
	if e.Yield {
		r.streaming = true
	}
	return r
}

// Skip registers the qualified element name as known but ignored. The
// element and everything within it is discarded and its parent never
// sees it.
func (r *Registry) Skip(name string) *Registry {
	r.add(Entry{Name: ParseName(name), Skip: true})
	return r
}

func (r *Registry) add(e Entry) {
	if _, dup := r.entries[e.Name]; dup {
		panic(fmt.Sprintf("databind: %q registered twice in %s registry", e.Name, r.schema))
	}
	r.entries[e.Name] = e
}

// Resolve returns the entry for name, trying the qualified name first
// and then the unprefixed local name.
func (r *Registry) Resolve(name Name) (Entry, bool) {
	if e, ok := r.entries[name]; ok {
		return e, true
	}
	if name.Space != "" {
		e, ok := r.entries[Name{Local: name.Local}]
		return e, ok
	}
	return Entry{}, false
}

// Streaming returns true if any record type is a yield point.
func (r *Registry) Streaming() bool { return r.streaming }

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n.String())
	}
	sort.Strings(names)
	return names
}

// prefix returns the schema prefix declared for uri.
func (r *Registry) prefix(uri string) (string, bool) {
	p, ok := r.namespaces[uri]
	return p, ok
}

// declares returns true if prefix is declared for any namespace.
func (r *Registry) declares(prefix string) bool {
	for _, p := range r.namespaces {
		if p == prefix {
			return true
		}
	}
	return false
}

// isRoot returns true if e may be the document element. Skipped
// entries never are.
func (r *Registry) isRoot(e Entry) bool {
	if e.Skip {
		return false
	}
	return r.root == nil || e.Name == *r.root
}
