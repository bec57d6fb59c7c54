package databind

import "io"

// Parse binds the whole document read from r using reg and returns the
// root record. Yield markers are ignored; every record is passed to
// its parent. Nothing is returned unless the whole document binds.
func Parse(r io.Reader, reg *Registry, opts ...Option) (Record, error) {
	m := newMachine(r, reg, false, opts)
	m.run()
	if m.statsOut != nil {
		*m.statsOut = m.stats
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.root, nil
}
