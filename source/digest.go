package source

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var digests = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha":    sha1.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// newDigest returns a hash for the rpm-md checksum type typ.
func newDigest(typ string) (hash.Hash, error) {
	if f, ok := digests[strings.ToLower(typ)]; ok {
		return f(), nil
	}
	return nil, errors.Errorf("unsupported checksum type %q", typ)
}

// digestReader hashes the bytes read through it. OnEOF, when set, is
// called once with the hex digest when R reaches EOF; its error is
// returned in place of io.EOF, then and on every later Read.
type digestReader struct {
	R     io.Reader
	H     hash.Hash
	OnEOF func(sum string) error

	sum string
	err error
}

func (d *digestReader) Read(p []byte) (n int, err error) {
	if d.err != nil {
		return 0, d.err
	}
	n, err = d.R.Read(p)
	d.H.Write(p[:n])
	if err == io.EOF {
		d.sum = hex.EncodeToString(d.H.Sum(nil))
		d.err = io.EOF
		if d.OnEOF != nil {
			if cerr := d.OnEOF(d.sum); cerr != nil {
				d.err = cerr
			}
			d.OnEOF = nil
		}
		err = d.err
	}
	return
}
