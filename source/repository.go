package source

import (
	"context"
	"io"
	"strings"

	"github.com/andaru/repodata/mderr"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Opener opens repository documents. *Repository implements Opener.
type Opener interface {
	Open(ctx context.Context, location string, opts ...Option) (*File, error)
}

// Repository opens the metadata documents of one repository.
type Repository struct {
	Fetcher Fetcher
	// NoVerify disables checksum verification; digests requested with
	// WithChecksum are still computed.
	NoVerify bool
}

// New returns a Repository fetching documents with f.
func New(f Fetcher) *Repository { return &Repository{Fetcher: f} }

// Option is an Open option function.
type Option func(*openConfig)

type openConfig struct {
	digest      string
	want        string
	compression Compression
}

// WithChecksum verifies the digest of the document's raw bytes, which
// must be the hex encoded checksum of type typ (e.g. "sha256"). Reading
// the document to its end fails with a checksum-mismatch error if the
// digest differs.
func WithChecksum(typ, checksum string) Option {
	return func(c *openConfig) {
		c.digest = typ
		c.want = strings.ToLower(strings.TrimSpace(checksum))
	}
}

// WithDigest computes the digest of type typ of the document's raw
// bytes, available from File.Sum once the document is read.
func WithDigest(typ string) Option {
	return func(c *openConfig) { c.digest = typ }
}

// WithDecompression overrides the compression chosen by the location's
// suffix.
func WithDecompression(comp Compression) Option {
	return func(c *openConfig) { c.compression = comp }
}

// Open returns the decompressed content of the document at location.
// The caller must Close the File.
func (r *Repository) Open(ctx context.Context, location string, opts ...Option) (*File, error) {
	cfg := &openConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.compression == CompressionAuto {
		cfg.compression = CompressionFor(location)
	}

	raw, err := r.Fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", location)
	}
	glog.V(1).Infof("opened %s (%s)", location, cfg.compression)

	f := &File{Location: location, closers: []io.Closer{raw}}
	var src io.Reader = raw
	if cfg.digest != "" {
		h, err := newDigest(cfg.digest)
		if err != nil {
			raw.Close()
			return nil, err
		}
		f.digest = &digestReader{R: raw, H: h}
		if cfg.want != "" && !r.NoVerify {
			typ, want := cfg.digest, cfg.want
			f.digest.OnEOF = func(sum string) error {
				if sum == want {
					return nil
				}
				return mderr.ChecksumMismatch(mderr.WithDocument(location),
					mderr.WithMessage(typ+" digest "+sum+", want "+want))
			}
		}
		src = f.digest
	}

	dr, closer, err := decompress(cfg.compression, src)
	if err != nil {
		raw.Close()
		return nil, errors.Wrapf(err, "open %s", location)
	}
	if closer != nil {
		f.closers = append([]io.Closer{closer}, f.closers...)
	}
	f.r = dr
	return f, nil
}

// File is an open document, implementing io.ReadCloser.
type File struct {
	Location string

	r       io.Reader
	digest  *digestReader
	closers []io.Closer
}

// Read reads the document's decompressed content. Reaching its end
// reads the raw document to its end, so that its digest is complete.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF && f.digest != nil {
		if _, derr := io.Copy(io.Discard, f.digest); derr != nil {
			return n, derr
		}
	}
	return n, err
}

// Sum returns the hex encoded digest of the document's raw bytes once
// they have been read to the end, or the empty string.
func (f *File) Sum() string {
	if f.digest == nil {
		return ""
	}
	return f.digest.sum
}

func (f *File) Close() (err error) {
	for _, c := range f.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	f.closers = nil
	return err
}

// OpenFunc returns a function opening the document at location from
// o. When checksum is set the document is verified against it.
func OpenFunc(o Opener, location, typ, checksum string) func(ctx context.Context) (io.ReadCloser, error) {
	return func(ctx context.Context) (io.ReadCloser, error) {
		var opts []Option
		if checksum != "" && typ != "" {
			opts = append(opts, WithChecksum(typ, checksum))
		}
		f, err := o.Open(ctx, location, opts...)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
