package source

import (
	"compress/bzip2"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Compression identifies the compression of a document.
type Compression uint8

const (
	// CompressionAuto chooses the compression by the location suffix.
	CompressionAuto Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZstd
	CompressionLZ4
	CompressionBzip2
)

func (c Compression) String() string {
	switch c {
	case CompressionAuto:
		return "auto"
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionBzip2:
		return "bzip2"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name as returned by String.
func ParseCompression(name string) (Compression, error) {
	for c := CompressionAuto; c <= CompressionBzip2; c++ {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown compression %q", name)
}

// CompressionFor returns the compression of the document at location,
// judged by its suffix.
func CompressionFor(location string) Compression {
	switch strings.ToLower(path.Ext(location)) {
	case ".gz":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	case ".bz2":
		return CompressionBzip2
	default:
		return CompressionNone
	}
}

// decompress returns a reader of r's decompressed content and, if the
// decompressor holds resources, its closer.
func decompress(c Compression, r io.Reader) (io.Reader, io.Closer, error) {
	switch c {
	case CompressionNone:
		return r, nil, nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, errors.Wrap(err, "gzip")
		}
		return zr, zr, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, errors.Wrap(err, "zstd")
		}
		rc := zr.IOReadCloser()
		return rc, rc, nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil, nil
	case CompressionBzip2:
		return bzip2.NewReader(r), nil, nil
	default:
		return nil, nil, errors.Errorf("unsupported compression %s", c)
	}
}
