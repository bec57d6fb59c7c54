// Copyright 2018 Andrew Fort

// Package source supplies the byte streams of repository metadata
// documents.
//
// A Repository fetches documents by location, relative to the
// repository root, from a Fetcher: a local directory (or any fs.FS) or
// an HTTP server. Documents are decompressed according to their
// location's suffix (.gz, .zst, .lz4 or .bz2) and may have the digest
// of their raw bytes computed or verified as they are read.
package source
