/*
Package repodata is a set of rpm-md repository metadata libraries.

Doing the heavy lifting of binding repository documents (repomd.xml,
primary, filelists, updateinfo, patches and patch descriptors) into
typed Go records, these libraries allow repository tools to read
catalogs of any size without holding them in memory.

Documents are bound by the schema-driven engine in the databind
sub-directory: each document type registers its element names against
record constructors, and the engine either builds the whole document
or streams the records marked as yield points. Unknown elements and
attributes are errors.

The repomd index refers to the other documents with deferred
references, opened through the source package, which fetches
documents from a directory or web server, decompresses them and
verifies their checksums.

See the repomdxml sub-directory for the entry point, and cmd/repodata
for a command line tool built on it.
*/
package repodata
