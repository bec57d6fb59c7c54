// Package pkgxml binds the package records shared by the primary,
// filelists and patch documents of rpm-md repository metadata.
//
// Register adds the package element family to a document's registry.
// The record bound for each package element is made by a caller
// supplied Factory, so that callers may bind package elements to their
// own type embedding Package.
package pkgxml
