// Copyright 2018 Andrew Fort

// Package mderr defines the errors raised while binding repository
// metadata documents.
//
// Every error raised by the binding engine or a schema module is an
// *Error carrying a Tag and, where known, the offending element,
// attribute, namespace and parent record. Binding errors are fatal to
// the document being parsed; callers classify them with Is or As.
package mderr

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Tag is the class of a metadata error.
type Tag int

const (
	// TagUnknownElement is raised for an element the active record's
	// schema does not expect.
	TagUnknownElement Tag = iota
	// TagUnknownAttribute is raised for an attribute outside the
	// enumerated attribute set of an element.
	TagUnknownAttribute
	// TagUnknownNamespace is raised for an element in an undeclared
	// namespace.
	TagUnknownNamespace
	// TagUnexpectedText is raised for character data inside a record
	// which does not accept text.
	TagUnexpectedText
	// TagBadValue is raised when element text or an attribute value
	// cannot be coerced to the record's field type.
	TagBadValue
	// TagMissingElement is raised when a required child is absent.
	TagMissingElement
	// TagMalformed is raised for documents which are not well formed
	// or are structurally unusable (empty, multiple roots).
	TagMalformed
	// TagChecksumMismatch is raised when a document's digest does not
	// match the digest advertised for it.
	TagChecksumMismatch
	// TagNoParser is raised when a referenced document has no schema.
	TagNoParser
)

var tagNames = map[Tag]string{
	TagUnknownElement:   "unknown-element",
	TagUnknownAttribute: "unknown-attribute",
	TagUnknownNamespace: "unknown-namespace",
	TagUnexpectedText:   "unexpected-text",
	TagBadValue:         "bad-value",
	TagMissingElement:   "missing-element",
	TagMalformed:        "malformed-document",
	TagChecksumMismatch: "checksum-mismatch",
	TagNoParser:         "no-parser",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

func (t Tag) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tag) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	for tag, name := range tagNames {
		if name == string(b) {
			*t = tag
			return nil
		}
	}
	return errors.New("unknown value")
}

// Error is a metadata binding error.
type Error struct {
	Tag      Tag    `json:"error-tag"`
	Document string `json:"document,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"error-message,omitempty"`
	Info     *Info  `json:"error-info,omitempty"`
}

// Info names the parts of the document an Error is about.
type Info struct {
	BadElement   string `json:"bad-element,omitempty"`
	BadAttribute string `json:"bad-attribute,omitempty"`
	BadNamespace string `json:"bad-namespace,omitempty"`
	Parent       string `json:"parent,omitempty"`
}

func (e *Error) Error() string {
	s := "metadata error tag:" + e.Tag.String()
	if e.Document != "" {
		s += " document:" + e.Document
	}
	if e.Line > 0 {
		s += " line:" + strconv.Itoa(e.Line)
		if e.Column > 0 {
			s += ":" + strconv.Itoa(e.Column)
		}
	}
	if info := e.Info; info != nil {
		if info.BadElement != "" {
			s += " bad-element:" + info.BadElement
		}
		if info.BadAttribute != "" {
			s += " bad-attribute:" + info.BadAttribute
		}
		if info.BadNamespace != "" {
			s += " bad-namespace:" + info.BadNamespace
		}
		if info.Parent != "" {
			s += " parent:" + info.Parent
		}
	}
	if e.Message != "" {
		s += " " + e.Message
	}
	return s
}

func newError(tag Tag, info *Info, opts []Option) *Error {
	e := &Error{Tag: tag, Info: info}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UnknownElement returns an error for element found within parent
// where parent's schema does not expect it. parent is empty for the
// document root.
func UnknownElement(element, parent string, opts ...Option) *Error {
	return newError(TagUnknownElement, &Info{BadElement: element, Parent: parent}, opts)
}

// UnknownAttribute returns an error for attribute on element.
func UnknownAttribute(attribute, element string, opts ...Option) *Error {
	return newError(TagUnknownAttribute, &Info{BadAttribute: attribute, BadElement: element}, opts)
}

func UnknownNamespace(element, namespace string, opts ...Option) *Error {
	return newError(TagUnknownNamespace, &Info{BadElement: element, BadNamespace: namespace}, opts)
}

func UnexpectedText(element string, opts ...Option) *Error {
	return newError(TagUnexpectedText, &Info{BadElement: element}, opts)
}

// BadValue returns an error for an uncoercible value. attribute is
// empty when the value is the element's text.
func BadValue(element, attribute string, opts ...Option) *Error {
	return newError(TagBadValue, &Info{BadElement: element, BadAttribute: attribute}, opts)
}

func MissingElement(element, parent string, opts ...Option) *Error {
	return newError(TagMissingElement, &Info{BadElement: element, Parent: parent}, opts)
}

func Malformed(opts ...Option) *Error { return newError(TagMalformed, nil, opts) }

func ChecksumMismatch(opts ...Option) *Error { return newError(TagChecksumMismatch, nil, opts) }

// NoParser returns an error for a referenced document of type docType
// which no schema module handles.
func NoParser(docType string, opts ...Option) *Error {
	return newError(TagNoParser, nil, append([]Option{WithMessage("no parser for document type " + strconv.Quote(docType))}, opts...))
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err's chain holds an *Error tagged tag.
func Is(err error, tag Tag) bool {
	e, ok := As(err)
	return ok && e.Tag == tag
}

// TagOf returns the tag of the *Error in err's chain.
func TagOf(err error) (Tag, bool) {
	if e, ok := As(err); ok {
		return e.Tag, true
	}
	return 0, false
}

func IsUnknownElement(err error) bool   { return Is(err, TagUnknownElement) }
func IsUnknownAttribute(err error) bool { return Is(err, TagUnknownAttribute) }

// Locate sets the document name and input position on the *Error in
// err's chain where they are not already set. err is returned as is.
func Locate(err error, document string, line, column int) error {
	if e, ok := As(err); ok {
		if e.Document == "" {
			e.Document = document
		}
		if e.Line == 0 {
			e.Line, e.Column = line, column
		}
	}
	return err
}
