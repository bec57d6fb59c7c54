// Copyright 2018 Andrew Fort

// Package databind binds XML documents to typed records.
//
// A Registry maps element names to record constructors for one
// document schema. The binder reads tokens from an encoding/xml
// Decoder and, for each element, constructs the registered record,
// hands it the element's attributes and text, and on the closing tag
// finalizes it and passes it to its parent record's AddChild method.
//
// Documents are bound in one of two ways. Parse builds the whole
// document and returns the root record. A Stream builds the same tree
// but records registered with the Yield option are finalized and
// returned to the caller from Next as soon as their closing tag is
// read; they are never handed to their parent. Memory held by a Stream
// is bounded by the depth of the open element stack rather than the
// size of the document.
//
// Binding processing
//
// Each step of the binder's state machine consumes a single XML token;
//
//   xml.StartElement
//       The element's namespace URI is mapped back to a schema prefix
//       and the registry resolves the qualified name, first exactly
//       and then without the prefix. An unresolved name is an
//       unknown-element error. Names registered with Skip have their
//       whole subtree discarded. Otherwise the new record receives
//       its attributes (through BindAttr, when implemented) and is
//       pushed onto the stack.
//
//   xml.CharData
//       Text is appended to the record on top of the stack if it
//       implements TextAppender. Non-whitespace text is otherwise an
//       unexpected-text error.
//
//   xml.EndElement
//       The record is popped and finalized. It is then yielded (Stream
//       only), or passed to the AddChild method of the record below it
//       on the stack, or becomes the document root. A parent without
//       AddChild accepts no children.
//
// Every error is fatal to the document being bound.
//
// Cross-document references
//
// A Ref names a document by location and Schema. Nothing is read until
// the Stream returned by Ref.Open is first advanced, and each call to
// Open reads the document again from the start.
package databind
