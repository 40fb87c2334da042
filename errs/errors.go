// Package errs defines the sentinel errors shared by the hessian codec packages.
//
// Callers match them with errors.Is; call sites wrap them with fmt.Errorf("%w: ...")
// to attach context such as the offending byte offset or index.
package errs

import "errors"

var (
	// ErrUnexpectedEOF indicates the input ended in the middle of an encoded value.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrUnknownTag indicates a lead byte that the tag table does not recognize.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrUnexpectedKind indicates a decoded value of a different kind than the
	// operation required (e.g. a list length that is not an int).
	ErrUnexpectedKind = errors.New("unexpected value kind")

	// ErrTypeRefOutOfRange indicates a type back-reference index beyond the
	// type table built so far in the stream.
	ErrTypeRefOutOfRange = errors.New("type reference out of range")

	// ErrDefinitionRefOutOfRange indicates an object definition index beyond
	// the definition table built so far in the stream.
	ErrDefinitionRefOutOfRange = errors.New("definition reference out of range")

	// ErrInvalidUTF8 indicates a string payload that is not well-formed UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 payload")

	// ErrIO indicates a failure in the underlying sink or source.
	ErrIO = errors.New("i/o failure")

	// ErrUnsupportedReference is returned by consumers that refuse opaque
	// back-reference values.
	ErrUnsupportedReference = errors.New("unsupported reference resolution")

	// ErrUnsupportedMapKey indicates an attempt to use a Map as a map key.
	ErrUnsupportedMapKey = errors.New("unsupported map key kind")

	// ErrFieldMismatch indicates a struct field emitted out of order with
	// respect to its cached definition.
	ErrFieldMismatch = errors.New("field does not match definition")

	// ErrInvalidEnvelope indicates a compressed envelope with a bad magic
	// octet or compression type.
	ErrInvalidEnvelope = errors.New("invalid envelope header")
)
