// Package mferr defines the typed error surface shared by every stage of the
// 3MF pipeline.
//
// Errors carry a stable code so callers can react programmatically without
// string matching. Code prefixes group by stage:
//
//   - E1xxx  input/output
//   - E2xxx  archive and package structure
//   - E3xxx  XML syntax and per-element grammar
//   - E4xxx  model and cross-reference validation
//   - E5xxx  extension and feature support
package mferr

import (
	"errors"
	"fmt"
)

// Code identifies a rejection reason.
type Code string

// Input/output.
const (
	CodeIO Code = "E1001"
)

// Archive and package structure.
const (
	CodeArchive        Code = "E2001"
	CodeNoContentTypes Code = "E2002"
	CodeMissingPart    Code = "E2003"
	CodeContentType    Code = "E2004"
	CodeNoRootModel    Code = "E2005"
	CodeDupRelID       Code = "E2006"
)

// XML syntax and element grammar.
const (
	CodeXMLSyntax     Code = "E3001"
	CodeMissingAttr   Code = "E3101"
	CodeUnknownAttr   Code = "E3102"
	CodeBadLiteral    Code = "E3103"
	CodeObjectContent Code = "E3104"
	CodeObjectEmpty   Code = "E3105"
	CodeBadElement    Code = "E3106"
)

// Model and cross-reference validation.
const (
	CodeDuplicateID    Code = "E4001"
	CodeForwardRef     Code = "E4002"
	CodeCircularRef    Code = "E4003"
	CodeDanglingRef    Code = "E4004"
	CodeMissingFile    Code = "E4005"
	CodeInvalidModel   Code = "E4006"
	CodeSliceOrder     Code = "E4007"
	CodeBadPartPath    Code = "E4101"
	CodeNestedPartRef  Code = "E4102"
	CodePartCycle      Code = "E4103"
	CodeSecureContent  Code = "E4501"
	CodeConsumerIndex  Code = "E4502"
	CodeKeystoreFormat Code = "E4503"
)

// Extension and feature support.
const (
	CodeUnsupportedExtension Code = "E5001"
	CodeNoKeyProvider        Code = "E5002"
)

// Error is a rejection with a stable code and, where known, the identifiers
// needed to act on it without re-parsing the document.
type Error struct {
	Code    Code
	Message string

	// Optional context. Zero values mean "not applicable".
	ResourceID uint32
	RefID      uint32
	Element    string
	Attr       string
	Path       string

	wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Unwrap supports errors.Is and errors.As chains.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is matches another *Error by code only, so callers can test against a bare
// New(code, "") sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New returns an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf returns an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause to a coded error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, wrapped: cause}
}

// WithResource returns a copy of e annotated with the offending resource ID.
func (e *Error) WithResource(id uint32) *Error {
	c := *e
	c.ResourceID = id
	return &c
}

// WithRef returns a copy of e annotated with the referenced resource ID.
func (e *Error) WithRef(id uint32) *Error {
	c := *e
	c.RefID = id
	return &c
}

// WithElement returns a copy of e annotated with the offending element name.
func (e *Error) WithElement(name string) *Error {
	c := *e
	c.Element = name
	return &c
}

// WithAttr returns a copy of e annotated with the offending attribute name.
func (e *Error) WithAttr(name string) *Error {
	c := *e
	c.Attr = name
	return &c
}

// WithPath returns a copy of e annotated with the offending part path.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
}

// CodeOf extracts the code from err, or the empty string when err carries
// no *Error in its chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
