// Package mf3 reads and writes 3MF packages: ZIP containers holding
// XML-encoded 3D manufacturing models.
//
// Basic usage:
//
//	m, err := mf3.Open("part.3mf")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(len(m.Resources.Objects), "objects")
//
// With options:
//
//	cfg := parser.DefaultConfig().
//	    WithoutExtensions(model.ExtBeamLattice).
//	    WithKeyProvider(myKeys)
//	m, err := mf3.OpenWith("secure.3mf", cfg)
//
// Parsing always validates: resource IDs are unique, references resolve
// backwards only, component graphs are acyclic, and every enabled extension's
// semantic rules hold. A model returned without error is complete and
// consistent; on any failure the error carries a stable code and no model is
// returned.
//
// For finer control over container access, the lower-level opc, parser, and
// writer packages are also available.
package mf3

import (
	"io"

	"github.com/printforge/mf3/model"
	"github.com/printforge/mf3/opc"
	"github.com/printforge/mf3/parser"
	"github.com/printforge/mf3/writer"
)

// DefaultConfig returns the parser's default configuration: every built-in
// extension enabled, no key provider, no logging.
func DefaultConfig() *parser.Config {
	return parser.DefaultConfig()
}

// Open reads and validates the 3MF package at filename.
func Open(filename string) (*model.Model, error) {
	return OpenWith(filename, nil)
}

// OpenWith reads the package at filename under a custom parser configuration.
// A nil cfg means defaults: every built-in extension enabled, no key
// provider.
func OpenWith(filename string, cfg *parser.Config) (*model.Model, error) {
	pkg, err := opc.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	return parser.New(cfg).ParsePackage(pkg)
}

// OpenReader reads a package from an io.ReaderAt, typically a file opened by
// the caller or a memory-mapped region.
func OpenReader(ra io.ReaderAt, size int64) (*model.Model, error) {
	return OpenReaderWith(ra, size, nil)
}

// OpenReaderWith reads a package from an io.ReaderAt under a custom parser
// configuration.
func OpenReaderWith(ra io.ReaderAt, size int64, cfg *parser.Config) (*model.Model, error) {
	pkg, err := opc.OpenReader(ra, size)
	if err != nil {
		return nil, err
	}
	return parser.New(cfg).ParsePackage(pkg)
}

// Decode reads a package from an in-memory byte slice.
func Decode(data []byte) (*model.Model, error) {
	return DecodeWith(data, nil)
}

// DecodeWith reads an in-memory package under a custom parser configuration.
func DecodeWith(data []byte, cfg *parser.Config) (*model.Model, error) {
	pkg, err := opc.OpenBytes(data)
	if err != nil {
		return nil, err
	}
	return parser.New(cfg).ParsePackage(pkg)
}

// Write serializes a model as a complete single-part package.
func Write(out io.Writer, m *model.Model) error {
	return writer.New().WritePackage(out, m)
}

// Must panics on error; for tests and program initialization.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
