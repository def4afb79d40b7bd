package opc

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/printforge/mf3/mferr"
)

// Well-known part names and relationship types.
const (
	ContentTypesPart = "[Content_Types].xml"
	RootRelsPart     = "_rels/.rels"

	RelTypeModel     = "http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"
	RelTypeThumbnail = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/thumbnail"
	RelTypeKeystore  = "http://schemas.microsoft.com/3dmanufacturing/2019/04/keystore"

	// ContentTypeModel is the declared content type of every model part.
	ContentTypeModel    = "application/vnd.ms-package.3dmanufacturing-3dmodel+xml"
	ContentTypeRels     = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeKeystore = "application/vnd.ms-package.3dmanufacturing-keystore+xml"
)

// Package is an open 3MF container.
type Package struct {
	zr           *zip.Reader
	contentTypes *contentTypes
	rootRels     []Relationship
}

// OpenReader opens a package from an io.ReaderAt.
func OpenReader(ra io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, mferr.Wrap(mferr.CodeArchive, "invalid or corrupted archive", err)
	}
	p := &Package{zr: zr}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

// OpenBytes opens a package from a byte slice.
func OpenBytes(data []byte) (*Package, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// OpenFile opens a package from a file on disk.
func OpenFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mferr.Wrap(mferr.CodeIO, "reading "+path, err)
	}
	return OpenBytes(data)
}

// init parses the mandatory container structure.
func (p *Package) init() error {
	ct, err := parseContentTypes(p)
	if err != nil {
		return err
	}
	p.contentTypes = ct

	rels, err := parseRelationships(p, RootRelsPart)
	if err != nil {
		return err
	}
	p.rootRels = rels
	return nil
}

// findFile locates a part by exact name, then with a leading slash stripped.
func (p *Package) findFile(path string) *zip.File {
	normalized := strings.TrimPrefix(path, "/")
	for _, f := range p.zr.File {
		if f.Name == path || f.Name == normalized {
			return f
		}
	}
	return nil
}

// HasPart reports whether the package contains the named part.
func (p *Package) HasPart(path string) bool {
	return p.findFile(path) != nil
}

// Part returns the named part's bytes.
func (p *Package) Part(path string) ([]byte, error) {
	f := p.findFile(path)
	if f == nil {
		return nil, mferr.New(mferr.CodeMissingPart, "missing part "+path).WithPath(path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, mferr.Wrap(mferr.CodeArchive, "opening part "+path, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, mferr.Wrap(mferr.CodeIO, "reading part "+path, err)
	}
	return data, nil
}

// Parts lists every part name in the container.
func (p *Package) Parts() []string {
	names := make([]string, 0, len(p.zr.File))
	for _, f := range p.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// ValidateContentType checks that path is declared with the expected content
// type, either through an exact Override or a Default for its extension.
func (p *Package) ValidateContentType(path, want string) error {
	return p.contentTypes.validate(path, want)
}

// RootModelPath returns the primary model part's path from the package
// relationships.
func (p *Package) RootModelPath() (string, error) {
	for _, rel := range p.rootRels {
		if rel.Type == RelTypeModel {
			return rel.Target, nil
		}
	}
	return "", mferr.New(mferr.CodeNoRootModel, "package has no 3D model relationship")
}

// ThumbnailPath returns the package thumbnail part's path, or "" when the
// package declares none.
func (p *Package) ThumbnailPath() string {
	for _, rel := range p.rootRels {
		if rel.Type == RelTypeThumbnail {
			return rel.Target
		}
	}
	return ""
}

// KeystorePath returns the keystore part's path, or "" when the package
// declares none.
func (p *Package) KeystorePath() string {
	for _, rel := range p.rootRels {
		if rel.Type == RelTypeKeystore {
			return rel.Target
		}
	}
	return ""
}

// PartRelationships parses the relationship part attached to the named part
// (its sibling _rels/<name>.rels). A missing relationship part yields an
// empty list.
func (p *Package) PartRelationships(path string) ([]Relationship, error) {
	relPath := relsPathFor(path)
	if !p.HasPart(relPath) {
		return nil, nil
	}
	return parseRelationships(p, relPath)
}

// relsPathFor maps a part path to its relationships part.
func relsPathFor(path string) string {
	path = strings.TrimPrefix(path, "/")
	dir, name := "", path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		dir, name = path[:i+1], path[i+1:]
	}
	return dir + "_rels/" + name + ".rels"
}
