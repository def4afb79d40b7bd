package opc

import (
	"encoding/xml"
	"strings"

	"github.com/printforge/mf3/mferr"
)

// contentTypesXML mirrors the structure of [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name          `xml:"Types"`
	Defaults  []defaultTypeXML  `xml:"Default"`
	Overrides []overrideTypeXML `xml:"Override"`
}

type defaultTypeXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideTypeXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// contentTypes is the parsed content type declaration table.
type contentTypes struct {
	defaults  map[string]string // lowercase extension -> content type
	overrides map[string]string // part name (leading slash stripped) -> content type
}

// parseContentTypes reads and parses the mandatory [Content_Types].xml part.
func parseContentTypes(p *Package) (*contentTypes, error) {
	f := p.findFile(ContentTypesPart)
	if f == nil {
		return nil, mferr.New(mferr.CodeNoContentTypes, "package has no [Content_Types].xml")
	}
	data, err := p.Part(ContentTypesPart)
	if err != nil {
		return nil, err
	}

	var doc contentTypesXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, mferr.Wrap(mferr.CodeNoContentTypes, "invalid [Content_Types].xml", err)
	}

	ct := &contentTypes{
		defaults:  make(map[string]string, len(doc.Defaults)),
		overrides: make(map[string]string, len(doc.Overrides)),
	}
	for _, d := range doc.Defaults {
		ct.defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, o := range doc.Overrides {
		ct.overrides[strings.TrimPrefix(o.PartName, "/")] = o.ContentType
	}
	return ct, nil
}

// validate checks the declared content type for a part. An exact Override
// wins; otherwise a Default for the part's extension must match.
func (ct *contentTypes) validate(path, want string) error {
	normalized := strings.TrimPrefix(path, "/")
	if got, ok := ct.overrides[normalized]; ok {
		if got == want {
			return nil
		}
		return mferr.Newf(mferr.CodeContentType,
			"part %s declared as %q, want %q", path, got, want).WithPath(path)
	}
	ext := ""
	if i := strings.LastIndex(normalized, "."); i >= 0 {
		ext = strings.ToLower(normalized[i+1:])
	}
	if got, ok := ct.defaults[ext]; ok {
		if got == want {
			return nil
		}
		return mferr.Newf(mferr.CodeContentType,
			"part %s declared as %q, want %q", path, got, want).WithPath(path)
	}
	return mferr.Newf(mferr.CodeContentType,
		"no content type declared for part %s (want %q)", path, want).WithPath(path)
}

// typeOf looks up the declared content type for a part, if any.
func (ct *contentTypes) typeOf(path string) (string, bool) {
	normalized := strings.TrimPrefix(path, "/")
	if got, ok := ct.overrides[normalized]; ok {
		return got, true
	}
	ext := ""
	if i := strings.LastIndex(normalized, "."); i >= 0 {
		ext = strings.ToLower(normalized[i+1:])
	}
	got, ok := ct.defaults[ext]
	return got, ok
}

// ContentTypeOf returns the declared content type for a part, if declared.
func (p *Package) ContentTypeOf(path string) (string, bool) {
	return p.contentTypes.typeOf(path)
}
