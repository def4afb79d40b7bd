package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// xmlNamespace is the reserved namespace of xml:lang and friends.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// docParser builds one model part from its XML token stream.
type docParser struct {
	p    *Parser
	dec  *xml.Decoder
	m    *model.Model
	root bool

	// prefixes maps the root element's xmlns declarations, needed to
	// resolve requiredextensions entries given as prefixes.
	prefixes map[string]string
}

// parseModelPart parses one model part's XML into m.
func (p *Parser) parseModelPart(data []byte, m *model.Model, root bool) error {
	d := &docParser{
		p:        p,
		dec:      xml.NewDecoder(bytes.NewReader(data)),
		m:        m,
		root:     root,
		prefixes: make(map[string]string),
	}
	return d.run()
}

// run consumes the document prolog, dispatches the root element, and
// verifies nothing but whitespace follows it.
func (d *docParser) run() error {
prolog:
	for {
		tok, err := d.next()
		if err != nil {
			return err
		}
		if tok == nil {
			return mferr.New(mferr.CodeXMLSyntax, "document has no root element")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != model.NSCore || t.Name.Local != "model" {
				return mferr.Newf(mferr.CodeBadElement,
					"unexpected root element <%s> in namespace %q", t.Name.Local, t.Name.Space).
					WithElement(t.Name.Local)
			}
			if err := d.parseModel(t); err != nil {
				return err
			}
			break prolog
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return mferr.New(mferr.CodeXMLSyntax, "text outside root element")
			}
		}
		// ProcInst, Comment, Directive are ignored.
	}
	for {
		tok, err := d.next()
		if err != nil {
			return err
		}
		if tok == nil {
			return nil
		}
		if t, ok := tok.(xml.CharData); ok && len(bytes.TrimSpace(t)) > 0 {
			return mferr.New(mferr.CodeXMLSyntax, "text after root element")
		}
		if _, ok := tok.(xml.StartElement); ok {
			return mferr.New(mferr.CodeXMLSyntax, "multiple root elements")
		}
	}
}

// next returns the following token, nil at end of input. A tokenizer error
// is a syntax rejection.
func (d *docParser) next() (xml.Token, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, mferr.Wrap(mferr.CodeXMLSyntax, "malformed XML: "+err.Error(), err)
	}
	return tok, nil
}

// skip consumes the current element's subtree.
func (d *docParser) skip() error {
	if err := d.dec.Skip(); err != nil {
		return mferr.Wrap(mferr.CodeXMLSyntax, "malformed XML: "+err.Error(), err)
	}
	return nil
}

// readText collects the element's character content. Child elements are a
// grammar violation.
func (d *docParser) readText(elem string) (string, error) {
	var b strings.Builder
	for {
		tok, err := d.next()
		if err != nil {
			return "", err
		}
		if tok == nil {
			return "", mferr.New(mferr.CodeXMLSyntax, "unexpected end of input in <"+elem+">")
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			return b.String(), nil
		case xml.StartElement:
			return "", mferr.Newf(mferr.CodeBadElement,
				"unexpected element <%s> inside <%s>", t.Name.Local, elem).WithElement(elem)
		}
	}
}

// children iterates the current element's direct children, calling fn for
// each start element. fn must consume the child's whole subtree.
func (d *docParser) children(elem string, fn func(se xml.StartElement) error) error {
	for {
		tok, err := d.next()
		if err != nil {
			return err
		}
		if tok == nil {
			return mferr.New(mferr.CodeXMLSyntax, "unexpected end of input in <"+elem+">")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// extEnabled reports whether elements in ns are live for dispatch.
func (d *docParser) extEnabled(ns string) bool {
	ext, ok := model.ExtensionByNamespace(ns)
	return ok && d.p.cfg.Enabled(ext)
}

// foreign handles an element in a namespace that is not core and not an
// enabled built-in extension: registered custom namespaces go through the
// caller's hook, everything else is inert and skipped.
func (d *docParser) foreign(se xml.StartElement) error {
	if ce, ok := d.p.cfg.customFor(se.Name.Space); ok && ce.Handler != nil {
		res, err := ce.Handler.Element(&CustomContext{
			Namespace: se.Name.Space,
			Local:     se.Name.Local,
			Attrs:     se.Attr,
			Model:     d.m,
		})
		if err != nil {
			return err
		}
		if res == ElementHandled {
			// The handler saw the start tag only; the subtree is consumed
			// here so handler bugs cannot desynchronize the parser.
			return d.skip()
		}
	}
	return d.skip()
}

// isNamespaceDecl reports whether a is an xmlns declaration.
func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}

// strangeAttr decides the fate of an attribute no decoder claimed: core and
// enabled-extension attributes must be on the element's allow-list, inert
// namespaces are ignored.
func (d *docParser) strangeAttr(elem string, a xml.Attr) error {
	if isNamespaceDecl(a) || a.Name.Space == xmlNamespace {
		return nil
	}
	if a.Name.Space == "" || a.Name.Space == model.NSCore || d.extEnabled(a.Name.Space) {
		return mferr.Newf(mferr.CodeUnknownAttr,
			"attribute %q not allowed on <%s>", a.Name.Local, elem).
			WithElement(elem).WithAttr(a.Name.Local)
	}
	return nil
}

// missingAttr builds the rejection for a required attribute.
func missingAttr(elem, attr string) error {
	return mferr.Newf(mferr.CodeMissingAttr,
		"<%s> is missing required attribute %q", elem, attr).
		WithElement(elem).WithAttr(attr)
}

// badLiteral builds the rejection for an unparseable attribute value.
func badLiteral(elem, attr, value string) error {
	return mferr.Newf(mferr.CodeBadLiteral,
		"<%s> attribute %q has invalid value %q", elem, attr, value).
		WithElement(elem).WithAttr(attr)
}

func parseUint32(elem, attr, value string) (uint32, error) {
	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, badLiteral(elem, attr, value)
	}
	return uint32(v), nil
}

func parseFloat(elem, attr, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, badLiteral(elem, attr, value)
	}
	return v, nil
}

func parseBool(elem, attr, value string) (bool, error) {
	switch value {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, badLiteral(elem, attr, value)
}
