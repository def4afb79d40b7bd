// Package writer serializes models back into 3MF packages. Output is
// deterministic: the same model always produces byte-identical XML, with
// attributes in fixed order and floats in their shortest round-trippable
// form.
package writer

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/printforge/mf3/extensions"
	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
	"github.com/printforge/mf3/opc"
)

// Writer serializes models. The zero value is not usable; call New.
type Writer struct {
	reg *extensions.Registry
	log *zap.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithRegistry replaces the default extension registry. Registered handlers
// get a PreWrite hook before serialization and decide which namespaces the
// document declares.
func WithRegistry(reg *extensions.Registry) Option {
	return func(w *Writer) { w.reg = reg }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(w *Writer) { w.log = log }
}

// New returns a writer with the default extension registry.
func New(opts ...Option) *Writer {
	w := &Writer{
		reg: extensions.DefaultRegistry(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteModel encodes the model part XML to out, after running the
// registered PreWrite hooks.
func (w *Writer) WriteModel(out io.Writer, m *model.Model) error {
	if err := w.reg.PreWriteAll(m); err != nil {
		return err
	}
	enc := newModelEncoder(m, w.reg)
	data, err := enc.encode()
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return mferr.Wrap(mferr.CodeIO, "writing model part", err)
	}
	return nil
}

// WritePackage writes a complete single-part package: content types, package
// relationships, and the model part.
func (w *Writer) WritePackage(out io.Writer, m *model.Model) error {
	if err := w.reg.PreWriteAll(m); err != nil {
		return err
	}
	enc := newModelEncoder(m, w.reg)
	modelXML, err := enc.encode()
	if err != nil {
		return err
	}

	modelPath := m.Path
	if modelPath == "" {
		modelPath = "/3D/3dmodel.model"
	}

	zw := zip.NewWriter(out)
	write := func(name string, data []byte) error {
		f, err := zw.Create(name)
		if err != nil {
			return mferr.Wrap(mferr.CodeIO, "creating archive entry "+name, err)
		}
		if _, err := f.Write(data); err != nil {
			return mferr.Wrap(mferr.CodeIO, "writing archive entry "+name, err)
		}
		return nil
	}

	if err := write(strings.TrimPrefix(opc.ContentTypesPart, "/"), contentTypesXML()); err != nil {
		return err
	}
	if err := write(strings.TrimPrefix(opc.RootRelsPart, "/"), rootRelsXML(modelPath)); err != nil {
		return err
	}
	if err := write(strings.TrimPrefix(modelPath, "/"), modelXML); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return mferr.Wrap(mferr.CodeIO, "finalizing archive", err)
	}

	w.log.Debug("package written",
		zap.String("modelPath", modelPath),
		zap.Int("modelBytes", len(modelXML)))
	return nil
}

func contentTypesXML() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString("\n")
	fmt.Fprintf(&b, ` <Default Extension="rels" ContentType=%q/>`+"\n", opc.ContentTypeRels)
	fmt.Fprintf(&b, ` <Default Extension="model" ContentType=%q/>`+"\n", opc.ContentTypeModel)
	b.WriteString("</Types>\n")
	return []byte(b.String())
}

func rootRelsXML(modelPath string) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString("\n")
	fmt.Fprintf(&b, ` <Relationship Id="rel0" Type=%q Target=%q/>`+"\n",
		opc.RelTypeModel, modelPath)
	b.WriteString("</Relationships>\n")
	return []byte(b.String())
}
