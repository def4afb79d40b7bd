package mf3

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

func minimalPackage(t *testing.T) []byte {
	t.Helper()
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
 <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
 <Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
 <Relationship Id="rel0" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel" Target="/3D/3dmodel.model"/>
</Relationships>`,
		"3D/3dmodel.model": `<model unit="millimeter" xmlns="` + model.NSCore + `">
 <resources>
  <object id="1" name="pyramid">
   <mesh>
    <vertices>
     <vertex x="0" y="0" z="0"/>
     <vertex x="10" y="0" z="0"/>
     <vertex x="0" y="10" z="0"/>
     <vertex x="0" y="0" z="10"/>
    </vertices>
    <triangles>
     <triangle v1="0" v2="2" v3="1"/>
     <triangle v1="0" v2="1" v3="3"/>
     <triangle v1="0" v2="3" v3="2"/>
     <triangle v1="1" v2="2" v3="3"/>
    </triangles>
   </mesh>
  </object>
 </resources>
 <build>
  <item objectid="1"/>
 </build>
</model>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	m, err := Decode(minimalPackage(t))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	o, ok := m.Resources.FindObject(1)
	if !ok || o.Name != "pyramid" {
		t.Errorf("object = %+v", o)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyramid.3mf")
	if err := os.WriteFile(path, minimalPackage(t), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(m.Build.Items) != 1 {
		t.Errorf("build items = %d", len(m.Build.Items))
	}

	_, err = Open(filepath.Join(t.TempDir(), "absent.3mf"))
	if mferr.CodeOf(err) != mferr.CodeIO {
		t.Errorf("missing file error = %v", err)
	}
}

func TestWriteRereadable(t *testing.T) {
	m, err := Decode(minimalPackage(t))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	again, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode of rewritten package: %v", err)
	}
	if again.Resources.Count() != m.Resources.Count() {
		t.Errorf("resources = %d, want %d", again.Resources.Count(), m.Resources.Count())
	}
}
