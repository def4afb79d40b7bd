package parser

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
	"github.com/printforge/mf3/opc"
)

const testContentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
 <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
 <Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
 <Default Extension="png" ContentType="image/png"/>
</Types>`

const testRootRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
 <Relationship Id="rel0" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel" Target="/3D/3dmodel.model"/>
</Relationships>`

// tetraMesh is the smallest closed manifold: four vertices, four triangles.
const tetraMesh = `<mesh>
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
</mesh>`

func buildArchive(t *testing.T, parts map[string]string) []byte {
	t.Helper()
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

// parsePackage assembles a single-part package around modelXML and runs the
// full pipeline on it.
func parsePackage(t *testing.T, modelXML string, cfg *Config) (*model.Model, error) {
	t.Helper()
	return parseParts(t, map[string]string{"3D/3dmodel.model": modelXML}, cfg)
}

func parseParts(t *testing.T, parts map[string]string, cfg *Config) (*model.Model, error) {
	t.Helper()
	all := map[string]string{
		"[Content_Types].xml": testContentTypes,
		"_rels/.rels":         testRootRels,
	}
	for name, content := range parts {
		all[name] = content
	}
	pkg, err := opc.OpenBytes(buildArchive(t, all))
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	return New(cfg).ParsePackage(pkg)
}

func wantCode(t *testing.T, err error, code mferr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := mferr.CodeOf(err); got != code {
		t.Fatalf("error code = %s, want %s (%v)", got, code, err)
	}
}

func TestParseMinimalModel(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<model unit="inch" xml:lang="en-US" xmlns="` + model.NSCore + `">
 <metadata name="Title">Tetrahedron</metadata>
 <resources>
  <object id="1" name="tetra">` + tetraMesh + `</object>
 </resources>
 <build>
  <item objectid="1" transform="1 0 0 0 1 0 0 0 1 5 5 0"/>
 </build>
</model>`

	m, err := parsePackage(t, doc, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	if m.Unit != model.UnitInch {
		t.Errorf("unit = %v, want inch", m.Unit)
	}
	if m.Language != "en-US" {
		t.Errorf("language = %q", m.Language)
	}
	if m.Path != "/3D/3dmodel.model" {
		t.Errorf("path = %q", m.Path)
	}
	if len(m.Metadata) != 1 || m.Metadata[0].Name != "Title" || m.Metadata[0].Value != "Tetrahedron" {
		t.Errorf("metadata = %+v", m.Metadata)
	}
	o, ok := m.Resources.FindObject(1)
	if !ok {
		t.Fatal("object 1 missing")
	}
	if o.Name != "tetra" || o.Mesh == nil {
		t.Errorf("object = %+v", o)
	}
	if len(o.Mesh.Vertices) != 4 || len(o.Mesh.Triangles) != 4 {
		t.Errorf("mesh = %d vertices, %d triangles", len(o.Mesh.Vertices), len(o.Mesh.Triangles))
	}
	if len(m.Build.Items) != 1 || m.Build.Items[0].ObjectID != 1 {
		t.Errorf("build = %+v", m.Build)
	}
	if m.Build.Items[0].Transform == nil {
		t.Error("item transform missing")
	}
}

func TestRequiredExtensionByPrefixAndURI(t *testing.T) {
	byPrefix := `<model xmlns="` + model.NSCore + `" xmlns:s="` + model.NSSlice + `" requiredextensions="s">
 <resources><object id="1">` + tetraMesh + `</object></resources>
 <build><item objectid="1"/></build>
</model>`
	m, err := parsePackage(t, byPrefix, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	if !m.RequiresExtension(model.ExtSlice) {
		t.Error("slice extension should be recorded as required")
	}

	byURI := `<model xmlns="` + model.NSCore + `" requiredextensions="` + model.NSSlice + `">
 <resources><object id="1">` + tetraMesh + `</object></resources>
 <build><item objectid="1"/></build>
</model>`
	m, err = parsePackage(t, byURI, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	if !m.RequiresExtension(model.ExtSlice) {
		t.Error("slice extension should be recorded as required")
	}
}

func TestRequiredExtensionDisabledRejected(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `" xmlns:s="` + model.NSSlice + `" requiredextensions="s">
 <resources><object id="1">` + tetraMesh + `</object></resources>
 <build><item objectid="1"/></build>
</model>`
	cfg := DefaultConfig().WithoutExtensions(model.ExtSlice)
	_, err := parsePackage(t, doc, cfg)
	wantCode(t, err, mferr.CodeUnsupportedExtension)
}

func TestRequiredExtensionUnknownRejected(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `" requiredextensions="q">
 <resources/>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeUnsupportedExtension)
}

func TestUnknownCoreAttrRejected(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `" sturdiness="high">
 <resources/>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeUnknownAttr)
}

func TestForeignAttrAndElementIgnored(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `" xmlns:x="http://example.com/notes" x:reviewed="yes">
 <resources>
  <object id="1" x:reviewed="no">` + tetraMesh + `</object>
  <x:annotation><x:note>free text</x:note></x:annotation>
 </resources>
 <build><item objectid="1"/></build>
</model>`
	if _, err := parsePackage(t, doc, nil); err != nil {
		t.Fatalf("foreign content should be inert: %v", err)
	}
}

func TestDisabledExtensionContentIsInert(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `" xmlns:m="` + model.NSMaterial + `">
 <resources>
  <m:colorgroup id="7"><m:color color="#FF0000"/></m:colorgroup>
  <object id="1">` + tetraMesh + `</object>
 </resources>
 <build><item objectid="1"/></build>
</model>`
	cfg := DefaultConfig().WithoutExtensions(model.ExtMaterial)
	m, err := parsePackage(t, doc, cfg)
	if err != nil {
		t.Fatalf("disabled extension content should be skipped: %v", err)
	}
	if len(m.Resources.ColorGroups) != 0 {
		t.Errorf("color groups parsed despite disabled extension: %d", len(m.Resources.ColorGroups))
	}

	// With the extension enabled the same document yields the resource.
	m, err = parsePackage(t, doc, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	if _, ok := m.Resources.FindColorGroup(7); !ok {
		t.Error("color group 7 missing with material extension enabled")
	}
}

func TestObjectWithTwoShapesRejected(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `">
 <resources>
  <object id="1">` + tetraMesh + `
   <components><component objectid="1"/></components>
  </object>
 </resources>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeObjectContent)
}

func TestEmptyObjectRejected(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `">
 <resources><object id="1"/></resources>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeObjectEmpty)
}

func TestMissingRequiredAttr(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `">
 <resources><object>` + tetraMesh + `</object></resources>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeMissingAttr)
}

func TestBadNumericLiteral(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `">
 <resources>
  <object id="1"><mesh>
   <vertices><vertex x="wide" y="0" z="0"/></vertices>
   <triangles/>
  </mesh></object>
 </resources>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeBadLiteral)
}

func TestMalformedXMLRejected(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `"><resources>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeXMLSyntax)
}

func TestMetadataMustPrecedeResources(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `">
 <resources/>
 <metadata name="Title">late</metadata>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeBadElement)
}

func TestModelRequiresResourcesAndBuild(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `"><resources/></model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeBadElement)
}

func TestSliceExtensionAttrsParsed(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `" xmlns:s="` + model.NSSlice + `">
 <resources>
  <s:slicestack id="2" zbottom="0.5">
   <s:slice ztop="1">
    <s:vertices><s:vertex x="0" y="0"/><s:vertex x="1" y="0"/><s:vertex x="0" y="1"/></s:vertices>
    <s:polygon startv="0"><s:segment v2="1"/><s:segment v2="2"/><s:segment v2="0"/></s:polygon>
   </s:slice>
  </s:slicestack>
  <object id="1" s:slicestackid="2" s:meshresolution="lowres">` + tetraMesh + `</object>
 </resources>
 <build><item objectid="1"/></build>
</model>`
	m, err := parsePackage(t, doc, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	st, ok := m.Resources.FindSliceStack(2)
	if !ok {
		t.Fatal("slicestack 2 missing")
	}
	if st.BottomZ != 0.5 || len(st.Slices) != 1 {
		t.Errorf("stack = %+v", st)
	}
	if len(st.Slices[0].Polygons) != 1 || len(st.Slices[0].Polygons[0].Segments) != 3 {
		t.Errorf("slice geometry = %+v", st.Slices[0])
	}
	o, _ := m.Resources.FindObject(1)
	if o.SliceStackID != 2 {
		t.Errorf("slicestackid = %d", o.SliceStackID)
	}
	if o.SliceResolution != model.ResolutionLow {
		t.Errorf("meshresolution = %v", o.SliceResolution)
	}
}

func TestTrianglePropertyDefaults(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `">
 <resources>
  <basematerials id="5">
   <base name="steel" displaycolor="#CCCCCC"/>
   <base name="brass" displaycolor="#AA8844"/>
  </basematerials>
  <object id="1" pid="5" pindex="0"><mesh>
   <vertices>
    <vertex x="0" y="0" z="0"/>
    <vertex x="1" y="0" z="0"/>
    <vertex x="0" y="1" z="0"/>
   </vertices>
   <triangles>
    <triangle v1="0" v2="1" v3="2" pid="5" p1="1"/>
   </triangles>
  </mesh></object>
 </resources>
 <build/>
</model>`
	m, err := parsePackage(t, doc, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	o, _ := m.Resources.FindObject(1)
	tri := o.Mesh.Triangles[0]
	if !tri.HasPID || tri.PID != 5 || !tri.HasP1 {
		t.Errorf("triangle properties = %+v", tri)
	}
	// p2 and p3 default to p1 when absent.
	if tri.HasP23 || tri.P2 != 1 || tri.P3 != 1 {
		t.Errorf("p2/p3 defaulting: %+v", tri)
	}
}

func TestP2WithoutP1Rejected(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `">
 <resources>
  <object id="1"><mesh>
   <vertices>
    <vertex x="0" y="0" z="0"/>
    <vertex x="1" y="0" z="0"/>
    <vertex x="0" y="1" z="0"/>
   </vertices>
   <triangles><triangle v1="0" v2="1" v3="2" pid="5" p2="1"/></triangles>
  </mesh></object>
 </resources>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeUnknownAttr)
}

// recordingHandler counts custom-namespace elements it is offered.
type recordingHandler struct {
	seen []string
}

func (h *recordingHandler) Element(ctx *CustomContext) (CustomElementResult, error) {
	h.seen = append(h.seen, ctx.Local)
	return ElementIgnored, nil
}

func (h *recordingHandler) Validate(m *model.Model) error { return nil }

func TestCustomExtensionHandler(t *testing.T) {
	const ns = "http://example.com/scan"
	doc := `<model xmlns="` + model.NSCore + `" xmlns:sc2="` + ns + `" requiredextensions="sc2">
 <resources>
  <sc2:scanprofile name="fast"/>
  <object id="1">` + tetraMesh + `</object>
 </resources>
 <build><item objectid="1"/></build>
</model>`
	h := &recordingHandler{}
	cfg := DefaultConfig().WithCustomExtension(CustomExtension{
		Namespace: ns, Name: "scan", Handler: h,
	})
	m, err := parsePackage(t, doc, cfg)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	if len(h.seen) != 1 || h.seen[0] != "scanprofile" {
		t.Errorf("handler saw %v", h.seen)
	}
	if len(m.RequiredCustom) != 1 || m.RequiredCustom[0] != ns {
		t.Errorf("required custom = %v", m.RequiredCustom)
	}

	// Without the registration the same document must be rejected: the
	// package requires a namespace nobody can serve.
	_, err = parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeUnsupportedExtension)
}

func TestValidationRunsAfterParse(t *testing.T) {
	// Well-formed XML, but the component graph is cyclic.
	doc := `<model xmlns="` + model.NSCore + `">
 <resources>
  <object id="1"><components><component objectid="2"/></components></object>
  <object id="2"><components><component objectid="1"/></components></object>
 </resources>
 <build/>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeCircularRef)
}

func TestMissingReferencedPartRejected(t *testing.T) {
	doc := `<model xmlns="` + model.NSCore + `" xmlns:m="` + model.NSMaterial + `">
 <resources>
  <m:texture2d id="3" path="/3D/Textures/wood.png" contenttype="image/png"/>
  <object id="1">` + tetraMesh + `</object>
 </resources>
 <build><item objectid="1"/></build>
</model>`
	_, err := parsePackage(t, doc, nil)
	wantCode(t, err, mferr.CodeMissingFile)

	if _, err := parseParts(t, map[string]string{
		"3D/3dmodel.model":     doc,
		"3D/Textures/wood.png": "\x89PNG fake",
	}, nil); err != nil {
		t.Fatalf("texture part present, parse should succeed: %v", err)
	}
}
