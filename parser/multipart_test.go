package parser

import (
	"testing"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

const subMeshPart = `<model xmlns="` + model.NSCore + `">
 <resources>
  <object id="1">` + tetraMesh + `</object>
 </resources>
 <build/>
</model>`

func TestComponentPathSpliceRemapsCollidingID(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources>
  <object id="1">
   <components><component objectid="1" p:path="/3D/other.model"/></components>
  </object>
 </resources>
 <build><item objectid="1"/></build>
</model>`

	m, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": root,
		"3D/other.model":   subMeshPart,
	}, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	if len(m.Resources.Objects) != 2 {
		t.Fatalf("objects = %d, want 2", len(m.Resources.Objects))
	}

	// The referenced part declares object 1, which collides with the root's
	// own object 1 and must come in under a fresh ID.
	c := m.Resources.Objects[0].Components[0]
	if c.ObjectID == 1 {
		t.Fatal("colliding object ID was not remapped")
	}
	if c.Path != "/3D/other.model" {
		t.Errorf("component path = %q, should stay recorded", c.Path)
	}
	spliced, ok := m.Resources.FindObject(c.ObjectID)
	if !ok {
		t.Fatalf("spliced object %d missing", c.ObjectID)
	}
	if spliced.Mesh == nil || len(spliced.Mesh.Triangles) != 4 {
		t.Errorf("spliced object = %+v", spliced)
	}
}

func TestBuildItemPathKeepsIdentityWithoutCollision(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources/>
 <build><item objectid="1" p:path="/3D/other.model"/></build>
</model>`

	m, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": root,
		"3D/other.model":   subMeshPart,
	}, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	item := m.Build.Items[0]
	if item.ObjectID != 1 {
		t.Errorf("no collision, ID should stay 1, got %d", item.ObjectID)
	}
	if !item.ResolvedPath {
		t.Error("item should be marked resolved")
	}
	if item.Path != "/3D/other.model" {
		t.Errorf("item path = %q", item.Path)
	}
	if _, ok := m.Resources.FindObject(1); !ok {
		t.Error("spliced object 1 missing from root resources")
	}
}

func TestReferencedPartIsParsedOnce(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources>
  <object id="10">
   <components>
    <component objectid="1" p:path="/3D/other.model"/>
    <component objectid="1" p:path="/3D/other.model"/>
   </components>
  </object>
 </resources>
 <build><item objectid="10"/></build>
</model>`

	m, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": root,
		"3D/other.model":   subMeshPart,
	}, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	// One part, one splice: both components resolve to the same object.
	if len(m.Resources.Objects) != 2 {
		t.Fatalf("objects = %d, want 2", len(m.Resources.Objects))
	}
	comps := m.Resources.Objects[0].Components
	if comps[0].ObjectID != comps[1].ObjectID {
		t.Errorf("components resolved to different objects: %d vs %d",
			comps[0].ObjectID, comps[1].ObjectID)
	}
}

func TestNestedPartReferenceRejected(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources/>
 <build><item objectid="1" p:path="/3D/middle.model"/></build>
</model>`
	middle := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources>
  <object id="1">
   <components><component objectid="1" p:path="/3D/deep.model"/></components>
  </object>
 </resources>
 <build/>
</model>`

	_, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": root,
		"3D/middle.model":  middle,
		"3D/deep.model":    subMeshPart,
	}, nil)
	wantCode(t, err, mferr.CodeNestedPartRef)
}

func TestRootReferencingItselfIsACycle(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources>
  <object id="1">
   <components><component objectid="2" p:path="/3D/3dmodel.model"/></components>
  </object>
 </resources>
 <build><item objectid="1"/></build>
</model>`
	_, err := parseParts(t, map[string]string{"3D/3dmodel.model": root}, nil)
	wantCode(t, err, mferr.CodePartCycle)
}

func TestPartReferencingRootBreaksOneHopRule(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources/>
 <build><item objectid="1" p:path="/3D/other.model"/></build>
</model>`
	back := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources>
  <object id="1">
   <components><component objectid="1" p:path="/3D/3dmodel.model"/></components>
  </object>
 </resources>
 <build/>
</model>`

	_, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": root,
		"3D/other.model":   back,
	}, nil)
	wantCode(t, err, mferr.CodeNestedPartRef)
}

const subSlicePart = `<model xmlns="` + model.NSCore + `" xmlns:s="` + model.NSSlice + `">
 <resources>
  <s:slicestack id="1">
   <s:slice ztop="1">
    <s:vertices><s:vertex x="0" y="0"/><s:vertex x="1" y="0"/><s:vertex x="0" y="1"/></s:vertices>
    <s:polygon startv="0"><s:segment v2="1"/><s:segment v2="2"/><s:segment v2="0"/></s:polygon>
   </s:slice>
   <s:slice ztop="2">
    <s:vertices><s:vertex x="0" y="0"/><s:vertex x="1" y="0"/><s:vertex x="0" y="1"/></s:vertices>
    <s:polygon startv="0"><s:segment v2="1"/><s:segment v2="2"/><s:segment v2="0"/></s:polygon>
   </s:slice>
  </s:slicestack>
 </resources>
 <build/>
</model>`

func sliceRefRoot(path string) string {
	return `<model xmlns="` + model.NSCore + `" xmlns:s="` + model.NSSlice + `">
 <resources>
  <s:slicestack id="2">
   <s:sliceref slicestackid="1" slicepath="` + path + `"/>
  </s:slicestack>
  <object id="1" s:slicestackid="2">` + tetraMesh + `</object>
 </resources>
 <build><item objectid="1"/></build>
</model>`
}

func TestSliceRefSplicedFromSlicePart(t *testing.T) {
	m, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": sliceRefRoot("/2D/slices.model"),
		"2D/slices.model":  subSlicePart,
	}, nil)
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	st, ok := m.Resources.FindSliceStack(2)
	if !ok {
		t.Fatal("slicestack 2 missing")
	}
	if len(st.Slices) != 2 {
		t.Fatalf("spliced slices = %d, want 2", len(st.Slices))
	}
	if st.Slices[0].TopZ != 1 || st.Slices[1].TopZ != 2 {
		t.Errorf("slice heights = %g, %g", st.Slices[0].TopZ, st.Slices[1].TopZ)
	}
	if len(st.Refs) != 1 || !st.Refs[0].Resolved {
		t.Errorf("refs = %+v", st.Refs)
	}
}

func TestSliceRefOutside2DRejected(t *testing.T) {
	_, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": sliceRefRoot("/3D/slices.model"),
		"3D/slices.model":  subSlicePart,
	}, nil)
	wantCode(t, err, mferr.CodeBadPartPath)
}

func TestSliceRefDanglingStackRejected(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:s="` + model.NSSlice + `">
 <resources>
  <s:slicestack id="2">
   <s:sliceref slicestackid="9" slicepath="/2D/slices.model"/>
  </s:slicestack>
 </resources>
 <build/>
</model>`
	_, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": root,
		"2D/slices.model":  subSlicePart,
	}, nil)
	wantCode(t, err, mferr.CodeDanglingRef)
}

func TestInlineSlicesMixedWithRefRejected(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:s="` + model.NSSlice + `">
 <resources>
  <s:slicestack id="2">
   <s:slice ztop="0.5">
    <s:vertices><s:vertex x="0" y="0"/><s:vertex x="1" y="0"/><s:vertex x="0" y="1"/></s:vertices>
    <s:polygon startv="0"><s:segment v2="1"/><s:segment v2="2"/><s:segment v2="0"/></s:polygon>
   </s:slice>
   <s:sliceref slicestackid="1" slicepath="/2D/slices.model"/>
  </s:slicestack>
 </resources>
 <build/>
</model>`
	_, err := parseParts(t, map[string]string{
		"3D/3dmodel.model": root,
		"2D/slices.model":  subSlicePart,
	}, nil)
	wantCode(t, err, mferr.CodeInvalidModel)
}

func TestMissingReferencedModelPart(t *testing.T) {
	root := `<model xmlns="` + model.NSCore + `" xmlns:p="` + model.NSProduction + `">
 <resources/>
 <build><item objectid="1" p:path="/3D/absent.model"/></build>
</model>`
	_, err := parseParts(t, map[string]string{"3D/3dmodel.model": root}, nil)
	wantCode(t, err, mferr.CodeMissingPart)
}
