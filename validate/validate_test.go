package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

func addObject(m *model.Model, o *model.Object) *model.Object {
	o.ParseOrder = m.Resources.NextOrder()
	m.Resources.Objects = append(m.Resources.Objects, o)
	return o
}

func addBaseMaterials(m *model.Model, id uint32, n int) *model.BaseMaterialGroup {
	g := &model.BaseMaterialGroup{ID: id}
	for i := 0; i < n; i++ {
		g.Materials = append(g.Materials, model.BaseMaterial{Name: "mat"})
	}
	g.ParseOrder = m.Resources.NextOrder()
	m.Resources.BaseMaterialGroups = append(m.Resources.BaseMaterialGroups, g)
	return g
}

func meshObject(id uint32, vertices int, triangles ...model.Triangle) *model.Object {
	mesh := &model.Mesh{}
	for i := 0; i < vertices; i++ {
		mesh.Vertices = append(mesh.Vertices, model.Vertex{X: float64(i)})
	}
	mesh.Triangles = triangles
	return &model.Object{ID: id, Mesh: mesh}
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

func TestUniqueIDsRejectsDuplicate(t *testing.T) {
	m := model.NewModel()
	addObject(m, meshObject(5, 3, model.Triangle{V1: 0, V2: 1, V3: 2}))
	addBaseMaterials(m, 5, 1)

	err := UniqueIDs(m)
	wantCode(t, err, mferr.CodeDuplicateID)
	var me *mferr.Error
	if !errors.As(err, &me) || me.ResourceID != 5 {
		t.Errorf("error should name resource 5: %v", err)
	}
}

func TestUniqueIDsAcrossKinds(t *testing.T) {
	m := model.NewModel()
	addObject(m, meshObject(1, 3, model.Triangle{V1: 0, V2: 1, V3: 2}))
	addBaseMaterials(m, 2, 1)
	if err := UniqueIDs(m); err != nil {
		t.Errorf("distinct ids rejected: %v", err)
	}
}

func TestForwardRefRejected(t *testing.T) {
	m := model.NewModel()
	// Object 1 references property group 2, declared after it.
	o := meshObject(1, 3, model.Triangle{V1: 0, V2: 1, V3: 2})
	o.PID = 2
	o.HasPID = true
	addObject(m, o)
	addBaseMaterials(m, 2, 1)

	wantCode(t, ForwardRefs(m), mferr.CodeForwardRef)
}

func TestBackwardRefAccepted(t *testing.T) {
	m := model.NewModel()
	addBaseMaterials(m, 2, 1)
	o := meshObject(1, 3, model.Triangle{V1: 0, V2: 1, V3: 2})
	o.PID = 2
	o.HasPID = true
	addObject(m, o)

	if err := ForwardRefs(m); err != nil {
		t.Errorf("backward reference rejected: %v", err)
	}
}

func TestDanglingRefRejected(t *testing.T) {
	m := model.NewModel()
	o := meshObject(1, 3, model.Triangle{V1: 0, V2: 1, V3: 2})
	o.SliceStackID = 99
	addObject(m, o)

	wantCode(t, ForwardRefs(m), mferr.CodeDanglingRef)
}

func TestComponentCycleReported(t *testing.T) {
	m := model.NewModel()
	addObject(m, &model.Object{ID: 5, Components: []model.Component{{ObjectID: 8}}})
	addObject(m, &model.Object{ID: 8, Components: []model.Component{{ObjectID: 5}}})

	err := ComponentGraph(m)
	wantCode(t, err, mferr.CodeCircularRef)
	if !strings.Contains(err.Error(), "5→8→5") {
		t.Errorf("cycle path missing from message: %v", err)
	}
}

func TestSelfReferenceIsOneNodeCycle(t *testing.T) {
	m := model.NewModel()
	addObject(m, &model.Object{ID: 3, Components: []model.Component{{ObjectID: 3}}})

	err := ComponentGraph(m)
	wantCode(t, err, mferr.CodeCircularRef)
	if !strings.Contains(err.Error(), "3→3") {
		t.Errorf("cycle path missing from message: %v", err)
	}
}

func TestDiamondGraphIsNotACycle(t *testing.T) {
	m := model.NewModel()
	addObject(m, meshObject(4, 3, model.Triangle{V1: 0, V2: 1, V3: 2}))
	addObject(m, &model.Object{ID: 2, Components: []model.Component{{ObjectID: 4}}})
	addObject(m, &model.Object{ID: 3, Components: []model.Component{{ObjectID: 4}}})
	addObject(m, &model.Object{ID: 1, Components: []model.Component{{ObjectID: 2}, {ObjectID: 3}}})

	if err := ComponentGraph(m); err != nil {
		t.Errorf("diamond misreported as cycle: %v", err)
	}
}

func TestComponentDanglingRef(t *testing.T) {
	m := model.NewModel()
	addObject(m, &model.Object{ID: 1, Components: []model.Component{{ObjectID: 42}}})
	wantCode(t, ComponentGraph(m), mferr.CodeDanglingRef)
}

func TestVertexIndexOutOfBounds(t *testing.T) {
	m := model.NewModel()
	addObject(m, meshObject(7, 100, model.Triangle{V1: 0, V2: 150, V3: 1}))
	addObject(m, &model.Object{ID: 8, Components: []model.Component{{ObjectID: 7}}})
	m.Build.Items = []model.Item{{ObjectID: 8}}

	wantCode(t, Core(m), mferr.CodeInvalidModel)
}

func TestDegenerateTriangleRejected(t *testing.T) {
	m := model.NewModel()
	addObject(m, meshObject(1, 3, model.Triangle{V1: 0, V2: 0, V3: 2}))
	wantCode(t, Core(m), mferr.CodeInvalidModel)
}

func TestPropertyIndexBounds(t *testing.T) {
	m := model.NewModel()
	addBaseMaterials(m, 10, 2)
	tri := model.Triangle{V1: 0, V2: 1, V3: 2, PID: 10, HasPID: true, P1: 2, HasP1: true, P2: 2, P3: 2}
	addObject(m, meshObject(1, 3, tri))

	wantCode(t, Core(m), mferr.CodeInvalidModel)
}

func TestBuildItemDanglingRef(t *testing.T) {
	m := model.NewModel()
	m.Build.Items = []model.Item{{ObjectID: 9}}
	wantCode(t, Core(m), mferr.CodeDanglingRef)
}

func TestBuildItemMayNotReferenceTypeOther(t *testing.T) {
	m := model.NewModel()
	o := meshObject(1, 3, model.Triangle{V1: 0, V2: 1, V3: 2})
	o.Type = model.ObjectTypeOther
	addObject(m, o)
	m.Build.Items = []model.Item{{ObjectID: 1}}
	wantCode(t, Core(m), mferr.CodeInvalidModel)
}

type partSet map[string]bool

func (p partSet) HasPart(path string) bool { return p[path] }

func TestPartRefs(t *testing.T) {
	m := model.NewModel()
	m.Resources.Texture2Ds = append(m.Resources.Texture2Ds, &model.Texture2D{
		ID: 1, Path: "/3D/Textures/wood.png", ParseOrder: m.Resources.NextOrder(),
	})

	if err := PartRefs(m, partSet{"/3D/Textures/wood.png": true}); err != nil {
		t.Errorf("present part rejected: %v", err)
	}
	wantCode(t, PartRefs(m, partSet{}), mferr.CodeMissingFile)
}

func TestPartRefsSkipsEncryptedParts(t *testing.T) {
	m := model.NewModel()
	m.Resources.Texture2Ds = append(m.Resources.Texture2Ds, &model.Texture2D{
		ID: 1, Path: "/3D/Textures/secret.png", ParseOrder: m.Resources.NextOrder(),
	})
	m.SecureContent = &model.SecureContentInfo{
		Groups: []model.ResourceDataGroup{{
			ResourceData: []model.ResourceData{{Path: "/3D/Textures/secret.png"}},
		}},
	}
	if err := PartRefs(m, partSet{}); err != nil {
		t.Errorf("encrypted part should be skipped: %v", err)
	}
}
