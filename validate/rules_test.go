package validate

import (
	"strings"
	"testing"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

func addColorGroup(m *model.Model, id uint32, n int) *model.ColorGroup {
	g := &model.ColorGroup{ID: id}
	for i := 0; i < n; i++ {
		g.Colors = append(g.Colors, model.Color{R: uint8(i), A: 0xff})
	}
	g.ParseOrder = m.Resources.NextOrder()
	m.Resources.ColorGroups = append(m.Resources.ColorGroups, g)
	return g
}

func TestMaterialEmptyGroupRejected(t *testing.T) {
	m := model.NewModel()
	addBaseMaterials(m, 1, 0)
	wantCode(t, MaterialRules(m), mferr.CodeInvalidModel)
}

func TestTextureGroupMustReferenceTexture(t *testing.T) {
	m := model.NewModel()
	// ID 1 is a color group, not a texture2d.
	addColorGroup(m, 1, 1)
	m.Resources.Texture2DGroups = append(m.Resources.Texture2DGroups, &model.Texture2DGroup{
		ID: 2, TextureID: 1, Coords: []model.UV{{U: 0, V: 0}},
		ParseOrder: m.Resources.NextOrder(),
	})
	wantCode(t, MaterialRules(m), mferr.CodeDanglingRef)
}

func TestCompositeValueCountMustMatchIndices(t *testing.T) {
	m := model.NewModel()
	addBaseMaterials(m, 1, 2)
	m.Resources.CompositeMaterials = append(m.Resources.CompositeMaterials, &model.CompositeMaterials{
		ID: 2, MaterialID: 1, Indices: []uint32{0, 1},
		Composites: []model.Composite{{Values: []float64{0.5}}},
		ParseOrder: m.Resources.NextOrder(),
	})
	wantCode(t, MaterialRules(m), mferr.CodeInvalidModel)
}

func TestMultiPropertiesSingleColorGroup(t *testing.T) {
	m := model.NewModel()
	addBaseMaterials(m, 1, 1)
	addColorGroup(m, 2, 1)
	addColorGroup(m, 3, 1)
	m.Resources.MultiProperties = append(m.Resources.MultiProperties, &model.MultiProperties{
		ID: 4, PIDs: []uint32{1, 2, 3},
		ParseOrder: m.Resources.NextOrder(),
	})
	wantCode(t, MaterialRules(m), mferr.CodeInvalidModel)
}

func TestMultiPropertiesBaseMaterialsOnlyLayerZero(t *testing.T) {
	m := model.NewModel()
	addColorGroup(m, 1, 1)
	addBaseMaterials(m, 2, 1)
	m.Resources.MultiProperties = append(m.Resources.MultiProperties, &model.MultiProperties{
		ID: 3, PIDs: []uint32{1, 2},
		ParseOrder: m.Resources.NextOrder(),
	})
	wantCode(t, MaterialRules(m), mferr.CodeInvalidModel)
}

func TestMultiPropertiesNoNesting(t *testing.T) {
	m := model.NewModel()
	addBaseMaterials(m, 1, 1)
	m.Resources.MultiProperties = append(m.Resources.MultiProperties,
		&model.MultiProperties{ID: 2, PIDs: []uint32{1}, ParseOrder: m.Resources.NextOrder()},
		&model.MultiProperties{ID: 3, PIDs: []uint32{2}, ParseOrder: m.Resources.NextOrder()})
	wantCode(t, MaterialRules(m), mferr.CodeInvalidModel)
}

func sliceStack(m *model.Model, id uint32, bottom float64) *model.SliceStack {
	s := &model.SliceStack{ID: id, BottomZ: bottom}
	s.ParseOrder = m.Resources.NextOrder()
	m.Resources.SliceStacks = append(m.Resources.SliceStacks, s)
	return s
}

func TestSliceStackMayNotMixSlicesAndRefs(t *testing.T) {
	m := model.NewModel()
	s := sliceStack(m, 1, 0)
	s.Slices = []model.Slice{{TopZ: 0.1}}
	s.Refs = []model.SliceRef{{SliceStackID: 2, Path: "/2D/slices.model"}}
	wantCode(t, SliceRules(m), mferr.CodeInvalidModel)
}

func TestSliceHeightsStrictlyIncreasing(t *testing.T) {
	m := model.NewModel()
	s := sliceStack(m, 1, 0)
	s.Slices = []model.Slice{{TopZ: 0.2}, {TopZ: 0.2}}
	wantCode(t, SliceRules(m), mferr.CodeSliceOrder)

	m = model.NewModel()
	s = sliceStack(m, 1, 5)
	s.Slices = []model.Slice{{TopZ: 1}}
	wantCode(t, SliceRules(m), mferr.CodeSliceOrder)
}

func TestSlicePolygonMustClose(t *testing.T) {
	m := model.NewModel()
	s := sliceStack(m, 1, 0)
	s.Slices = []model.Slice{{
		TopZ:     0.1,
		Vertices: []model.Point2D{{X: 0}, {X: 1}, {X: 2}},
		Polygons: []model.Polygon{{
			StartV:   0,
			Segments: []model.Segment{{V2: 1}, {V2: 2}},
		}},
	}}
	wantCode(t, SliceRules(m), mferr.CodeInvalidModel)

	// Closing the contour fixes it.
	s.Slices[0].Polygons[0].Segments = append(s.Slices[0].Polygons[0].Segments, model.Segment{V2: 0})
	if err := SliceRules(m); err != nil {
		t.Errorf("closed polygon rejected: %v", err)
	}
}

func TestProductionRequiresUUIDs(t *testing.T) {
	m := model.NewModel()
	m.RequiredExtensions = []model.Extension{model.ExtProduction}
	m.Build.UUID = "f0cb9d4a-0bd5-4b17-b0f8-1b0b339954cf"
	o := meshObject(1, 3, model.Triangle{V1: 0, V2: 1, V3: 2})
	addObject(m, o)
	m.Build.Items = []model.Item{{ObjectID: 1, UUID: "0d72cf23-f611-4b29-b9aa-3a83e498f2ec"}}

	// Object 1 has no UUID.
	wantCode(t, ProductionRules(m), mferr.CodeInvalidModel)

	o.UUID = "not-a-uuid"
	wantCode(t, ProductionRules(m), mferr.CodeInvalidModel)

	o.UUID = "62e63a34-fa16-4c61-a2ba-8dbe22bb9e11"
	if err := ProductionRules(m); err != nil {
		t.Errorf("fully annotated model rejected: %v", err)
	}
}

func TestMalformedUUIDRejectedEvenWhenOptional(t *testing.T) {
	m := model.NewModel()
	o := meshObject(1, 3, model.Triangle{V1: 0, V2: 1, V3: 2})
	o.UUID = "zz-not-a-uuid"
	addObject(m, o)
	wantCode(t, ProductionRules(m), mferr.CodeInvalidModel)
}

func latticeObject(m *model.Model, id uint32) *model.Object {
	o := meshObject(id, 4)
	o.Mesh.BeamLattice = &model.BeamLattice{
		MinLength:     0.01,
		DefaultRadius: 0.5,
		Beams:         []model.Beam{{V1: 0, V2: 1}},
	}
	return addObject(m, o)
}

func TestBeamLatticeRules(t *testing.T) {
	m := model.NewModel()
	o := latticeObject(m, 1)
	if err := BeamLatticeRules(m); err != nil {
		t.Fatalf("valid lattice rejected: %v", err)
	}

	o.Mesh.BeamLattice.DefaultRadius = 0
	wantCode(t, BeamLatticeRules(m), mferr.CodeInvalidModel)
	o.Mesh.BeamLattice.DefaultRadius = 0.5

	o.Mesh.BeamLattice.Beams = []model.Beam{{V1: 2, V2: 2}}
	wantCode(t, BeamLatticeRules(m), mferr.CodeInvalidModel)

	o.Mesh.BeamLattice.Beams = []model.Beam{{V1: 0, V2: 1, R2: 1, HasR2: true}}
	wantCode(t, BeamLatticeRules(m), mferr.CodeInvalidModel)

	o.Mesh.BeamLattice.Beams = []model.Beam{{V1: 0, V2: 1}}
	o.Type = model.ObjectTypeSupport
	wantCode(t, BeamLatticeRules(m), mferr.CodeInvalidModel)
	o.Type = model.ObjectTypeModel

	o.Mesh.BeamLattice.ClipMode = model.ClipInside
	wantCode(t, BeamLatticeRules(m), mferr.CodeInvalidModel)
}

func TestBooleanSelfReference(t *testing.T) {
	m := model.NewModel()
	addObject(m, &model.Object{ID: 5, BooleanShape: &model.BooleanShape{
		ObjectID: 5,
		Operands: []model.BooleanOperand{{ObjectID: 5}},
	}})
	err := BooleanRules(m)
	wantCode(t, err, mferr.CodeCircularRef)
	if !strings.Contains(err.Error(), "5→5") {
		t.Errorf("self-cycle path missing from message: %v", err)
	}
}

func TestBooleanOperandNeedsSolidGeometry(t *testing.T) {
	m := model.NewModel()
	// Object 2 has a displacement mesh only, no solid geometry.
	addObject(m, &model.Object{ID: 2, DisplacementMesh: &model.DisplacementMesh{}})
	addObject(m, meshObject(3, 3, model.Triangle{V1: 0, V2: 1, V3: 2}))
	addObject(m, &model.Object{ID: 1, BooleanShape: &model.BooleanShape{
		ObjectID: 3,
		Operands: []model.BooleanOperand{{ObjectID: 2}},
	}})
	wantCode(t, BooleanRules(m), mferr.CodeInvalidModel)
}

func TestSecureContentConsumerIndex(t *testing.T) {
	m := model.NewModel()
	m.SecureContent = &model.SecureContentInfo{
		KeystoreUUID: "0ff9a692-8d2c-4f67-9a27-63d4b4e9b0d5",
		Consumers:    []model.Consumer{{ConsumerID: "printer-1"}},
		Groups: []model.ResourceDataGroup{{
			AccessRights: []model.AccessRight{{ConsumerIndex: 3}},
			ResourceData: []model.ResourceData{{Path: "/3D/secret.model"}},
		}},
	}
	wantCode(t, SecureContentRules(m), mferr.CodeConsumerIndex)
}

func TestVolumetricSheetCountMustMatch(t *testing.T) {
	m := model.NewModel()
	m.Resources.Image3Ds = append(m.Resources.Image3Ds, &model.Image3D{
		ID: 1, SheetCount: 3, Sheets: []string{"/3D/sheet0.png"},
		ParseOrder: m.Resources.NextOrder(),
	})
	wantCode(t, VolumetricRules(m), mferr.CodeInvalidModel)
}

func TestDisplacementNormalIndexBounds(t *testing.T) {
	m := model.NewModel()
	m.Resources.Displacement2Ds = append(m.Resources.Displacement2Ds, &model.Displacement2D{
		ID: 1, Path: "/3D/disp.png", ParseOrder: m.Resources.NextOrder(),
	})
	m.Resources.NormVectorGroups = append(m.Resources.NormVectorGroups, &model.NormVectorGroup{
		ID: 2, Vectors: []model.Vec3{{Z: 1}}, ParseOrder: m.Resources.NextOrder(),
	})
	m.Resources.Disp2DCoordGroups = append(m.Resources.Disp2DCoordGroups, &model.Disp2DCoords{
		ID: 3, DispID: 1, NID: 2,
		Coords:     []model.DispCoord{{U: 0.5, V: 0.5, Magnitude: 1, NIndex: 7}},
		ParseOrder: m.Resources.NextOrder(),
	})
	wantCode(t, DisplacementRules(m), mferr.CodeInvalidModel)
}
