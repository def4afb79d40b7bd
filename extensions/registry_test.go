package extensions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/mf3/model"
)

func TestDefaultRegistryOmitsVolumetric(t *testing.T) {
	r := DefaultRegistry()
	exts := r.Extensions()
	assert.Len(t, exts, 7)
	for _, ext := range exts {
		assert.NotEqual(t, model.ExtVolumetric, ext)
	}
	_, ok := r.Handler(model.ExtVolumetric)
	assert.False(t, ok)

	require.NoError(t, r.Register(VolumetricHandler{}))
	_, ok = r.Handler(model.ExtVolumetric)
	assert.True(t, ok)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(SliceHandler{}))
	assert.Error(t, r.Register(SliceHandler{}))
}

func TestRegistrationOrderIsPreserved(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(SliceHandler{}))
	require.NoError(t, r.Register(MaterialHandler{}))
	assert.Equal(t, []model.Extension{model.ExtSlice, model.ExtMaterial}, r.Extensions())
}

func TestUsedExtensions(t *testing.T) {
	m := model.NewModel()
	m.Resources.ColorGroups = append(m.Resources.ColorGroups, &model.ColorGroup{
		ID: 1, Colors: []model.Color{{A: 0xff}}, ParseOrder: m.Resources.NextOrder(),
	})
	m.Resources.SliceStacks = append(m.Resources.SliceStacks, &model.SliceStack{
		ID: 2, ParseOrder: m.Resources.NextOrder(),
	})

	used := DefaultRegistry().UsedExtensions(m)
	assert.Equal(t, []model.Extension{model.ExtMaterial, model.ExtSlice}, used)
}

func TestProductionPreWriteFillsUUIDs(t *testing.T) {
	m := model.NewModel()
	m.Resources.Objects = append(m.Resources.Objects, &model.Object{
		ID: 1, Mesh: &model.Mesh{}, ParseOrder: m.Resources.NextOrder(),
	})
	m.Build.Items = []model.Item{{ObjectID: 1, UUID: "62e63a34-fa16-4c61-a2ba-8dbe22bb9e11"}}

	require.NoError(t, DefaultRegistry().PreWriteAll(m))

	assert.NotEmpty(t, m.Build.UUID)
	_, err := uuid.Parse(m.Build.UUID)
	assert.NoError(t, err)
	assert.Equal(t, "62e63a34-fa16-4c61-a2ba-8dbe22bb9e11", m.Build.Items[0].UUID)
	_, err = uuid.Parse(m.Resources.Objects[0].UUID)
	assert.NoError(t, err)
}

func TestProductionPreWriteSkipsPlainModels(t *testing.T) {
	m := model.NewModel()
	m.Resources.Objects = append(m.Resources.Objects, &model.Object{
		ID: 1, Mesh: &model.Mesh{}, ParseOrder: m.Resources.NextOrder(),
	})

	require.NoError(t, DefaultRegistry().PreWriteAll(m))
	assert.Empty(t, m.Build.UUID)
	assert.Empty(t, m.Resources.Objects[0].UUID)
}
