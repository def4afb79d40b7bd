package validate

import (
	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// VolumetricRules enforces the volumetric extension's semantic constraints.
func VolumetricRules(m *model.Model) error {
	r := &m.Resources

	for _, img := range r.Image3Ds {
		if img.SheetCount != 0 && int(img.SheetCount) != len(img.Sheets) {
			return mferr.Newf(mferr.CodeInvalidModel,
				"image3d %d declares %d sheets but lists %d",
				img.ID, img.SheetCount, len(img.Sheets)).WithResource(img.ID)
		}
		if len(img.Sheets) == 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"image3d %d has no sheets", img.ID).WithResource(img.ID)
		}
	}

	for _, g := range r.VolumetricPropGroup {
		if len(g.Channels) == 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"volumetric property group %d has no channels", g.ID).WithResource(g.ID)
		}
		names := make(map[string]bool, len(g.Channels))
		for _, ch := range g.Channels {
			if ch.Name == "" {
				return mferr.Newf(mferr.CodeInvalidModel,
					"volumetric property group %d has a channel with no name", g.ID).
					WithResource(g.ID)
			}
			if names[ch.Name] {
				return mferr.Newf(mferr.CodeInvalidModel,
					"volumetric property group %d repeats channel name %q", g.ID, ch.Name).
					WithResource(g.ID)
			}
			names[ch.Name] = true
			if _, ok := r.FindImage3D(ch.Image3DID); !ok {
				return mferr.Newf(mferr.CodeDanglingRef,
					"volumetric property group %d channel %q references id %d which is not an image3d",
					g.ID, ch.Name, ch.Image3DID).WithResource(g.ID).WithRef(ch.Image3DID)
			}
		}
	}
	return nil
}
