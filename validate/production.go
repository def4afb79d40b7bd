package validate

import (
	"github.com/google/uuid"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// ProductionRules enforces the production extension's semantic constraints.
// UUIDs are mandatory on the build, every build item, every object, and
// every path-bearing component once the document declares the extension
// required.
func ProductionRules(m *model.Model) error {
	if !m.RequiresExtension(model.ExtProduction) {
		return optionalProductionUUIDs(m)
	}

	if err := checkUUID(m.Build.UUID, "build"); err != nil {
		return err
	}
	for _, item := range m.Build.Items {
		if err := checkUUID(item.UUID, "build item"); err != nil {
			return err
		}
	}
	for _, o := range m.Resources.Objects {
		if err := checkUUID(o.UUID, "object"); err != nil {
			return mferr.Wrap(mferr.CodeInvalidModel,
				err.Error(), err).WithResource(o.ID)
		}
		for _, c := range o.Components {
			if c.Path != "" {
				if err := checkUUID(c.UUID, "component with path"); err != nil {
					return mferr.Wrap(mferr.CodeInvalidModel, err.Error(), err).
						WithResource(o.ID)
				}
			}
		}
	}
	return nil
}

// optionalProductionUUIDs still rejects present-but-malformed UUIDs when the
// extension is merely declared, not required.
func optionalProductionUUIDs(m *model.Model) error {
	check := func(value, where string) error {
		if value == "" {
			return nil
		}
		return checkUUID(value, where)
	}
	if err := check(m.Build.UUID, "build"); err != nil {
		return err
	}
	for _, item := range m.Build.Items {
		if err := check(item.UUID, "build item"); err != nil {
			return err
		}
	}
	for _, o := range m.Resources.Objects {
		if err := check(o.UUID, "object"); err != nil {
			return err
		}
		for _, c := range o.Components {
			if err := check(c.UUID, "component"); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkUUID(value, where string) error {
	if value == "" {
		return mferr.Newf(mferr.CodeInvalidModel,
			"production extension requires a UUID on %s", where)
	}
	if _, err := uuid.Parse(value); err != nil {
		return mferr.Newf(mferr.CodeInvalidModel,
			"invalid UUID %q on %s", value, where)
	}
	return nil
}
