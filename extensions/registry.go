package extensions

import (
	"fmt"

	"github.com/printforge/mf3/model"
)

// Handler is the capability set one extension exposes to the pipeline.
type Handler interface {
	// Extension returns the variant this handler serves.
	Extension() model.Extension
	// Namespace returns the extension's namespace URI.
	Namespace() string
	// Name returns a short human-readable name.
	Name() string
	// Validate checks the extension's semantic rules against a complete
	// model. It must not mutate the model.
	Validate(m *model.Model) error
	// IsUsed reports whether the model carries any of this extension's data.
	IsUsed(m *model.Model) bool
	// PostParse may mutate the model after parsing and validation.
	PostParse(m *model.Model) error
	// PreWrite may mutate the model before serialization.
	PreWrite(m *model.Model) error
}

// BaseHandler provides no-op PostParse and PreWrite so handlers only
// implement the hooks they need.
type BaseHandler struct{}

// PostParse implements Handler with a no-op.
func (BaseHandler) PostParse(*model.Model) error { return nil }

// PreWrite implements Handler with a no-op.
func (BaseHandler) PreWrite(*model.Model) error { return nil }

// Registry holds at most one handler per extension variant, in registration
// order.
type Registry struct {
	order    []model.Extension
	handlers map[model.Extension]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[model.Extension]Handler)}
}

// Register adds a handler. Registering a second handler for the same
// extension is a programming error.
func (r *Registry) Register(h Handler) error {
	ext := h.Extension()
	if _, exists := r.handlers[ext]; exists {
		return fmt.Errorf("extensions: handler for %s already registered", ext)
	}
	r.handlers[ext] = h
	r.order = append(r.order, ext)
	return nil
}

// Handler returns the registered handler for an extension.
func (r *Registry) Handler(ext model.Extension) (Handler, bool) {
	h, ok := r.handlers[ext]
	return h, ok
}

// Extensions lists registered extensions in registration order.
func (r *Registry) Extensions() []model.Extension {
	out := make([]model.Extension, len(r.order))
	copy(out, r.order)
	return out
}

// ValidateAll runs every handler's Validate in registration order and stops
// at the first failure, returning that handler's error unchanged.
func (r *Registry) ValidateAll(m *model.Model) error {
	for _, ext := range r.order {
		if err := r.handlers[ext].Validate(m); err != nil {
			return err
		}
	}
	return nil
}

// PostParseAll runs every handler's PostParse in registration order,
// stopping at the first failure.
func (r *Registry) PostParseAll(m *model.Model) error {
	for _, ext := range r.order {
		if err := r.handlers[ext].PostParse(m); err != nil {
			return err
		}
	}
	return nil
}

// PreWriteAll runs every handler's PreWrite in registration order, stopping
// at the first failure.
func (r *Registry) PreWriteAll(m *model.Model) error {
	for _, ext := range r.order {
		if err := r.handlers[ext].PreWrite(m); err != nil {
			return err
		}
	}
	return nil
}

// UsedExtensions returns the registered extensions whose data appears in the
// model, in registration order.
func (r *Registry) UsedExtensions(m *model.Model) []model.Extension {
	var used []model.Extension
	for _, ext := range r.order {
		if r.handlers[ext].IsUsed(m) {
			used = append(used, ext)
		}
	}
	return used
}

// DefaultRegistry returns a registry with one handler per built-in
// extension. The volumetric extension is registrable but not part of the
// default set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, h := range []Handler{
		MaterialHandler{},
		ProductionHandler{},
		BeamLatticeHandler{},
		SliceHandler{},
		BooleanOperationsHandler{},
		DisplacementHandler{},
		SecureContentHandler{},
	} {
		// Each built-in variant appears exactly once; Register cannot fail.
		_ = r.Register(h)
	}
	return r
}
