package parser

import (
	"encoding/xml"

	"go.uber.org/zap"

	"github.com/printforge/mf3/extensions"
	"github.com/printforge/mf3/model"
)

// KeyProvider supplies content decryption for encrypted parts. Implementations
// must be safe for concurrent use; one Config may serve many parses at once.
type KeyProvider interface {
	// Decrypt returns the plaintext of one encrypted part. rd describes the
	// part and its cipher parameters, right the access right selected for
	// this consumer, info the whole keystore.
	Decrypt(cipher []byte, rd *model.ResourceData, right *model.AccessRight, info *model.SecureContentInfo) ([]byte, error)
}

// CustomElementResult tells the parser what a custom handler did with an
// element.
type CustomElementResult int

// Results a custom element callback may return.
const (
	// ElementIgnored lets the parser skip the element and its subtree.
	ElementIgnored CustomElementResult = iota
	// ElementHandled means the handler consumed the element's content.
	ElementHandled
)

// CustomContext describes one element offered to a custom extension handler.
type CustomContext struct {
	Namespace string
	Local     string
	Attrs     []xml.Attr
	Model     *model.Model
}

// CustomHandler receives elements in a registered custom namespace. A nil
// handler on a registration means all of that namespace's content is
// accepted and skipped.
type CustomHandler interface {
	Element(ctx *CustomContext) (CustomElementResult, error)
	Validate(m *model.Model) error
}

// CustomExtension registers a caller-owned namespace.
type CustomExtension struct {
	Namespace string
	Name      string
	Handler   CustomHandler
}

// Config is the caller-selected extension context for a parse. A Config is
// immutable once built; the With methods return modified copies, so one
// value may be shared across concurrent parses.
type Config struct {
	enabled  map[model.Extension]bool
	custom   []CustomExtension
	keys     KeyProvider
	logger   *zap.Logger
	registry *extensions.Registry
}

// DefaultConfig enables every extension the default registry handles.
func DefaultConfig() *Config {
	reg := extensions.DefaultRegistry()
	enabled := make(map[model.Extension]bool)
	for _, ext := range reg.Extensions() {
		enabled[ext] = true
	}
	return &Config{
		enabled:  enabled,
		logger:   zap.NewNop(),
		registry: reg,
	}
}

// clone copies the config so With methods never mutate a shared value.
func (c *Config) clone() *Config {
	n := &Config{
		enabled:  make(map[model.Extension]bool, len(c.enabled)),
		custom:   append([]CustomExtension(nil), c.custom...),
		keys:     c.keys,
		logger:   c.logger,
		registry: c.registry,
	}
	for k, v := range c.enabled {
		n.enabled[k] = v
	}
	return n
}

// WithExtensions returns a config with the given extensions enabled.
func (c *Config) WithExtensions(exts ...model.Extension) *Config {
	n := c.clone()
	for _, e := range exts {
		n.enabled[e] = true
	}
	return n
}

// WithoutExtensions returns a config with the given extensions disabled.
func (c *Config) WithoutExtensions(exts ...model.Extension) *Config {
	n := c.clone()
	for _, e := range exts {
		delete(n.enabled, e)
	}
	return n
}

// WithCustomExtension returns a config that accepts content in a custom
// namespace.
func (c *Config) WithCustomExtension(ce CustomExtension) *Config {
	n := c.clone()
	n.custom = append(n.custom, ce)
	return n
}

// WithKeyProvider returns a config using kp to decrypt protected parts.
func (c *Config) WithKeyProvider(kp KeyProvider) *Config {
	n := c.clone()
	n.keys = kp
	return n
}

// WithLogger returns a config that emits debug diagnostics to l.
func (c *Config) WithLogger(l *zap.Logger) *Config {
	n := c.clone()
	n.logger = l
	return n
}

// WithRegistry returns a config using a caller-built extension registry.
func (c *Config) WithRegistry(r *extensions.Registry) *Config {
	n := c.clone()
	n.registry = r
	return n
}

// Enabled reports whether an extension is on the allow-list.
func (c *Config) Enabled(ext model.Extension) bool {
	return c.enabled[ext]
}

// Registry returns the extension registry in use.
func (c *Config) Registry() *extensions.Registry {
	return c.registry
}

// customFor finds the registration for a namespace.
func (c *Config) customFor(ns string) (*CustomExtension, bool) {
	for i := range c.custom {
		if c.custom[i].Namespace == ns {
			return &c.custom[i], true
		}
	}
	return nil, false
}
