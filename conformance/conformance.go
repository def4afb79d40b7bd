// Package conformance runs YAML-described package fixtures through the full
// parse pipeline. A manifest lists cases, each giving the parts of a package
// and the expected outcome: success, or a specific error code.
package conformance

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
	"github.com/printforge/mf3/opc"
	"github.com/printforge/mf3/parser"
)

// Part is one file inside a fixture package. Content holds text parts;
// ContentB64 holds binary parts as base64.
type Part struct {
	Path       string `yaml:"path"`
	Content    string `yaml:"content,omitempty"`
	ContentB64 string `yaml:"content_b64,omitempty"`
}

// Case is one conformance fixture.
type Case struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Parts       []Part   `yaml:"parts"`
	ErrorCode   string   `yaml:"error,omitempty"`
	Disabled    []string `yaml:"disabled_extensions,omitempty"`
}

// Suite is a parsed manifest.
type Suite struct {
	Cases []Case `yaml:"cases"`
}

// Load parses a manifest from r.
func Load(r io.Reader) (*Suite, error) {
	var s Suite
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("conformance: decoding manifest: %w", err)
	}
	for i, c := range s.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("conformance: case %d has no name", i)
		}
		if len(c.Parts) == 0 {
			return nil, fmt.Errorf("conformance: case %q has no parts", c.Name)
		}
	}
	return &s, nil
}

// LoadFile parses a manifest from disk.
func LoadFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("conformance: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Archive assembles the case's parts into an in-memory package.
func (c *Case) Archive() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range c.Parts {
		f, err := zw.Create(part.Path)
		if err != nil {
			return nil, fmt.Errorf("conformance: case %q: %w", c.Name, err)
		}
		data := []byte(part.Content)
		if part.ContentB64 != "" {
			data, err = base64.StdEncoding.DecodeString(part.ContentB64)
			if err != nil {
				return nil, fmt.Errorf("conformance: case %q part %s: %w", c.Name, part.Path, err)
			}
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("conformance: case %q: %w", c.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("conformance: case %q: %w", c.Name, err)
	}
	return buf.Bytes(), nil
}

// config builds the parser configuration for the case.
func (c *Case) config() (*parser.Config, error) {
	cfg := parser.DefaultConfig()
	for _, name := range c.Disabled {
		found := false
		for ext := model.ExtMaterial; ext <= model.ExtVolumetric; ext++ {
			if ext.Name() == name {
				cfg = cfg.WithoutExtensions(ext)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("conformance: case %q disables unknown extension %q", c.Name, name)
		}
	}
	return cfg, nil
}

// Run parses the case's package and checks the outcome against the
// expectation. The returned model is non-nil only for success cases.
func (c *Case) Run() (*model.Model, error) {
	data, err := c.Archive()
	if err != nil {
		return nil, err
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	pkg, err := opc.OpenBytes(data)
	var m *model.Model
	if err == nil {
		m, err = parser.New(cfg).ParsePackage(pkg)
	}

	if c.ErrorCode == "" {
		if err != nil {
			return nil, fmt.Errorf("conformance: case %q: unexpected error: %w", c.Name, err)
		}
		return m, nil
	}
	if err == nil {
		return nil, fmt.Errorf("conformance: case %q: expected error %s, parse succeeded", c.Name, c.ErrorCode)
	}
	if got := mferr.CodeOf(err); got != mferr.Code(c.ErrorCode) {
		return nil, fmt.Errorf("conformance: case %q: expected error %s, got %s (%w)",
			c.Name, c.ErrorCode, got, err)
	}
	return nil, nil
}

// RunAll runs every case, stopping at the first failure.
func (s *Suite) RunAll() error {
	for i := range s.Cases {
		if _, err := s.Cases[i].Run(); err != nil {
			return err
		}
	}
	return nil
}
