package parser

import (
	"go.uber.org/zap"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
	"github.com/printforge/mf3/opc"
	"github.com/printforge/mf3/validate"
)

// Parser drives one package through the full pipeline: root model part,
// multi-part assembly, cross-reference validation, post-parse hooks.
// A Parser is single-use; create one per ParsePackage call.
type Parser struct {
	cfg *Config
	pkg *opc.Package
	log *zap.Logger

	// openParts guards recursive part loading against self or mutual
	// references between parts.
	openParts map[string]bool
}

// New returns a parser for one parse run.
func New(cfg *Config) *Parser {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Parser{
		cfg:       cfg,
		log:       cfg.logger,
		openParts: make(map[string]bool),
	}
}

// ParsePackage parses an open container into a validated model.
func (p *Parser) ParsePackage(pkg *opc.Package) (*model.Model, error) {
	p.pkg = pkg

	rootPath, err := pkg.RootModelPath()
	if err != nil {
		return nil, err
	}
	if err := pkg.ValidateContentType(rootPath, opc.ContentTypeModel); err != nil {
		return nil, err
	}
	p.log.Debug("root model part located", zap.String("path", rootPath))

	// The keystore is parsed before any model part is loaded; the root part
	// itself may be encrypted.
	secureInfo, err := p.loadKeystore(pkg)
	if err != nil {
		return nil, err
	}

	data, err := p.loadPart(rootPath, secureInfo)
	if err != nil {
		return nil, err
	}

	m := model.NewModel()
	m.Path = rootPath
	m.SecureContent = secureInfo
	m.Thumbnail = pkg.ThumbnailPath()

	// The root part stays marked while assembly runs so a referenced part
	// pointing back at the root is caught as a cycle.
	p.openParts[normalizePart(rootPath)] = true
	if err := p.parseModelPart(data, m, true); err != nil {
		return nil, err
	}

	if err := p.assemble(m); err != nil {
		return nil, err
	}

	if err := p.validateModel(m); err != nil {
		return nil, err
	}

	if err := p.cfg.registry.PostParseAll(m); err != nil {
		return nil, err
	}

	p.log.Debug("parse complete",
		zap.Int("resources", m.Resources.Count()),
		zap.Int("buildItems", len(m.Build.Items)))
	return m, nil
}

// validateModel runs the ordered cross-reference passes. Later passes assume
// earlier ones hold.
func (p *Parser) validateModel(m *model.Model) error {
	if err := validate.UniqueIDs(m); err != nil {
		return err
	}
	if err := validate.ForwardRefs(m); err != nil {
		return err
	}
	if err := validate.ComponentGraph(m); err != nil {
		return err
	}
	if err := validate.Core(m); err != nil {
		return err
	}
	if err := p.cfg.registry.ValidateAll(m); err != nil {
		return err
	}
	for _, ce := range p.cfg.custom {
		if ce.Handler == nil {
			continue
		}
		if err := ce.Handler.Validate(m); err != nil {
			return err
		}
	}
	return validate.PartRefs(m, p.pkg)
}

// loadPart returns a part's bytes, routing encrypted parts through the
// configured key provider first.
func (p *Parser) loadPart(path string, info *model.SecureContentInfo) ([]byte, error) {
	data, err := p.pkg.Part(path)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return data, nil
	}
	group, rd := info.FindResourceData(path)
	if rd == nil {
		return data, nil
	}
	if p.cfg.keys == nil {
		return nil, mferr.Newf(mferr.CodeNoKeyProvider,
			"part %s is encrypted and no key provider is configured", path).WithPath(path)
	}
	if len(group.AccessRights) == 0 {
		return nil, mferr.Newf(mferr.CodeSecureContent,
			"encrypted part %s has no access right", path).WithPath(path)
	}
	right := &group.AccessRights[0]
	plain, err := p.cfg.keys.Decrypt(data, rd, right, info)
	if err != nil {
		return nil, mferr.Wrap(mferr.CodeSecureContent,
			"decrypting part "+path, err).WithPath(path)
	}
	p.log.Debug("part decrypted", zap.String("path", path))
	return plain, nil
}

func normalizePart(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return path[1:]
	}
	return path
}
