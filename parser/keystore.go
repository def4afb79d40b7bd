package parser

import (
	"encoding/base64"
	"encoding/xml"
	"strings"

	"go.uber.org/zap"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
	"github.com/printforge/mf3/opc"
)

// keystoreXML mirrors the keystore part's document structure.
type keystoreXML struct {
	UUID      string        `xml:"UUID,attr"`
	Consumers []consumerXML `xml:"consumer"`
	Groups    []rdGroupXML  `xml:"resourcedatagroup"`
}

type consumerXML struct {
	ConsumerID string `xml:"consumerid,attr"`
	KeyID      string `xml:"keyid,attr"`
	KeyValue   string `xml:"keyvalue"`
}

type rdGroupXML struct {
	KeyUUID      string            `xml:"keyuuid,attr"`
	AccessRights []accessRightXML  `xml:"accessright"`
	ResourceData []resourceDataXML `xml:"resourcedata"`
}

type accessRightXML struct {
	ConsumerIndex int          `xml:"consumerindex,attr"`
	KEKParams     kekParamsXML `xml:"kekparams"`
	CipherData    struct {
		CipherValue string `xml:"CipherValue"`
	} `xml:"cipherdata"`
}

type kekParamsXML struct {
	WrappingAlgorithm string `xml:"wrappingalgorithm,attr"`
	MGFAlgorithm      string `xml:"mgfalgorithm,attr"`
	DigestMethod      string `xml:"digestmethod,attr"`
}

type resourceDataXML struct {
	Path      string       `xml:"path,attr"`
	CEKParams cekParamsXML `xml:"cekparams"`
}

type cekParamsXML struct {
	EncryptionAlgorithm string `xml:"encryptionalgorithm,attr"`
	Compression         string `xml:"compression,attr"`
	IV                  string `xml:"iv"`
	Tag                 string `xml:"tag"`
	AAD                 string `xml:"aad"`
}

// loadKeystore locates and parses the package keystore. Packages without a
// keystore relationship return nil with no error.
func (p *Parser) loadKeystore(pkg *opc.Package) (*model.SecureContentInfo, error) {
	path := pkg.KeystorePath()
	if path == "" {
		return nil, nil
	}
	if !p.cfg.Enabled(model.ExtSecureContent) {
		return nil, mferr.Newf(mferr.CodeUnsupportedExtension,
			"package carries a keystore but the secure content extension is disabled").
			WithPath(path)
	}
	data, err := pkg.Part(path)
	if err != nil {
		return nil, err
	}

	var doc keystoreXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, mferr.Wrap(mferr.CodeKeystoreFormat,
			"malformed keystore: "+err.Error(), err).WithPath(path)
	}
	if doc.UUID == "" {
		return nil, mferr.New(mferr.CodeKeystoreFormat,
			"keystore is missing its UUID attribute").WithPath(path)
	}

	info := &model.SecureContentInfo{KeystoreUUID: doc.UUID}
	for _, c := range doc.Consumers {
		if c.ConsumerID == "" {
			return nil, mferr.New(mferr.CodeKeystoreFormat,
				"keystore consumer is missing consumerid").WithPath(path)
		}
		info.Consumers = append(info.Consumers, model.Consumer{
			ConsumerID: c.ConsumerID,
			KeyID:      c.KeyID,
			KeyValue:   strings.TrimSpace(c.KeyValue),
		})
	}
	for _, g := range doc.Groups {
		group := model.ResourceDataGroup{KeyUUID: g.KeyUUID}
		for _, ar := range g.AccessRights {
			cipher, err := decodeB64(path, "CipherValue", ar.CipherData.CipherValue)
			if err != nil {
				return nil, err
			}
			group.AccessRights = append(group.AccessRights, model.AccessRight{
				ConsumerIndex:     ar.ConsumerIndex,
				WrappingAlgorithm: ar.KEKParams.WrappingAlgorithm,
				MGFAlgorithm:      ar.KEKParams.MGFAlgorithm,
				DigestMethod:      ar.KEKParams.DigestMethod,
				CipherValue:       cipher,
			})
		}
		for _, rd := range g.ResourceData {
			if rd.Path == "" {
				return nil, mferr.New(mferr.CodeKeystoreFormat,
					"keystore resourcedata is missing its path").WithPath(path)
			}
			iv, err := decodeB64(path, "iv", rd.CEKParams.IV)
			if err != nil {
				return nil, err
			}
			tag, err := decodeB64(path, "tag", rd.CEKParams.Tag)
			if err != nil {
				return nil, err
			}
			aad, err := decodeB64(path, "aad", rd.CEKParams.AAD)
			if err != nil {
				return nil, err
			}
			group.ResourceData = append(group.ResourceData, model.ResourceData{
				Path:                rd.Path,
				EncryptionAlgorithm: rd.CEKParams.EncryptionAlgorithm,
				Compression:         rd.CEKParams.Compression,
				IV:                  iv,
				Tag:                 tag,
				AAD:                 aad,
			})
		}
		info.Groups = append(info.Groups, group)
	}

	p.log.Debug("keystore loaded",
		zap.String("path", path),
		zap.Int("consumers", len(info.Consumers)),
		zap.Int("groups", len(info.Groups)))
	return info, nil
}

// decodeB64 decodes one base64 keystore field; empty fields decode to nil.
func decodeB64(path, field, value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	out, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, mferr.Newf(mferr.CodeKeystoreFormat,
			"keystore field %s is not valid base64", field).WithPath(path)
	}
	return out, nil
}
