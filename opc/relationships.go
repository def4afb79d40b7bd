package opc

import (
	"encoding/xml"

	"github.com/printforge/mf3/mferr"
)

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// relationshipsXML mirrors the structure of a .rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// parseRelationships reads and parses one relationships part. Relationship
// IDs must be unique within a single part.
func parseRelationships(p *Package, path string) ([]Relationship, error) {
	f := p.findFile(path)
	if f == nil {
		return nil, mferr.New(mferr.CodeNoRootModel, "package has no "+path).WithPath(path)
	}
	data, err := p.Part(path)
	if err != nil {
		return nil, err
	}

	var doc relationshipsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, mferr.Wrap(mferr.CodeArchive, "invalid relationships part "+path, err)
	}

	seen := make(map[string]bool, len(doc.Relationships))
	rels := make([]Relationship, 0, len(doc.Relationships))
	for _, r := range doc.Relationships {
		if r.ID != "" {
			if seen[r.ID] {
				return nil, mferr.Newf(mferr.CodeDupRelID,
					"duplicate relationship id %q in %s", r.ID, path).WithPath(path)
			}
			seen[r.ID] = true
		}
		rels = append(rels, Relationship{ID: r.ID, Type: r.Type, Target: r.Target})
	}
	return rels, nil
}
