package model

// Consumer is one party authorized to open encrypted parts.
type Consumer struct {
	ConsumerID string
	KeyID      string
	KeyValue   string
}

// AccessRight wraps the content encryption key for one consumer.
type AccessRight struct {
	ConsumerIndex     int
	WrappingAlgorithm string
	MGFAlgorithm      string
	DigestMethod      string
	CipherValue       []byte
}

// ResourceData describes one encrypted part.
type ResourceData struct {
	Path                string
	EncryptionAlgorithm string
	Compression         string
	IV                  []byte
	Tag                 []byte
	AAD                 []byte
}

// ResourceDataGroup binds one content encryption key to the parts it
// protects and the consumers allowed to unwrap it.
type ResourceDataGroup struct {
	KeyUUID      string
	AccessRights []AccessRight
	ResourceData []ResourceData
}

// SecureContentInfo is the parsed keystore part.
type SecureContentInfo struct {
	KeystoreUUID string
	Consumers    []Consumer
	Groups       []ResourceDataGroup
}

// IsEncrypted reports whether path is listed as an encrypted part. Lookup
// tolerates a leading slash on either side.
func (s *SecureContentInfo) IsEncrypted(path string) bool {
	return s.findResourceData(path) != nil
}

// FindResourceData returns the descriptor for an encrypted part, with the
// group that owns it, or nil when the part is not listed.
func (s *SecureContentInfo) FindResourceData(path string) (*ResourceDataGroup, *ResourceData) {
	for gi := range s.Groups {
		g := &s.Groups[gi]
		for ri := range g.ResourceData {
			if samePartPath(g.ResourceData[ri].Path, path) {
				return g, &g.ResourceData[ri]
			}
		}
	}
	return nil, nil
}

func (s *SecureContentInfo) findResourceData(path string) *ResourceData {
	_, rd := s.FindResourceData(path)
	return rd
}

func samePartPath(a, b string) bool {
	return trimLeadingSlash(a) == trimLeadingSlash(b)
}

func trimLeadingSlash(p string) string {
	if len(p) > 0 && p[0] == '/' {
		return p[1:]
	}
	return p
}
