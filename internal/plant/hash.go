package plant

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainDocument is the domain prefix for content-addressed document
// identity. Version suffix enables future algorithm migration.
const DomainDocument = "millrun/document/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentHash computes the content hash of a dumped document. Two graphs
// with identical collections and seed hash identically regardless of the
// encoding they were loaded from.
func DocumentHash(doc map[string]any) (string, error) {
	data, err := MarshalCanonical(doc)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainDocument, data), nil
}

// ContentHash dumps the graph and computes its document hash.
func (g *Graph) ContentHash() (string, error) {
	doc, err := g.Dump()
	if err != nil {
		return "", err
	}
	return DocumentHash(doc)
}
