package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/millrun/millrun/internal/plant"
)

// Marshal serializes a graph's dumped document in the encoding implied by
// the filename extension. JSON output is canonical (sorted keys, NFC, no
// HTML escaping) and then indented; YAML uses two-space indentation.
// CUE is a read-only front end and is not a write target.
func Marshal(g *plant.Graph, filename string) ([]byte, error) {
	doc, err := g.Dump()
	if err != nil {
		return nil, &DocumentError{Code: ErrCodeFormat, Path: filename, Message: err.Error(), Err: err}
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		canonical, err := plant.MarshalCanonical(doc)
		if err != nil {
			return nil, &DocumentError{Code: ErrCodeFormat, Path: filename, Message: err.Error(), Err: err}
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, canonical, "", "  "); err != nil {
			return nil, &DocumentError{Code: ErrCodeFormat, Path: filename, Message: err.Error(), Err: err}
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case ".yaml", ".yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, &DocumentError{Code: ErrCodeFormat, Path: filename, Message: err.Error(), Err: err}
		}
		if err := enc.Close(); err != nil {
			return nil, &DocumentError{Code: ErrCodeFormat, Path: filename, Message: err.Error(), Err: err}
		}
		return buf.Bytes(), nil
	default:
		return nil, &DocumentError{
			Code:    ErrCodeFormat,
			Path:    filename,
			Message: fmt.Sprintf("unsupported output extension %q (want .json, .yaml or .yml)", ext),
		}
	}
}

// Write serializes the graph to disk. Content never fails a write for a
// graph that validated; only I/O and unsupported extensions do.
func Write(g *plant.Graph, path string) error {
	data, err := Marshal(g, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &DocumentError{Code: ErrCodeIO, Path: path, Message: err.Error(), Err: err}
	}
	return nil
}
