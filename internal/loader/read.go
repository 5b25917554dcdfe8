package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/millrun/millrun/internal/plant"
)

// Decode parses document bytes into a cue.Value. The encoding is chosen by
// the filename extension: .json, .yaml, .yml or .cue. All encodings funnel
// through CUE so the resolver sees one value shape and errors carry source
// positions regardless of the front end.
//
// CUE preserves field declaration order, which is what carries the
// document's record ordering through to the assembled collections.
func Decode(filename string, data []byte) (cue.Value, error) {
	ctx := cuecontext.New()
	var v cue.Value

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		expr, err := cuejson.Extract(filename, data)
		if err != nil {
			return cue.Value{}, &DocumentError{Code: ErrCodeFormat, Path: filename, Message: err.Error(), Err: err}
		}
		v = ctx.BuildExpr(expr)
	case ".yaml", ".yml":
		file, err := cueyaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, &DocumentError{Code: ErrCodeFormat, Path: filename, Message: err.Error(), Err: err}
		}
		v = ctx.BuildFile(file)
	case ".cue":
		v = ctx.CompileBytes(data, cue.Filename(filename))
	default:
		return cue.Value{}, &DocumentError{
			Code:    ErrCodeFormat,
			Path:    filename,
			Message: fmt.Sprintf("unsupported document extension %q (want .json, .yaml, .yml or .cue)", ext),
		}
	}

	if err := v.Err(); err != nil {
		return cue.Value{}, &DocumentError{Code: ErrCodeFormat, Path: filename, Message: err.Error(), Pos: v.Pos(), Err: err}
	}
	return v, nil
}

// Read loads and validates a configuration document from disk.
func Read(path string) (*plant.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Code: ErrCodeIO, Path: path, Message: err.Error(), Err: err}
	}
	doc, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	return Load(doc)
}
