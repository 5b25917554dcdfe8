package loader

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"

	"github.com/millrun/millrun/internal/plant"
)

// Document and record error codes (E200-E212). Integrity codes E213 and
// E220 live in package plant next to the checks that raise them.
const (
	ErrCodeIO             = "E200" // file cannot be read or written
	ErrCodeFormat         = "E201" // document cannot be parsed into the raw shape
	ErrCodeMissingSection = "E210" // required top-level section absent
	ErrCodeMalformed      = "E211" // record missing a field or carrying a wrong value type
	ErrCodeUnknownVariant = "E212" // record's type tag names no known variant
)

// DocumentError reports an I/O or syntax problem with the document itself.
type DocumentError struct {
	Code    string // ErrCodeIO or ErrCodeFormat
	Path    string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *DocumentError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("[%s] %s:%d:%d: %s", e.Code, e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// MissingSectionError reports an absent required top-level section.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("[%s] missing required section %q", ErrCodeMissingSection, e.Section)
}

// MalformedRecordError reports a record that fails to decode into any known
// variant of its category.
type MalformedRecordError struct {
	Code    string // ErrCodeMalformed or ErrCodeUnknownVariant
	Section string
	ID      string // record's declared ID, if available
	Field   string
	Message string
	Pos     token.Pos
}

func (e *MalformedRecordError) Error() string {
	id := e.ID
	if id == "" {
		id = "?"
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("[%s] %s:%d:%d: %s record %q: field %q: %s",
			e.Code, e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Section, id, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s record %q: field %q: %s", e.Code, e.Section, id, e.Field, e.Message)
}

// Code extracts the stable error code from any load error.
// Errors outside the taxonomy map to ErrCodeIO.
func Code(err error) string {
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return docErr.Code
	}
	var secErr *MissingSectionError
	if errors.As(err, &secErr) {
		return ErrCodeMissingSection
	}
	var recErr *MalformedRecordError
	if errors.As(err, &recErr) {
		return recErr.Code
	}
	var dupErr *plant.DuplicateIDError
	if errors.As(err, &dupErr) {
		return plant.ErrCodeDuplicateID
	}
	var refErr *plant.DanglingReferenceError
	if errors.As(err, &refErr) {
		return plant.ErrCodeDanglingReference
	}
	return ErrCodeIO
}
