package plant

import (
	"fmt"
	"strings"
)

// Integrity error codes (E213, E220).
const (
	ErrCodeDuplicateID       = "E213" // duplicate ID within a collection
	ErrCodeDanglingReference = "E220" // reference to a missing entity
)

// DuplicateIDError reports two records sharing an ID within one collection.
type DuplicateIDError struct {
	Section string // document section name, e.g. "states"
	ID      string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("[%s] %s: duplicate ID %q", ErrCodeDuplicateID, e.Section, e.ID)
}

// DanglingReferenceError reports a reference field whose target ID does not
// exist in the collection it must resolve in. Valid carries a sorted
// snapshot of the IDs that were valid at check time, for diagnostics.
type DanglingReferenceError struct {
	Entity   string // referencing entity kind, e.g. "state"
	EntityID string
	Field    string // referencing field, e.g. "time_model_id"
	Target   string // the offending ID
	Valid    []string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("[%s] %s %q: field %q references unknown ID %q (valid: [%s])",
		ErrCodeDanglingReference, e.Entity, e.EntityID, e.Field, e.Target,
		strings.Join(e.Valid, " "))
}
