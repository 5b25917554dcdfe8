package loader

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/millrun/millrun/internal/plant"
)

// Assemble decodes an entire raw document into a draft graph. Sections are
// decoded in dependency order so a malformed record fails as early and as
// locally as possible; validation itself happens in plant.(*Graph).Validate.
//
// Duplicate IDs within a section are rejected, not overwritten.
func Assemble(doc cue.Value) (*plant.Graph, error) {
	if err := doc.Err(); err != nil {
		return nil, &DocumentError{Code: ErrCodeFormat, Message: err.Error(), Pos: doc.Pos()}
	}

	g := &plant.Graph{}

	seedVal := doc.LookupPath(cue.ParsePath("seed"))
	if !seedVal.Exists() {
		return nil, &MissingSectionError{Section: "seed"}
	}
	seed, err := seedVal.Int64()
	if err != nil {
		return nil, &DocumentError{Code: ErrCodeFormat, Message: "seed must be an integer", Pos: seedVal.Pos()}
	}
	g.Seed = seed

	if g.TimeModels, err = assembleSection(doc, plant.SectionTimeModels, resolveTimeModel); err != nil {
		return nil, err
	}
	if g.States, err = assembleSection(doc, plant.SectionStates, resolveState); err != nil {
		return nil, err
	}
	if g.Processes, err = assembleSection(doc, plant.SectionProcesses, resolveProcess); err != nil {
		return nil, err
	}
	if g.Queues, err = assembleSection(doc, plant.SectionQueues, resolveQueue); err != nil {
		return nil, err
	}
	if g.Resources, err = assembleSection(doc, plant.SectionResources, resolveResource); err != nil {
		return nil, err
	}
	if g.Materials, err = assembleSection(doc, plant.SectionMaterials, resolveMaterial); err != nil {
		return nil, err
	}
	if g.Sinks, err = assembleSection(doc, plant.SectionSinks, resolveSink); err != nil {
		return nil, err
	}
	if g.Sources, err = assembleSection(doc, plant.SectionSources, resolveSource); err != nil {
		return nil, err
	}

	return g, nil
}

// Load assembles the document and runs the referential validator.
// Returns the validated graph or the first error encountered.
func Load(doc cue.Value) (*plant.Graph, error) {
	g, err := Assemble(doc)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// assembleSection resolves every record of one section in document order.
// Record keys are positional only; the record's own ID is authoritative.
func assembleSection[E plant.Entity](doc cue.Value, name string, resolve func(cue.Value) (E, error)) ([]E, error) {
	v := doc.LookupPath(cue.ParsePath(name))
	if !v.Exists() {
		return nil, &MissingSectionError{Section: name}
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, &DocumentError{
			Code:    ErrCodeFormat,
			Message: fmt.Sprintf("section %q must be a mapping of records", name),
			Pos:     v.Pos(),
		}
	}

	var entities []E
	seen := make(map[string]struct{})
	for iter.Next() {
		e, err := resolve(iter.Value())
		if err != nil {
			return nil, err
		}
		id := e.EntityID()
		if _, dup := seen[id]; dup {
			return nil, &plant.DuplicateIDError{Section: name, ID: id}
		}
		seen[id] = struct{}{}
		entities = append(entities, e)
	}
	return entities, nil
}
