package plant

import (
	"encoding/json"
	"fmt"
)

// DefaultSeed is the random seed used when a graph is built programmatically.
const DefaultSeed = 21

// Graph is the aggregate of all eight entity collections plus scalar
// configuration. A Graph is either fully decoded and validated or the load
// fails as a whole; there is no partial graph.
//
// ValidConfiguration is advisory state set by Validate. Correctness must not
// rely on callers checking it: the setters keep each collection
// independently consistent after the initial validation.
//
// A Graph is not safe for concurrent mutation. Independent loads need no
// coordination; a shared Graph requires one writer at a time, since setters
// read sibling collections while checking.
type Graph struct {
	Seed                int64
	ReconfigurationCost float64
	ValidConfiguration  bool

	TimeModels []TimeModel
	States     []State
	Processes  []Process
	Queues     []Queue
	Resources  []Resource
	Materials  []Material
	Sinks      []Sink
	Sources    []Source
}

// NewGraph returns an empty graph with default scalar configuration.
func NewGraph() *Graph {
	return &Graph{Seed: DefaultSeed}
}

// byID returns the first entity with the given ID.
func byID[E Entity](entities []E, id string) (E, bool) {
	for _, e := range entities {
		if e.EntityID() == id {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// TimeModelByID looks up a time model by ID.
func (g *Graph) TimeModelByID(id string) (TimeModel, bool) { return byID(g.TimeModels, id) }

// StateByID looks up a state by ID.
func (g *Graph) StateByID(id string) (State, bool) { return byID(g.States, id) }

// ProcessByID looks up a process by ID.
func (g *Graph) ProcessByID(id string) (Process, bool) { return byID(g.Processes, id) }

// QueueByID looks up a queue by ID.
func (g *Graph) QueueByID(id string) (Queue, bool) { return byID(g.Queues, id) }

// ResourceByID looks up a resource by ID.
func (g *Graph) ResourceByID(id string) (Resource, bool) { return byID(g.Resources, id) }

// MaterialByID looks up a material by ID.
func (g *Graph) MaterialByID(id string) (Material, bool) { return byID(g.Materials, id) }

// SinkByID looks up a sink by ID.
func (g *Graph) SinkByID(id string) (Sink, bool) { return byID(g.Sinks, id) }

// SourceByID looks up a source by ID.
func (g *Graph) SourceByID(id string) (Source, bool) { return byID(g.Sources, id) }

// SetTimeModels replaces the time model collection. Only the invariants
// scoped to the collection are re-checked; on error the graph is unchanged.
func (g *Graph) SetTimeModels(timeModels []TimeModel) error {
	if err := checkUnique(SectionTimeModels, timeModels); err != nil {
		return err
	}
	g.TimeModels = timeModels
	return nil
}

// SetStates replaces the state collection after re-checking its time model
// references against the current time model collection.
func (g *Graph) SetStates(states []State) error {
	if err := checkUnique(SectionStates, states); err != nil {
		return err
	}
	if err := checkStates(states, idSet(g.TimeModels)); err != nil {
		return err
	}
	g.States = states
	return nil
}

// SetProcesses replaces the process collection after re-checking its time
// model references.
func (g *Graph) SetProcesses(processes []Process) error {
	if err := checkUnique(SectionProcesses, processes); err != nil {
		return err
	}
	if err := checkProcesses(processes, idSet(g.TimeModels)); err != nil {
		return err
	}
	g.Processes = processes
	return nil
}

// SetQueues replaces the queue collection.
func (g *Graph) SetQueues(queues []Queue) error {
	if err := checkUnique(SectionQueues, queues); err != nil {
		return err
	}
	g.Queues = queues
	return nil
}

// SetResources replaces the resource collection after re-checking its
// process, state and queue references.
func (g *Graph) SetResources(resources []Resource) error {
	if err := checkUnique(SectionResources, resources); err != nil {
		return err
	}
	if err := checkResources(resources, idSet(g.Processes), idSet(g.States), idSet(g.Queues)); err != nil {
		return err
	}
	g.Resources = resources
	return nil
}

// SetMaterials replaces the material collection after re-checking its
// process references.
func (g *Graph) SetMaterials(materials []Material) error {
	if err := checkUnique(SectionMaterials, materials); err != nil {
		return err
	}
	if err := checkMaterials(materials, idSet(g.Processes)); err != nil {
		return err
	}
	g.Materials = materials
	return nil
}

// SetSinks replaces the sink collection after re-checking its material and
// queue references.
func (g *Graph) SetSinks(sinks []Sink) error {
	if err := checkUnique(SectionSinks, sinks); err != nil {
		return err
	}
	if err := checkSinks(sinks, idSet(g.Materials), idSet(g.Queues)); err != nil {
		return err
	}
	g.Sinks = sinks
	return nil
}

// SetSources replaces the source collection after re-checking its time
// model, material and queue references.
func (g *Graph) SetSources(sources []Source) error {
	if err := checkUnique(SectionSources, sources); err != nil {
		return err
	}
	if err := checkSources(sources, idSet(g.TimeModels), idSet(g.Materials), idSet(g.Queues)); err != nil {
		return err
	}
	g.Sources = sources
	return nil
}

// Dump reconstructs the raw document shape from the current collections.
// Each entity is assigned a stable positional key, zero-padded so that
// lexicographic key order equals collection iteration order.
func (g *Graph) Dump() (map[string]any, error) {
	doc := map[string]any{"seed": g.Seed}

	sections := []struct {
		name    string
		records func() (map[string]any, error)
	}{
		{SectionTimeModels, func() (map[string]any, error) { return dumpSection(g.TimeModels) }},
		{SectionStates, func() (map[string]any, error) { return dumpSection(g.States) }},
		{SectionProcesses, func() (map[string]any, error) { return dumpSection(g.Processes) }},
		{SectionQueues, func() (map[string]any, error) { return dumpSection(g.Queues) }},
		{SectionResources, func() (map[string]any, error) { return dumpSection(g.Resources) }},
		{SectionMaterials, func() (map[string]any, error) { return dumpSection(g.Materials) }},
		{SectionSinks, func() (map[string]any, error) { return dumpSection(g.Sinks) }},
		{SectionSources, func() (map[string]any, error) { return dumpSection(g.Sources) }},
	}
	for _, s := range sections {
		records, err := s.records()
		if err != nil {
			return nil, fmt.Errorf("dump %s: %w", s.name, err)
		}
		doc[s.name] = records
	}

	return doc, nil
}

// dumpSection assigns each entity its positional key.
func dumpSection[E Entity](entities []E) (map[string]any, error) {
	records := make(map[string]any, len(entities))
	for i, e := range entities {
		record, err := dumpRecord(e)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", e.EntityID(), err)
		}
		records[fmt.Sprintf("%04d", i)] = record
	}
	return records, nil
}

// dumpRecord converts one entity to its raw record shape. Sealed union
// members do not carry their tag as a struct field, so it is re-attached
// from the Variant method.
func dumpRecord(e Entity) (map[string]any, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	// A nil slice in a required list field marshals as null, which the
	// canonical form forbids. Programmatically built graphs leave such
	// fields nil, so normalize them to empty lists here.
	for k, v := range record {
		if v == nil {
			record[k] = []any{}
		}
	}
	if v, ok := e.(interface{ Variant() string }); ok {
		record["type"] = v.Variant()
	}
	return record, nil
}
