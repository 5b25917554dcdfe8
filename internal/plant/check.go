package plant

import "sort"

// Document section names. These are part of the raw document shape and are
// also used as collection names in integrity errors.
const (
	SectionTimeModels = "time_models"
	SectionStates     = "states"
	SectionProcesses  = "processes"
	SectionQueues     = "queues"
	SectionResources  = "resources"
	SectionMaterials  = "materials"
	SectionSinks      = "sinks"
	SectionSources    = "sources"
)

// idSet returns the set of IDs present in a collection.
func idSet[E Entity](entities []E) map[string]struct{} {
	ids := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		ids[e.EntityID()] = struct{}{}
	}
	return ids
}

// sortedIDs returns the set's members in sorted order for diagnostics.
func sortedIDs(ids map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// checkUnique verifies IDs are unique within one collection.
func checkUnique[E Entity](section string, entities []E) error {
	seen := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		id := e.EntityID()
		if _, dup := seen[id]; dup {
			return &DuplicateIDError{Section: section, ID: id}
		}
		seen[id] = struct{}{}
	}
	return nil
}

// checkRef verifies a single reference field resolves in the valid set.
func checkRef(entity, entityID, field, target string, valid map[string]struct{}) error {
	if _, ok := valid[target]; !ok {
		return &DanglingReferenceError{
			Entity:   entity,
			EntityID: entityID,
			Field:    field,
			Target:   target,
			Valid:    sortedIDs(valid),
		}
	}
	return nil
}

// checkRefList verifies every target of a list reference field, failing on
// the first dangling reference.
func checkRefList(entity, entityID, field string, targets []string, valid map[string]struct{}) error {
	for _, target := range targets {
		if err := checkRef(entity, entityID, field, target, valid); err != nil {
			return err
		}
	}
	return nil
}

func checkStates(states []State, timeModels map[string]struct{}) error {
	for _, s := range states {
		if err := checkRef("state", s.ID, "time_model_id", s.TimeModelID, timeModels); err != nil {
			return err
		}
	}
	return nil
}

func checkProcesses(processes []Process, timeModels map[string]struct{}) error {
	for _, p := range processes {
		if err := checkRef("process", p.ID, "time_model_id", p.TimeModelID, timeModels); err != nil {
			return err
		}
	}
	return nil
}

func checkResources(resources []Resource, processes, states, queues map[string]struct{}) error {
	for _, r := range resources {
		if err := checkRefList("resource", r.EntityID(), "processes", r.ProcessRefs(), processes); err != nil {
			return err
		}
		if err := checkRefList("resource", r.EntityID(), "states", r.StateRefs(), states); err != nil {
			return err
		}
		// Only the production-capable variant carries queue references.
		if pr, ok := r.(ProductionResource); ok {
			if err := checkRefList("resource", pr.ID, "input_queues", pr.InputQueues, queues); err != nil {
				return err
			}
			if err := checkRefList("resource", pr.ID, "output_queues", pr.OutputQueues, queues); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkMaterials(materials []Material, processes map[string]struct{}) error {
	for _, m := range materials {
		if err := checkRef("material", m.ID, "transport_process", m.TransportProcess, processes); err != nil {
			return err
		}
		// An absent processes list declares no references and is exempt; a
		// present list is checked even when empty.
		if m.Processes != nil {
			if err := checkRefList("material", m.ID, "processes", *m.Processes, processes); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkSinks(sinks []Sink, materials, queues map[string]struct{}) error {
	for _, s := range sinks {
		if err := checkRef("sink", s.ID, "material_type", s.MaterialType, materials); err != nil {
			return err
		}
		if err := checkRefList("sink", s.ID, "input_queues", s.InputQueues, queues); err != nil {
			return err
		}
	}
	return nil
}

func checkSources(sources []Source, timeModels, materials, queues map[string]struct{}) error {
	for _, s := range sources {
		if err := checkRef("source", s.ID, "time_model_id", s.TimeModelID, timeModels); err != nil {
			return err
		}
		if err := checkRef("source", s.ID, "material_type", s.MaterialType, materials); err != nil {
			return err
		}
		if err := checkRefList("source", s.ID, "output_queues", s.OutputQueues, queues); err != nil {
			return err
		}
	}
	return nil
}

// Validate proves every cross-reference in the graph resolves.
//
// Collections are checked in dependency order; every collection an entity
// may reference is earlier in the order, so a single forward pass suffices.
// The first violation fails the whole validation. On success the advisory
// ValidConfiguration flag is set.
func (g *Graph) Validate() error {
	g.ValidConfiguration = false

	if err := checkUnique(SectionTimeModels, g.TimeModels); err != nil {
		return err
	}
	if err := checkUnique(SectionStates, g.States); err != nil {
		return err
	}
	if err := checkUnique(SectionProcesses, g.Processes); err != nil {
		return err
	}
	if err := checkUnique(SectionQueues, g.Queues); err != nil {
		return err
	}
	if err := checkUnique(SectionResources, g.Resources); err != nil {
		return err
	}
	if err := checkUnique(SectionMaterials, g.Materials); err != nil {
		return err
	}
	if err := checkUnique(SectionSinks, g.Sinks); err != nil {
		return err
	}
	if err := checkUnique(SectionSources, g.Sources); err != nil {
		return err
	}

	timeModels := idSet(g.TimeModels)
	if err := checkStates(g.States, timeModels); err != nil {
		return err
	}
	if err := checkProcesses(g.Processes, timeModels); err != nil {
		return err
	}

	processes := idSet(g.Processes)
	states := idSet(g.States)
	queues := idSet(g.Queues)
	if err := checkResources(g.Resources, processes, states, queues); err != nil {
		return err
	}
	if err := checkMaterials(g.Materials, processes); err != nil {
		return err
	}

	materials := idSet(g.Materials)
	if err := checkSinks(g.Sinks, materials, queues); err != nil {
		return err
	}
	if err := checkSources(g.Sources, timeModels, materials, queues); err != nil {
		return err
	}

	g.ValidConfiguration = true
	return nil
}
