package loader

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/millrun/millrun/internal/plant"
)

// record wraps one raw record for decoding. The declared ID is extracted
// up front, best effort, so every decode error can name the record.
type record struct {
	section string
	id      string
	v       cue.Value
}

func newRecord(section string, v cue.Value) record {
	r := record{section: section, v: v}
	if idVal := v.LookupPath(cue.ParsePath("ID")); idVal.Exists() {
		if id, err := idVal.String(); err == nil {
			r.id = id
		}
	}
	return r
}

func (r record) malformed(field, message string, pos token.Pos) *MalformedRecordError {
	if !pos.IsValid() {
		pos = r.v.Pos()
	}
	return &MalformedRecordError{
		Code:    ErrCodeMalformed,
		Section: r.section,
		ID:      r.id,
		Field:   field,
		Message: message,
		Pos:     pos,
	}
}

func (r record) unknownVariant(variant string) *MalformedRecordError {
	return &MalformedRecordError{
		Code:    ErrCodeUnknownVariant,
		Section: r.section,
		ID:      r.id,
		Field:   "type",
		Message: fmt.Sprintf("unknown variant %q", variant),
		Pos:     r.v.Pos(),
	}
}

// str decodes a required string field.
func (r record) str(field string) (string, error) {
	v := r.v.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return "", r.malformed(field, "required field is missing", r.v.Pos())
	}
	s, err := v.String()
	if err != nil {
		return "", r.malformed(field, "expected a string", v.Pos())
	}
	return s, nil
}

// strOpt decodes an optional string field, returning "" when absent.
func (r record) strOpt(field string) (string, error) {
	v := r.v.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return "", nil
	}
	s, err := v.String()
	if err != nil {
		return "", r.malformed(field, "expected a string", v.Pos())
	}
	return s, nil
}

// intOpt decodes an optional integer field, returning 0 when absent.
func (r record) intOpt(field string) (int64, error) {
	v := r.v.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return 0, nil
	}
	n, err := v.Int64()
	if err != nil {
		return 0, r.malformed(field, "expected an integer", v.Pos())
	}
	return n, nil
}

// float decodes a required number field.
func (r record) float(field string) (float64, error) {
	v := r.v.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return 0, r.malformed(field, "required field is missing", r.v.Pos())
	}
	f, err := v.Float64()
	if err != nil {
		return 0, r.malformed(field, "expected a number", v.Pos())
	}
	return f, nil
}

// floats decodes a required list of numbers.
func (r record) floats(field string) ([]float64, error) {
	v := r.v.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return nil, r.malformed(field, "required field is missing", r.v.Pos())
	}
	return r.decodeFloats(field, v)
}

// floatsOpt decodes an optional list of numbers, returning nil when absent.
func (r record) floatsOpt(field string) ([]float64, error) {
	v := r.v.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return nil, nil
	}
	return r.decodeFloats(field, v)
}

func (r record) decodeFloats(field string, v cue.Value) ([]float64, error) {
	iter, err := v.List()
	if err != nil {
		return nil, r.malformed(field, "expected a list of numbers", v.Pos())
	}
	out := []float64{}
	for iter.Next() {
		f, err := iter.Value().Float64()
		if err != nil {
			return nil, r.malformed(field, "expected a number", iter.Value().Pos())
		}
		out = append(out, f)
	}
	return out, nil
}

// strs decodes a required list of strings.
func (r record) strs(field string) ([]string, error) {
	v := r.v.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return nil, r.malformed(field, "required field is missing", r.v.Pos())
	}
	return r.decodeStrs(field, v)
}

// strsOpt decodes an optional list of strings. Absence is reported
// distinctly from an empty list: the returned pointer is nil when the field
// is not present.
func (r record) strsOpt(field string) (*[]string, error) {
	v := r.v.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return nil, nil
	}
	out, err := r.decodeStrs(field, v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r record) decodeStrs(field string, v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, r.malformed(field, "expected a list of strings", v.Pos())
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, r.malformed(field, "expected a string", iter.Value().Pos())
		}
		out = append(out, s)
	}
	return out, nil
}

// Resolve decodes one raw record of the named section into its concrete
// entity. Pure: no state is consulted beyond the record itself.
func Resolve(section string, v cue.Value) (plant.Entity, error) {
	switch section {
	case plant.SectionTimeModels:
		return resolveTimeModel(v)
	case plant.SectionStates:
		return resolveState(v)
	case plant.SectionProcesses:
		return resolveProcess(v)
	case plant.SectionQueues:
		return resolveQueue(v)
	case plant.SectionResources:
		return resolveResource(v)
	case plant.SectionMaterials:
		return resolveMaterial(v)
	case plant.SectionSinks:
		return resolveSink(v)
	case plant.SectionSources:
		return resolveSource(v)
	default:
		return nil, fmt.Errorf("unknown section %q", section)
	}
}

func resolveTimeModel(v cue.Value) (plant.TimeModel, error) {
	r := newRecord(plant.SectionTimeModels, v)
	variant, err := r.str("type")
	if err != nil {
		return nil, err
	}
	id, err := r.str("ID")
	if err != nil {
		return nil, err
	}
	description, err := r.strOpt("description")
	if err != nil {
		return nil, err
	}

	switch variant {
	case plant.VariantFunctionTimeModel:
		fn, err := r.str("distribution_function")
		if err != nil {
			return nil, err
		}
		params, err := r.floats("parameters")
		if err != nil {
			return nil, err
		}
		batch, err := r.intOpt("batch_size")
		if err != nil {
			return nil, err
		}
		return plant.FunctionTimeModel{
			ID:                   id,
			Description:          description,
			DistributionFunction: fn,
			Parameters:           params,
			BatchSize:            batch,
		}, nil

	case plant.VariantHistoryTimeModel:
		history, err := r.floats("history")
		if err != nil {
			return nil, err
		}
		return plant.HistoryTimeModel{ID: id, Description: description, History: history}, nil

	case plant.VariantManhattanDistanceTimeModel:
		speed, err := r.float("speed")
		if err != nil {
			return nil, err
		}
		reaction, err := r.float("reaction_time")
		if err != nil {
			return nil, err
		}
		return plant.ManhattanDistanceTimeModel{
			ID:           id,
			Description:  description,
			Speed:        speed,
			ReactionTime: reaction,
		}, nil

	default:
		return nil, r.unknownVariant(variant)
	}
}

func resolveState(v cue.Value) (plant.State, error) {
	r := newRecord(plant.SectionStates, v)
	variant, err := r.str("type")
	if err != nil {
		return plant.State{}, err
	}
	stateType := plant.StateType(variant)
	if !plant.ValidStateTypes[stateType] {
		return plant.State{}, r.unknownVariant(variant)
	}
	id, err := r.str("ID")
	if err != nil {
		return plant.State{}, err
	}
	description, err := r.strOpt("description")
	if err != nil {
		return plant.State{}, err
	}
	timeModelID, err := r.str("time_model_id")
	if err != nil {
		return plant.State{}, err
	}
	return plant.State{ID: id, Type: stateType, Description: description, TimeModelID: timeModelID}, nil
}

func resolveProcess(v cue.Value) (plant.Process, error) {
	r := newRecord(plant.SectionProcesses, v)
	variant, err := r.str("type")
	if err != nil {
		return plant.Process{}, err
	}
	processType := plant.ProcessType(variant)
	if !plant.ValidProcessTypes[processType] {
		return plant.Process{}, r.unknownVariant(variant)
	}
	id, err := r.str("ID")
	if err != nil {
		return plant.Process{}, err
	}
	description, err := r.strOpt("description")
	if err != nil {
		return plant.Process{}, err
	}
	timeModelID, err := r.str("time_model_id")
	if err != nil {
		return plant.Process{}, err
	}
	return plant.Process{ID: id, Type: processType, Description: description, TimeModelID: timeModelID}, nil
}

func resolveQueue(v cue.Value) (plant.Queue, error) {
	r := newRecord(plant.SectionQueues, v)
	id, err := r.str("ID")
	if err != nil {
		return plant.Queue{}, err
	}
	description, err := r.strOpt("description")
	if err != nil {
		return plant.Queue{}, err
	}
	capacity, err := r.intOpt("capacity")
	if err != nil {
		return plant.Queue{}, err
	}
	return plant.Queue{ID: id, Description: description, Capacity: capacity}, nil
}

func resolveResource(v cue.Value) (plant.Resource, error) {
	r := newRecord(plant.SectionResources, v)
	variant, err := r.str("type")
	if err != nil {
		return nil, err
	}
	id, err := r.str("ID")
	if err != nil {
		return nil, err
	}
	description, err := r.strOpt("description")
	if err != nil {
		return nil, err
	}
	processes, err := r.strs("processes")
	if err != nil {
		return nil, err
	}
	states, err := r.strs("states")
	if err != nil {
		return nil, err
	}
	location, err := r.floatsOpt("location")
	if err != nil {
		return nil, err
	}
	capacity, err := r.intOpt("capacity")
	if err != nil {
		return nil, err
	}

	switch variant {
	case plant.VariantProductionResource:
		inputQueues, err := r.strs("input_queues")
		if err != nil {
			return nil, err
		}
		outputQueues, err := r.strs("output_queues")
		if err != nil {
			return nil, err
		}
		return plant.ProductionResource{
			ID:           id,
			Description:  description,
			Processes:    processes,
			States:       states,
			Location:     location,
			Capacity:     capacity,
			InputQueues:  inputQueues,
			OutputQueues: outputQueues,
		}, nil

	case plant.VariantTransportResource:
		return plant.TransportResource{
			ID:          id,
			Description: description,
			Processes:   processes,
			States:      states,
			Location:    location,
			Capacity:    capacity,
		}, nil

	default:
		return nil, r.unknownVariant(variant)
	}
}

func resolveMaterial(v cue.Value) (plant.Material, error) {
	r := newRecord(plant.SectionMaterials, v)
	id, err := r.str("ID")
	if err != nil {
		return plant.Material{}, err
	}
	description, err := r.strOpt("description")
	if err != nil {
		return plant.Material{}, err
	}
	transportProcess, err := r.str("transport_process")
	if err != nil {
		return plant.Material{}, err
	}
	processes, err := r.strsOpt("processes")
	if err != nil {
		return plant.Material{}, err
	}
	return plant.Material{
		ID:               id,
		Description:      description,
		TransportProcess: transportProcess,
		Processes:        processes,
	}, nil
}

func resolveSink(v cue.Value) (plant.Sink, error) {
	r := newRecord(plant.SectionSinks, v)
	id, err := r.str("ID")
	if err != nil {
		return plant.Sink{}, err
	}
	description, err := r.strOpt("description")
	if err != nil {
		return plant.Sink{}, err
	}
	materialType, err := r.str("material_type")
	if err != nil {
		return plant.Sink{}, err
	}
	inputQueues, err := r.strs("input_queues")
	if err != nil {
		return plant.Sink{}, err
	}
	return plant.Sink{ID: id, Description: description, MaterialType: materialType, InputQueues: inputQueues}, nil
}

func resolveSource(v cue.Value) (plant.Source, error) {
	r := newRecord(plant.SectionSources, v)
	id, err := r.str("ID")
	if err != nil {
		return plant.Source{}, err
	}
	description, err := r.strOpt("description")
	if err != nil {
		return plant.Source{}, err
	}
	timeModelID, err := r.str("time_model_id")
	if err != nil {
		return plant.Source{}, err
	}
	materialType, err := r.str("material_type")
	if err != nil {
		return plant.Source{}, err
	}
	router, err := r.strOpt("router")
	if err != nil {
		return plant.Source{}, err
	}
	outputQueues, err := r.strs("output_queues")
	if err != nil {
		return plant.Source{}, err
	}
	return plant.Source{
		ID:           id,
		Description:  description,
		TimeModelID:  timeModelID,
		MaterialType: materialType,
		Router:       router,
		OutputQueues: outputQueues,
	}, nil
}
