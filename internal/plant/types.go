package plant

// Entity is implemented by every configuration record kind.
type Entity interface {
	EntityID() string
}

// Variant tags for polymorphic record categories. These are the values of
// the "type" field on raw records and are part of the document format.
const (
	VariantFunctionTimeModel          = "FunctionTimeModel"
	VariantHistoryTimeModel           = "HistoryTimeModel"
	VariantManhattanDistanceTimeModel = "ManhattanDistanceTimeModel"

	VariantProductionResource = "ProductionResource"
	VariantTransportResource  = "TransportResource"
)

// TimeModel is a sealed union of time model variants.
// Only FunctionTimeModel, HistoryTimeModel and ManhattanDistanceTimeModel
// implement it.
type TimeModel interface {
	Entity
	// Variant returns the record's type tag.
	Variant() string
	timeModel() // Sealed - only these types implement it
}

// FunctionTimeModel samples durations from a parameterized distribution
// function.
type FunctionTimeModel struct {
	ID                   string    `json:"ID"`
	Description          string    `json:"description,omitempty"`
	DistributionFunction string    `json:"distribution_function"`
	Parameters           []float64 `json:"parameters"`
	BatchSize            int64     `json:"batch_size,omitempty"`
}

func (m FunctionTimeModel) EntityID() string { return m.ID }
func (FunctionTimeModel) Variant() string    { return VariantFunctionTimeModel }
func (FunctionTimeModel) timeModel()         {}

// HistoryTimeModel replays durations recorded from an observed facility.
type HistoryTimeModel struct {
	ID          string    `json:"ID"`
	Description string    `json:"description,omitempty"`
	History     []float64 `json:"history"`
}

func (m HistoryTimeModel) EntityID() string { return m.ID }
func (HistoryTimeModel) Variant() string    { return VariantHistoryTimeModel }
func (HistoryTimeModel) timeModel()         {}

// ManhattanDistanceTimeModel derives transport durations from manhattan
// distance, speed and reaction time.
type ManhattanDistanceTimeModel struct {
	ID           string  `json:"ID"`
	Description  string  `json:"description,omitempty"`
	Speed        float64 `json:"speed"`
	ReactionTime float64 `json:"reaction_time"`
}

func (m ManhattanDistanceTimeModel) EntityID() string { return m.ID }
func (ManhattanDistanceTimeModel) Variant() string    { return VariantManhattanDistanceTimeModel }
func (ManhattanDistanceTimeModel) timeModel()         {}

// StateType identifies the concrete state variant. State variants share one
// shape, so the tag is carried as a field rather than as separate types.
type StateType string

const (
	BreakDownState  StateType = "BreakDownState"
	ProductionState StateType = "ProductionState"
	TransportState  StateType = "TransportState"
)

// ValidStateTypes is the closed set of state variants.
var ValidStateTypes = map[StateType]bool{
	BreakDownState:  true,
	ProductionState: true,
	TransportState:  true,
}

// State describes a machine or process state driven by a time model.
type State struct {
	ID          string    `json:"ID"`
	Type        StateType `json:"type"`
	Description string    `json:"description,omitempty"`
	TimeModelID string    `json:"time_model_id"`
}

func (s State) EntityID() string { return s.ID }

// ProcessType identifies the concrete process variant.
type ProcessType string

const (
	ProductionProcess ProcessType = "ProductionProcesses"
	TransportProcess  ProcessType = "TransportProcesses"
	CapabilityProcess ProcessType = "CapabilityProcesses"
)

// ValidProcessTypes is the closed set of process variants.
var ValidProcessTypes = map[ProcessType]bool{
	ProductionProcess: true,
	TransportProcess:  true,
	CapabilityProcess: true,
}

// Process describes a production, transport or capability process driven by
// a time model.
type Process struct {
	ID          string      `json:"ID"`
	Type        ProcessType `json:"type"`
	Description string      `json:"description,omitempty"`
	TimeModelID string      `json:"time_model_id"`
}

func (p Process) EntityID() string { return p.ID }

// Queue is a buffer between resources, sources and sinks.
// Capacity 0 means unbounded.
type Queue struct {
	ID          string `json:"ID"`
	Description string `json:"description,omitempty"`
	Capacity    int64  `json:"capacity,omitempty"`
}

func (q Queue) EntityID() string { return q.ID }

// Resource is a sealed union of resource variants. Only ProductionResource
// and TransportResource implement it. Only the production variant carries
// queue references.
type Resource interface {
	Entity
	// Variant returns the record's type tag.
	Variant() string
	// ProcessRefs returns the process IDs the resource can run.
	ProcessRefs() []string
	// StateRefs returns the state IDs the resource can be in.
	StateRefs() []string
	resource() // Sealed - only these types implement it
}

// ProductionResource is a production-capable resource with input and output
// queues.
type ProductionResource struct {
	ID           string    `json:"ID"`
	Description  string    `json:"description,omitempty"`
	Processes    []string  `json:"processes"`
	States       []string  `json:"states"`
	Location     []float64 `json:"location,omitempty"`
	Capacity     int64     `json:"capacity,omitempty"`
	InputQueues  []string  `json:"input_queues"`
	OutputQueues []string  `json:"output_queues"`
}

func (r ProductionResource) EntityID() string      { return r.ID }
func (ProductionResource) Variant() string         { return VariantProductionResource }
func (r ProductionResource) ProcessRefs() []string { return r.Processes }
func (r ProductionResource) StateRefs() []string   { return r.States }
func (ProductionResource) resource()               {}

// TransportResource moves materials between locations. It has no queues of
// its own.
type TransportResource struct {
	ID          string    `json:"ID"`
	Description string    `json:"description,omitempty"`
	Processes   []string  `json:"processes"`
	States      []string  `json:"states"`
	Location    []float64 `json:"location,omitempty"`
	Capacity    int64     `json:"capacity,omitempty"`
}

func (r TransportResource) EntityID() string      { return r.ID }
func (TransportResource) Variant() string         { return VariantTransportResource }
func (r TransportResource) ProcessRefs() []string { return r.Processes }
func (r TransportResource) StateRefs() []string   { return r.States }
func (TransportResource) resource()               {}

// Material describes a material type moved by a transport process and
// optionally refined by production processes.
//
// Processes is a pointer so that an absent list and a present-but-empty list
// are distinguishable: nil means no process references are declared and no
// integrity check applies; a non-nil empty list is checked (trivially).
type Material struct {
	ID               string    `json:"ID"`
	Description      string    `json:"description,omitempty"`
	TransportProcess string    `json:"transport_process"`
	Processes        *[]string `json:"processes,omitempty"`
}

func (m Material) EntityID() string { return m.ID }

// Sink consumes finished materials from its input queues.
type Sink struct {
	ID           string   `json:"ID"`
	Description  string   `json:"description,omitempty"`
	MaterialType string   `json:"material_type"`
	InputQueues  []string `json:"input_queues"`
}

func (s Sink) EntityID() string { return s.ID }

// Source emits materials into its output queues on a time model schedule.
type Source struct {
	ID           string   `json:"ID"`
	Description  string   `json:"description,omitempty"`
	TimeModelID  string   `json:"time_model_id"`
	MaterialType string   `json:"material_type"`
	Router       string   `json:"router,omitempty"`
	OutputQueues []string `json:"output_queues"`
}

func (s Source) EntityID() string { return s.ID }
