package loader

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millrun/millrun/internal/plant"
)

func compileRecord(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return v
}

func TestResolveTimeModelVariants(t *testing.T) {
	t.Run("function", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:                    "tm1"
			type:                  "FunctionTimeModel"
			distribution_function: "normal"
			parameters: [10, 2.5]
			batch_size: 100
		}`)
		tm, err := resolveTimeModel(v)
		require.NoError(t, err)

		fn, ok := tm.(plant.FunctionTimeModel)
		require.True(t, ok)
		assert.Equal(t, "tm1", fn.ID)
		assert.Equal(t, "normal", fn.DistributionFunction)
		assert.Equal(t, []float64{10, 2.5}, fn.Parameters)
		assert.EqualValues(t, 100, fn.BatchSize)
	})

	t.Run("history", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:   "tm2"
			type: "HistoryTimeModel"
			history: [1.1, 2.2, 3.3]
		}`)
		tm, err := resolveTimeModel(v)
		require.NoError(t, err)

		h, ok := tm.(plant.HistoryTimeModel)
		require.True(t, ok)
		assert.Equal(t, []float64{1.1, 2.2, 3.3}, h.History)
	})

	t.Run("manhattan distance", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:            "tm3"
			type:          "ManhattanDistanceTimeModel"
			speed:         30
			reaction_time: 0.15
		}`)
		tm, err := resolveTimeModel(v)
		require.NoError(t, err)

		m, ok := tm.(plant.ManhattanDistanceTimeModel)
		require.True(t, ok)
		assert.Equal(t, 30.0, m.Speed)
		assert.Equal(t, 0.15, m.ReactionTime)
	})
}

func TestResolveTimeModelUnknownVariant(t *testing.T) {
	v := compileRecord(t, `{
		ID:   "tm1"
		type: "QuantumTimeModel"
	}`)
	_, err := resolveTimeModel(v)

	var recErr *MalformedRecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, ErrCodeUnknownVariant, recErr.Code)
	assert.Equal(t, plant.SectionTimeModels, recErr.Section)
	assert.Equal(t, "tm1", recErr.ID)
	assert.Equal(t, "type", recErr.Field)
}

func TestResolveStateMissingRequiredField(t *testing.T) {
	v := compileRecord(t, `{
		ID:   "s1"
		type: "BreakDownState"
	}`)
	_, err := resolveState(v)

	var recErr *MalformedRecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, ErrCodeMalformed, recErr.Code)
	assert.Equal(t, "s1", recErr.ID)
	assert.Equal(t, "time_model_id", recErr.Field)
}

func TestResolveQueueWrongValueType(t *testing.T) {
	v := compileRecord(t, `{
		ID:       "q1"
		capacity: "lots"
	}`)
	_, err := resolveQueue(v)

	var recErr *MalformedRecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, ErrCodeMalformed, recErr.Code)
	assert.Equal(t, "capacity", recErr.Field)
}

func TestResolveResourceVariants(t *testing.T) {
	t.Run("production resource carries queues", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:   "r1"
			type: "ProductionResource"
			processes: ["p1"]
			states: ["s1"]
			location: [5, 10]
			input_queues: ["q_in"]
			output_queues: ["q_out"]
		}`)
		r, err := resolveResource(v)
		require.NoError(t, err)

		pr, ok := r.(plant.ProductionResource)
		require.True(t, ok)
		assert.Equal(t, []string{"q_in"}, pr.InputQueues)
		assert.Equal(t, []string{"q_out"}, pr.OutputQueues)
		assert.Equal(t, []float64{5, 10}, pr.Location)
	})

	t.Run("production resource requires queues", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:   "r1"
			type: "ProductionResource"
			processes: ["p1"]
			states: ["s1"]
		}`)
		_, err := resolveResource(v)

		var recErr *MalformedRecordError
		require.ErrorAs(t, err, &recErr)
		assert.Equal(t, "input_queues", recErr.Field)
	})

	t.Run("transport resource has no queue fields", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:   "r2"
			type: "TransportResource"
			processes: ["p1"]
			states: ["s1"]
		}`)
		r, err := resolveResource(v)
		require.NoError(t, err)

		_, ok := r.(plant.TransportResource)
		assert.True(t, ok)
	})
}

func TestResolveMaterialOptionalProcesses(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:                "m1"
			transport_process: "p_agv"
		}`)
		m, err := resolveMaterial(v)
		require.NoError(t, err)
		assert.Nil(t, m.Processes)
	})

	t.Run("present but empty", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:                "m1"
			transport_process: "p_agv"
			processes: []
		}`)
		m, err := resolveMaterial(v)
		require.NoError(t, err)
		require.NotNil(t, m.Processes)
		assert.Empty(t, *m.Processes)
	})

	t.Run("present with entries", func(t *testing.T) {
		v := compileRecord(t, `{
			ID:                "m1"
			transport_process: "p_agv"
			processes: ["p1", "p2"]
		}`)
		m, err := resolveMaterial(v)
		require.NoError(t, err)
		require.NotNil(t, m.Processes)
		assert.Equal(t, []string{"p1", "p2"}, *m.Processes)
	})
}

func TestResolveDispatchesBySection(t *testing.T) {
	v := compileRecord(t, `{
		ID:            "src1"
		time_model_id: "tm1"
		material_type: "m1"
		output_queues: ["q1"]
	}`)
	e, err := Resolve(plant.SectionSources, v)
	require.NoError(t, err)

	src, ok := e.(plant.Source)
	require.True(t, ok)
	assert.Equal(t, "src1", src.EntityID())

	_, err = Resolve("conveyors", v)
	require.Error(t, err)
}

func TestResolveStateUnknownVariant(t *testing.T) {
	v := compileRecord(t, `{
		ID:            "s1"
		type:          "HibernationState"
		time_model_id: "tm1"
	}`)
	_, err := resolveState(v)

	var recErr *MalformedRecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, ErrCodeUnknownVariant, recErr.Code)
}
