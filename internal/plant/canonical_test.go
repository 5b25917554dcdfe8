package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"seed":        int64(1),
		"time_models": map[string]any{},
		"states":      map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"seed":1,"states":{},"time_models":{}}`, string(data))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{"description": "a < b & c > d"})
	require.NoError(t, err)
	assert.Equal(t, `{"description":"a < b & c > d"}`, string(data))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to the composed form.
	decomposed, err := MarshalCanonical("é")
	require.NoError(t, err)
	composed, err := MarshalCanonical("é")
	require.NoError(t, err)
	assert.Equal(t, string(composed), string(decomposed))
}

func TestMarshalCanonicalIntegralFloats(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"capacity": float64(21),
		"speed":    30.5,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"capacity":21,"speed":30.5}`, string(data))
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": nil})
	require.Error(t, err)
}

func TestMarshalCanonicalNestedArrays(t *testing.T) {
	data, err := MarshalCanonical([]any{"a", float64(1), true, []any{}})
	require.NoError(t, err)
	assert.Equal(t, `["a",1,true,[]]`, string(data))
}

func TestDocumentHashStable(t *testing.T) {
	g := testGraph()

	h1, err := g.ContentHash()
	require.NoError(t, err)
	h2, err := g.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	g.Seed = 43
	h3, err := g.ContentHash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
