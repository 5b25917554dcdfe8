package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millrun/millrun/internal/plant"
)

func TestReadJSONDocument(t *testing.T) {
	g, err := Read(filepath.Join("testdata", "mill.json"))
	require.NoError(t, err)

	assert.EqualValues(t, 42, g.Seed)
	assert.True(t, g.ValidConfiguration)
	assert.Len(t, g.TimeModels, 3)
	assert.Len(t, g.Resources, 2)

	src, ok := g.SourceByID("src_in")
	require.True(t, ok)
	assert.Equal(t, "tm_arrival", src.TimeModelID)
}

func TestReadYAMLDocumentMatchesJSON(t *testing.T) {
	fromJSON, err := Read(filepath.Join("testdata", "mill.json"))
	require.NoError(t, err)
	fromYAML, err := Read(filepath.Join("testdata", "mill.yaml"))
	require.NoError(t, err)

	jsonHash, err := fromJSON.ContentHash()
	require.NoError(t, err)
	yamlHash, err := fromYAML.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, jsonHash, yamlHash, "encoding must not affect content identity")
}

func TestReadCUEDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mill.cue")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	g, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, g.States, 1)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, ErrCodeIO, docErr.Code)
	assert.Equal(t, ErrCodeIO, Code(err))
}

func TestReadMalformedSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"seed": 1,`), 0o644))

	_, err := Read(path)
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, ErrCodeFormat, docErr.Code)
}

func TestReadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mill.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = 1"), 0o644))

	_, err := Read(path)
	assert.Equal(t, ErrCodeFormat, Code(err))
}

func TestRoundTripJSON(t *testing.T) {
	g, err := Read(filepath.Join("testdata", "mill.json"))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(g, out))

	reloaded, err := Read(out)
	require.NoError(t, err)

	originalHash, err := g.ContentHash()
	require.NoError(t, err)
	reloadedHash, err := reloaded.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, originalHash, reloadedHash)

	// Spot-check that references still resolve to the same targets.
	s, ok := reloaded.StateByID("s_breakdown")
	require.True(t, ok)
	assert.Equal(t, "tm_mill", s.TimeModelID)
	m, ok := reloaded.MaterialByID("m_housing")
	require.True(t, ok)
	require.NotNil(t, m.Processes)
	assert.Equal(t, []string{"p_mill"}, *m.Processes)
}

func TestRoundTripYAML(t *testing.T) {
	g, err := Read(filepath.Join("testdata", "mill.json"))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Write(g, out))

	reloaded, err := Read(out)
	require.NoError(t, err)

	originalHash, err := g.ContentHash()
	require.NoError(t, err)
	reloadedHash, err := reloaded.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, originalHash, reloadedHash)
}

func TestWriteUnsupportedExtension(t *testing.T) {
	g := plant.NewGraph()
	err := Write(g, filepath.Join(t.TempDir(), "out.cue"))

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, ErrCodeFormat, docErr.Code)
}

func TestCanonicalDumpGolden(t *testing.T) {
	g := &plant.Graph{
		Seed: 7,
		TimeModels: []plant.TimeModel{
			plant.FunctionTimeModel{ID: "tm1", DistributionFunction: "constant", Parameters: []float64{1.5}},
		},
		States: []plant.State{
			{ID: "s1", Type: plant.BreakDownState, TimeModelID: "tm1"},
		},
	}
	require.NoError(t, g.Validate())

	doc, err := g.Dump()
	require.NoError(t, err)
	data, err := plant.MarshalCanonical(doc)
	require.NoError(t, err)

	gold := goldie.New(t)
	gold.Assert(t, "tiny_canonical", data)
}
