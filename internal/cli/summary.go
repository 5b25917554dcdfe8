package cli

import (
	"fmt"

	"github.com/millrun/millrun/internal/loader"
	"github.com/millrun/millrun/internal/plant"
)

// GraphSummary is the JSON payload describing a loaded configuration.
type GraphSummary struct {
	Seed        int64  `json:"seed"`
	ContentHash string `json:"content_hash"`
	Valid       bool   `json:"valid"`
	TimeModels  int    `json:"time_models"`
	States      int    `json:"states"`
	Processes   int    `json:"processes"`
	Queues      int    `json:"queues"`
	Resources   int    `json:"resources"`
	Materials   int    `json:"materials"`
	Sinks       int    `json:"sinks"`
	Sources     int    `json:"sources"`
}

func summarize(g *plant.Graph) (GraphSummary, error) {
	hash, err := g.ContentHash()
	if err != nil {
		return GraphSummary{}, err
	}
	return GraphSummary{
		Seed:        g.Seed,
		ContentHash: hash,
		Valid:       g.ValidConfiguration,
		TimeModels:  len(g.TimeModels),
		States:      len(g.States),
		Processes:   len(g.Processes),
		Queues:      len(g.Queues),
		Resources:   len(g.Resources),
		Materials:   len(g.Materials),
		Sinks:       len(g.Sinks),
		Sources:     len(g.Sources),
	}, nil
}

func (s GraphSummary) text() string {
	return fmt.Sprintf(
		"seed: %d\ncontent hash: %s\ntime models: %d\nstates: %d\nprocesses: %d\nqueues: %d\nresources: %d\nmaterials: %d\nsinks: %d\nsources: %d",
		s.Seed, s.ContentHash, s.TimeModels, s.States, s.Processes, s.Queues,
		s.Resources, s.Materials, s.Sinks, s.Sources)
}

// exitCodeFor maps load errors to exit codes: I/O problems are command
// errors, everything content-related is a validation failure.
func exitCodeFor(err error) int {
	if loader.Code(err) == loader.ErrCodeIO {
		return ExitCommandError
	}
	return ExitFailure
}
