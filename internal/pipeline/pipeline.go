// Package pipeline wires fetch, decode, normalize and write into a
// single statement-normalization run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-normalizer/internal/bq"
	"github.com/dvloznov/statement-normalizer/internal/gcsio"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/normalizer"
)

// Options configure a single normalization run.
type Options struct {
	// Input is a local file path or a gs:// URI.
	Input string

	// OutDir receives the normalized CSV.
	OutDir string

	// ScanLimit bounds the header search; 0 keeps the engine default.
	ScanLimit int

	// UploadBucket, when set, receives a copy of the normalized CSV.
	UploadBucket string

	// BQDest, when set, receives the records as table rows.
	BQDest *bq.Dest

	// Storage is required for gs:// input or uploads.
	Storage gcsio.StorageService
}

// State holds the shared state across pipeline steps.
type State struct {
	Opts Options

	RunID      string
	SourceName string // base file name, used for output naming
	RawBytes   []byte
	Matrix     [][]string
	Records    []normalizer.Record
	OutPath    string
}

// Step is a single stage of the run.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewRunPipeline creates the standard pipeline for normalizing one
// statement file.
func NewRunPipeline() *Pipeline {
	return NewPipeline(
		&FetchStep{},
		&DecodeStep{},
		&NormalizeStep{},
		&WriteStep{},
		&UploadStep{},
		&InsertRecordsStep{},
	)
}

// NormalizeFile runs the standard pipeline over one input and returns
// the final state.
func NormalizeFile(ctx context.Context, opts Options) (*State, error) {
	state := &State{
		Opts:  opts,
		RunID: uuid.NewString(),
	}

	log := logger.FromContext(ctx).With().Str("run_id", state.RunID).Logger()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("input", opts.Input).Msg("Starting normalization run")

	if err := NewRunPipeline().Execute(ctx, state); err != nil {
		log.Error().Err(err).Msg("Normalization run failed")
		return nil, err
	}

	log.Info().
		Int("records", len(state.Records)).
		Str("output", state.OutPath).
		Msg("Normalization run completed")
	return state, nil
}
