// Package analysis runs the astrometric calculator over star catalogues.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	errorsmod "cosmossdk.io/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/AlbinSjoegren/SPV/internal/metrics"
	"github.com/AlbinSjoegren/SPV/internal/types"
	astromath "github.com/AlbinSjoegren/SPV/pkg/astronomy/math"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
	"github.com/AlbinSjoegren/SPV/pkg/export"
)

// Pipeline converts catalogue rows to Cartesian states.
type Pipeline struct {
	workers      int
	properMotion ProperMotionUnit
	logger       *slog.Logger
}

// NewPipeline creates a pipeline. workers <= 0 uses one worker per CPU.
func NewPipeline(workers int, pm ProperMotionUnit, logger *slog.Logger) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		workers:      workers,
		properMotion: pm,
		logger:       logger.With("component", "batch"),
	}
}

// Outcome is the result of one record. Err is set for skipped records.
type Outcome struct {
	State types.StarState
	Err   error
}

// Run reads inputFile, writes one state per valid row to outputFile and
// returns the run summary.
func (p *Pipeline) Run(ctx context.Context, inputFile, outputFile string) (*types.BatchSummary, error) {
	p.logger.Info("starting batch", "input", inputFile, "output", outputFile, "workers", p.workers)
	start := time.Now()

	file, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer file.Close()

	records, parseSkipped, err := ReadCatalogue(file, p.logger)
	if err != nil {
		return nil, err
	}
	for i := 0; i < parseSkipped; i++ {
		metrics.BatchRow(metrics.OutcomeSkipped)
	}

	outcomes, err := p.Process(ctx, records)
	if err != nil {
		return nil, err
	}

	sink, err := export.NewStateSink(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}

	summary := &types.BatchSummary{
		Input:       inputFile,
		Output:      outputFile,
		RowsRead:    len(records) + parseSkipped,
		RowsSkipped: parseSkipped,
	}
	var states []types.StarState
	for i, o := range outcomes {
		if o.Err != nil {
			p.logger.Warn("skipping record", "line", records[i].Line, "hip", records[i].HIP, "error", o.Err)
			summary.RowsSkipped++
			metrics.BatchRow(metrics.OutcomeSkipped)
			continue
		}
		if err := sink.WriteState(o.State); err != nil {
			sink.Close()
			return nil, fmt.Errorf("failed to write state: %w", err)
		}
		states = append(states, o.State)
		summary.RowsWritten++
		metrics.BatchRow(metrics.OutcomeWritten)
	}
	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("failed to close output: %w", err)
	}

	Summarize(summary, states)
	summary.Duration = time.Since(start)
	metrics.ObserveBatch(summary.Duration)

	p.logger.Info("batch completed",
		"rows_read", summary.RowsRead,
		"rows_written", summary.RowsWritten,
		"rows_skipped", summary.RowsSkipped,
		"duration", summary.Duration,
	)
	return summary, nil
}

// Process computes the state of every record on the worker pool. The
// returned slice is index-aligned with records; invalid records carry their
// validation error.
func (p *Pipeline) Process(ctx context.Context, records []types.StarRecord) ([]Outcome, error) {
	outcomes := make([]Outcome, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range records {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.compute(records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}
	return outcomes, nil
}

func (p *Pipeline) compute(rec types.StarRecord) Outcome {
	st, err := Observation(rec, p.properMotion).CheckedState()
	if err != nil {
		return Outcome{Err: err}
	}
	state := types.StarState{
		HIP:      rec.HIP,
		Name:     rec.Name,
		Position: astromath.FromR3(st.Position),
		Velocity: astromath.FromR3(st.Velocity),
	}
	if !state.Position.IsFinite() || !state.Velocity.IsFinite() {
		return Outcome{Err: errorsmod.Wrapf(validation.ErrNonFiniteResult, "state of %q", rec.Name)}
	}
	return Outcome{State: state}
}

// Summarize fills the distance and speed statistics of summary.
func Summarize(summary *types.BatchSummary, states []types.StarState) {
	if len(states) == 0 {
		return
	}
	distances := make([]float64, len(states))
	speeds := make([]float64, len(states))
	for i, s := range states {
		distances[i] = units.MetersToParsecs(s.Position.Magnitude())
		speeds[i] = s.Velocity.Magnitude() / 1000
	}

	summary.MeanDistancePc = stat.Mean(distances, nil)
	summary.MeanSpeedKmS = stat.Mean(speeds, nil)
	if len(states) > 1 {
		summary.StdDistancePc = stat.StdDev(distances, nil)
		summary.StdSpeedKmS = stat.StdDev(speeds, nil)
	}
}
