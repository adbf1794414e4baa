package discovery

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"gorca/domain/anomaly"
	"gorca/domain/core"
	"gorca/domain/expr"
	"gorca/internal"
	"gorca/internal/screen"
	"gorca/ports"
)

// DefaultTriggerZ is the Z-score above which a gene becomes a root-cause
// candidate.
const DefaultTriggerZ = 1.5

// Config tunes one discovery engine.
type Config struct {
	Method   screen.Method
	TriggerZ float64 // 0 means DefaultTriggerZ
	Shuffles int     // 0 means causal.DefaultShuffles
	Workers  int     // 0 means runtime.NumCPU()
	Seed     int64

	// FailFast aborts the run on the first candidate error; otherwise
	// the error is logged and the candidate's slot stays zero.
	FailFast bool

	// Thresholds overrides the per-candidate sweep derived from Scan.
	Thresholds []float64
	Scan       anomaly.ScanRange

	// Precision switches screening from Lasso regression to the
	// candidate's Markov blanket in this precision matrix.
	Precision mat.Matrix

	Folds      int // Lasso CV folds
	PathLength int // Lasso path grid size
}

// Result is one full-panel discovery outcome. Scores is the root-cause
// confidence per gene in original panel order; SupportSizes records the
// reduced panel size per tested candidate (zero for untested genes).
type Result struct {
	SampleID     core.SampleID
	Row          int
	ZScores      []float64
	Candidates   []int
	Scores       []float64
	SupportSizes []int
}

// Engine runs the high-dimensional discovery pipeline: trigger
// candidates by Z-score, screen and rank each in parallel, then merge
// into one score per gene.
type Engine struct {
	lookup ports.SampleLookup
	cfg    Config
	log    *internal.Logger
}

// NewEngine wires an engine; a nil logger falls back to the default.
func NewEngine(lookup ports.SampleLookup, cfg Config, logger *internal.Logger) *Engine {
	if cfg.TriggerZ == 0 {
		cfg.TriggerZ = DefaultTriggerZ
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Method == "" {
		cfg.Method = screen.MethodCV
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Engine{lookup: lookup, cfg: cfg, log: logger}
}

// Discover scores every gene of the panel for one sample identifier.
// The lookup runs before any linear algebra, so an unknown identifier
// fails with core.ErrNotFound immediately.
func (e *Engine) Discover(ctx context.Context, ds *expr.Dataset, id core.SampleID) (*Result, error) {
	row, err := e.lookup.RowIndex(ctx, id)
	if err != nil {
		return nil, err
	}
	sample := ds.Interventional.Row(row)
	obs := ds.Observational.Values()
	_, p := obs.Dims()

	z, err := anomaly.Scores(obs, sample)
	if err != nil {
		return nil, err
	}

	var candidates []int
	for i, v := range z {
		if v > e.cfg.TriggerZ {
			candidates = append(candidates, i)
		}
	}
	e.log.Info("[Engine] sample %s: %d of %d genes exceed trigger %.2f",
		id.String(), len(candidates), p, e.cfg.TriggerZ)

	result := &Result{
		SampleID:     id,
		Row:          row,
		ZScores:      z,
		Candidates:   candidates,
		Scores:       make([]float64, p),
		SupportSizes: make([]int, p),
	}

	// per-candidate seeds drawn up front from the master seed, so a
	// fixed seed reproduces scores regardless of goroutine scheduling
	master := rand.New(rand.NewSource(e.cfg.Seed))
	seeds := make([]int64, len(candidates))
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, candidate := range candidates {
		g.Go(func() error {
			score, supportSize, err := e.scoreOne(gctx, obs, sample, candidate, seeds[i])
			if err != nil {
				if e.cfg.FailFast {
					return err
				}
				e.log.Warn("[Engine] candidate %d failed, recording zero: %v", candidate, err)
				return nil
			}
			// each candidate owns exactly its own slot
			result.Scores[candidate] = score
			result.SupportSizes[candidate] = supportSize
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rescaleUnscored(result.Scores, z)
	return result, nil
}

// scoreOne reduces the panel for one candidate and ranks it on the
// reduced problem.
func (e *Engine) scoreOne(ctx context.Context, obs *mat.Dense, sample []float64, candidate int, seed int64) (float64, int, error) {
	var (
		reduction screen.Reduction
		err       error
	)
	if e.cfg.Precision != nil {
		reduction, err = screen.ReduceByPrecision(e.cfg.Precision, candidate, obs, sample)
	} else {
		screener := screen.Screener{Folds: e.cfg.Folds, PathLength: e.cfg.PathLength}
		reduction, err = screener.Reduce(e.cfg.Method, candidate, obs, sample)
	}
	if err != nil {
		return 0, 0, err
	}
	e.log.Debug("[Engine] candidate %d screened to %d genes", candidate, len(reduction.Selected))

	opts := RankOptions{
		Thresholds: e.cfg.Thresholds,
		Scan:       e.cfg.Scan,
		Shuffles:   e.cfg.Shuffles,
	}
	score, err := ScoreCandidate(ctx, reduction.Obs, reduction.Sample, opts, rand.New(rand.NewSource(seed)))
	if err != nil {
		return 0, 0, err
	}
	return score, len(reduction.Selected), nil
}
