// Package app wires the discovery engine to its collaborators and
// shapes engine output into run reports.
package app

import (
	"context"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"gorca/domain/core"
	"gorca/domain/expr"
	"gorca/internal"
	"gorca/internal/discovery"
	"gorca/ports"
)

// DiscoveryService runs root-cause discovery for one sample at a time.
type DiscoveryService struct {
	source ports.ExpressionSource
	engine *discovery.Engine
	log    *internal.Logger
}

// NewDiscoveryService wires the service; a nil logger falls back to the
// default.
func NewDiscoveryService(source ports.ExpressionSource, engine *discovery.Engine, logger *internal.Logger) *DiscoveryService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &DiscoveryService{source: source, engine: engine, log: logger}
}

// GeneScore pairs one gene with its root-cause confidence.
type GeneScore struct {
	Gene  string  `json:"gene"`
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// ScoreSummary describes the distribution of panel scores.
type ScoreSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// RunReport is the user-facing outcome of one discovery run.
type RunReport struct {
	RunID       core.RunID        `json:"run_id"`
	SampleID    core.SampleID     `json:"sample_id"`
	StartedAt   core.Timestamp    `json:"started_at"`
	Fingerprint core.DatasetHash  `json:"dataset_fingerprint"`
	Candidates  []int             `json:"candidates"`
	Ranked      []GeneScore       `json:"ranked"`
	Summary     ScoreSummary      `json:"summary"`
	RuntimeMs   int64             `json:"runtime_ms"`
	Result      *discovery.Result `json:"-"`
}

// Run loads the dataset, discovers root-cause scores for the sample and
// ranks the panel by score descending.
func (s *DiscoveryService) Run(ctx context.Context, sampleID core.SampleID) (*RunReport, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.RunOnDataset(ctx, ds, sampleID)
}

// RunOnDataset discovers root-cause scores on an already loaded dataset.
func (s *DiscoveryService) RunOnDataset(ctx context.Context, ds *expr.Dataset, sampleID core.SampleID) (*RunReport, error) {
	startTime := time.Now()
	runID := core.RunID(core.NewID())
	s.log.Info("[DiscoveryService] run %s: sample %s over %d genes",
		runID.String(), sampleID.String(), len(ds.Genes()))

	result, err := s.engine.Discover(ctx, ds, sampleID)
	if err != nil {
		return nil, err
	}

	genes := ds.Genes()
	ranked := make([]GeneScore, len(result.Scores))
	for i, score := range result.Scores {
		ranked[i] = GeneScore{Gene: genes[i], Index: i, Score: score}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})

	report := &RunReport{
		RunID:       runID,
		SampleID:    sampleID,
		StartedAt:   core.NewTimestamp(startTime),
		Fingerprint: ds.Fingerprint(),
		Candidates:  result.Candidates,
		Ranked:      ranked,
		Summary:     summarize(result.Scores),
		RuntimeMs:   time.Since(startTime).Milliseconds(),
		Result:      result,
	}
	s.log.Info("[DiscoveryService] run %s: top gene %s (score %.4f) in %dms",
		runID.String(), report.Ranked[0].Gene, report.Ranked[0].Score, report.RuntimeMs)
	return report, nil
}

func summarize(scores []float64) ScoreSummary {
	mean, _ := stats.Mean(scores)
	median, _ := stats.Median(scores)
	max, _ := stats.Max(scores)
	return ScoreSummary{Mean: mean, Median: median, Max: max}
}
