package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"gorca/adapters/exprio"
	"gorca/adapters/lookup"
	"gorca/app"
	"gorca/domain/core"
	"gorca/domain/expr"
	"gorca/internal"
	"gorca/internal/config"
	"gorca/internal/discovery"
	"gorca/internal/screen"
	"gorca/ports"
)

func newDiscoverCmd() *cobra.Command {
	var (
		obsPath  string
		intPath  string
		method   string
		trigger  float64
		shuffles int
		seed     int64
		workers  int
		failFast bool
		top      int
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "discover [sample-id]",
		Short: "Score every gene as the root cause of one sample's anomaly",
		Long: `Load an observational and an interventional expression matrix, then
score every gene of the panel as the root cause of the named sample's
anomaly.

Example: gorca discover patient-17 --obs controls.csv --int patients.csv --method nhalf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if obsPath == "" {
				obsPath = cfg.Paths.ObservationalFile
			}
			if intPath == "" {
				intPath = cfg.Paths.InterventionalFile
			}
			if obsPath == "" || intPath == "" {
				return fmt.Errorf("observational and interventional files are required (--obs/--int or GORCA_OBS_FILE/GORCA_INT_FILE)")
			}
			if method == "" {
				method = cfg.Discovery.Method.String()
			}
			parsedMethod, err := screen.ParseMethod(method)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("trigger") {
				trigger = cfg.Discovery.TriggerZ
			}
			if !cmd.Flags().Changed("shuffles") {
				shuffles = cfg.Discovery.Shuffles
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Discovery.Seed
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Discovery.Workers
			}
			if !cmd.Flags().Changed("fail-fast") {
				failFast = cfg.Discovery.FailFast
			}

			return runDiscover(cmd.Context(), discoverParams{
				sampleID: core.SampleID(args[0]),
				obsPath:  obsPath,
				intPath:  intPath,
				dbURL:    cfg.Database.URL,
				cfg: discovery.Config{
					Method:   parsedMethod,
					TriggerZ: trigger,
					Shuffles: shuffles,
					Seed:     seed,
					Workers:  workers,
					FailFast: failFast,
					Scan:     cfg.Scan.Range(),
				},
				top:     top,
				outPath: outPath,
			})
		},
	}

	cmd.Flags().StringVar(&obsPath, "obs", "", "Observational matrix file (csv or xlsx)")
	cmd.Flags().StringVar(&intPath, "int", "", "Interventional matrix file (csv or xlsx)")
	cmd.Flags().StringVar(&method, "method", "", "Screening method: cv, largest_support or nhalf")
	cmd.Flags().Float64Var(&trigger, "trigger", discovery.DefaultTriggerZ, "Z-score above which a gene becomes a candidate")
	cmd.Flags().IntVar(&shuffles, "shuffles", 1, "Random re-orderings per aberrant gene")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible runs")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel candidate workers (0 = all CPUs)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Abort the run on the first candidate failure")
	cmd.Flags().IntVar(&top, "top", 10, "Number of top-ranked genes to print")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the full ranking to this CSV file")

	return cmd
}

type discoverParams struct {
	sampleID core.SampleID
	obsPath  string
	intPath  string
	dbURL    string
	cfg      discovery.Config
	top      int
	outPath  string
}

func runDiscover(ctx context.Context, params discoverParams) error {
	logger := internal.NewDefaultLogger()
	source := exprio.NewReader(params.obsPath, params.intPath)
	ds, err := source.Load(ctx)
	if err != nil {
		return err
	}

	sampleLookup, cleanup, err := buildLookup(ctx, params.dbURL, ds)
	if err != nil {
		return err
	}
	defer cleanup()

	engine := discovery.NewEngine(sampleLookup, params.cfg, logger)
	service := app.NewDiscoveryService(source, engine, logger)

	report, err := service.RunOnDataset(ctx, ds, params.sampleID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s, sample %s: %d candidate genes tested\n",
		report.RunID.String(), report.SampleID.String(), len(report.Candidates))
	limit := params.top
	if limit > len(report.Ranked) {
		limit = len(report.Ranked)
	}
	fmt.Printf("%-6s %-20s %12s\n", "rank", "gene", "score")
	for i := 0; i < limit; i++ {
		entry := report.Ranked[i]
		fmt.Printf("%-6d %-20s %12.4f\n", i+1, entry.Gene, entry.Score)
	}

	if params.outPath != "" {
		if err := writeRankingCSV(params.outPath, report); err != nil {
			return err
		}
		fmt.Printf("Full ranking written to %s\n", params.outPath)
	}
	return nil
}

// buildLookup prefers the registered Postgres sample index, falling back
// to the interventional matrix's own row identifiers.
func buildLookup(ctx context.Context, dbURL string, ds *expr.Dataset) (ports.SampleLookup, func(), error) {
	if dbURL != "" {
		pg, err := lookup.Connect(ctx, dbURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	}
	ids := ds.SampleIDs()
	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("interventional matrix carries no sample identifiers and no DATABASE_URL is set")
	}
	return lookup.FromSampleIDs(ids), func() {}, nil
}

func writeRankingCSV(path string, report *app.RunReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"rank", "gene", "index", "score"}); err != nil {
		return err
	}
	for i, entry := range report.Ranked {
		record := []string{
			strconv.Itoa(i + 1),
			entry.Gene,
			strconv.Itoa(entry.Index),
			strconv.FormatFloat(entry.Score, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
