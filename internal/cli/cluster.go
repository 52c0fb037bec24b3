package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kmeanspp"
	"github.com/hupe1980/kmeanspp/codec"
	"github.com/hupe1980/kmeanspp/dataset"
	"github.com/hupe1980/kmeanspp/ingest"
)

func newClusterCmd() *cobra.Command {
	cfg := DefaultConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:   "cluster [blob]",
		Short: "Cluster a dataset",
		Long: `Cluster a dataset and print the result as JSON.

Settings come from built-in defaults, then the --config YAML file, then
explicitly set flags.

Examples:
  kmeanspp cluster --k 3 --runs 5 points.csv
  kmeanspp cluster --root ./data --prefix train/ --k 8
  kmeanspp cluster --source s3 --bucket datasets --k 4 points.jsonl.zst
  kmeanspp cluster --config cluster.yaml --metrics-addr :9090`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd.Flags(), configPath, args, &cfg); err != nil {
				return err
			}
			return runCluster(cmd, &cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	bindFlags(cmd.Flags(), &cfg)

	return cmd
}

func runCluster(cmd *cobra.Command, cfg *Config) error {
	ctx := cmd.Context()

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg.Source)
	if err != nil {
		return err
	}

	rc := cfg.resources()

	ingestOpts, err := cfg.ingestOptions(rc)
	if err != nil {
		return err
	}

	var data *dataset.InMemory
	if cfg.Input.Prefix != "" {
		data, err = ingest.LoadPrefix(ctx, store, cfg.Input.Prefix, ingestOpts...)
	} else {
		data, err = ingest.Load(ctx, store, cfg.Input.Name, ingestOpts...)
	}
	if err != nil {
		return err
	}

	logger.Info("dataset loaded",
		"points", data.Len(),
		"dim", data.Dim(),
		"partitions", data.NumPartitions(),
		"memory_limit", rc.MemoryLimit(),
	)

	opts, err := cfg.clusterOptions(rc, logger)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		ms, err := startMetrics(cfg.MetricsAddr, logger)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		defer ms.stop()
		opts = append(opts, kmeanspp.WithMetricsCollector(ms.collector))
	}

	res, err := kmeanspp.Fit(ctx, data, opts...)
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), cfg.Output, newReport(res, data, cfg.Output.Assignments))
}

func newLogger(w io.Writer, lc LogConfig) (*kmeanspp.Logger, error) {
	level, err := parseLevel(lc.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch lc.Format {
	case "json":
		return kmeanspp.NewLogger(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return kmeanspp.NewLogger(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", lc.Format)
	}
}

// report is the JSON document printed by the cluster command. It describes
// the best run; per-run inertia shows how the restarts compare.
type report struct {
	ID            string          `json:"id"`
	Status        kmeanspp.Status `json:"status"`
	Iterations    int             `json:"iterations"`
	Shift         float64         `json:"shift"`
	BestRun       int             `json:"best_run"`
	Inertia       []float64       `json:"inertia"`
	Centroids     [][]float64     `json:"centroids"`
	Sizes         []int           `json:"sizes"`
	EmptyClusters int             `json:"empty_clusters"`
	DurationMS    int64           `json:"duration_ms"`
	Assignments   []assignment    `json:"assignments,omitempty"`
}

type assignment struct {
	ID      string `json:"id"`
	Cluster int    `json:"cluster"`
}

func newReport(res *kmeanspp.Result, data *dataset.InMemory, withAssignments bool) *report {
	best := res.Best()

	r := &report{
		ID:            res.ID,
		Status:        res.Status,
		Iterations:    res.Iterations,
		Shift:         res.Shift,
		BestRun:       best,
		Inertia:       res.Inertia,
		Centroids:     res.Centroids[best],
		Sizes:         res.Sizes(best),
		EmptyClusters: len(res.EmptyClusters),
		DurationMS:    res.Duration.Milliseconds(),
	}

	if withAssignments {
		r.Assignments = make([]assignment, len(res.Assignments[best]))
		for idx, c := range res.Assignments[best] {
			r.Assignments[idx] = assignment{ID: data.Point(idx).ID, Cluster: c}
		}
	}

	return r
}

func writeReport(stdout io.Writer, oc OutputConfig, r *report) (err error) {
	c, ok := codec.ByName(oc.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", oc.Codec)
	}

	w := stdout
	if oc.Path != "" && oc.Path != "-" {
		f, cerr := os.Create(oc.Path)
		if cerr != nil {
			return fmt.Errorf("creating output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	enc := c.NewEncoder(w)
	if oc.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}
