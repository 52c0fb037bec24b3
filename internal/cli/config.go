package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/kmeanspp"
	"github.com/hupe1980/kmeanspp/codec"
	"github.com/hupe1980/kmeanspp/ingest"
	"github.com/hupe1980/kmeanspp/resource"
)

// Config is the cluster command configuration.
//
// Values are resolved in order: built-in defaults, the YAML config file,
// then explicitly set command-line flags.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Input      InputConfig      `yaml:"input"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Resources  ResourceConfig   `yaml:"resources"`
	Log        LogConfig        `yaml:"log"`
	Output     OutputConfig     `yaml:"output"`

	// MetricsAddr serves Prometheus metrics while clustering (e.g. ":9090").
	MetricsAddr string `yaml:"metrics_addr"`
}

// SourceConfig selects the blob store holding the dataset.
type SourceConfig struct {
	// Type is one of "local", "minio" or "s3".
	Type string `yaml:"type"`

	// Root is the directory of a local store.
	Root string `yaml:"root"`

	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`

	// AccessKey and SecretKey authenticate against MinIO. They default to
	// MINIO_ACCESS_KEY and MINIO_SECRET_KEY.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// InputConfig describes which blobs to read and how to parse them.
type InputConfig struct {
	// Name is a single blob. Ignored when Prefix is set.
	Name string `yaml:"name"`

	// Prefix loads every blob under it, in name order.
	Prefix string `yaml:"prefix"`

	Format   string `yaml:"format"`
	Comma    string `yaml:"comma"`
	IDColumn bool   `yaml:"id_column"`
}

// ClusteringConfig mirrors the kmeanspp options.
type ClusteringConfig struct {
	K             int     `yaml:"k"`
	Runs          int     `yaml:"runs"`
	ConvergeDist  float64 `yaml:"converge_dist"`
	Seed          int64   `yaml:"seed"`
	MaxIterations int     `yaml:"max_iterations"`
	EmptyCluster  string  `yaml:"empty_cluster"`
	Partitions    int     `yaml:"partitions"`
	Parallelism   int     `yaml:"parallelism"`
}

// ResourceConfig sets resource.Controller limits. Zero means unlimited.
type ResourceConfig struct {
	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	MaxWorkers         int64 `yaml:"max_workers"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// OutputConfig controls how the result is written.
type OutputConfig struct {
	// Path of the result file; "-" or empty writes to stdout.
	Path string `yaml:"path"`

	// Codec is a codec.ByName name.
	Codec string `yaml:"codec"`

	Indent      bool `yaml:"indent"`
	Assignments bool `yaml:"assignments"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Type: "local",
			Root: ".",
		},
		Input: InputConfig{
			Format:   ingest.FormatAuto.String(),
			Comma:    ",",
			IDColumn: true,
		},
		Clustering: ClusteringConfig{
			K:             kmeanspp.DefaultK,
			Runs:          kmeanspp.DefaultRuns,
			ConvergeDist:  kmeanspp.DefaultConvergeDist,
			Seed:          kmeanspp.DefaultSeed,
			MaxIterations: kmeanspp.DefaultMaxIterations,
			EmptyCluster:  kmeanspp.ReseedRandom.String(),
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Output: OutputConfig{
			Path:   "-",
			Codec:  "go-json",
			Indent: true,
		},
	}
}

// LoadConfigFile overlays the YAML file at path onto cfg.
// Unknown keys are rejected.
func LoadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// bindFlags registers flags writing directly into cfg.
func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Source.Type, "source", cfg.Source.Type, "dataset source: local, minio or s3")
	fs.StringVar(&cfg.Source.Root, "root", cfg.Source.Root, "root directory of a local source")
	fs.StringVar(&cfg.Source.Bucket, "bucket", cfg.Source.Bucket, "bucket of a minio or s3 source")
	fs.StringVar(&cfg.Source.Prefix, "key-prefix", cfg.Source.Prefix, "key prefix inside the bucket")
	fs.StringVar(&cfg.Source.Region, "region", cfg.Source.Region, "bucket region")
	fs.StringVar(&cfg.Source.Endpoint, "endpoint", cfg.Source.Endpoint, "object storage endpoint")
	fs.BoolVar(&cfg.Source.Secure, "secure", cfg.Source.Secure, "use TLS for minio")

	fs.StringVar(&cfg.Input.Prefix, "prefix", cfg.Input.Prefix, "load every blob under this name prefix")
	fs.StringVar(&cfg.Input.Format, "format", cfg.Input.Format, "record format: auto, jsonl or csv")
	fs.StringVar(&cfg.Input.Comma, "comma", cfg.Input.Comma, "CSV field delimiter")
	fs.BoolVar(&cfg.Input.IDColumn, "id-column", cfg.Input.IDColumn, "first CSV column is the point id")

	fs.IntVar(&cfg.Clustering.K, "k", cfg.Clustering.K, "number of clusters")
	fs.IntVarP(&cfg.Clustering.Runs, "runs", "r", cfg.Clustering.Runs, "number of independent runs")
	fs.Float64Var(&cfg.Clustering.ConvergeDist, "converge-dist", cfg.Clustering.ConvergeDist, "stop when the centroid shift is at most this value")
	fs.Int64Var(&cfg.Clustering.Seed, "seed", cfg.Clustering.Seed, "master random seed")
	fs.IntVar(&cfg.Clustering.MaxIterations, "max-iterations", cfg.Clustering.MaxIterations, "iteration cap (0 = none)")
	fs.StringVar(&cfg.Clustering.EmptyCluster, "empty-cluster", cfg.Clustering.EmptyCluster, "empty cluster policy: reseed, keep or fail")
	fs.IntVar(&cfg.Clustering.Partitions, "partitions", cfg.Clustering.Partitions, "dataset partitions (0 = one per worker)")
	fs.IntVar(&cfg.Clustering.Parallelism, "parallelism", cfg.Clustering.Parallelism, "concurrent workers (0 = GOMAXPROCS)")

	fs.Int64Var(&cfg.Resources.MemoryLimitBytes, "memory-limit", cfg.Resources.MemoryLimitBytes, "working memory limit in bytes")
	fs.Int64Var(&cfg.Resources.MaxWorkers, "max-workers", cfg.Resources.MaxWorkers, "per-run worker slots")
	fs.Int64Var(&cfg.Resources.IOLimitBytesPerSec, "io-limit", cfg.Resources.IOLimitBytesPerSec, "read throughput limit in bytes per second")

	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format: text or json")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn or error")

	fs.StringVarP(&cfg.Output.Path, "output", "o", cfg.Output.Path, "result file (- for stdout)")
	fs.StringVar(&cfg.Output.Codec, "codec", cfg.Output.Codec, "JSON codec: json or go-json")
	fs.BoolVar(&cfg.Output.Indent, "indent", cfg.Output.Indent, "indent the result")
	fs.BoolVar(&cfg.Output.Assignments, "assignments", cfg.Output.Assignments, "include per-point assignments of the best run")

	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")
}

// resolveConfig rebuilds cfg from defaults and the config file, then
// re-applies every flag set on the command line. A positional blob name
// overrides the configured one.
func resolveConfig(fs *pflag.FlagSet, path string, args []string, cfg *Config) error {
	changed := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		if f.Name != "config" {
			changed[f.Name] = f.Value.String()
		}
	})

	*cfg = DefaultConfig()
	if path != "" {
		if err := LoadConfigFile(path, cfg); err != nil {
			return err
		}
	}

	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	if len(args) > 0 {
		cfg.Input.Name = args[0]
	}

	return cfg.Validate()
}

// Validate checks the values the kmeanspp options do not validate.
func (c *Config) Validate() error {
	if _, err := ingest.ParseFormat(c.Input.Format); err != nil {
		return err
	}
	if _, err := kmeanspp.ParseEmptyClusterPolicy(c.Clustering.EmptyCluster); err != nil {
		return err
	}
	if _, err := c.comma(); err != nil {
		return err
	}
	if _, ok := codec.ByName(c.Output.Codec); !ok {
		return fmt.Errorf("unknown codec %q", c.Output.Codec)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	switch c.Source.Type {
	case "local":
	case "minio", "s3":
		if c.Source.Bucket == "" {
			return fmt.Errorf("source %s requires a bucket", c.Source.Type)
		}
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}
	if c.Input.Name == "" && c.Input.Prefix == "" {
		return errors.New("no input: pass a blob name or --prefix")
	}
	return nil
}

func (c *Config) comma() (rune, error) {
	r := []rune(c.Input.Comma)
	if len(r) != 1 {
		return 0, fmt.Errorf("comma must be a single character, got %q", c.Input.Comma)
	}
	return r[0], nil
}

func (c *Config) ingestOptions(rc *resource.Controller) ([]ingest.Option, error) {
	format, err := ingest.ParseFormat(c.Input.Format)
	if err != nil {
		return nil, err
	}
	comma, err := c.comma()
	if err != nil {
		return nil, err
	}
	return []ingest.Option{
		ingest.WithFormat(format),
		ingest.WithComma(comma),
		ingest.WithIDColumn(c.Input.IDColumn),
		ingest.WithResources(rc),
		ingest.WithPartitions(c.Clustering.Partitions),
		ingest.WithParallelism(c.Clustering.Parallelism),
	}, nil
}

func (c *Config) clusterOptions(rc *resource.Controller, logger *kmeanspp.Logger) ([]kmeanspp.Option, error) {
	policy, err := kmeanspp.ParseEmptyClusterPolicy(c.Clustering.EmptyCluster)
	if err != nil {
		return nil, err
	}
	return []kmeanspp.Option{
		kmeanspp.WithK(c.Clustering.K),
		kmeanspp.WithRuns(c.Clustering.Runs),
		kmeanspp.WithConvergeDist(c.Clustering.ConvergeDist),
		kmeanspp.WithSeed(c.Clustering.Seed),
		kmeanspp.WithMaxIterations(c.Clustering.MaxIterations),
		kmeanspp.WithEmptyClusterPolicy(policy),
		kmeanspp.WithParallelism(c.Clustering.Parallelism),
		kmeanspp.WithResourceController(rc),
		kmeanspp.WithLogger(logger),
	}, nil
}

func (c *Config) resources() *resource.Controller {
	r := c.Resources
	if r.MemoryLimitBytes == 0 && r.MaxWorkers == 0 && r.IOLimitBytesPerSec == 0 {
		return nil
	}
	if r.MaxWorkers == 0 {
		r.MaxWorkers = int64(runtime.GOMAXPROCS(0))
	}
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   r.MemoryLimitBytes,
		MaxWorkers:         r.MaxWorkers,
		IOLimitBytesPerSec: r.IOLimitBytesPerSec,
	})
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
