// Package cli implements the kmeanspp command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the kmeanspp root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kmeanspp",
		Short: "Parallel k-means++ clustering",
		Long: `kmeanspp clusters numeric feature vectors with k-means++ seeding and
Lloyd refinement, running several independent restarts in lockstep.

Datasets are read from a local directory, MinIO or Amazon S3 as JSON Lines
or CSV, optionally compressed with gzip, zstd or lz4.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newClusterCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
