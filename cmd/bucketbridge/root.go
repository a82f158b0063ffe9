// File: cmd/bucketbridge/root.go
package main

import (
	"bucketbridge/internal/flags"
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd(build appBuilder) *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "bucketbridge",
		Short: "bucketbridge manages buckets and objects across cloud storage providers.",
		Long: `A unified CLI for object storage. Configure Google Cloud Storage, Amazon S3
or a MinIO server once, then list, copy, transfer and sign objects with the
same commands on every provider.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := build(cmd, opts)
			if err != nil {
				return err
			}
			cmd.SetContext(withApp(cmd.Context(), app))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.debug, flags.Debug, flags.DebugShort, false, "Enable debug logging")
	pf.StringVarP(&opts.output, flags.Output, flags.OutputShort, "table", "Output format: table, json or yaml")
	pf.StringVar(&opts.configPath, flags.Config, "", "Config file (default ~/.config/bucketbridge/config.json, or $BUCKETBRIDGE_CONFIG)")

	rootCmd.AddCommand(newBucketCmd(), newObjectCmd(), newConfigCmd(), newProvidersCmd())
	return rootCmd
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	rootCmd := newRootCmd(newApp)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}
