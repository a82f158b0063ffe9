// File: cmd/bucketbridge/providers_cmd.go
package main

import (
	"bucketbridge/pkg/formatter"
	"fmt"

	"github.com/spf13/cobra"
)

type providerView struct {
	Name         string `json:"name" yaml:"name"`
	Configured   bool   `json:"configured" yaml:"configured"`
	Capabilities string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show supported providers and what they can do",
		Long: `Lists every supported provider, whether it is configured, and for configured
providers the operations they support natively (signed URLs, cross-bucket copy).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			var summaries []formatter.ProviderSummary
			var views []providerView
			for _, name := range app.ProviderFactory.SupportedProviders() {
				summary := formatter.ProviderSummary{Name: name, Configured: app.ProviderFactory.IsConfigured(name)}
				if summary.Configured {
					caps, err := app.StorageService.Capabilities(cmd.Context(), name)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not initialize %s: %v\n", name, err)
					} else {
						summary.Capabilities = caps.String()
					}
				}
				summaries = append(summaries, summary)
				views = append(views, providerView(summary))
			}

			return app.render(cmd, func() string { return app.StorageFormatter.FormatProviders(summaries) }, views)
		},
	}
}
