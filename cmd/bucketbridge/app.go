// File: cmd/bucketbridge/app.go
package main

import (
	"bucketbridge/internal/config"
	"bucketbridge/internal/logger"
	"bucketbridge/internal/provider/factory"
	"bucketbridge/internal/service"
	"bucketbridge/internal/ui/prompt"
	"bucketbridge/pkg/formatter"
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// appContainer holds the shared dependencies of every command
type appContainer struct {
	Config           *config.Config
	ConfigManager    *config.ConfigManager
	ProviderFactory  *factory.Factory
	StorageService   *service.StorageService
	StorageFormatter *formatter.StorageFormatter
	Prompter         prompt.Prompter
	Logger           *slog.Logger
	Output           formatter.Format
}

// Values of the persistent root flags
type globalOptions struct {
	configPath string
	debug      bool
	output     string
}

// Builds the container once the global flags are parsed
type appBuilder func(cmd *cobra.Command, opts globalOptions) (*appContainer, error)

func newApp(cmd *cobra.Command, opts globalOptions) (*appContainer, error) {
	output, err := formatter.ParseFormat(opts.output)
	if err != nil {
		return nil, err
	}

	log := logger.NewLogger(opts.debug)

	var cfgManager *config.ConfigManager
	if opts.configPath != "" {
		cfgManager, err = config.NewConfigManagerWithPath(opts.configPath)
	} else {
		cfgManager, err = config.NewConfigManager()
	}
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	return assembleApp(cmd, cfgManager, cfg, factory.NewFactory(cfg, log), output, log), nil
}

func assembleApp(cmd *cobra.Command, cfgManager *config.ConfigManager, cfg *config.Config, providerFactory *factory.Factory, output formatter.Format, log *slog.Logger) *appContainer {
	return &appContainer{
		Config:           cfg,
		ConfigManager:    cfgManager,
		ProviderFactory:  providerFactory,
		StorageService:   service.NewStorageService(providerFactory, log),
		StorageFormatter: formatter.NewStorageFormatter(cmd.OutOrStdout()),
		Prompter:         prompt.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		Logger:           log,
		Output:           output,
	}
}

type appContextKey struct{}

func withApp(ctx context.Context, app *appContainer) context.Context {
	return context.WithValue(ctx, appContextKey{}, app)
}

func appFromContext(ctx context.Context) (*appContainer, error) {
	app, ok := ctx.Value(appContextKey{}).(*appContainer)
	if !ok || app == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}

// Prints the table rendering, or encodes view for structured output formats
func (app *appContainer) render(cmd *cobra.Command, table func() string, view any) error {
	if app.Output == formatter.FormatTable {
		fmt.Fprintln(cmd.OutOrStdout(), table())
		return nil
	}
	return formatter.Encode(cmd.OutOrStdout(), app.Output, view)
}
