// File: cmd/bucketbridge/bucket_cmd.go
package main

import (
	"bucketbridge/internal/flags"
	"bucketbridge/internal/provider/factory"
	"bucketbridge/internal/service"
	"bucketbridge/pkg/formatter"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type bucketFlags struct {
	providersList []string
	provider      string
	location      string
	maxResults    int
	usage         bool
	force         bool
}

func newBucketCmd() *cobra.Command {
	cmdFlags := bucketFlags{}

	bucketCmd := &cobra.Command{
		Use:     "bucket",
		Aliases: []string{"buckets"},
		Short:   "Manage storage buckets",
		Long:    `List, describe, create and delete buckets on the configured providers.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List buckets",
		Long: `Lists buckets on every configured provider, or only on those named with --providers
(e.g., --providers gcp,minio). A provider that fails is reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			providersToQuery, err := resolveProvidersForList(cmdFlags.providersList, app.ProviderFactory)
			if err != nil {
				return err
			}
			if len(providersToQuery) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No providers configured. Use 'bucketbridge config set'. Supported providers: %s\n",
					strings.Join(app.ProviderFactory.SupportedProviders(), ", "))
				return nil
			}

			listing, err := app.StorageService.ListAllBuckets(cmd.Context(), providersToQuery, cmdFlags.maxResults)
			if err != nil {
				return err
			}
			for _, failure := range listing.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped provider %s: %v\n", failure.Provider, failure.Err)
			}

			if len(listing.Buckets) == 0 && app.Output == formatter.FormatTable {
				fmt.Fprintln(cmd.OutOrStdout(), "No buckets found.")
				return nil
			}
			return app.render(cmd,
				func() string { return app.StorageFormatter.FormatBucketList(listing.Buckets) },
				formatter.NewBucketViews(listing.Buckets))
		},
	}
	listCmd.Flags().StringSliceVarP(&cmdFlags.providersList, flags.Providers, flags.ProvidersShort, []string{}, "Providers to query (comma-separated). Defaults to all configured providers.")
	listCmd.Flags().IntVarP(&cmdFlags.maxResults, flags.MaxResults, flags.MaxResultsShort, 0, "Maximum number of buckets per provider (0 uses the provider page size)")

	describeCmd := &cobra.Command{
		Use:   "describe [bucket-name]",
		Short: "Describe a bucket",
		Long:  `Shows the details of a bucket. With --usage, also reports stored bytes on providers that publish usage metrics.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			bucketName, providerName := args[0], cmdFlags.provider

			bucket, err := app.StorageService.DescribeBucket(cmd.Context(), bucketName, providerName)
			if err != nil {
				return fmt.Errorf("error describing bucket '%s' on %s: %w", bucketName, providerName, err)
			}

			usage := int64(-1)
			if cmdFlags.usage {
				usage, err = app.StorageService.BucketUsage(cmd.Context(), bucketName, providerName)
				switch {
				case errors.Is(err, service.ErrUsageUnsupported):
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
					usage = -1
				case err != nil:
					return fmt.Errorf("error reading usage of bucket '%s' on %s: %w", bucketName, providerName, err)
				}
			}

			view := formatter.NewBucketView(bucket)
			if usage >= 0 {
				view.UsageBytes = &usage
			}
			return app.render(cmd,
				func() string { return app.StorageFormatter.FormatBucketDetails(bucket, usage) },
				view)
		},
	}
	describeCmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "", "The provider where the bucket resides (required)")
	describeCmd.Flags().BoolVar(&cmdFlags.usage, flags.Usage, false, "Include bucket usage from provider metrics")
	describeCmd.MarkFlagRequired(flags.Provider)

	createCmd := &cobra.Command{
		Use:   "create [bucket-name]",
		Short: "Create a bucket",
		Long:  `Creates a bucket on the given provider. Without --location the provider's default location is used.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			bucketName, providerName := args[0], cmdFlags.provider

			bucket, err := app.StorageService.CreateBucket(cmd.Context(), bucketName, providerName, cmdFlags.location)
			if err != nil {
				return fmt.Errorf("error creating bucket '%s' on %s: %w", bucketName, providerName, err)
			}

			return app.render(cmd,
				func() string {
					location := bucket.Location
					if location == "" {
						location = "the default location"
					}
					return fmt.Sprintf("Bucket '%s' created in %s on provider %s.", bucket.Name, location, providerName)
				},
				formatter.NewBucketView(bucket))
		},
	}
	createCmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "", "The provider to create the bucket on (required)")
	createCmd.Flags().StringVarP(&cmdFlags.location, flags.Location, flags.LocationShort, "", "The location/region to create the bucket in")
	createCmd.MarkFlagRequired(flags.Provider)

	deleteCmd := &cobra.Command{
		Use:   "delete [bucket-name]",
		Short: "Delete a bucket",
		Long:  `Deletes an empty bucket. You are asked to type the bucket name unless --force is given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			bucketName, providerName := args[0], cmdFlags.provider

			if !cmdFlags.force {
				confirmed, err := app.Prompter.Confirm(
					fmt.Sprintf("This permanently deletes bucket '%s' on %s.", bucketName, providerName), bucketName)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion canceled.")
					return nil
				}
			}

			if err := app.StorageService.DeleteBucket(cmd.Context(), bucketName, providerName); err != nil {
				return fmt.Errorf("error deleting bucket '%s' on %s: %w", bucketName, providerName, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Bucket '%s' deleted from provider %s.\n", bucketName, providerName)
			return nil
		},
	}
	deleteCmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "", "The provider where the bucket resides (required)")
	deleteCmd.Flags().BoolVar(&cmdFlags.force, flags.Force, false, "Skip the confirmation prompt")
	deleteCmd.MarkFlagRequired(flags.Provider)

	bucketCmd.AddCommand(listCmd, describeCmd, createCmd, deleteCmd)
	return bucketCmd
}

func resolveProvidersForList(requestedProviders []string, providerFactory *factory.Factory) ([]string, error) {
	if len(requestedProviders) == 0 {
		return providerFactory.ConfiguredProviders(), nil
	}

	supported := make(map[string]bool)
	for _, name := range providerFactory.SupportedProviders() {
		supported[name] = true
	}

	var validatedProviders []string
	var invalidProviders []string
	seen := make(map[string]bool)

	for _, p := range requestedProviders {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true

		if !supported[p] {
			invalidProviders = append(invalidProviders, p)
			continue
		}
		if !providerFactory.IsConfigured(p) {
			return nil, fmt.Errorf("provider '%s' was requested but is not configured. Use 'bucketbridge config set %s.<key> <value>'", p, p)
		}
		validatedProviders = append(validatedProviders, p)
	}

	if len(invalidProviders) > 0 {
		return nil, fmt.Errorf("unsupported providers requested: %v. Supported providers are: %v", invalidProviders, providerFactory.SupportedProviders())
	}
	return validatedProviders, nil
}
