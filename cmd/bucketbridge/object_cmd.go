// File: cmd/bucketbridge/object_cmd.go
package main

import (
	"bucketbridge/internal/flags"
	"bucketbridge/pkg/formatter"
	"bucketbridge/pkg/storage"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

type objectFlags struct {
	provider   string
	maxResults int
	start      int64
	end        int64
	last       int64
	file       string
	upload     bool
	force      bool
}

func newObjectCmd() *cobra.Command {
	cmdFlags := objectFlags{}

	objectCmd := &cobra.Command{
		Use:     "object",
		Aliases: []string{"objects"},
		Short:   "Manage objects inside a bucket",
		Long:    `List, describe, transfer, copy, sign and delete objects. Every subcommand targets one provider given with --provider.`,
	}

	providerFlag := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "", "The provider where the bucket resides (required)")
		cmd.MarkFlagRequired(flags.Provider)
	}

	listCmd := &cobra.Command{
		Use:   "list [bucket-name]",
		Short: "List objects in a bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			bucketName := args[0]

			objects, err := app.StorageService.ListObjects(cmd.Context(), bucketName, cmdFlags.provider, cmdFlags.maxResults)
			if err != nil {
				return fmt.Errorf("error listing objects in '%s' on %s: %w", bucketName, cmdFlags.provider, err)
			}

			if len(objects) == 0 && app.Output == formatter.FormatTable {
				fmt.Fprintf(cmd.OutOrStdout(), "No objects found in bucket '%s'.\n", bucketName)
				return nil
			}
			return app.render(cmd,
				func() string { return app.StorageFormatter.FormatObjectList(bucketName, objects) },
				formatter.NewObjectViews(objects))
		},
	}
	providerFlag(listCmd)
	listCmd.Flags().IntVarP(&cmdFlags.maxResults, flags.MaxResults, flags.MaxResultsShort, 0, "Maximum number of objects (0 uses the provider page size)")

	describeCmd := &cobra.Command{
		Use:   "describe [bucket-name] [object-name]",
		Short: "Describe an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			obj, err := app.StorageService.DescribeObject(cmd.Context(), args[0], args[1], cmdFlags.provider)
			if err != nil {
				return fmt.Errorf("error describing object '%s/%s' on %s: %w", args[0], args[1], cmdFlags.provider, err)
			}
			return app.render(cmd,
				func() string { return app.StorageFormatter.FormatObjectDetails(obj) },
				formatter.NewObjectView(obj))
		},
	}
	providerFlag(describeCmd)

	downloadCmd := &cobra.Command{
		Use:   "download [bucket-name] [object-name]",
		Short: "Download an object or part of it",
		Long: `Downloads an object in a single request and writes it to --file (stdout by default).
Select part of the object with --start and --end (inclusive offsets), or --last N for the final N bytes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			rng, err := rangeFromFlags(cmd, cmdFlags)
			if err != nil {
				return err
			}

			data, err := app.StorageService.DownloadObject(cmd.Context(), args[0], args[1], cmdFlags.provider, rng)
			if err != nil {
				return fmt.Errorf("error downloading '%s/%s' from %s: %w", args[0], args[1], cmdFlags.provider, err)
			}

			if cmdFlags.file == "" || cmdFlags.file == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(cmdFlags.file, data, 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", cmdFlags.file, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Downloaded %s (%s) to %s.\n", storage.FormatBytes(int64(len(data))), rng, cmdFlags.file)
			return nil
		},
	}
	providerFlag(downloadCmd)
	downloadCmd.Flags().Int64Var(&cmdFlags.start, flags.Start, 0, "First byte offset to download")
	downloadCmd.Flags().Int64Var(&cmdFlags.end, flags.End, 0, "Last byte offset to download (inclusive)")
	downloadCmd.Flags().Int64Var(&cmdFlags.last, flags.Last, 0, "Download only the final N bytes")
	downloadCmd.Flags().StringVarP(&cmdFlags.file, flags.File, flags.FileShort, "-", "Destination file, or - for stdout")

	uploadCmd := &cobra.Command{
		Use:   "upload [bucket-name] [object-name]",
		Short: "Upload a file as an object",
		Long:  `Uploads --file (or stdin with -) in a single request, replacing any object with the same name.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			data, err := readUploadSource(cmd, cmdFlags.file)
			if err != nil {
				return err
			}

			obj, err := app.StorageService.UploadObject(cmd.Context(), args[0], args[1], cmdFlags.provider, data)
			if err != nil {
				return fmt.Errorf("error uploading '%s/%s' to %s: %w", args[0], args[1], cmdFlags.provider, err)
			}
			return app.render(cmd,
				func() string { return app.StorageFormatter.FormatObjectDetails(obj) },
				formatter.NewObjectView(obj))
		},
	}
	providerFlag(uploadCmd)
	uploadCmd.Flags().StringVarP(&cmdFlags.file, flags.File, flags.FileShort, "", "Source file, or - for stdin (required)")
	uploadCmd.MarkFlagRequired(flags.File)

	copyCmd := &cobra.Command{
		Use:   "copy [src-bucket] [src-object] [dst-bucket] [dst-object]",
		Short: "Copy an object on the server side",
		Long:  `Copies an object without downloading it. Some providers only copy within one bucket.`,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			obj, err := app.StorageService.CopyObject(cmd.Context(), cmdFlags.provider, args[0], args[1], args[2], args[3])
			if err != nil {
				if storage.IsUnsupported(err) {
					return fmt.Errorf("provider %s cannot copy between buckets: %w", cmdFlags.provider, err)
				}
				return fmt.Errorf("error copying '%s/%s' to '%s/%s' on %s: %w", args[0], args[1], args[2], args[3], cmdFlags.provider, err)
			}
			return app.render(cmd,
				func() string { return app.StorageFormatter.FormatObjectDetails(obj) },
				formatter.NewObjectView(obj))
		},
	}
	providerFlag(copyCmd)

	urlCmd := &cobra.Command{
		Use:   "url [bucket-name] [object-name]",
		Short: "Print a URL for downloading or uploading an object",
		Long: `Prints a pre-authorized download URL, or an upload URL with --upload.
Providers that cannot sign downloads return the object's public URL instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			view := formatter.URLView{Method: http.MethodGet}
			if cmdFlags.upload {
				view.Method, view.Signed = http.MethodPut, true
				view.URL, err = app.StorageService.UploadURL(cmd.Context(), args[0], args[1], cmdFlags.provider)
			} else {
				view.URL, view.Signed, err = app.StorageService.DownloadURL(cmd.Context(), args[0], args[1], cmdFlags.provider)
			}
			if err != nil {
				return fmt.Errorf("error creating URL for '%s/%s' on %s: %w", args[0], args[1], cmdFlags.provider, err)
			}

			return app.render(cmd, func() string { return view.URL }, view)
		},
	}
	providerFlag(urlCmd)
	urlCmd.Flags().BoolVar(&cmdFlags.upload, flags.Upload, false, "Create a PUT URL for uploading instead of a download URL")

	deleteCmd := &cobra.Command{
		Use:   "delete [bucket-name] [object-name]",
		Short: "Delete an object",
		Long:  `Deletes an object. You are asked to type the object name unless --force is given.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			bucketName, objectName := args[0], args[1]

			if !cmdFlags.force {
				confirmed, err := app.Prompter.Confirm(
					fmt.Sprintf("This permanently deletes '%s/%s' on %s.", bucketName, objectName, cmdFlags.provider), objectName)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion canceled.")
					return nil
				}
			}

			if err := app.StorageService.DeleteObject(cmd.Context(), bucketName, objectName, cmdFlags.provider); err != nil {
				return fmt.Errorf("error deleting '%s/%s' on %s: %w", bucketName, objectName, cmdFlags.provider, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Object '%s/%s' deleted from provider %s.\n", bucketName, objectName, cmdFlags.provider)
			return nil
		},
	}
	providerFlag(deleteCmd)
	deleteCmd.Flags().BoolVar(&cmdFlags.force, flags.Force, false, "Skip the confirmation prompt")

	objectCmd.AddCommand(listCmd, describeCmd, downloadCmd, uploadCmd, copyCmd, urlCmd, deleteCmd)
	return objectCmd
}

// Builds the download range from whichever of --start, --end and --last were given.
// --end alone selects the leading bytes up to and including that offset.
func rangeFromFlags(cmd *cobra.Command, f objectFlags) (storage.ByteRange, error) {
	startSet := cmd.Flags().Changed(flags.Start)
	endSet := cmd.Flags().Changed(flags.End)
	lastSet := cmd.Flags().Changed(flags.Last)

	var rng storage.ByteRange
	switch {
	case lastSet && (startSet || endSet):
		return rng, fmt.Errorf("--%s cannot be combined with --%s or --%s", flags.Last, flags.Start, flags.End)
	case lastSet:
		rng = storage.LastBytes(f.last)
	case startSet && endSet:
		rng = storage.RangeBetween(f.start, f.end)
	case startSet:
		rng = storage.RangeFrom(f.start)
	case endSet:
		rng = storage.RangeBetween(0, f.end)
	default:
		rng = storage.FullObject()
	}

	if err := rng.Validate(); err != nil {
		return rng, fmt.Errorf("invalid byte range: %w", err)
	}
	return rng, nil
}

func readUploadSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, nil
}
