// File: cmd/bucketbridge/config_cmd.go
package main

import (
	"bucketbridge/internal/config"
	"bucketbridge/pkg/formatter"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

const maskedValue = "********"

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage provider settings stored in the config file. Any key can also be
overridden with an environment variable, e.g. BUCKETBRIDGE_GCP_PROJECT for gcp.project.`,
	}

	configSetCmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration key-value pair",
		Long:  `Sets a configuration value. For example: 'bucketbridge config set minio.endpoint localhost:9000'`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key, value := strings.ToLower(args[0]), args[1]
			if err := app.ConfigManager.SetValue(key, value); err != nil {
				return fmt.Errorf("error setting configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration set: %s = %s\n", key, displayValue(key, value))
			return nil
		},
	}

	configGetCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value by key",
		Long:  `Prints the effective value of a key, including environment overrides. For example: 'bucketbridge config get gcp.project'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			value, exists := app.ConfigManager.GetValue(key)
			if !exists || value == "" {
				return fmt.Errorf("configuration key '%s' not found or not set", key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, displayValue(key, value))
			return nil
		},
	}

	configDeleteCmd := &cobra.Command{
		Use:   "delete [key]",
		Short: "Delete a configuration value by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			deleted, err := app.ConfigManager.DeleteValue(key)
			if err != nil {
				return fmt.Errorf("error deleting configuration: %w", err)
			}
			if !deleted {
				return fmt.Errorf("configuration key '%s' not found", key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration key '%s' deleted\n", key)
			return nil
		},
	}

	configListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all current configuration values",
		Long:  `Displays every configured key with its effective value. Secret values are masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			displaySettings := make(map[string]string)
			for k, v := range flattenConfigMap(app.ConfigManager.GetAllSettings()) {
				if v == nil {
					continue
				}
				s := fmt.Sprint(v)
				if s == "" {
					continue
				}
				displaySettings[k] = displayValue(k, s)
			}

			if app.Output != formatter.FormatTable {
				return formatter.Encode(cmd.OutOrStdout(), app.Output, displaySettings)
			}

			if len(displaySettings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No configuration values set. Use 'bucketbridge config set <key> <value>'.")
				return nil
			}

			keys := make([]string, 0, len(displaySettings))
			for k := range displaySettings {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Fprintf(cmd.OutOrStdout(), "Current configuration (%s):\n", app.ConfigManager.Path())
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", k, displaySettings[k])
			}
			return nil
		},
	}

	configKeysCmd := &cobra.Command{
		Use:   "keys",
		Short: "List the supported configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := formatter.NewTable([]string{"KEY", "TYPE", "DESCRIPTION"})
			for _, spec := range config.KnownKeys() {
				table.AddRow([]string{spec.Name, spec.Type.String(), spec.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.String())
			return nil
		},
	}

	configCmd.AddCommand(configSetCmd, configGetCmd, configDeleteCmd, configListCmd, configKeysCmd)
	return configCmd
}

func displayValue(key, value string) string {
	if config.IsSecret(key) {
		return maskedValue
	}
	return value
}

// Recursively flattens a nested map (like Viper's settings) into dot-notation keys
func flattenConfigMap(nestedMap map[string]any) map[string]any {
	flattenedMap := make(map[string]any)

	var flatten func(string, any)
	flatten = func(prefix string, value any) {
		switch v := value.(type) {
		case map[string]any:
			for k, val := range v {
				newPrefix := k
				if prefix != "" {
					newPrefix = prefix + "." + k
				}
				flatten(newPrefix, val)
			}
		default:
			if prefix != "" {
				flattenedMap[prefix] = value
			}
		}
	}

	flatten("", nestedMap)
	return flattenedMap
}
