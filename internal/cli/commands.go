package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lexwatch/judgment-scraper/internal/config"
	"github.com/lexwatch/judgment-scraper/internal/storage"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the judgments database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Database ready: %s (%d judgments stored)\n", cfg.DBPath, count)
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage judgments configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (JUDGMENTS_*)
3. Config file (./judgments.yaml or ~/.config/judgments/config.yaml)
4. Defaults`,
	}

	var showSecrets bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.load(); err != nil {
				return err
			}

			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(a.stderr, "Configuration file: %s\n\n", used)
			} else {
				fmt.Fprintf(a.stderr, "No configuration file found (using defaults)\n\n")
			}
			return config.WriteYAML(a.stdout, a.v, showSecrets)
		},
	}
	show.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print passwords and API keys")

	var path string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("finding home directory: %w", err)
				}
				path = filepath.Join(home, ".config", "judgments", "config.yaml")
			}

			if err := config.WriteDefaultFile(path); err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Created default configuration: %s\n", path)
			fmt.Fprintf(a.stdout, "\nTo view the configuration:\n  judgments config show\n")
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "Where to write the file (default ~/.config/judgments/config.yaml)")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "judgments %s\n", Version)
		},
	}
}
