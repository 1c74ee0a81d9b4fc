package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/internal/log"
	"github.com/chrissnell/panchanga/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or convert configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with defaults applied",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if formatName == "text" {
			formatName = "yaml"
		}
		return output(cmd, cfg, textUnsupported)
	},
}

var importOpts struct {
	yamlFile string
	force    bool
}

var configImportCmd = &cobra.Command{
	Use:   "import <config.db>",
	Short: "Convert a YAML configuration into a SQLite database",
	Long: `Creates or migrates a SQLite configuration database and stores the
configuration read from --yaml in it. The database can then be used with
--config-backend sqlite. Its yoga_rules table can hold a rule catalogue
selected with rules.source: sqlite.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigImport,
}

func init() {
	configImportCmd.Flags().StringVar(&importOpts.yamlFile, "yaml", "panchanga.yaml", "YAML configuration to import")
	configImportCmd.Flags().BoolVar(&importOpts.force, "force", false, "replace an existing database")
	configCmd.AddCommand(configShowCmd, configImportCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigImport(cmd *cobra.Command, args []string) error {
	dbPath := args[0]

	cfg, err := config.NewYAMLProvider(importOpts.yamlFile).LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importOpts.yamlFile, err)
	}

	if _, err := os.Stat(dbPath); err == nil {
		if !importOpts.force {
			return fmt.Errorf("%s already exists; use --force to replace its configuration", dbPath)
		}
		log.Warnw("replacing configuration in existing database", "path", dbPath)
	}

	provider, err := config.NewSQLiteProvider(dbPath)
	if err != nil {
		return err
	}
	defer provider.Close()

	if err := provider.Migrate(log.Named("migrate")); err != nil {
		return err
	}
	if err := provider.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	log.Infow("imported configuration", "from", importOpts.yamlFile, "to", dbPath, "locations", len(cfg.Locations))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %s into %s (%d locations)\n", importOpts.yamlFile, dbPath, len(cfg.Locations))
	return nil
}

// textUnsupported is used by commands whose only output is structured.
func textUnsupported(io.Writer) error {
	return fmt.Errorf("text output is not available for this command")
}
