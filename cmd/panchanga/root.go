package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/internal/app"
	"github.com/chrissnell/panchanga/internal/log"
	"github.com/chrissnell/panchanga/pkg/config"
)

var (
	cfgFile    string
	cfgBackend string
	debug      bool
	formatName string
)

var rootCmd = &cobra.Command{
	Use:   "panchanga",
	Short: "Derive the panchanga, yogas and planetary motion states for a date and place",
	Long: `panchanga computes the five limbs of the Hindu lunisolar calendar (tithi,
vara, nakshatra, yoga, karana) with the window each is in force, detects
auspicious and inauspicious yogas from a rule catalogue, classifies planetary
motion (chesta) and builds navatara chakras.`,
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return log.Init(debug)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		log.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "panchanga.yaml", "path to configuration source (YAML file or SQLite database)")
	pf.StringVar(&cfgBackend, "config-backend", "yaml", "configuration backend: 'yaml' or 'sqlite'")
	pf.BoolVar(&debug, "debug", false, "turn on debugging output")
	pf.StringVarP(&formatName, "format", "o", "text", "output format: text, json, yaml or msgpack")
}

// loadConfig reads the configuration. A missing default YAML file is not
// an error; builtin defaults are used instead.
func loadConfig(cmd *cobra.Command) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	if cfgBackend == "sqlite" {
		if _, err := os.Stat(filename); err != nil {
			return nil, fmt.Errorf("config database %s: %w", filename, err)
		}
	}

	provider, err := config.NewProvider(cfgBackend, filename)
	if err != nil {
		return nil, fmt.Errorf("error creating config provider: %w", err)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		log.Debugw("no config file found, using defaults", "path", filename)
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return cfgData, nil
}

func newApp(cmd *cobra.Command) (*app.App, error) {
	cfgData, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfgData, log.GetSugaredLogger())
}
