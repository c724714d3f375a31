package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/portsim/portsim/sim"
)

var configFormat string

// loadSimConfig reads path onto the default configuration and validates it.
// Files ending in .json are merged leniently; anything else is strict YAML.
func loadSimConfig(path string) (sim.Config, error) {
	if path == "" {
		return sim.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	var cfg sim.Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		cfg, err = sim.ConfigFromJSON(f)
	} else {
		cfg, err = sim.ConfigFromYAML(f)
	}
	if err != nil {
		return sim.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func writeConfig(w io.Writer, cfg sim.Config, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}
	return fmt.Errorf("unknown format %q; valid: yaml, json", format)
}

// configCmd prints the effective configuration, which doubles as a template
// for a config file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default (or --config) simulation configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSimConfig(configPath)
		if err != nil {
			return err
		}
		return writeConfig(cmd.OutOrStdout(), cfg, configFormat)
	},
}

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format (yaml, json)")
	rootCmd.AddCommand(configCmd)
}
