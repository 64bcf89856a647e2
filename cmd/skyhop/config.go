package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the game configuration as YAML after the config file and
--difficulty are applied. The output is a valid --config file.

Examples:
  skyhop config > ~/.skyhop/configs/skyhop.yaml
  skyhop config --difficulty assisted`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
