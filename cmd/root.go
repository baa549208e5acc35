package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/ticket2task/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig config.Config
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "ticket2task",
	Short:   "Compile issue-tracker XML exports into Todoist tasks",
	Long:    `Converts exported ticket XML into a normalized task record (title, markdown description, labels, priority, due date) via fixed rule tables or a schema-constrained generative model, and optionally forwards it to the Todoist REST API.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.ticket2task.yaml)")
}

// loadConfig loads configuration. Commands validate the slice they need.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appConfig = cfg
	return nil
}
