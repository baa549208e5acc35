package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dt-pm-tools/ticket2task/internal/compile"
	"github.com/dt-pm-tools/ticket2task/internal/todoist"
	"github.com/spf13/cobra"
)

var (
	pushFile   string
	pushTaskID string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send a compiled task payload file to Todoist",
	Long: `Reads a task payload JSON file (as printed by 'compile') and forwards
it to Todoist: creates a new task, or updates an existing one when
--task-id is given. Sink failures are surfaced, not retried.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pushFile == "" {
			return fmt.Errorf("--file (-f) is required")
		}

		if err := loadConfig(); err != nil {
			return err
		}
		if err := appConfig.ValidateSink(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		content, err := os.ReadFile(pushFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		var task compile.Task
		if err := json.Unmarshal(content, &task); err != nil {
			return fmt.Errorf("parsing task payload: %w", err)
		}
		if task.Content == "" {
			return fmt.Errorf("task payload has no content field")
		}

		client := todoist.NewClient(appConfig)
		if pushTaskID != "" {
			if err := client.UpdateTask(cmd.Context(), pushTaskID, task); err != nil {
				return fmt.Errorf("updating task %s: %w", pushTaskID, err)
			}
			fmt.Fprintf(os.Stderr, "Updated task %s\n", pushTaskID)
			return nil
		}

		remote, err := client.CreateTask(cmd.Context(), task)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Created task %s\n", remote.ID)
		return nil
	},
}

func init() {
	pushCmd.Flags().StringVarP(&pushFile, "file", "f", "", "task payload JSON file to push")
	pushCmd.Flags().StringVar(&pushTaskID, "task-id", "", "update this Todoist task instead of creating one")
	rootCmd.AddCommand(pushCmd)
}
