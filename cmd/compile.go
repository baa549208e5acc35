package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dt-pm-tools/ticket2task/internal/compile"
	"github.com/dt-pm-tools/ticket2task/internal/genai"
	"github.com/dt-pm-tools/ticket2task/internal/rules"
	"github.com/dt-pm-tools/ticket2task/internal/todoist"
	"github.com/spf13/cobra"
)

var (
	compileExtractor string
	compileRules     string
	compilePush      bool
	compileTaskID    string
)

var compileCmd = &cobra.Command{
	Use:   "compile <ticket.xml>",
	Short: "Compile a ticket XML export into a normalized task payload",
	Long: `Parses an exported ticket XML file and compiles it into a normalized
task payload. The default extractor applies the rule tables directly;
--extractor model sends the raw XML to the generative backend instead.
The payload is printed as JSON, or forwarded to Todoist with --push.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		rs, err := rules.Get(compileRules)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading ticket file: %w", err)
		}

		extractor := compile.Extractor(compileExtractor)
		compiler := compile.New(rs, appConfig.TicketBaseURL, nil)
		if extractor == compile.ExtractorModel {
			if err := appConfig.ValidateGenAI(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			compiler.Gen = genai.NewClient(appConfig.GenAI)
		}

		task, err := compiler.Compile(cmd.Context(), raw, extractor)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", args[0], err)
		}

		if compilePush {
			if err := appConfig.ValidateSink(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			client := todoist.NewClient(appConfig)
			if compileTaskID != "" {
				if err := client.UpdateTask(cmd.Context(), compileTaskID, task); err != nil {
					return fmt.Errorf("updating task %s: %w", compileTaskID, err)
				}
				fmt.Fprintf(os.Stderr, "Updated task %s\n", compileTaskID)
				return nil
			}
			remote, err := client.CreateTask(cmd.Context(), task)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Created task %s\n", remote.ID)
			return nil
		}

		out, err := json.MarshalIndent(task, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling task: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVar(&compileExtractor, "extractor", "rules", "extraction path: rules or model")
	compileCmd.Flags().StringVar(&compileRules, "rules", "default", "rule-table variant: default or legacy")
	compileCmd.Flags().BoolVar(&compilePush, "push", false, "forward the compiled task to Todoist")
	compileCmd.Flags().StringVar(&compileTaskID, "task-id", "", "update this Todoist task instead of creating one (with --push)")
	rootCmd.AddCommand(compileCmd)
}
