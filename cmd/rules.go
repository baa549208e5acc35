package cmd

import (
	"fmt"

	"github.com/dt-pm-tools/ticket2task/internal/rules"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [variant]",
	Short: "Print a rule-table variant as its generative instruction text",
	Long: `Renders the selected rule table (default or legacy) the way the
generative extractor sees it, with a placeholder where the ticket XML
would be embedded. Useful for checking that both extraction paths
describe the same rules.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		variant := "default"
		if len(args) > 0 {
			variant = args[0]
		}

		rs, err := rules.Get(variant)
		if err != nil {
			return err
		}

		text, err := rs.Instruction("<ticket XML goes here>")
		if err != nil {
			return fmt.Errorf("rendering instruction: %w", err)
		}

		fmt.Print(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
