package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/ticket2task/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure Todoist and generative backend settings",
	Long:  `Interactively set up the Todoist token, server API key, ticket browse URL and generative backend. Settings are saved to ~/.ticket2task.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)

		baseURL := promptText(reader, "Ticket browse URL", existing.TicketBaseURL)

		fmt.Print("Todoist API token (input hidden): ")
		todoistToken, err := promptSecret(existing.TodoistToken)
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}

		fmt.Print("Server API key (input hidden): ")
		apiKey, err := promptSecret(existing.APIKey)
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}

		endpoint := promptText(reader, "Generative backend endpoint", orDefault(existing.GenAI.Endpoint, config.DefaultGenAIEndpoint))
		model := promptText(reader, "Generative backend model", orDefault(existing.GenAI.Model, config.DefaultGenAIModel))

		fmt.Print("Generative backend API key (input hidden): ")
		genaiKey, err := promptSecret(existing.GenAI.APIKey)
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}

		cfg := config.Config{
			TodoistToken:  todoistToken,
			APIKey:        apiKey,
			TicketBaseURL: baseURL,
			GenAI: config.GenAIConfig{
				Endpoint: endpoint,
				APIKey:   genaiKey,
				Model:    model,
			},
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

// promptText asks for a value, showing the existing one as the default.
func promptText(reader *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	value, _ := reader.ReadString('\n')
	value = strings.TrimSpace(value)
	if value == "" {
		value = current
	}
	return value
}

// promptSecret reads a masked value, keeping the existing one on empty input.
func promptSecret(current string) (string, error) {
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // newline after hidden input
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(string(raw))
	if value == "" {
		value = current
	}
	return value, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func init() {
	rootCmd.AddCommand(configCmd)
}
