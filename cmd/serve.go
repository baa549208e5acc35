package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dt-pm-tools/ticket2task/internal/compile"
	"github.com/dt-pm-tools/ticket2task/internal/genai"
	"github.com/dt-pm-tools/ticket2task/internal/rules"
	"github.com/dt-pm-tools/ticket2task/internal/server"
	"github.com/dt-pm-tools/ticket2task/internal/todoist"
	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	serveRules string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP surface",
	Long: `Starts the HTTP surface: /add_task, /update_task and /list_tasks
forward to Todoist; /compile accepts raw ticket XML. All routes except
the liveness root require the configured X-API-Key header.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if err := appConfig.ValidateServer(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		rs, err := rules.Get(serveRules)
		if err != nil {
			return err
		}

		// The model extractor stays available only when the backend is
		// configured; compile calls selecting it fail otherwise.
		var gen compile.Generator
		if appConfig.ValidateGenAI() == nil {
			gen = genai.NewClient(appConfig.GenAI)
		}

		compiler := compile.New(rs, appConfig.TicketBaseURL, gen)
		sink := todoist.NewClient(appConfig)
		srv := server.New(compiler, sink, appConfig.APIKey)

		log.Info("listening", "addr", serveAddr, "rules", rs.Name)
		return srv.Router().Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveRules, "rules", "default", "rule-table variant: default or legacy")
	rootCmd.AddCommand(serveCmd)
}
