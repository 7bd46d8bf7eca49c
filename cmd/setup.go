package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/scanpipe/pkg/config"
	"github.com/user/scanpipe/pkg/sink"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Bootstrap the sink: index templates and dashboards",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		client := sink.NewClient(cfg.Sink.URL, cfg.Sink.DashboardURL, logger)
		ctx := cmd.Context()

		templates := []struct {
			name string
			body interface{}
		}{
			{"pentest-template", sink.PentestTemplate(cfg.Sink.IndexPrefix)},
			{"ai-pentest-template", sink.AIPentestTemplate(cfg.Sink.AIIndexPrefix)},
			{"ai-insights-template", sink.InsightsTemplate(cfg.Sink.InsightsIndexPrefix)},
		}
		for _, t := range templates {
			if err := client.PutIndexTemplate(ctx, t.name, t.body); err != nil {
				fmt.Printf("Warning: creating %s failed: %v\n", t.name, err)
			} else {
				fmt.Printf("Index template %s created\n", t.name)
			}
		}

		dashboards := []sink.DashboardConfig{
			{ID: "pentest-overview", Title: "Penetration Testing Overview",
				Description: "Dashboard for monitoring penetration testing results"},
			{ID: "ai-pentest-overview", Title: "AI-Powered Penetration Testing Overview",
				Description: "Dashboard for AI-planned penetration testing results"},
			{ID: "ai-insights-dashboard", Title: "AI Security Insights",
				Description: "AI analysis and recommendations dashboard"},
		}
		for _, d := range dashboards {
			if err := client.ImportDashboard(ctx, d); err != nil {
				fmt.Printf("Warning: dashboard %q import failed: %v\n", d.Title, err)
			} else {
				fmt.Printf("Dashboard %q created\n", d.Title)
			}
		}

		fmt.Printf("\nDashboard URL: %s/app/dashboards#/view/pentest-overview\n", cfg.Sink.DashboardURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
