package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/scanpipe/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (sink, scoring policy, providers, keys)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Set the API key for an insights provider",
	Run: func(cmd *cobra.Command, args []string) {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")

		if provider == "" || key == "" {
			fmt.Println("Error: --provider and --key are required")
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}
		cfg.SetAPIKey(provider, key)
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("API key saved for %s\n", provider)
	},
}

var setSinkCmd = &cobra.Command{
	Use:   "set-sink",
	Short: "Set the sink and dashboard URLs",
	Run: func(cmd *cobra.Command, args []string) {
		url, _ := cmd.Flags().GetString("url")
		dashboard, _ := cmd.Flags().GetString("dashboard")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}
		if url != "" {
			cfg.Sink.URL = url
		}
		if dashboard != "" {
			cfg.Sink.DashboardURL = dashboard
		}
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("Sink: %s (dashboards: %s)\n", cfg.Sink.URL, cfg.Sink.DashboardURL)
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}
		fmt.Printf("Sink URL:        %s\n", cfg.Sink.URL)
		fmt.Printf("Dashboard URL:   %s\n", cfg.Sink.DashboardURL)
		fmt.Printf("Index prefixes:  %s / %s / %s\n",
			cfg.Sink.IndexPrefix, cfg.Sink.AIIndexPrefix, cfg.Sink.InsightsIndexPrefix)
		if cfg.ScoringPolicy != "" {
			fmt.Printf("Scoring policy:  %s\n", cfg.ScoringPolicy)
		} else {
			fmt.Println("Scoring policy:  per call path (flat: ordinal, AI: tool-weighted)")
		}
		fmt.Printf("Fallback mode:   %s\n", cfg.Fallback)
		fmt.Printf("Provider:        %s (model: %s)\n", cfg.SelectedProvider, cfg.SelectedModel)
		for name := range cfg.Providers {
			fmt.Printf("  key configured for %s\n", name)
		}
	},
}

func init() {
	setKeyCmd.Flags().String("provider", "", "Provider name (gemini, openai, anthropic)")
	setKeyCmd.Flags().String("key", "", "API key")
	setSinkCmd.Flags().String("url", "", "Sink base URL")
	setSinkCmd.Flags().String("dashboard", "", "Dashboards base URL")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setSinkCmd)
	configCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(configCmd)
}
