package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/user/scanpipe/pkg/adapters"
	"github.com/user/scanpipe/pkg/config"
	"github.com/user/scanpipe/pkg/engine"
	"github.com/user/scanpipe/pkg/insights"
	"github.com/user/scanpipe/pkg/pipeline"
	"github.com/user/scanpipe/pkg/sink"
)

var (
	processTarget      string
	processPush        bool
	processGenInsights bool
)

var processCmd = &cobra.Command{
	Use:   "process <results.json>",
	Short: "Normalize a scan results file into canonical vulnerability records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading results file: %w", err)
		}

		shape, err := pipeline.DetectShape(data)
		if err != nil {
			return err
		}

		p := pipeline.New(buildRegistry(cfg, shape), logger)

		var run *pipeline.RunResult
		switch shape {
		case pipeline.ShapeAIContext:
			aiResults, err := pipeline.DecodeAIResults(data)
			if err != nil {
				return err
			}
			run, err = p.ProcessAIResults(aiResults)
			if err != nil {
				return err
			}
		default:
			results, err := pipeline.DecodeResults(data)
			if err != nil {
				return err
			}
			run, err = p.ProcessResults(results, processTarget)
			if err != nil {
				return err
			}
		}

		if processGenInsights && run.Insights.IsZero() {
			generateInsights(cmd.Context(), cfg, run)
		}

		printRunSummary(run)

		if processPush {
			pushRun(cmd.Context(), cfg, logger, run, shape)
		}
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processTarget, "target", "", "Target URL the scan ran against (flat input only)")
	processCmd.Flags().BoolVar(&processPush, "push", false, "Push normalized records to the sink")
	processCmd.Flags().BoolVar(&processGenInsights, "insights", false, "Generate AI insights when the input has none")
	rootCmd.AddCommand(processCmd)
}

// buildRegistry wires the configured scoring policy and fallback mode. When
// no policy is configured the flat path scores ordinally and the AI path
// tool-weighted, matching which table each call path has always used.
func buildRegistry(cfg *config.Config, shape pipeline.Shape) *adapters.Registry {
	policyName := cfg.ScoringPolicy
	if policyName == "" {
		if shape == pipeline.ShapeAIContext {
			policyName = engine.ToolWeightedPolicy{}.Name()
		} else {
			policyName = engine.OrdinalPolicy{}.Name()
		}
	}
	mode := adapters.FallbackSkip
	if cfg.Fallback == "placeholder" {
		mode = adapters.FallbackPlaceholder
	}
	return adapters.NewRegistry(engine.PolicyByName(policyName), mode)
}

func printRunSummary(run *pipeline.RunResult) {
	fmt.Printf("Processed run %s against %s\n", run.RunID, run.TargetURL)
	fmt.Printf("Canonical records: %d\n", run.Report.Total)
	for _, s := range engine.Severities {
		fmt.Printf("  %-8s %4d  (%.1f%%)\n", s, run.Report.SeverityCounts[s], run.Report.Percentages[s])
	}
	if len(run.Report.ToolCounts) > 0 {
		fmt.Println("Raw findings by tool:")
		for _, tool := range sortedCountKeys(run.Report.ToolCounts) {
			fmt.Printf("  %-14s %d\n", tool, run.Report.ToolCounts[tool])
		}
	}
	if run.AIContext {
		fmt.Printf("AI model: %s, risk assessment: %s\n", run.AIModelUsed, run.Insights.RiskAssessment)
	}
}

func generateInsights(ctx context.Context, cfg *config.Config, run *pipeline.RunResult) {
	providerName := cfg.SelectedProvider
	apiKey := cfg.GetAPIKey(providerName)
	if providerName == "gemini" && apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	var provider insights.Provider
	if apiKey != "" {
		p, err := insights.NewProvider(ctx, providerName, apiKey, cfg.SelectedModel)
		if err != nil {
			fmt.Printf("Warning: could not initialize %s provider: %v\n", providerName, err)
		} else {
			provider = p
			if closer, ok := provider.(interface{ Close() }); ok {
				defer closer.Close()
			}
		}
	}

	generated, err := insights.Generate(ctx, provider, run.Report)
	if err != nil {
		fmt.Printf("Warning: %v\n", err)
	}
	run.Insights = generated
	if provider != nil {
		run.AIModelUsed = provider.Name()
	}
}

// pushRun writes the run to the sink. Best effort: failures are reported and
// the command still succeeds, matching the fire-and-forget sink contract.
func pushRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, run *pipeline.RunResult, shape pipeline.Shape) {
	prefix := cfg.Sink.IndexPrefix
	if shape == pipeline.ShapeAIContext {
		prefix = cfg.Sink.AIIndexPrefix
	}
	formatter := sink.NewBulkFormatter(prefix, run.StartedAt)
	insightsIndex := sink.NewBulkFormatter(cfg.Sink.InsightsIndexPrefix, run.StartedAt).Index()

	client := sink.NewClient(cfg.Sink.URL, cfg.Sink.DashboardURL, logger)
	if client.PushRun(ctx, formatter, insightsIndex, sink.DocumentsFromRun(run), sink.InsightsDocumentFromRun(run)) {
		fmt.Printf("Indexed %d documents into %s\n", len(run.Records), formatter.Index())
	} else {
		fmt.Println("Warning: one or more sink writes failed; see log output")
	}
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
