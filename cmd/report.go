package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/scanpipe/pkg/config"
	"github.com/user/scanpipe/pkg/pipeline"
)

var (
	reportTarget string
	reportOutDir string
)

var reportCmd = &cobra.Command{
	Use:   "report <results.json>",
	Short: "Build the report projection and write the executive summary artifact",
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
		if shape == pipeline.ShapeAIContext {
			aiResults, err := pipeline.DecodeAIResults(data)
			if err != nil {
				return err
			}
			run, err = p.ProcessAIResults(aiResults)
			if err != nil {
				return err
			}
		} else {
			results, err := pipeline.DecodeResults(data)
			if err != nil {
				return err
			}
			run, err = p.ProcessResults(results, reportTarget)
			if err != nil {
				return err
			}
		}

		projection := run.Projection()
		summary := projection.ExecutiveSummary(run.RunID, run.StartedAt)

		stamp := run.StartedAt.Format("20060102_150405")
		path := filepath.Join(reportOutDir, fmt.Sprintf("executive_summary_%s.txt", stamp))
		if err := os.WriteFile(path, []byte(summary), 0644); err != nil {
			return fmt.Errorf("writing summary artifact: %w", err)
		}

		fmt.Print(summary)
		fmt.Printf("\nExecutive summary saved: %s\n", path)
		if projection.Truncated {
			fmt.Printf("Detailed projection truncated to %d of %d findings\n",
				len(projection.Findings), projection.Total)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportTarget, "target", "", "Target URL the scan ran against (flat input only)")
	reportCmd.Flags().StringVarP(&reportOutDir, "out", "o", ".", "Directory for report artifacts")
	rootCmd.AddCommand(reportCmd)
}
