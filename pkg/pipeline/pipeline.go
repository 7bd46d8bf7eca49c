package pipeline

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/user/scanpipe/pkg/adapters"
	"github.com/user/scanpipe/pkg/engine"
)

// Pipeline runs one batch of raw tool results through extraction, assembly
// and aggregation. It holds no state between runs; records never outlive the
// RunResult they were built into.
type Pipeline struct {
	registry *adapters.Registry
	logger   *slog.Logger
	// Clock defaults to time.Now; tests inject a fixed instant so record
	// timestamps and payloads are reproducible.
	Clock func() time.Time
}

// New builds a pipeline over the given adapter registry.
func New(registry *adapters.Registry, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{registry: registry, logger: logger}
}

// RunResult is everything one processing run produced.
type RunResult struct {
	RunID     string
	TargetURL string
	StartedAt time.Time
	Records   []engine.VulnerabilityRecord
	Report    *engine.AggregateReport

	// AI-context runs only.
	AIContext      bool
	Insights       AIInsights
	AIModelUsed    string
	ToolStatus     map[string]string
	ExecutionTimes map[string]float64
}

// Projection returns the renderer contract for this run.
func (r *RunResult) Projection() *engine.ReportProjection {
	return engine.Project(r.Records, r.Report)
}

func (p *Pipeline) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}

// ProcessResults handles the flat input shape: each tool's result runs
// through its adapter, records are assembled against targetURL, and the
// aggregate is computed. Tools are processed in name order; no consumer may
// rely on that order for correctness, only for stable display.
func (p *Pipeline) ProcessResults(raw RawResults, targetURL string) (*RunResult, error) {
	started := p.now()
	assembler := &Assembler{TargetURL: targetURL, Clock: func() time.Time { return started }}

	var records []engine.VulnerabilityRecord
	toolCounts := make(map[string]int, len(raw))

	for _, tool := range sortedTools(raw) {
		result := raw[tool]
		extracted := p.registry.Extract(tool, result)
		records = append(records, assembler.Assemble(tool, extracted)...)
		toolCounts[tool] = result.FindingsTotal()
		p.logger.Debug("extracted tool results",
			"tool", tool, "records", len(extracted), "raw_findings", result.FindingsTotal())
	}

	return &RunResult{
		RunID:     uuid.NewString(),
		TargetURL: targetURL,
		StartedAt: started,
		Records:   records,
		Report:    engine.Aggregate(records, toolCounts),
	}, nil
}

// ProcessAIResults handles the AI-context input shape. Extraction is the
// findings-count summary path, and every record carries the AI annotations
// derived from the recommended-tool plan.
func (p *Pipeline) ProcessAIResults(data *AIResults) (*RunResult, error) {
	started := p.now()
	meta := data.Metadata
	recommended := meta.AIStrategy.RecommendedTools
	if recommended == nil {
		recommended = []string{}
	}
	assembler := &Assembler{
		TargetURL:        meta.TargetURL,
		RecommendedTools: recommended,
		Clock:            func() time.Time { return started },
	}

	var records []engine.VulnerabilityRecord
	toolCounts := make(map[string]int, len(data.TestResults))
	toolStatus := make(map[string]string, len(data.TestResults))
	execTimes := make(map[string]float64, len(data.TestResults))

	for _, tool := range sortedTools(data.TestResults) {
		result := data.TestResults[tool]
		status := result.Status
		if status == "" {
			status = "unknown"
		}
		toolStatus[tool] = status
		execTimes[tool] = executionTime(result)

		count := result.FindingsTotal()
		if count == 0 {
			count = result.FindingsCount
		}
		toolCounts[tool] = count

		extracted := adapters.ExtractSummary(tool, result.FindingsCount, p.registry.Policy())
		if extracted == nil {
			// Unknown tools (and tools that shipped full lists) go through
			// the regular registry path.
			extracted = p.registry.Extract(tool, result)
		}
		for i := range extracted {
			if extracted[i].Status == "" {
				extracted[i].Status = status
			}
		}
		records = append(records, assembler.Assemble(tool, extracted)...)
		p.logger.Debug("extracted AI tool summary", "tool", tool, "records", len(extracted), "status", status)
	}

	return &RunResult{
		RunID:          uuid.NewString(),
		TargetURL:      meta.TargetURL,
		StartedAt:      started,
		Records:        records,
		Report:         engine.Aggregate(records, toolCounts),
		AIContext:      true,
		Insights:       meta.AIInsights,
		AIModelUsed:    meta.AIModelUsed(),
		ToolStatus:     toolStatus,
		ExecutionTimes: execTimes,
	}, nil
}

// executionTime prefers the reported duration and otherwise estimates from
// the result status (timeouts hit the 5 minute cap, successes average a
// minute).
func executionTime(result adapters.RawResult) float64 {
	if result.ExecutionTime > 0 {
		return result.ExecutionTime
	}
	switch result.Status {
	case "timeout":
		return 300.0
	case "success":
		return 60.0
	}
	return 0.0
}

func sortedTools(m map[string]adapters.RawResult) []string {
	tools := make([]string, 0, len(m))
	for tool := range m {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools
}
