package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/scanpipe/pkg/engine"
	"github.com/user/scanpipe/pkg/pipeline"
)

// Generate asks the provider for a risk analysis of the aggregate report and
// parses it into the insights shape. Any provider failure degrades to the
// deterministic heuristic: a run must never depend on an LLM being
// reachable.
func Generate(ctx context.Context, provider Provider, report *engine.AggregateReport) (pipeline.AIInsights, error) {
	if provider == nil {
		return Heuristic(report), nil
	}

	raw, err := provider.Generate(ctx, buildPrompt(report))
	if err != nil {
		return Heuristic(report), fmt.Errorf("insight generation failed, using heuristic: %w", err)
	}

	parsed, err := parseInsights(raw)
	if err != nil {
		return Heuristic(report), fmt.Errorf("insight response unparseable, using heuristic: %w", err)
	}
	return parsed, nil
}

func buildPrompt(report *engine.AggregateReport) string {
	var sb strings.Builder
	sb.WriteString("You are a security analyst. Given these vulnerability scan aggregates, ")
	sb.WriteString("reply with a single JSON object with the keys risk_assessment (one of low/medium/high/critical), ")
	sb.WriteString("vulnerability_focus (array of strings), remediation_suggestions (array of strings), ")
	sb.WriteString("business_risk, attack_complexity and exploitability (each one of low/medium/high). ")
	sb.WriteString("No prose outside the JSON.\n\n")
	sb.WriteString(fmt.Sprintf("Total findings: %d\n", report.Total))
	for _, s := range engine.Severities {
		sb.WriteString(fmt.Sprintf("%s: %d\n", s, report.SeverityCounts[s]))
	}
	for tool, n := range report.ToolCounts {
		sb.WriteString(fmt.Sprintf("tool %s reported %d raw findings\n", tool, n))
	}
	return sb.String()
}

func parseInsights(raw string) (pipeline.AIInsights, error) {
	// Models frequently wrap JSON in a fenced block; take the outermost
	// object either way.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return pipeline.AIInsights{}, fmt.Errorf("no JSON object in response")
	}
	var out pipeline.AIInsights
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return pipeline.AIInsights{}, err
	}
	if out.IsZero() {
		return pipeline.AIInsights{}, fmt.Errorf("response carried no insight fields")
	}
	return out, nil
}

// Heuristic derives insights from the aggregate alone, for runs with no
// provider configured or a provider that failed.
func Heuristic(report *engine.AggregateReport) pipeline.AIInsights {
	assessment := "low"
	switch {
	case report.SeverityCounts[engine.SeverityCritical] > 0:
		assessment = "critical"
	case report.SeverityCounts[engine.SeverityHigh] > 0:
		assessment = "high"
	case report.SeverityCounts[engine.SeverityMedium] > 0:
		assessment = "medium"
	}

	var focus []string
	for _, s := range []engine.Severity{engine.SeverityCritical, engine.SeverityHigh} {
		if report.SeverityCounts[s] > 0 {
			focus = append(focus, fmt.Sprintf("%d %s severity findings", report.SeverityCounts[s], strings.ToLower(s.String())))
		}
	}

	suggestions := []string{"Prioritize remediation of Critical and High severity findings"}
	if report.Total == 0 {
		suggestions = []string{"Maintain the current security posture and rescan regularly"}
	}

	businessRisk := "medium"
	if assessment == "critical" || assessment == "high" {
		businessRisk = "high"
	}

	return pipeline.AIInsights{
		RiskAssessment:         assessment,
		VulnerabilityFocus:     focus,
		RemediationSuggestions: suggestions,
		BusinessRisk:           businessRisk,
		AttackComplexity:       "medium",
		Exploitability:         "medium",
	}
}
