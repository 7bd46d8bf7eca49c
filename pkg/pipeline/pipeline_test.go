package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/scanpipe/pkg/adapters"
	"github.com/user/scanpipe/pkg/engine"
)

func newTestPipeline(policy engine.ScoringPolicy, mode adapters.FallbackMode) *Pipeline {
	p := New(adapters.NewRegistry(policy, mode), nil)
	p.Clock = func() time.Time {
		return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func TestProcessResults(t *testing.T) {
	p := newTestPipeline(engine.OrdinalPolicy{}, adapters.FallbackSkip)

	run, err := p.ProcessResults(RawResults{
		"nmap":   {OpenPorts: adapters.PortList{"21/ftp", "80/http"}},
		"sqlmap": {SQLInjectionPoints: []string{"id=1"}},
		"nikto":  {}, // nothing found
	}, "https://example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, "https://example.com", run.TargetURL)
	assert.False(t, run.AIContext)

	// One risky port plus one injection point.
	require.Len(t, run.Records, 2)
	for _, rec := range run.Records {
		assert.Equal(t, run.StartedAt, rec.Timestamp)
		assert.Equal(t, "https://example.com", rec.TargetURL)
		assert.Nil(t, rec.AI)
	}

	// The raw counter counts all open ports, not just the risky one. The two
	// counters measure different things and are reported side by side.
	assert.Equal(t, 2, run.Report.ToolCounts["nmap"])
	assert.Equal(t, 1, run.Report.ToolCounts["sqlmap"])
	assert.Equal(t, 0, run.Report.ToolCounts["nikto"])
	assert.Equal(t, 2, run.Report.Total)
}

func TestProcessResultsEmpty(t *testing.T) {
	p := newTestPipeline(engine.OrdinalPolicy{}, adapters.FallbackSkip)
	run, err := p.ProcessResults(RawResults{}, "https://example.com")
	require.NoError(t, err)
	assert.Empty(t, run.Records)
	assert.Equal(t, 0, run.Report.Total)
	for _, s := range engine.Severities {
		assert.Zero(t, run.Report.Percentages[s])
	}
}

func TestProcessAIResults(t *testing.T) {
	p := newTestPipeline(engine.ToolWeightedPolicy{}, adapters.FallbackSkip)

	run, err := p.ProcessAIResults(&AIResults{
		Metadata: Metadata{
			TargetURL:  "https://target.example",
			AIStrategy: AIStrategy{RecommendedTools: []string{"sqlmap", "nmap"}},
			AIInsights: AIInsights{RiskAssessment: "critical exposure"},
		},
		TestResults: map[string]adapters.RawResult{
			"sqlmap": {FindingsCount: 2, Status: "success", ExecutionTime: 42.5},
			"nmap":   {FindingsCount: 3, Status: "success"},
			"nikto":  {FindingsCount: 1, Status: "timeout"},
			"zap":    {}, // ran, found nothing
		},
	})
	require.NoError(t, err)

	assert.True(t, run.AIContext)
	assert.Equal(t, "https://target.example", run.TargetURL)
	assert.Equal(t, "Fallback", run.AIModelUsed)
	assert.Equal(t, "critical exposure", run.Insights.RiskAssessment)

	// sqlmap, nmap and nikto each produce one summary record; zap none.
	require.Len(t, run.Records, 3)

	byTool := make(map[string]engine.VulnerabilityRecord)
	for _, rec := range run.Records {
		byTool[rec.Tool] = rec
	}

	// Planned tools carry their 1-based plan position.
	require.NotNil(t, byTool["sqlmap"].AI)
	assert.True(t, byTool["sqlmap"].AI.Recommended)
	assert.Equal(t, 1, byTool["sqlmap"].AI.Priority)
	assert.Equal(t, 2, byTool["nmap"].AI.Priority)

	// Unplanned tools get the sentinel priority.
	require.NotNil(t, byTool["nikto"].AI)
	assert.False(t, byTool["nikto"].AI.Recommended)
	assert.Equal(t, engine.NotRecommendedPriority, byTool["nikto"].AI.Priority)

	// Summary path grades nmap Low.
	assert.Equal(t, engine.SeverityLow, byTool["nmap"].Severity)

	// Tool-weighted scoring: base 8 + min(2,2) capped at 10.
	assert.Equal(t, 10, byTool["sqlmap"].RiskScore)

	// Record status comes from the tool result.
	assert.Equal(t, "timeout", byTool["nikto"].Status)

	// Execution times: reported wins, then status estimate.
	assert.Equal(t, 42.5, run.ExecutionTimes["sqlmap"])
	assert.Equal(t, 60.0, run.ExecutionTimes["nmap"])
	assert.Equal(t, 300.0, run.ExecutionTimes["nikto"])
	assert.Equal(t, 0.0, run.ExecutionTimes["zap"])

	// Status defaulting happens in ToolStatus, not the raw input.
	assert.Equal(t, "unknown", run.ToolStatus["zap"])

	// FindingsCount backfills the counter when no lists shipped.
	assert.Equal(t, 2, run.Report.ToolCounts["sqlmap"])
}

func TestProcessAIResultsFallsBackToLists(t *testing.T) {
	p := newTestPipeline(engine.ToolWeightedPolicy{}, adapters.FallbackSkip)

	// An unknown tool has no summary rule; its result goes through the
	// registry, here landing on the generic adapter.
	run, err := p.ProcessAIResults(&AIResults{
		Metadata: Metadata{TargetURL: "https://t"},
		TestResults: map[string]adapters.RawResult{
			"gobuster": {FindingsCount: 6, Status: "success"},
		},
	})
	require.NoError(t, err)
	require.Len(t, run.Records, 1)
	assert.Equal(t, "Gobuster", run.Records[0].VulnerabilityType)
	assert.Equal(t, "success", run.Records[0].Status)
}

func TestRunProjection(t *testing.T) {
	p := newTestPipeline(engine.OrdinalPolicy{}, adapters.FallbackSkip)
	run, err := p.ProcessResults(RawResults{
		"sqlmap": {SQLInjectionPoints: []string{"a", "b"}},
		"nmap":   {OpenPorts: adapters.PortList{"23/telnet"}},
	}, "https://example.com")
	require.NoError(t, err)

	proj := run.Projection()
	require.Len(t, proj.Findings, 3)
	// High sqlmap records sort before the Medium nmap record.
	assert.Equal(t, engine.SeverityHigh, proj.Findings[0].Severity)
	assert.Equal(t, engine.SeverityMedium, proj.Findings[2].Severity)
	assert.False(t, proj.Truncated)
}
