package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/user/scanpipe/pkg/engine"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Name() string { return "stub" }
func (s *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}
func (s *stubProvider) ListModels(ctx context.Context) ([]string, error) { return nil, nil }

func reportWith(critical, high, medium int) *engine.AggregateReport {
	var records []engine.VulnerabilityRecord
	for i := 0; i < critical; i++ {
		records = append(records, engine.VulnerabilityRecord{Severity: engine.SeverityCritical})
	}
	for i := 0; i < high; i++ {
		records = append(records, engine.VulnerabilityRecord{Severity: engine.SeverityHigh})
	}
	for i := 0; i < medium; i++ {
		records = append(records, engine.VulnerabilityRecord{Severity: engine.SeverityMedium})
	}
	return engine.Aggregate(records, nil)
}

func TestGenerateParsesProviderJSON(t *testing.T) {
	provider := &stubProvider{reply: "```json\n" +
		`{"risk_assessment": "high", "vulnerability_focus": ["sql injection"],
		  "remediation_suggestions": ["use parameterized queries"],
		  "business_risk": "high", "attack_complexity": "low", "exploitability": "high"}` +
		"\n```"}

	got, err := Generate(context.Background(), provider, reportWith(0, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RiskAssessment != "high" {
		t.Errorf("risk assessment = %q, want high", got.RiskAssessment)
	}
	if len(got.VulnerabilityFocus) != 1 || got.VulnerabilityFocus[0] != "sql injection" {
		t.Errorf("focus = %v", got.VulnerabilityFocus)
	}
}

func TestGenerateDegradesToHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
	}{
		{"nil provider", nil},
		{"provider error", &stubProvider{err: errors.New("quota exceeded")}},
		{"non-JSON reply", &stubProvider{reply: "I cannot help with that."}},
		{"empty JSON object", &stubProvider{reply: "{}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(context.Background(), tt.provider, reportWith(1, 0, 0))
			if tt.provider != nil && err == nil {
				t.Error("degraded path should surface the cause")
			}
			if got.RiskAssessment != "critical" {
				t.Errorf("heuristic assessment = %q, want critical", got.RiskAssessment)
			}
			if got.IsZero() {
				t.Error("degraded result must still carry insights")
			}
		})
	}
}

func TestHeuristicGrading(t *testing.T) {
	tests := []struct {
		name             string
		report           *engine.AggregateReport
		wantAssessment   string
		wantBusinessRisk string
	}{
		{"critical present", reportWith(2, 1, 0), "critical", "high"},
		{"high only", reportWith(0, 3, 0), "high", "high"},
		{"medium only", reportWith(0, 0, 2), "medium", "medium"},
		{"clean", reportWith(0, 0, 0), "low", "medium"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Heuristic(tt.report)
			if got.RiskAssessment != tt.wantAssessment {
				t.Errorf("assessment = %q, want %q", got.RiskAssessment, tt.wantAssessment)
			}
			if got.BusinessRisk != tt.wantBusinessRisk {
				t.Errorf("business risk = %q, want %q", got.BusinessRisk, tt.wantBusinessRisk)
			}
			if len(got.RemediationSuggestions) == 0 {
				t.Error("suggestions must never be empty")
			}
		})
	}
}

func TestBuildPromptMentionsAggregates(t *testing.T) {
	prompt := buildPrompt(engine.Aggregate(
		[]engine.VulnerabilityRecord{{Severity: engine.SeverityHigh}},
		map[string]int{"nmap": 4},
	))
	for _, want := range []string{"Total findings: 1", "tool nmap reported 4 raw findings", "risk_assessment"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
