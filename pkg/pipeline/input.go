package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/user/scanpipe/pkg/adapters"
)

// ErrInputFormat marks malformed or unexpected input. A run that hits it
// fails as a whole; no partial canonical records are emitted.
var ErrInputFormat = errors.New("unexpected input format")

// RawResults is the flat input shape: a top-level mapping of tool name to
// that tool's result object.
type RawResults map[string]adapters.RawResult

// AIResults is the AI-context input shape produced by an AI-planned run.
type AIResults struct {
	Metadata    Metadata                      `json:"metadata"`
	TestResults map[string]adapters.RawResult `json:"test_results"`
}

// Metadata carries the run target and the AI planning context.
type Metadata struct {
	TargetURL  string     `json:"target_url"`
	AIStrategy AIStrategy `json:"ai_strategy"`
	AIInsights AIInsights `json:"ai_insights"`
}

// AIStrategy is the ordered tool plan the AI produced for the run.
type AIStrategy struct {
	RecommendedTools []string `json:"recommended_tools"`
}

// AIInsights is the AI risk analysis attached to a run.
type AIInsights struct {
	RiskAssessment         string   `json:"risk_assessment"`
	VulnerabilityFocus     []string `json:"vulnerability_focus"`
	RemediationSuggestions []string `json:"remediation_suggestions"`
	BusinessRisk           string   `json:"business_risk"`
	AttackComplexity       string   `json:"attack_complexity"`
	Exploitability         string   `json:"exploitability"`
}

// IsZero reports whether no insight fields are populated.
func (i AIInsights) IsZero() bool {
	return i.RiskAssessment == "" && len(i.VulnerabilityFocus) == 0 &&
		len(i.RemediationSuggestions) == 0 && i.BusinessRisk == "" &&
		i.AttackComplexity == "" && i.Exploitability == ""
}

// AIModelUsed identifies which model family produced the insights, going by
// the insight text itself.
func (m Metadata) AIModelUsed() string {
	blob := strings.ToLower(fmt.Sprintf("%v %v %v", m.AIInsights.RiskAssessment,
		m.AIInsights.VulnerabilityFocus, m.AIInsights.RemediationSuggestions))
	switch {
	case strings.Contains(blob, "openai"):
		return "OpenAI"
	case strings.Contains(blob, "deepseek"):
		return "DeepSeek"
	}
	return "Fallback"
}

// Shape discriminates the two accepted input layouts.
type Shape int

const (
	ShapeFlat Shape = iota
	ShapeAIContext
)

// DetectShape inspects the explicit discriminator keys. A document is AI
// shaped only when both metadata and test_results are present; anything that
// is not a JSON object at the top level is an input-format error.
func DetectShape(data []byte) (Shape, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return ShapeFlat, fmt.Errorf("%w: %v", ErrInputFormat, err)
	}
	_, hasMeta := probe["metadata"]
	_, hasResults := probe["test_results"]
	if hasMeta && hasResults {
		return ShapeAIContext, nil
	}
	return ShapeFlat, nil
}

// DecodeResults parses flat-shape input.
func DecodeResults(data []byte) (RawResults, error) {
	var results RawResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputFormat, err)
	}
	return results, nil
}

// DecodeAIResults parses AI-context input.
func DecodeAIResults(data []byte) (*AIResults, error) {
	var results AIResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputFormat, err)
	}
	if results.TestResults == nil {
		return nil, fmt.Errorf("%w: missing test_results", ErrInputFormat)
	}
	return &results, nil
}
