package engine

import "time"

// Severity classifies a finding. The five values are totally ordered:
// Critical sorts before High, High before Medium, and so on.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
	SeverityInfo     Severity = "Info"
)

// Severities lists all valid values in ordinal order (most severe first).
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// Ordinal returns the sort position of the severity (Critical=0 .. Info=4).
func (s Severity) Ordinal() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	}
	return 2
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity normalizes a tool-reported severity string. Anything
// unrecognized maps to Medium rather than failing; extraction must stay
// total over arbitrary input.
func ParseSeverity(raw string) Severity {
	switch raw {
	case "Critical", "critical", "CRITICAL":
		return SeverityCritical
	case "High", "high", "HIGH":
		return SeverityHigh
	case "Medium", "medium", "MEDIUM":
		return SeverityMedium
	case "Low", "low", "LOW":
		return SeverityLow
	case "Info", "info", "INFO", "informational":
		return SeverityInfo
	}
	return SeverityMedium
}

// TestPhase is the assessment stage a tool belongs to.
type TestPhase string

const (
	PhaseReconnaissance   TestPhase = "Reconnaissance"
	PhaseVulnAssessment   TestPhase = "Vulnerability Assessment"
	PhaseExploitation     TestPhase = "Exploitation"
	PhasePostExploitation TestPhase = "Post-Exploitation"
	PhaseUnknown          TestPhase = "Unknown"
)

// AIContext carries the AI-planning annotations for a record. It is present
// only when the run was driven by an AI strategy; Priority is the 1-based
// rank of the tool in the recommended list, or 999 when not recommended.
type AIContext struct {
	Recommended bool `json:"ai_recommended"`
	Priority    int  `json:"ai_priority"`
}

// NotRecommendedPriority is the sentinel rank for tools the AI strategy
// did not recommend.
const NotRecommendedPriority = 999

// VulnerabilityRecord is the canonical, tool-agnostic representation of one
// security finding. Records are immutable once assembled; severity and risk
// score are set together by the scoring policy that produced the record and
// are never edited afterwards.
type VulnerabilityRecord struct {
	Tool              string     `json:"tool_name"`
	VulnerabilityType string     `json:"vulnerability_type"`
	Severity          Severity   `json:"severity"`
	RiskScore         int        `json:"risk_score"`
	CVSSScore         float64    `json:"cvss_score,omitempty"`
	CWEID             string     `json:"cwe_id,omitempty"`
	OWASPCategory     string     `json:"owasp_category,omitempty"`
	Location          string     `json:"location"`
	Description       string     `json:"description,omitempty"`
	Impact            string     `json:"impact,omitempty"`
	Recommendation    string     `json:"recommendation,omitempty"`
	Evidence          string     `json:"evidence,omitempty"`
	ConfidenceScore   float64    `json:"confidence_score,omitempty"`
	Status            string     `json:"status,omitempty"`
	Timestamp         time.Time  `json:"timestamp"`
	TargetURL         string     `json:"target_url"`
	TestPhase         TestPhase  `json:"test_phase"`
	AI                *AIContext `json:"ai,omitempty"`
}
