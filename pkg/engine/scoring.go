package engine

// ScoringPolicy derives a 0-10 risk score for a record. Two policies exist in
// this system and they intentionally produce different numbers for the same
// input: the ordinal policy scores purely by severity and is used for
// list-driven extraction, while the tool-weighted policy scores by tool
// identity plus finding volume and is used on the AI-context path. Callers
// pick one; the policies are never merged.
type ScoringPolicy interface {
	// Name identifies the policy in config and logs.
	Name() string
	// Score returns the risk score for a finding of the given severity,
	// produced by the given tool, where findings is the total finding count
	// reported by that tool. Total over its domain; never fails.
	Score(tool string, severity Severity, findings int) int
}

// ordinalSeverityScores maps severity to the ordinal risk score.
var ordinalSeverityScores = map[Severity]int{
	SeverityCritical: 10,
	SeverityHigh:     8,
	SeverityMedium:   5,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// toolBaseScores are the per-tool base weights for the tool-weighted policy.
var toolBaseScores = map[string]int{
	"sqlmap": 8,
	"hydra":  7,
	"nuclei": 6,
	"zap":    6,
	"nikto":  5,
	"nmap":   3,
}

const defaultToolBaseScore = 4

// OrdinalPolicy scores a record by severity alone.
type OrdinalPolicy struct{}

func (OrdinalPolicy) Name() string { return "ordinal" }

func (OrdinalPolicy) Score(tool string, severity Severity, findings int) int {
	if score, ok := ordinalSeverityScores[severity]; ok {
		return score
	}
	return ordinalSeverityScores[SeverityMedium]
}

// ToolWeightedPolicy scores a record as min(10, base[tool] + min(findings, 2)).
type ToolWeightedPolicy struct{}

func (ToolWeightedPolicy) Name() string { return "tool-weighted" }

func (ToolWeightedPolicy) Score(tool string, severity Severity, findings int) int {
	base, ok := toolBaseScores[tool]
	if !ok {
		base = defaultToolBaseScore
	}
	bump := findings
	if bump > 2 {
		bump = 2
	}
	if bump < 0 {
		bump = 0
	}
	score := base + bump
	if score > 10 {
		score = 10
	}
	return score
}

// SeverityScore returns the ordinal risk score for a severity. Unrecognized
// values are treated as Medium.
func SeverityScore(severity Severity) int {
	return OrdinalPolicy{}.Score("", severity, 0)
}

// PolicyByName resolves a configured policy name. Unknown names fall back to
// the ordinal policy, which is what the flat ingestion path uses.
func PolicyByName(name string) ScoringPolicy {
	if name == (ToolWeightedPolicy{}).Name() {
		return ToolWeightedPolicy{}
	}
	return OrdinalPolicy{}
}
