package adapters

import (
	"fmt"

	"github.com/user/scanpipe/pkg/engine"
)

// ExtractSummary is the findings-count-driven extraction used on the
// AI-context path, where tool results arrive as summaries without per-finding
// lists. It deliberately differs from the list-driven adapters; nmap in
// particular is scored Low here but Medium on the list path. Returns nil
// when the count is zero or the tool has no summary rule.
func ExtractSummary(tool string, findingsCount int, policy engine.ScoringPolicy) []engine.VulnerabilityRecord {
	if findingsCount <= 0 {
		return nil
	}

	var rec engine.VulnerabilityRecord
	switch resolveSummaryTool(tool) {
	case ToolSQLMap:
		rec = engine.VulnerabilityRecord{
			VulnerabilityType: "SQL Injection",
			Severity:          engine.SeverityHigh,
			ConfidenceScore:   0.9,
			CVSSScore:         7.5,
			CWEID:             "CWE-89",
			OWASPCategory:     "A03:2021 – Injection",
		}
	case ToolNuclei:
		rec = engine.VulnerabilityRecord{
			VulnerabilityType: "Multiple Vulnerabilities",
			Severity:          AssessSeverityByFindings(findingsCount),
			ConfidenceScore:   0.7,
			OWASPCategory:     "A06:2021 – Vulnerable and Outdated Components",
		}
	case ToolNikto:
		rec = engine.VulnerabilityRecord{
			VulnerabilityType: "Web Server Vulnerabilities",
			Severity:          engine.SeverityMedium,
			ConfidenceScore:   0.6,
			OWASPCategory:     "A05:2021 – Security Misconfiguration",
		}
	case ToolHydra:
		rec = engine.VulnerabilityRecord{
			VulnerabilityType: "Weak Authentication",
			Severity:          engine.SeverityHigh,
			ConfidenceScore:   0.8,
			CVSSScore:         6.5,
			CWEID:             "CWE-287",
			OWASPCategory:     "A07:2021 – Identification and Authentication Failures",
		}
	case ToolNmap:
		rec = engine.VulnerabilityRecord{
			VulnerabilityType: "Network Exposure",
			Severity:          engine.SeverityLow,
			ConfidenceScore:   0.5,
			OWASPCategory:     "A05:2021 – Security Misconfiguration",
		}
	default:
		return nil
	}

	rec.Tool = tool
	rec.RiskScore = policy.Score(tool, rec.Severity, findingsCount)
	rec.Location = "N/A"
	rec.Description = fmt.Sprintf("%s summary: %d findings reported", tool, findingsCount)
	return []engine.VulnerabilityRecord{rec}
}

func resolveSummaryTool(tool string) ToolID {
	if alias, ok := toolAliases[tool]; ok {
		return alias
	}
	return ToolID(tool)
}

// AssessSeverityByFindings grades a bare finding count: 10+ Critical,
// 5+ High, 2+ Medium, else Low.
func AssessSeverityByFindings(findingsCount int) engine.Severity {
	switch {
	case findingsCount >= 10:
		return engine.SeverityCritical
	case findingsCount >= 5:
		return engine.SeverityHigh
	case findingsCount >= 2:
		return engine.SeverityMedium
	default:
		return engine.SeverityLow
	}
}

// RemediationPriority classifies how urgently a tool's findings need fixing:
// zero findings is always "low", injection/credential tooling is "high",
// anything with five or more findings is "medium".
func RemediationPriority(tool string, findingsCount int) string {
	if findingsCount == 0 {
		return "low"
	}
	switch tool {
	case "sqlmap", "hydra", "metasploit":
		return "high"
	}
	if findingsCount >= 5 {
		return "medium"
	}
	return "low"
}
