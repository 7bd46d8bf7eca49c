package adapters

import (
	"fmt"
	"strings"

	"github.com/user/scanpipe/pkg/engine"
)

// GenericAdapter is the explicit fallback for tool names outside the known
// set. A positive findings count yields one Medium summary record whose type
// is derived from the tool name; what a zero-finding result yields depends on
// the configured FallbackMode.
type GenericAdapter struct {
	Mode FallbackMode
}

// ExtractNamed extracts for an unknown tool. The tool name is needed to
// derive the vulnerability type, so the generic adapter does not implement
// the keyed Adapter interface.
func (a *GenericAdapter) ExtractNamed(tool string, raw RawResult, policy engine.ScoringPolicy) []engine.VulnerabilityRecord {
	if raw.FindingsCount <= 0 {
		if a.Mode == FallbackPlaceholder {
			return []engine.VulnerabilityRecord{{
				VulnerabilityType: "No Vulnerabilities Detected",
				Severity:          engine.SeverityInfo,
				RiskScore:         policy.Score(tool, engine.SeverityInfo, 0),
				Location:          "N/A",
				Description:       fmt.Sprintf("Security assessment by %s completed with no findings", tool),
				Status:            "completed",
			}}
		}
		return nil
	}
	return []engine.VulnerabilityRecord{{
		VulnerabilityType: titleFromToolName(tool),
		Severity:          engine.SeverityMedium,
		RiskScore:         policy.Score(tool, engine.SeverityMedium, raw.FindingsCount),
		Location:          "N/A",
		Description:       fmt.Sprintf("Security assessment results from %s (%d findings)", tool, raw.FindingsCount),
		Recommendation:    "Review the tool output and triage reported findings",
	}}
}

// titleFromToolName turns "dir_buster" into "Dir Buster".
func titleFromToolName(tool string) string {
	words := strings.FieldsFunc(tool, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return "Unknown Tool Findings"
	}
	return strings.Join(words, " ")
}
