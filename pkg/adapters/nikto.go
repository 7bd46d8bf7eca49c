package adapters

import (
	"fmt"

	"github.com/user/scanpipe/pkg/engine"
)

// NiktoAdapter works in summary mode: nikto results carry a findings count
// but no per-finding list, so a positive count yields a single Medium
// misconfiguration record.
type NiktoAdapter struct{}

func (a *NiktoAdapter) Tool() ToolID { return ToolNikto }

func (a *NiktoAdapter) Extract(raw RawResult, policy engine.ScoringPolicy) []engine.VulnerabilityRecord {
	if raw.FindingsCount <= 0 {
		return nil
	}
	return []engine.VulnerabilityRecord{{
		VulnerabilityType: "Web Server Vulnerabilities",
		Severity:          engine.SeverityMedium,
		RiskScore:         policy.Score(string(ToolNikto), engine.SeverityMedium, raw.FindingsCount),
		OWASPCategory:     "A05:2021 – Security Misconfiguration",
		Location:          "/",
		Description:       fmt.Sprintf("Web server scan reported %d findings", raw.FindingsCount),
		Recommendation:    "Review web server configuration and disable unnecessary features",
	}}
}
