package adapters

import (
	"fmt"
	"strings"

	"github.com/user/scanpipe/pkg/engine"
)

// riskyServices is the substring set that makes an open port reportable.
// Matching is case-insensitive against the whole port entry ("21/ftp").
var riskyServices = []string{"ftp", "telnet", "rlogin", "ssh", "mysql", "postgres"}

// NmapAdapter emits one record per open port that runs a risky service.
// Non-matching ports produce nothing, even though they still count toward
// the generic finding counter.
type NmapAdapter struct{}

func (a *NmapAdapter) Tool() ToolID { return ToolNmap }

func (a *NmapAdapter) Extract(raw RawResult, policy engine.ScoringPolicy) []engine.VulnerabilityRecord {
	var records []engine.VulnerabilityRecord
	for _, port := range raw.OpenPorts {
		if !isRiskyService(port) {
			continue
		}
		records = append(records, engine.VulnerabilityRecord{
			VulnerabilityType: "Potentially Risky Service",
			Severity:          engine.SeverityMedium,
			RiskScore:         policy.Score(string(ToolNmap), engine.SeverityMedium, len(raw.OpenPorts)),
			OWASPCategory:     "A05:2021 – Security Misconfiguration",
			Location:          fmt.Sprintf("Port %s", port),
			Description:       fmt.Sprintf("Service running on port %s may pose security risks", port),
			Impact:            "Potential attack vector for unauthorized access",
			Recommendation:    "Review service configuration and access controls",
		})
	}
	return records
}

func isRiskyService(port string) bool {
	lower := strings.ToLower(port)
	for _, svc := range riskyServices {
		if strings.Contains(lower, svc) {
			return true
		}
	}
	return false
}
