package adapters

import (
	"fmt"

	"github.com/user/scanpipe/pkg/engine"
)

// HydraAdapter emits one record per cracked credential pair (hydra output and
// the "exploitation" alias).
type HydraAdapter struct{}

func (a *HydraAdapter) Tool() ToolID { return ToolHydra }

func (a *HydraAdapter) Extract(raw RawResult, policy engine.ScoringPolicy) []engine.VulnerabilityRecord {
	if len(raw.ValidCredentials) == 0 {
		return nil
	}
	records := make([]engine.VulnerabilityRecord, 0, len(raw.ValidCredentials))
	for _, cred := range raw.ValidCredentials {
		records = append(records, engine.VulnerabilityRecord{
			VulnerabilityType: "Weak Authentication",
			Severity:          engine.SeverityHigh,
			RiskScore:         policy.Score(string(ToolHydra), engine.SeverityHigh, len(raw.ValidCredentials)),
			CVSSScore:         6.5,
			CWEID:             "CWE-287",
			OWASPCategory:     "A07:2021 – Identification and Authentication Failures",
			Location:          "/login",
			Description:       fmt.Sprintf("Weak credentials found: %s", cred),
			Evidence:          cred,
			Impact:            "Unauthorized access to user accounts",
			Recommendation:    "Implement strong password policies and multi-factor authentication",
		})
	}
	return records
}
