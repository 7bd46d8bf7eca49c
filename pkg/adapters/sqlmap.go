package adapters

import (
	"fmt"

	"github.com/user/scanpipe/pkg/engine"
)

// SQLMapAdapter emits one High-severity record per confirmed injection point.
type SQLMapAdapter struct{}

func (a *SQLMapAdapter) Tool() ToolID { return ToolSQLMap }

func (a *SQLMapAdapter) Extract(raw RawResult, policy engine.ScoringPolicy) []engine.VulnerabilityRecord {
	if len(raw.SQLInjectionPoints) == 0 {
		return nil
	}
	records := make([]engine.VulnerabilityRecord, 0, len(raw.SQLInjectionPoints))
	for _, point := range raw.SQLInjectionPoints {
		records = append(records, engine.VulnerabilityRecord{
			VulnerabilityType: "SQL Injection",
			Severity:          engine.SeverityHigh,
			RiskScore:         policy.Score(string(ToolSQLMap), engine.SeverityHigh, len(raw.SQLInjectionPoints)),
			CVSSScore:         7.5,
			CWEID:             "CWE-89",
			OWASPCategory:     "A03:2021 – Injection",
			Location:          point,
			Description:       fmt.Sprintf("SQL injection vulnerability found at %s", point),
			Impact:            "An attacker could potentially read, modify, or delete database contents",
			Recommendation:    "Use parameterized queries and input validation",
		})
	}
	return records
}
