package adapters

import "github.com/user/scanpipe/pkg/engine"

// NucleiAdapter handles generic vulnerability lists (nuclei output and any
// result published under the "vulnerability" alias). Severity comes from the
// item itself, defaulting to Medium when absent or unrecognized.
type NucleiAdapter struct{}

func (a *NucleiAdapter) Tool() ToolID { return ToolNuclei }

func (a *NucleiAdapter) Extract(raw RawResult, policy engine.ScoringPolicy) []engine.VulnerabilityRecord {
	if len(raw.Vulnerabilities) == 0 {
		return nil
	}
	records := make([]engine.VulnerabilityRecord, 0, len(raw.Vulnerabilities))
	for _, item := range raw.Vulnerabilities {
		severity := engine.ParseSeverity(item.Severity)

		vulnType := item.Type
		if vulnType == "" {
			vulnType = "Unknown"
		}
		location := item.Location
		if location == "" {
			location = "Unknown"
		}
		description := item.Description
		if description == "" {
			description = "Vulnerability detected"
		}

		records = append(records, engine.VulnerabilityRecord{
			VulnerabilityType: vulnType,
			Severity:          severity,
			RiskScore:         policy.Score(string(ToolNuclei), severity, len(raw.Vulnerabilities)),
			Location:          location,
			Description:       description,
			Recommendation:    "Review and remediate the identified vulnerability",
		})
	}
	return records
}
