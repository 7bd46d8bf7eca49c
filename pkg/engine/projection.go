package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MaxProjectedFindings is how many findings the renderer contract carries;
// anything beyond it is summarized by the Truncated flag and Total count.
const MaxProjectedFindings = 20

// ReportProjection is the fixed shape handed to the external chart/PDF
// renderer: the aggregate rollup plus a severity-sorted, truncated record
// list. Renderer internals are out of scope here.
type ReportProjection struct {
	Report    *AggregateReport
	Findings  []VulnerabilityRecord
	Truncated bool
	Total     int
}

// Project sorts records by severity (most severe first, stable so records of
// equal severity keep their encounter order) and truncates to the projection
// limit.
func Project(records []VulnerabilityRecord, report *AggregateReport) *ReportProjection {
	sorted := make([]VulnerabilityRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Ordinal() < sorted[j].Severity.Ordinal()
	})

	proj := &ReportProjection{
		Report: report,
		Total:  len(sorted),
	}
	if len(sorted) > MaxProjectedFindings {
		proj.Findings = sorted[:MaxProjectedFindings]
		proj.Truncated = true
	} else {
		proj.Findings = sorted
	}
	return proj
}

// ExecutiveSummary renders the plain-text executive summary artifact for a
// run. reportID labels the output; generatedAt is the run timestamp.
func (p *ReportProjection) ExecutiveSummary(reportID string, generatedAt time.Time) string {
	var sb strings.Builder
	r := p.Report

	sb.WriteString("PENETRATION TESTING EXECUTIVE SUMMARY\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", generatedAt.Format("January 2, 2006 at 15:04")))
	sb.WriteString(strings.Repeat("=", 56) + "\n\n")

	sb.WriteString("OVERALL SECURITY POSTURE\n")
	sb.WriteString(fmt.Sprintf("  Total Vulnerabilities Found: %d\n", r.Total))
	sb.WriteString(fmt.Sprintf("  Critical/High Risk Issues:   %d\n", r.CriticalHigh()))
	if avg, ok := p.averageCVSS(); ok {
		sb.WriteString(fmt.Sprintf("  Average CVSS Score:          %.1f/10.0\n", avg))
	}
	if r.Total > 0 {
		sb.WriteString(fmt.Sprintf("  Average Risk Score:          %.1f/10.0\n", p.averageRisk()))
	}

	sb.WriteString("\nSEVERITY BREAKDOWN\n")
	for _, s := range Severities {
		sb.WriteString(fmt.Sprintf("  %-8s %4d  (%.1f%%)\n", s, r.SeverityCounts[s], r.Percentages[s]))
	}

	if len(r.ToolCounts) > 0 {
		sb.WriteString("\nFINDINGS BY TOOL\n")
		for _, tool := range sortedKeys(r.ToolCounts) {
			sb.WriteString(fmt.Sprintf("  %-14s %d\n", tool, r.ToolCounts[tool]))
		}
	}

	if types := p.topVulnerabilityTypes(5); len(types) > 0 {
		sb.WriteString("\nTOP VULNERABILITY TYPES\n")
		for _, tc := range types {
			sb.WriteString(fmt.Sprintf("  %-40s %d\n", tc.name, tc.count))
		}
	}

	sb.WriteString("\nIMMEDIATE ACTION REQUIRED\n")
	sb.WriteString(fmt.Sprintf("  Critical Issues: %d\n", r.SeverityCounts[SeverityCritical]))
	sb.WriteString(fmt.Sprintf("  High Risk Issues: %d\n", r.SeverityCounts[SeverityHigh]))
	sb.WriteString(fmt.Sprintf("  Findings With Risk Score >= 8: %d\n", p.highRiskCount()))

	if p.Truncated {
		sb.WriteString(fmt.Sprintf("\nShowing top %d of %d findings in the detailed report.\n",
			len(p.Findings), p.Total))
	}

	sb.WriteString(fmt.Sprintf("\nReport ID: %s\n", reportID))
	return sb.String()
}

func (p *ReportProjection) averageCVSS() (float64, bool) {
	var sum float64
	var n int
	for _, rec := range p.Findings {
		if rec.CVSSScore > 0 {
			sum += rec.CVSSScore
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func (p *ReportProjection) averageRisk() float64 {
	if len(p.Findings) == 0 {
		return 0
	}
	var sum int
	for _, rec := range p.Findings {
		sum += rec.RiskScore
	}
	return float64(sum) / float64(len(p.Findings))
}

func (p *ReportProjection) highRiskCount() int {
	var n int
	for _, rec := range p.Findings {
		if rec.RiskScore >= 8 {
			n++
		}
	}
	return n
}

type typeCount struct {
	name  string
	count int
}

func (p *ReportProjection) topVulnerabilityTypes(limit int) []typeCount {
	counts := make(map[string]int)
	for _, rec := range p.Findings {
		if rec.VulnerabilityType != "" {
			counts[rec.VulnerabilityType]++
		}
	}
	out := make([]typeCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, typeCount{name, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
