package engine

// AggregateReport is the rollup consumed by dashboards and report rendering.
// It is recomputed from a record list on every run and never persisted.
//
// SeverityCounts counts canonical records by severity. ToolCounts is the
// generic per-tool raw-finding counter; it is computed from the raw tool
// output before extraction and can legitimately diverge from the number of
// canonical records a tool produced (an open_ports list with no risky entry
// counts here but yields no records). The two counters are reported side by
// side, never reconciled.
type AggregateReport struct {
	SeverityCounts map[Severity]int     `json:"severity_counts"`
	ToolCounts     map[string]int       `json:"tool_counts"`
	Total          int                  `json:"total"`
	Percentages    map[Severity]float64 `json:"percentages"`
}

// Aggregate rolls canonical records up into severity counts and percentages.
// toolCounts is the caller-computed generic counter (may be nil). All five
// severity keys are always present; percentages are all 0.0 when there are
// no records.
func Aggregate(records []VulnerabilityRecord, toolCounts map[string]int) *AggregateReport {
	report := &AggregateReport{
		SeverityCounts: make(map[Severity]int, len(Severities)),
		ToolCounts:     make(map[string]int, len(toolCounts)),
		Percentages:    make(map[Severity]float64, len(Severities)),
	}
	for _, s := range Severities {
		report.SeverityCounts[s] = 0
		report.Percentages[s] = 0.0
	}
	for tool, n := range toolCounts {
		report.ToolCounts[tool] = n
	}

	for _, rec := range records {
		report.SeverityCounts[rec.Severity]++
		report.Total++
	}
	if report.Total == 0 {
		return report
	}
	for _, s := range Severities {
		report.Percentages[s] = float64(report.SeverityCounts[s]) / float64(report.Total) * 100
	}
	return report
}

// CriticalHigh returns the combined count of Critical and High records.
func (r *AggregateReport) CriticalHigh() int {
	return r.SeverityCounts[SeverityCritical] + r.SeverityCounts[SeverityHigh]
}
