package engine

import (
	"math"
	"testing"
)

func TestAggregateCounts(t *testing.T) {
	records := []VulnerabilityRecord{
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityCritical},
		{Severity: SeverityLow},
	}
	report := Aggregate(records, map[string]int{"sqlmap": 2, "nmap": 3})

	if report.Total != 4 {
		t.Fatalf("total = %d, want 4", report.Total)
	}

	// All five keys are present even with zero counts.
	for _, s := range Severities {
		if _, ok := report.SeverityCounts[s]; !ok {
			t.Errorf("severity %s missing from counts", s)
		}
	}

	sum := 0
	for _, s := range Severities {
		sum += report.SeverityCounts[s]
	}
	if sum != len(records) {
		t.Errorf("severity counts sum = %d, want %d", sum, len(records))
	}

	var pctSum float64
	for _, s := range Severities {
		pctSum += report.Percentages[s]
	}
	if math.Abs(pctSum-100.0) > 0.01 {
		t.Errorf("percentages sum = %f, want 100.0", pctSum)
	}

	if report.ToolCounts["nmap"] != 3 {
		t.Errorf("nmap tool count = %d, want 3", report.ToolCounts["nmap"])
	}
	if report.CriticalHigh() != 3 {
		t.Errorf("critical/high = %d, want 3", report.CriticalHigh())
	}
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil, nil)
	if report.Total != 0 {
		t.Fatalf("total = %d, want 0", report.Total)
	}
	for _, s := range Severities {
		if report.Percentages[s] != 0.0 {
			t.Errorf("percentage for %s = %f, want 0.0", s, report.Percentages[s])
		}
		if report.SeverityCounts[s] != 0 {
			t.Errorf("count for %s = %d, want 0", s, report.SeverityCounts[s])
		}
	}
}
