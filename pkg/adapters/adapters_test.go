package adapters

import (
	"encoding/json"
	"testing"

	"github.com/user/scanpipe/pkg/engine"
)

func newTestRegistry(mode FallbackMode) *Registry {
	return NewRegistry(engine.OrdinalPolicy{}, mode)
}

func TestSQLMapExtraction(t *testing.T) {
	raw := RawResult{SQLInjectionPoints: []string{"id=1", "user=admin"}}
	records := newTestRegistry(FallbackSkip).Extract("sqlmap", raw)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for i, rec := range records {
		if rec.Severity != engine.SeverityHigh {
			t.Errorf("record %d severity = %s, want High", i, rec.Severity)
		}
		if rec.CVSSScore != 7.5 {
			t.Errorf("record %d cvss = %f, want 7.5", i, rec.CVSSScore)
		}
		if rec.CWEID != "CWE-89" {
			t.Errorf("record %d cwe = %s, want CWE-89", i, rec.CWEID)
		}
		if rec.OWASPCategory != "A03:2021 – Injection" {
			t.Errorf("record %d owasp = %q", i, rec.OWASPCategory)
		}
		if rec.Tool != "sqlmap" {
			t.Errorf("record %d tool = %q, want sqlmap", i, rec.Tool)
		}
	}
	if records[0].Location != "id=1" || records[1].Location != "user=admin" {
		t.Errorf("injection points not carried into locations: %q, %q",
			records[0].Location, records[1].Location)
	}
}

func TestHydraExtraction(t *testing.T) {
	raw := RawResult{ValidCredentials: []string{"admin:admin"}}
	records := newTestRegistry(FallbackSkip).Extract("hydra", raw)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Severity != engine.SeverityHigh {
		t.Errorf("severity = %s, want High", rec.Severity)
	}
	if rec.CVSSScore != 6.5 {
		t.Errorf("cvss = %f, want 6.5", rec.CVSSScore)
	}
	if rec.CWEID != "CWE-287" {
		t.Errorf("cwe = %s, want CWE-287", rec.CWEID)
	}
	if rec.Evidence != "admin:admin" {
		t.Errorf("evidence = %q, want the credential pair", rec.Evidence)
	}
	if rec.Location != "/login" {
		t.Errorf("location = %q, want /login", rec.Location)
	}
}

func TestNmapRiskyServiceFilter(t *testing.T) {
	raw := RawResult{OpenPorts: PortList{"21/ftp", "80/http", "3306/mysql", "443/https"}}
	records := newTestRegistry(FallbackSkip).Extract("nmap", raw)

	// Only ftp and mysql match the risky service list.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Severity != engine.SeverityMedium {
			t.Errorf("severity = %s, want Medium", rec.Severity)
		}
		if rec.VulnerabilityType != "Potentially Risky Service" {
			t.Errorf("type = %q", rec.VulnerabilityType)
		}
	}
	if records[0].Location != "Port 21/ftp" {
		t.Errorf("location = %q, want Port 21/ftp", records[0].Location)
	}

	// Findings counter still counts all open ports, not just risky ones.
	if raw.FindingsTotal() != 4 {
		t.Errorf("findings total = %d, want 4", raw.FindingsTotal())
	}
}

func TestNmapCaseInsensitive(t *testing.T) {
	raw := RawResult{OpenPorts: PortList{"22/SSH"}}
	records := newTestRegistry(FallbackSkip).Extract("nmap", raw)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestNucleiExtraction(t *testing.T) {
	raw := RawResult{Vulnerabilities: []VulnItem{
		{Type: "XSS", Severity: "high", Location: "/search", Description: "reflected"},
		{}, // entirely empty item still yields a record with defaults
	}}
	records := newTestRegistry(FallbackSkip).Extract("nuclei", raw)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Severity != engine.SeverityHigh || records[0].VulnerabilityType != "XSS" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Severity != engine.SeverityMedium {
		t.Errorf("missing severity should default to Medium, got %s", records[1].Severity)
	}
	if records[1].VulnerabilityType != "Unknown" {
		t.Errorf("missing type should default to Unknown, got %q", records[1].VulnerabilityType)
	}
}

func TestNiktoExtraction(t *testing.T) {
	records := newTestRegistry(FallbackSkip).Extract("nikto", RawResult{FindingsCount: 7})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].VulnerabilityType != "Web Server Vulnerabilities" {
		t.Errorf("type = %q", records[0].VulnerabilityType)
	}

	if got := newTestRegistry(FallbackSkip).Extract("nikto", RawResult{}); len(got) != 0 {
		t.Errorf("zero findings should yield no records, got %d", len(got))
	}
}

func TestAliasesResolve(t *testing.T) {
	r := newTestRegistry(FallbackSkip)

	records := r.Extract("vulnerability", RawResult{Vulnerabilities: []VulnItem{{Type: "CVE-2024-1"}}})
	if len(records) != 1 || records[0].Tool != "vulnerability" {
		t.Errorf("vulnerability alias: records = %+v", records)
	}

	records = r.Extract("exploitation", RawResult{ValidCredentials: []string{"root:toor"}})
	if len(records) != 1 || records[0].CWEID != "CWE-287" {
		t.Errorf("exploitation alias: records = %+v", records)
	}
}

func TestGenericFallbackModes(t *testing.T) {
	skip := newTestRegistry(FallbackSkip).Extract("dirbuster", RawResult{})
	if len(skip) != 0 {
		t.Errorf("skip mode emitted %d records for zero findings", len(skip))
	}

	placeholder := newTestRegistry(FallbackPlaceholder).Extract("dirbuster", RawResult{})
	if len(placeholder) != 1 {
		t.Fatalf("placeholder mode emitted %d records, want 1", len(placeholder))
	}
	if placeholder[0].Severity != engine.SeverityInfo {
		t.Errorf("placeholder severity = %s, want Info", placeholder[0].Severity)
	}
	if placeholder[0].Status != "completed" {
		t.Errorf("placeholder status = %q, want completed", placeholder[0].Status)
	}

	found := newTestRegistry(FallbackSkip).Extract("dir_buster", RawResult{FindingsCount: 3})
	if len(found) != 1 {
		t.Fatalf("positive count emitted %d records, want 1", len(found))
	}
	if found[0].VulnerabilityType != "Dir Buster" {
		t.Errorf("type from tool name = %q, want Dir Buster", found[0].VulnerabilityType)
	}
	if found[0].Severity != engine.SeverityMedium {
		t.Errorf("severity = %s, want Medium", found[0].Severity)
	}
}

// Every adapter must emit severities from the closed enum and risk scores
// inside [0, 10], whatever the input looks like.
func TestExtractionRanges(t *testing.T) {
	inputs := map[string]RawResult{
		"sqlmap":  {SQLInjectionPoints: []string{"a", "b", "c"}},
		"nuclei":  {Vulnerabilities: []VulnItem{{Severity: "critical"}, {Severity: "junk"}}},
		"nikto":   {FindingsCount: 1},
		"hydra":   {ValidCredentials: []string{"x:y"}},
		"nmap":    {OpenPorts: PortList{"23/telnet", "5432/postgres"}},
		"unknown": {FindingsCount: 12},
	}
	valid := make(map[engine.Severity]bool)
	for _, s := range engine.Severities {
		valid[s] = true
	}
	for _, policy := range []engine.ScoringPolicy{engine.OrdinalPolicy{}, engine.ToolWeightedPolicy{}} {
		r := NewRegistry(policy, FallbackPlaceholder)
		for tool, raw := range inputs {
			for _, rec := range r.Extract(tool, raw) {
				if !valid[rec.Severity] {
					t.Errorf("%s/%s: severity %q outside enum", policy.Name(), tool, rec.Severity)
				}
				if rec.RiskScore < 0 || rec.RiskScore > 10 {
					t.Errorf("%s/%s: risk score %d outside [0,10]", policy.Name(), tool, rec.RiskScore)
				}
			}
		}
	}
}

func TestPortListUnmarshal(t *testing.T) {
	var ports PortList
	if err := json.Unmarshal([]byte(`["21/ftp", 8080, 443]`), &ports); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := PortList{"21/ftp", "8080", "443"}
	if len(ports) != len(want) {
		t.Fatalf("got %d ports, want %d", len(ports), len(want))
	}
	for i := range want {
		if ports[i] != want[i] {
			t.Errorf("port %d = %q, want %q", i, ports[i], want[i])
		}
	}
}
