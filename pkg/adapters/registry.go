package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/user/scanpipe/pkg/engine"
)

// ToolID identifies a known tool family. Dispatch is keyed on this closed set
// so a typo in a tool name falls through to the generic adapter instead of
// silently matching nothing.
type ToolID string

const (
	ToolSQLMap ToolID = "sqlmap"
	ToolNuclei ToolID = "nuclei"
	ToolNikto  ToolID = "nikto"
	ToolHydra  ToolID = "hydra"
	ToolNmap   ToolID = "nmap"
)

// toolAliases maps alternate result keys seen in the wild onto their adapter.
var toolAliases = map[string]ToolID{
	"vulnerability": ToolNuclei,
	"exploitation":  ToolHydra,
}

// RawResult is one tool's result object as it arrives from the scanner
// orchestration layer. All fields are optional; which ones are populated
// depends on the tool.
type RawResult struct {
	Vulnerabilities    []VulnItem `json:"vulnerabilities,omitempty"`
	SQLInjectionPoints []string   `json:"sql_injection_points,omitempty"`
	ValidCredentials   []string   `json:"valid_credentials,omitempty"`
	OpenPorts          PortList   `json:"open_ports,omitempty"`
	FindingsCount      int        `json:"findings_count,omitempty"`
	ExecutionTime      float64    `json:"execution_time,omitempty"`
	Status             string     `json:"status,omitempty"`
}

// VulnItem is a single generic vulnerability entry (nuclei and friends).
type VulnItem struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// PortList tolerates both string entries ("21/ftp") and bare numeric ports.
type PortList []string

func (p *PortList) UnmarshalJSON(data []byte) error {
	var items []interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, fmt.Sprintf("%d", int(v)))
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	*p = out
	return nil
}

// FindingsTotal is the generic per-tool finding counter: the summed lengths
// of whichever finding lists are present. It is intentionally tool-agnostic
// and can diverge from the number of canonical records extraction produces
// for the same result (e.g. open ports that match no risky service).
func (r RawResult) FindingsTotal() int {
	return len(r.Vulnerabilities) + len(r.SQLInjectionPoints) + len(r.ValidCredentials) + len(r.OpenPorts)
}

// Adapter translates one tool family's raw result into zero or more
// canonical records. Extraction is pure and deterministic: no vulnerability
// condition means an empty slice, never an error.
type Adapter interface {
	Tool() ToolID
	Extract(raw RawResult, policy engine.ScoringPolicy) []engine.VulnerabilityRecord
}

// FallbackMode selects what the generic adapter emits for an unknown tool
// that reported zero findings. The caller must choose; there is no implied
// default behavior.
type FallbackMode int

const (
	// FallbackSkip emits no records for a zero-finding unknown tool.
	FallbackSkip FallbackMode = iota
	// FallbackPlaceholder emits a single informational "no findings" record.
	FallbackPlaceholder
)

// Registry dispatches extraction over the closed set of known tools, with
// the generic adapter as the explicit fallback for everything else.
type Registry struct {
	adapters map[ToolID]Adapter
	generic  *GenericAdapter
	policy   engine.ScoringPolicy
}

// NewRegistry builds a registry with every known adapter installed. policy
// scores all emitted records; mode controls the unknown-tool fallback.
func NewRegistry(policy engine.ScoringPolicy, mode FallbackMode) *Registry {
	r := &Registry{
		adapters: make(map[ToolID]Adapter),
		generic:  &GenericAdapter{Mode: mode},
		policy:   policy,
	}
	for _, a := range []Adapter{
		&SQLMapAdapter{},
		&NucleiAdapter{},
		&NiktoAdapter{},
		&HydraAdapter{},
		&NmapAdapter{},
	} {
		r.adapters[a.Tool()] = a
	}
	return r
}

// Policy returns the scoring policy the registry applies.
func (r *Registry) Policy() engine.ScoringPolicy { return r.policy }

// Extract runs the adapter registered for tool (resolving aliases), or the
// generic fallback for unknown names. Every returned record has Tool set to
// the raw input name.
func (r *Registry) Extract(tool string, raw RawResult) []engine.VulnerabilityRecord {
	id := ToolID(tool)
	if alias, ok := toolAliases[tool]; ok {
		id = alias
	}
	adapter, known := r.adapters[id]
	var records []engine.VulnerabilityRecord
	if known {
		records = adapter.Extract(raw, r.policy)
	} else {
		records = r.generic.ExtractNamed(tool, raw, r.policy)
	}
	for i := range records {
		records[i].Tool = tool
	}
	return records
}
