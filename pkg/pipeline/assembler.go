package pipeline

import (
	"time"

	"github.com/user/scanpipe/pkg/engine"
)

// phaseByTool is the fixed tool-to-phase table. Immutable; tools outside it
// assemble as PhaseUnknown.
var phaseByTool = map[string]engine.TestPhase{
	"nmap":         engine.PhaseReconnaissance,
	"amass":        engine.PhaseReconnaissance,
	"nikto":        engine.PhaseVulnAssessment,
	"nuclei":       engine.PhaseVulnAssessment,
	"zap":          engine.PhaseVulnAssessment,
	"sqlmap":       engine.PhaseExploitation,
	"hydra":        engine.PhaseExploitation,
	"metasploit":   engine.PhaseExploitation,
	"bloodhound":   engine.PhasePostExploitation,
	"crackmapexec": engine.PhasePostExploitation,
}

// PhaseForTool maps a tool name to its assessment phase.
func PhaseForTool(tool string) engine.TestPhase {
	if phase, ok := phaseByTool[tool]; ok {
		return phase
	}
	return engine.PhaseUnknown
}

// Assembler stamps adapter output into finished canonical records: assembly
// timestamp, target URL, test phase, and (when a recommended-tool plan is
// present) the AI annotations. It is a pure transform over its inputs and
// the clock.
type Assembler struct {
	TargetURL string
	// RecommendedTools is the AI plan, in priority order. Nil means the run
	// had no AI context and records carry no AI annotations at all.
	RecommendedTools []string
	// Clock defaults to time.Now; tests inject a fixed instant.
	Clock func() time.Time
}

// Assemble finalizes the records one tool's adapter produced. The input
// slice is modified in place and returned.
func (a *Assembler) Assemble(tool string, records []engine.VulnerabilityRecord) []engine.VulnerabilityRecord {
	now := time.Now()
	if a.Clock != nil {
		now = a.Clock()
	}
	for i := range records {
		records[i].Tool = tool
		records[i].Timestamp = now
		records[i].TargetURL = a.TargetURL
		records[i].TestPhase = PhaseForTool(tool)
		if a.RecommendedTools != nil {
			records[i].AI = a.aiContext(tool)
		}
	}
	return records
}

func (a *Assembler) aiContext(tool string) *engine.AIContext {
	for i, name := range a.RecommendedTools {
		if name == tool {
			return &engine.AIContext{Recommended: true, Priority: i + 1}
		}
	}
	return &engine.AIContext{Recommended: false, Priority: engine.NotRecommendedPriority}
}
