package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/scanpipe/pkg/adapters"
	"github.com/user/scanpipe/pkg/engine"
	"github.com/user/scanpipe/pkg/pipeline"
)

// Document is the canonical record flattened into the field set the sink
// indexes. Field order is fixed by the struct, so serializing the same
// records twice yields byte-identical payloads.
type Document struct {
	Timestamp           string  `json:"timestamp"`
	TargetURL           string  `json:"target_url"`
	ToolName            string  `json:"tool_name"`
	TestPhase           string  `json:"test_phase"`
	VulnerabilityType   string  `json:"vulnerability_type,omitempty"`
	Severity            string  `json:"severity,omitempty"`
	Status              string  `json:"status,omitempty"`
	Description         string  `json:"description,omitempty"`
	Location            string  `json:"location,omitempty"`
	RiskScore           int     `json:"risk_score"`
	Evidence            string  `json:"evidence,omitempty"`
	Recommendation      string  `json:"recommendation,omitempty"`
	CVSSScore           float64 `json:"cvss_score,omitempty"`
	CWEID               string  `json:"cwe_id,omitempty"`
	OWASPCategory       string  `json:"owasp_category,omitempty"`
	ConfidenceScore     float64 `json:"confidence_score,omitempty"`
	FindingsCount       int     `json:"findings_count,omitempty"`
	AIRecommended       *bool   `json:"ai_recommended,omitempty"`
	AIPriority          int     `json:"ai_priority,omitempty"`
	AIModelUsed         string  `json:"ai_model_used,omitempty"`
	ExecutionTime       float64 `json:"execution_time,omitempty"`
	RemediationPriority string  `json:"remediation_priority,omitempty"`
}

// DocumentFromRecord flattens one canonical record.
func DocumentFromRecord(rec engine.VulnerabilityRecord) Document {
	doc := Document{
		Timestamp:         rec.Timestamp.UTC().Format(time.RFC3339),
		TargetURL:         rec.TargetURL,
		ToolName:          rec.Tool,
		TestPhase:         string(rec.TestPhase),
		VulnerabilityType: rec.VulnerabilityType,
		Severity:          rec.Severity.String(),
		Status:            rec.Status,
		Description:       rec.Description,
		Location:          rec.Location,
		RiskScore:         rec.RiskScore,
		Evidence:          rec.Evidence,
		Recommendation:    rec.Recommendation,
		CVSSScore:         rec.CVSSScore,
		CWEID:             rec.CWEID,
		OWASPCategory:     rec.OWASPCategory,
		ConfidenceScore:   rec.ConfidenceScore,
	}
	if rec.AI != nil {
		recommended := rec.AI.Recommended
		doc.AIRecommended = &recommended
		doc.AIPriority = rec.AI.Priority
	}
	return doc
}

// DocumentsFromRun flattens every record of a run, attaching the AI-run
// extras (model name, per-tool execution time and remediation priority)
// when present.
func DocumentsFromRun(run *pipeline.RunResult) []Document {
	docs := make([]Document, 0, len(run.Records))
	for _, rec := range run.Records {
		doc := DocumentFromRecord(rec)
		if run.AIContext {
			doc.AIModelUsed = run.AIModelUsed
			doc.ExecutionTime = run.ExecutionTimes[rec.Tool]
			doc.FindingsCount = run.Report.ToolCounts[rec.Tool]
			doc.RemediationPriority = adapters.RemediationPriority(rec.Tool, run.Report.ToolCounts[rec.Tool])
		}
		docs = append(docs, doc)
	}
	return docs
}

// InsightsDocument is the per-run AI analysis document for the insights
// index. List fields are serialized as JSON strings, matching the index
// mapping which stores them as text.
type InsightsDocument struct {
	Timestamp                string  `json:"timestamp"`
	TargetURL                string  `json:"target_url"`
	AIModel                  string  `json:"ai_model"`
	InsightType              string  `json:"insight_type"`
	RiskAssessment           string  `json:"risk_assessment"`
	ConfidenceLevel          float64 `json:"confidence_level"`
	VulnerabilityPredictions string  `json:"vulnerability_predictions"`
	RemediationSuggestions   string  `json:"remediation_suggestions"`
	BusinessRisk             string  `json:"business_risk"`
	AttackComplexity         string  `json:"attack_complexity"`
	Exploitability           string  `json:"exploitability"`
}

const defaultInsightConfidence = 0.8

// InsightsDocumentFromRun builds the per-run insights document, or nil when
// the run carries no insights at all.
func InsightsDocumentFromRun(run *pipeline.RunResult) *InsightsDocument {
	if run.Insights.IsZero() {
		return nil
	}
	ins := run.Insights
	return &InsightsDocument{
		Timestamp:                run.StartedAt.UTC().Format(time.RFC3339),
		TargetURL:                run.TargetURL,
		AIModel:                  orDefault(run.AIModelUsed, "Fallback"),
		InsightType:              "vulnerability_analysis",
		RiskAssessment:           orDefault(ins.RiskAssessment, "unknown"),
		ConfidenceLevel:          defaultInsightConfidence,
		VulnerabilityPredictions: jsonString(ins.VulnerabilityFocus),
		RemediationSuggestions:   jsonString(ins.RemediationSuggestions),
		BusinessRisk:             orDefault(ins.BusinessRisk, "medium"),
		AttackComplexity:         orDefault(ins.AttackComplexity, "medium"),
		Exploitability:           orDefault(ins.Exploitability, "medium"),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func jsonString(v []string) string {
	if v == nil {
		v = []string{}
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// BulkFormatter frames documents as newline-delimited action/document pairs
// for the _bulk endpoint. The destination index name is computed once, at
// construction, from the given instant; a formatter kept across a month
// boundary keeps writing to the index it started with. Callers wanting the
// current month construct a new formatter.
type BulkFormatter struct {
	index string
}

// NewBulkFormatter computes the <prefix>-YYYY-MM index name from now.
func NewBulkFormatter(prefix string, now time.Time) *BulkFormatter {
	return &BulkFormatter{index: fmt.Sprintf("%s-%s", prefix, now.Format("2006-01"))}
}

// Index returns the destination index name.
func (f *BulkFormatter) Index() string { return f.index }

// Format serializes the documents into the two-line-per-document bulk body.
// Output is deterministic for a fixed document list.
func (f *BulkFormatter) Format(docs []Document) ([]byte, error) {
	var buf bytes.Buffer
	for _, doc := range docs {
		action := fmt.Sprintf(`{"index":{"_index":%q}}`, f.index)
		buf.WriteString(action)
		buf.WriteByte('\n')
		line, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal bulk document: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
