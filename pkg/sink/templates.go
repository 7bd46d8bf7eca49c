package sink

// Index templates the setup step installs. Kept as plain maps because the
// sink API takes arbitrary JSON; the property sets mirror the document
// structs in payload.go.

func keyword() map[string]string { return map[string]string{"type": "keyword"} }
func text() map[string]string    { return map[string]string{"type": "text"} }

func template(patterns []string, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"index_patterns": patterns,
		"template": map[string]interface{}{
			"settings": map[string]interface{}{
				"number_of_shards":   1,
				"number_of_replicas": 0,
			},
			"mappings": map[string]interface{}{
				"properties": properties,
			},
		},
	}
}

// PentestTemplate is the index template for flat-run result documents.
func PentestTemplate(prefix string) map[string]interface{} {
	return template([]string{prefix + "-*"}, map[string]interface{}{
		"timestamp":          map[string]string{"type": "date"},
		"target_url":         keyword(),
		"tool_name":          keyword(),
		"test_phase":         keyword(),
		"vulnerability_type": keyword(),
		"severity":           keyword(),
		"status":             keyword(),
		"description":        text(),
		"location":           keyword(),
		"risk_score":         map[string]string{"type": "integer"},
		"evidence":           text(),
		"recommendation":     text(),
		"cvss_score":         map[string]string{"type": "float"},
		"cwe_id":             keyword(),
		"owasp_category":     keyword(),
	})
}

// AIPentestTemplate is the index template for AI-context result documents.
func AIPentestTemplate(prefix string) map[string]interface{} {
	return template([]string{prefix + "-*"}, map[string]interface{}{
		"timestamp":            map[string]string{"type": "date"},
		"target_url":           keyword(),
		"tool_name":            keyword(),
		"test_phase":           keyword(),
		"ai_recommended":       map[string]string{"type": "boolean"},
		"ai_priority":          map[string]string{"type": "integer"},
		"vulnerability_type":   keyword(),
		"severity":             keyword(),
		"confidence_score":     map[string]string{"type": "float"},
		"findings_count":       map[string]string{"type": "integer"},
		"status":               keyword(),
		"execution_time":       map[string]string{"type": "float"},
		"risk_score":           map[string]string{"type": "integer"},
		"cvss_score":           map[string]string{"type": "float"},
		"cwe_id":               keyword(),
		"owasp_category":       keyword(),
		"ai_model_used":        keyword(),
		"remediation_priority": keyword(),
	})
}

// InsightsTemplate is the index template for per-run AI insight documents.
func InsightsTemplate(prefix string) map[string]interface{} {
	return template([]string{prefix + "-*"}, map[string]interface{}{
		"timestamp":                 map[string]string{"type": "date"},
		"target_url":                keyword(),
		"ai_model":                  keyword(),
		"insight_type":              keyword(),
		"risk_assessment":           keyword(),
		"confidence_level":          map[string]string{"type": "float"},
		"vulnerability_predictions": text(),
		"remediation_suggestions":   text(),
		"compliance_impact":         text(),
		"business_risk":             keyword(),
		"attack_complexity":         keyword(),
		"exploitability":            keyword(),
	})
}
