package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkIndex(t *testing.T) {
	var gotPath, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	payload := []byte(`{"index":{"_index":"pentest-results-2025-01"}}` + "\n" + `{"tool_name":"nmap"}` + "\n")
	require.NoError(t, c.BulkIndex(context.Background(), payload))

	assert.Equal(t, "/_bulk", gotPath)
	assert.Equal(t, "application/x-ndjson", gotContentType)
	assert.Equal(t, string(payload), gotBody)
}

func TestPutIndexTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/_index_template/pentest-template", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	err := c.PutIndexTemplate(context.Background(), "pentest-template", PentestTemplate("pentest-results"))
	assert.NoError(t, err)
}

func TestImportDashboardHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/saved_objects/_import", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("osd-xsrf"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	err := c.ImportDashboard(context.Background(), DashboardConfig{ID: "pentest-overview", Title: "Overview"})
	assert.NoError(t, err)
}

func TestSinkErrorsAreWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "shard failure", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	err := c.BulkIndex(context.Background(), []byte("{}\n"))
	assert.ErrorIs(t, err, ErrSinkUnavailable)

	// Connection refused wraps the same way.
	down := NewClient("http://127.0.0.1:1", "http://127.0.0.1:1", nil)
	err = down.IndexDocument(context.Background(), "ai-insights", map[string]string{"a": "b"})
	assert.ErrorIs(t, err, ErrSinkUnavailable)
}

func TestPushRunBestEffort(t *testing.T) {
	var bulkCalls, docCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_bulk":
			bulkCalls++
			http.Error(w, "rejected", http.StatusServiceUnavailable)
		default:
			docCalls++
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	f := NewBulkFormatter("pentest-results", fixedTime())
	docs := []Document{{ToolName: "nmap"}}
	insights := &InsightsDocument{RiskAssessment: "high"}

	// Bulk write fails but the insights write still happens; the overall
	// status reports the failure.
	ok := c.PushRun(context.Background(), f, "ai-insights", docs, insights)
	assert.False(t, ok)
	assert.Equal(t, 1, bulkCalls)
	assert.Equal(t, 1, docCalls)
}

func TestPushRunNothingToSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty run")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	f := NewBulkFormatter("pentest-results", fixedTime())
	assert.True(t, c.PushRun(context.Background(), f, "ai-insights", nil, nil))
}
