package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrSinkUnavailable wraps transport failures to the document store. Writes
// are best effort: callers log it and carry on, nothing is retried.
var ErrSinkUnavailable = errors.New("sink unavailable")

// Client talks to an OpenSearch-compatible document store and its dashboards
// endpoint. All writes are fire-and-forget from the pipeline's point of
// view: a failed write returns an error for logging but must never abort
// the run.
type Client struct {
	BaseURL      string
	DashboardURL string

	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a sink client. Timeouts live here, not in the pipeline.
func NewClient(baseURL, dashboardURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:      baseURL,
		DashboardURL: dashboardURL,
		http:         &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// PutIndexTemplate upserts an index template. Idempotent on the sink side.
func (c *Client) PutIndexTemplate(ctx context.Context, name string, body interface{}) error {
	url := fmt.Sprintf("%s/_index_template/%s", c.BaseURL, name)
	return c.send(ctx, http.MethodPut, url, "application/json", body)
}

// IndexDocument indexes a single document into index.
func (c *Client) IndexDocument(ctx context.Context, index string, doc interface{}) error {
	url := fmt.Sprintf("%s/%s/_doc", c.BaseURL, index)
	return c.send(ctx, http.MethodPost, url, "application/json", doc)
}

// BulkIndex posts a preformatted newline-delimited bulk body.
func (c *Client) BulkIndex(ctx context.Context, payload []byte) error {
	url := fmt.Sprintf("%s/_bulk", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	return c.do(req)
}

// DashboardConfig describes one saved dashboard to import.
type DashboardConfig struct {
	ID          string
	Title       string
	Description string
}

// ImportDashboard imports a saved dashboard object into the dashboards
// endpoint.
func (c *Client) ImportDashboard(ctx context.Context, cfg DashboardConfig) error {
	body := map[string]interface{}{
		"version": "2.0.0",
		"objects": []map[string]interface{}{
			{
				"id":   cfg.ID,
				"type": "dashboard",
				"attributes": map[string]interface{}{
					"title":       cfg.Title,
					"description": cfg.Description,
					"panelsJSON":  "[]",
				},
			},
		},
	}
	url := fmt.Sprintf("%s/api/saved_objects/_import", c.DashboardURL)
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("osd-xsrf", "true")
	return c.do(req)
}

func (c *Client) send(ctx context.Context, method, url, contentType string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal sink request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s %s returned %s: %s",
			ErrSinkUnavailable, req.Method, req.URL.Path, resp.Status, detail)
	}
	return nil
}

// PushRun writes every document of a run via the bulk endpoint and, for AI
// runs with insights, indexes the insights document. Failures are logged and
// reported as a false status; the caller's run continues either way.
func (c *Client) PushRun(ctx context.Context, formatter *BulkFormatter, insightsIndex string, docs []Document, insights *InsightsDocument) bool {
	ok := true
	if len(docs) > 0 {
		payload, err := formatter.Format(docs)
		if err != nil {
			c.logger.Error("bulk payload formatting failed", "error", err)
			return false
		}
		if err := c.BulkIndex(ctx, payload); err != nil {
			c.logger.Error("bulk index failed", "index", formatter.Index(), "error", err)
			ok = false
		} else {
			c.logger.Info("bulk indexed documents", "index", formatter.Index(), "count", len(docs))
		}
	}
	if insights != nil {
		if err := c.IndexDocument(ctx, insightsIndex, insights); err != nil {
			c.logger.Error("insights index failed", "index", insightsIndex, "error", err)
			ok = false
		}
	}
	return ok
}
