package exec

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dshills/flowdag-go/flow"
)

// DefaultHTTPTimeout bounds http_request nodes that do not carry a
// deadline on their run context.
const DefaultHTTPTimeout = 30 * time.Second

// HTTPExecutor runs http_request nodes. Config:
//
//	url    — request URL (required, interpolated)
//	method — GET (default), POST, PUT, or DELETE
//	body   — request body for POST/PUT
//
// Output carries status_code, body, and success (status in 2xx).
// A non-2xx response is a successful execution with success:false;
// only transport failures return an HTTP_ERROR.
type HTTPExecutor struct {
	client *http.Client
}

// NewHTTPExecutor builds the executor. A nil client selects one with
// DefaultHTTPTimeout.
func NewHTTPExecutor(client *http.Client) *HTTPExecutor {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPExecutor{client: client}
}

// Execute implements flow.Executor.
func (h *HTTPExecutor) Execute(ctx context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	url, err := cfg.Require("url")
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(cfg.Get("method"))
	if method == "" {
		method = http.MethodGet
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, flow.NewError(flow.CodeHTTP, "unsupported HTTP method: "+method).WithNode(node.ID)
	}

	var body io.Reader
	if raw := cfg.Get("body"); raw != "" && method != http.MethodGet {
		body = strings.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, flow.NewError(flow.CodeHTTP, "invalid request").WithNode(node.ID).WithCause(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeFor(cfg.Get("body")))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, flow.NewError(flow.CodeHTTP, "request failed").WithNode(node.ID).WithCause(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, flow.NewError(flow.CodeHTTP, "failed to read response body").WithNode(node.ID).WithCause(err)
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        string(respBody),
		"success":     resp.StatusCode >= 200 && resp.StatusCode < 300,
	}, nil
}

func contentTypeFor(body string) string {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "application/json"
	}
	return "text/plain"
}
