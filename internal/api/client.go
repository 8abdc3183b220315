// Package api is the HTTP client for the assistant backend.
// Every method makes exactly one attempt; retries are the caller's decision.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"voltdesk/internal/logging"
	"voltdesk/internal/types"

	"github.com/google/uuid"
)

const (
	EndpointRoot   = "/"
	EndpointChat   = "/chat"
	EndpointUpload = "/docs/upload"
	EndpointQuery  = "/docs/query"
	EndpointOhms   = "/calculate/ohms"
	EndpointRLC    = "/calculate/rlc"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout bounds each request; zero waits indefinitely.
	Timeout time.Duration
	// HTTPClient overrides the default transport (tests, proxies).
	HTTPClient *http.Client
}

// Client calls the assistant backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given backend.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
	}
}

// BaseURL returns the backend address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends a general chat turn.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*AnswerResponse, error) {
	if req.History == nil {
		req.History = []types.Turn{}
	}
	var resp AnswerResponse
	if err := c.postJSON(ctx, EndpointChat, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryDocument asks a question scoped to an uploaded document session.
func (c *Client) QueryDocument(ctx context.Context, req DocQueryRequest) (*AnswerResponse, error) {
	if req.History == nil {
		req.History = []types.Turn{}
	}
	var resp AnswerResponse
	if err := c.postJSON(ctx, EndpointQuery, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadDocument sends one file as the multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	size := buf.Len()
	var resp UploadResponse
	if err := c.do(ctx, http.MethodPost, EndpointUpload, mw.FormDataContentType(), &buf, &resp); err != nil {
		return nil, err
	}
	logging.API("uploaded %s (%d bytes)", filename, size)
	return &resp, nil
}

// CalculateOhms posts the Ohm's law form. The response shape is opaque.
func (c *Client) CalculateOhms(ctx context.Context, req OhmsRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, EndpointOhms, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CalculateRLC posts the RLC impedance form. The response shape is opaque.
func (c *Client) CalculateRLC(ctx context.Context, req RLCRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, EndpointRLC, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Ping fetches the backend banner from GET /.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	var resp PingResponse
	if err := c.do(ctx, http.MethodGet, EndpointRoot, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, "application/json", bytes.NewReader(data), out)
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, out interface{}) error {
	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	logging.APIDebug("%s %s id=%s", method, endpoint, reqID)
	logging.Audit(logging.AuditEvent{Type: logging.AuditRequestSent, RequestID: reqID, Endpoint: endpoint})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("request failed: %w", err)
		logging.Audit(logging.AuditEvent{Type: logging.AuditRequestFailed, RequestID: reqID, Endpoint: endpoint, Duration: time.Since(start), Err: err})
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		err = fmt.Errorf("failed to read response: %w", err)
		logging.Audit(logging.AuditEvent{Type: logging.AuditRequestFailed, RequestID: reqID, Endpoint: endpoint, Status: resp.StatusCode, Duration: time.Since(start), Err: err})
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseErrorBody(endpoint, resp.StatusCode, data)
		logging.APIError("%s %s: %v", method, endpoint, apiErr)
		logging.Audit(logging.AuditEvent{Type: logging.AuditRequestFailed, RequestID: reqID, Endpoint: endpoint, Status: resp.StatusCode, Duration: time.Since(start), Err: apiErr})
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		err = fmt.Errorf("failed to parse response: %w", err)
		logging.Audit(logging.AuditEvent{Type: logging.AuditRequestFailed, RequestID: reqID, Endpoint: endpoint, Status: resp.StatusCode, Duration: time.Since(start), Err: err})
		return err
	}

	logging.Audit(logging.AuditEvent{Type: logging.AuditRequestDone, RequestID: reqID, Endpoint: endpoint, Status: resp.StatusCode, Duration: time.Since(start)})
	return nil
}
