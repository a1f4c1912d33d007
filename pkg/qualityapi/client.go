package qualityapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const genericFailureMessage = "request failed"

// APIError is a failed call to the quality backend. Message is the backend's own
// explanation when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("quality backend: %s (status %d)", e.Message, e.StatusCode)
}

// AsAPIError unwraps err into an *APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the quality-inspection REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetSession(ctx context.Context, sessionId int64) (*Session, error) {
	var out Session
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/quality/sessions/%d", sessionId), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMessages(ctx context.Context, sessionId int64) ([]Message, error) {
	out := make([]Message, 0)
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/quality/sessions/%d/messages", sessionId), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListSessionTags(ctx context.Context, sessionId int64) ([]AssignedTag, error) {
	out := make([]AssignedTag, 0)
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/quality/sessions/%d/tags", sessionId), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListActiveRules(ctx context.Context) ([]Rule, error) {
	out := make([]Rule, 0)
	if _, err := c.do(ctx, http.MethodGet, "/quality/rules?is_active=1", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateMessage(ctx context.Context, messageId int64, content string) error {
	body := map[string]string{"content": content}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/quality/messages/%d", messageId), body, nil)
	return err
}

// SubmitReview posts the composite review in one call. No retry.
func (c *Client) SubmitReview(ctx context.Context, sessionId int64, payload *ReviewPayload) (*ReviewResult, error) {
	var out ReviewResult
	msg, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/quality/sessions/%d/review", sessionId), payload, &out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return &out, nil
}

func (c *Client) CheckCase(ctx context.Context, sessionId int64) (*CaseStatus, error) {
	var out CaseStatus
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/quality/cases/check-session/%d", sessionId), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddCase(ctx context.Context, req *CaseRequest) (*Case, error) {
	var out Case
	if _, err := c.do(ctx, http.MethodPost, "/quality/cases", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// envelope is the backend's response wrapper. Endpoints that return bare JSON are
// accepted as well.
type envelope struct {
	Success *bool           `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Detail != "":
		return e.Detail
	default:
		return e.Error
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) (string, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{Message: fmt.Sprintf("%s: %v", genericFailureMessage, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Message: genericFailureMessage}
	}

	trimmed := bytes.TrimSpace(raw)
	var env envelope
	isEnvelope := len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &env) == nil &&
		(env.Success != nil || env.Data != nil)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := genericFailureMessage
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var errEnv envelope
			if json.Unmarshal(trimmed, &errEnv) == nil && errEnv.text() != "" {
				msg = errEnv.text()
			}
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if isEnvelope && env.Success != nil && !*env.Success {
		msg := env.text()
		if msg == "" {
			msg = genericFailureMessage
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(trimmed) == 0 {
		return env.text(), nil
	}

	data := trimmed
	if isEnvelope {
		data = env.Data
	}
	if len(data) == 0 || string(data) == "null" {
		return env.text(), nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return "", fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return env.text(), nil
}
