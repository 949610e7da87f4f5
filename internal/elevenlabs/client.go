package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xxxsen/ragbridge/internal/model"
)

const DefaultBaseURL = "https://api.elevenlabs.io"

const apiKeyHeader = "xi-api-key"

// StatusError is returned for any non-2xx upstream response so callers can
// propagate the original status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}

const (
	IndexStatusPending   = "PENDING"
	IndexStatusSucceeded = "SUCCEEDED"
	IndexStatusFailed    = "FAILED"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: base, httpClient: httpClient}
}

type createRAGIndexRequest struct {
	Model string `json:"model"`
}

type ragIndexResponse struct {
	Status string `json:"status"`
}

type converseRequest struct {
	Messages []model.Message `json:"messages"`
}

// CreateRAGIndex submits an indexing job for the document.
func (c *Client) CreateRAGIndex(ctx context.Context, apiKey, documentID, embeddingModel string) error {
	path := fmt.Sprintf("/v1/conversational-ai/knowledge-base/%s/rag-index", documentID)
	return c.doJSON(ctx, http.MethodPost, path, apiKey, createRAGIndexRequest{Model: embeddingModel}, nil)
}

// GetRAGIndex returns the current indexing status for the document.
func (c *Client) GetRAGIndex(ctx context.Context, apiKey, documentID string) (string, error) {
	path := fmt.Sprintf("/v1/conversational-ai/knowledge-base/%s/rag-index", documentID)
	var out ragIndexResponse
	if err := c.doJSON(ctx, http.MethodGet, path, apiKey, nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// GetAgent fetches the full agent configuration as a raw JSON object so
// unrelated fields survive a later write-back untouched.
func (c *Client) GetAgent(ctx context.Context, apiKey, agentID string) (map[string]interface{}, error) {
	path := fmt.Sprintf("/v1/conversational-ai/agents/%s", agentID)
	var out map[string]interface{}
	if err := c.doJSON(ctx, http.MethodGet, path, apiKey, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAgent replaces the agent configuration in full.
func (c *Client) UpdateAgent(ctx context.Context, apiKey, agentID string, config map[string]interface{}) error {
	path := fmt.Sprintf("/v1/conversational-ai/agents/%s", agentID)
	return c.doJSON(ctx, http.MethodPut, path, apiKey, config, nil)
}

// Converse relays a message list to the agent conversation endpoint and
// returns the raw response object.
func (c *Client) Converse(ctx context.Context, apiKey, agentID string, messages []model.Message) (map[string]interface{}, error) {
	path := fmt.Sprintf("/v1/conversational-ai/agents/%s/conversation", agentID)
	var out map[string]interface{}
	if err := c.doJSON(ctx, http.MethodPost, path, apiKey, converseRequest{Messages: messages}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, apiKey string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set(apiKeyHeader, apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
