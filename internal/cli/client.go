package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/me/triage/pkg/model"
)

// Client is an HTTP client for the triage API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a triage API client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Logger:     logger,
	}
}

// apiResponse is the parsed envelope.
type apiResponse struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

// do performs an HTTP request and returns the parsed envelope.
func (c *Client) do(method, path string, body any) (*apiResponse, error) {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		c.Logger.Debug("HTTP request body", "body", string(data))
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.Logger.Debug("HTTP request", "method", method, "url", url)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP response", "status", resp.StatusCode, "body", string(respBody))

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response (status %d): %w\nbody: %s", resp.StatusCode, err, string(respBody))
	}

	if apiResp.Status == "error" && apiResp.Error != nil {
		return &apiResp, apiResp.Error
	}

	return &apiResp, nil
}

// Get performs a GET request.
func (c *Client) Get(path string) (*apiResponse, error) {
	return c.do("GET", path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(path string, body any) (*apiResponse, error) {
	return c.do("POST", path, body)
}

// ListEmails fetches one page of the catalog. Empty query values are dropped.
func (c *Client) ListEmails(query url.Values) ([]model.Email, *model.Pagination, error) {
	path := "/api/v1/emails"
	for k, vs := range query {
		if len(vs) == 0 || vs[0] == "" {
			query.Del(k)
		}
	}
	if enc := query.Encode(); enc != "" {
		path += "?" + enc
	}
	resp, err := c.Get(path)
	if err != nil {
		return nil, nil, err
	}
	var emails []model.Email
	if err := json.Unmarshal(resp.Data, &emails); err != nil {
		return nil, nil, fmt.Errorf("parse emails: %w", err)
	}
	return emails, resp.Pagination, nil
}

// Queue fetches the current queue snapshot.
func (c *Client) Queue() (model.QueueSnapshot, error) {
	return c.snapshot(c.Get("/api/v1/queue"))
}

// QueueCommand runs start, pause, resume, reset or reload and returns the
// snapshot taken after it.
func (c *Client) QueueCommand(name string) (model.QueueSnapshot, error) {
	return c.snapshot(c.Post("/api/v1/queue/"+name, nil))
}

func (c *Client) snapshot(resp *apiResponse, err error) (model.QueueSnapshot, error) {
	var snap model.QueueSnapshot
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(resp.Data, &snap); err != nil {
		return snap, fmt.Errorf("parse queue: %w", err)
	}
	return snap, nil
}
