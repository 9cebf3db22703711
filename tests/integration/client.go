// Package integration exercises a running API instance end to end. The
// tests skip themselves when the API is not reachable, so `go test ./...`
// stays green without the docker stack.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Client is a thin JSON client for the API under test.
type Client struct {
	baseURL string
	http    *http.Client
}

// Envelope mirrors the API response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
	Timestamp string `json:"timestamp"`
}

func NewClient() *Client {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Available reports whether the API answers its liveness probe.
func (c *Client) Available() bool {
	resp, err := c.http.Get(c.baseURL + "/api/ping")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) do(method, path string, body any) (int, *Envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode response: %w", err)
	}

	return resp.StatusCode, &env, nil
}

func (c *Client) Get(path string) (int, *Envelope, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *Client) Post(path string, body any) (int, *Envelope, error) {
	return c.do(http.MethodPost, path, body)
}

func (c *Client) Put(path string, body any) (int, *Envelope, error) {
	return c.do(http.MethodPut, path, body)
}

func (c *Client) Delete(path string) (int, *Envelope, error) {
	return c.do(http.MethodDelete, path, nil)
}
