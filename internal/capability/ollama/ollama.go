// Package ollama is a client for a local Ollama server, used as the
// generative capability for free-form answering and question drafting.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"docqa/internal/domain"
)

const pingTimeout = 5 * time.Second

// Client talks to the Ollama HTTP API.
type Client struct {
	url    string
	model  string
	client *http.Client
}

type Config struct {
	URL     string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3:instruct"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		url:    strings.TrimRight(cfg.URL, "/"),
		model:  cfg.Model,
		client: &http.Client{Timeout: timeout},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Ping reports whether the Ollama server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/api/tags", nil)
	if err != nil {
		return eris.Wrap(err, "building ping request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "ollama unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("ollama returned %s", resp.Status)
	}
	return nil
}

// Generate runs a single non-streaming completion.
func (c *Client) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	body := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}
	options := map[string]any{}
	if opts.Temperature != 0 {
		options["temperature"] = opts.Temperature
	}
	if opts.TopP != 0 {
		options["top_p"] = opts.TopP
	}
	if opts.NumCtx != 0 {
		options["num_ctx"] = opts.NumCtx
	}
	if len(options) > 0 {
		body["options"] = options
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", eris.Wrap(err, "encoding request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", eris.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "ollama request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("ollama returned %s", resp.Status)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", eris.Wrap(err, "decoding response")
	}
	return out.Response, nil
}
