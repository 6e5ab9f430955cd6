// Package hf is a client for Hugging Face style hosted inference endpoints.
// It backs the extractive QA and summarization capabilities.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"docqa/internal/domain"
)

// Client calls question-answering and summarization models over the hosted
// inference REST protocol.
type Client struct {
	baseURL      string
	apiKey       string
	qaModel      string
	summaryModel string
	client       *http.Client
	maxRetries   int
}

// Config configures the inference client. APIKeyEnv names the environment
// variable holding the token; an empty token is allowed for self-hosted
// endpoints.
type Config struct {
	BaseURL      string
	APIKeyEnv    string
	QAModel      string
	SummaryModel string
	Timeout      time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.QAModel == "" {
		cfg.QAModel = "distilbert-base-cased-distilled-squad"
	}
	if cfg.SummaryModel == "" {
		cfg.SummaryModel = "facebook/bart-large-cnn"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       os.Getenv(cfg.APIKeyEnv),
		qaModel:      cfg.QAModel,
		summaryModel: cfg.SummaryModel,
		client:       &http.Client{Timeout: timeout},
		maxRetries:   3,
	}
}

// Extract runs the question-answering model over a single passage and
// returns the candidate span with passage-local offsets.
func (c *Client) Extract(ctx context.Context, question, passage string, limits domain.QALimits) (domain.Extraction, error) {
	body := map[string]any{
		"inputs": map[string]string{
			"question": question,
			"context":  passage,
		},
		"parameters": map[string]int{
			"max_answer_len":   limits.MaxAnswerLen,
			"max_question_len": limits.MaxQuestionLen,
			"max_seq_len":      limits.MaxSeqLen,
		},
	}
	payload, err := c.post(ctx, c.baseURL+"/models/"+c.qaModel, body)
	if err != nil {
		return domain.Extraction{}, err
	}

	var out struct {
		Answer string  `json:"answer"`
		Score  float64 `json:"score"`
		Start  int     `json:"start"`
		End    int     `json:"end"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		// Some deployments wrap the result in a one-element array.
		var arr []json.RawMessage
		if err2 := json.Unmarshal(payload, &arr); err2 != nil || len(arr) == 0 {
			return domain.Extraction{}, eris.Wrap(err, "decoding QA response")
		}
		if err2 := json.Unmarshal(arr[0], &out); err2 != nil {
			return domain.Extraction{}, eris.Wrap(err2, "decoding QA response")
		}
	}
	return domain.Extraction{Answer: out.Answer, Score: out.Score, Start: out.Start, End: out.End}, nil
}

// Summarize condenses text through the summarization model.
func (c *Client) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	body := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"max_length": maxLen,
			"min_length": minLen,
			"do_sample":  false,
		},
	}
	payload, err := c.post(ctx, c.baseURL+"/models/"+c.summaryModel, body)
	if err != nil {
		return "", err
	}

	var arr []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := json.Unmarshal(payload, &arr); err == nil && len(arr) > 0 {
		return arr[0].SummaryText, nil
	}
	var single struct {
		SummaryText string `json:"summary_text"`
	}
	if err := json.Unmarshal(payload, &single); err != nil {
		return "", eris.Wrap(err, "decoding summary response")
	}
	if single.SummaryText == "" {
		return "", eris.New("no summary returned")
	}
	return single.SummaryText, nil
}

// post sends a JSON request, retrying transient failures with backoff and
// honoring Retry-After on 429 and 5xx responses.
func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "encoding request")
	}
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, eris.Wrap(err, "building request")
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries && ctx.Err() == nil {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, eris.Wrap(err, "inference request failed")
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			lastErr = eris.Errorf("inference endpoint returned %s", resp.Status)
			if attempt < c.maxRetries {
				time.Sleep(delay)
				continue
			}
			return nil, lastErr
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, eris.Wrap(err, "reading response")
		}
		if resp.StatusCode >= 300 {
			return nil, eris.Errorf("inference endpoint returned %s: %s", resp.Status, string(payload))
		}
		return payload, nil
	}
	return nil, eris.Wrap(lastErr, "inference request failed")
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
