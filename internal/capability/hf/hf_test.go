package hf

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

var testLimits = domain.QALimits{MaxAnswerLen: 150, MaxQuestionLen: 100, MaxSeqLen: 512}

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/distilbert-base-cased-distilled-squad", r.URL.Path)
		var body struct {
			Inputs struct {
				Question string `json:"question"`
				Context  string `json:"context"`
			} `json:"inputs"`
			Parameters map[string]int `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Where did the cat sit?", body.Inputs.Question)
		assert.Equal(t, 150, body.Parameters["max_answer_len"])
		assert.Equal(t, 512, body.Parameters["max_seq_len"])
		_, _ = w.Write([]byte(`{"answer":"mat","score":0.91,"start":19,"end":22}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	got, err := c.Extract(context.Background(), "Where did the cat sit?", "The cat sat on the mat.", testLimits)
	require.NoError(t, err)
	assert.Equal(t, domain.Extraction{Answer: "mat", Score: 0.91, Start: 19, End: 22}, got)
}

func TestExtract_ArrayWrappedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"answer":"mat","score":0.5,"start":1,"end":4}]`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	got, err := c.Extract(context.Background(), "q", "passage", testLimits)
	require.NoError(t, err)
	assert.Equal(t, "mat", got.Answer)
	assert.Equal(t, 0.5, got.Score)
}

func TestExtract_ServerErrorRetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Extract(context.Background(), "q", "passage", testLimits)
	require.Error(t, err)
	assert.Equal(t, int32(4), calls.Load(), "initial attempt plus three retries")
}

func TestExtract_ClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Extract(context.Background(), "q", "passage", testLimits)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/facebook/bart-large-cnn", r.URL.Path)
		var body struct {
			Inputs     string         `json:"inputs"`
			Parameters map[string]any `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(150), body.Parameters["max_length"])
		assert.Equal(t, float64(50), body.Parameters["min_length"])
		_, _ = w.Write([]byte(`[{"summary_text":"A short summary."}]`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	got, err := c.Summarize(context.Background(), "long document text", 150, 50)
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got)
}
