package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// InferenceConfig holds settings for the hosted inference client that backs
// the extractive QA and summarization capabilities.
type InferenceConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKeyEnv    string `yaml:"api_key_env"`
	QAModel      string `yaml:"qa_model"`
	SummaryModel string `yaml:"summary_model"`
	TimeoutSecs  int    `yaml:"timeout_secs"`
}

// OllamaConfig holds connection details for the generative capability.
type OllamaConfig struct {
	URL         string `yaml:"url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChunkerConfig configures the word-window chunker.
type ChunkerConfig struct {
	WindowWords  int `yaml:"window_words"`
	OverlapWords int `yaml:"overlap_words"`
}

// SummarizerConfig selects the summarizer implementation.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// OverrideConfig configures the comprehensive-answer short circuit.
type OverrideConfig struct {
	Triggers  []string `yaml:"triggers"`
	Answer    string   `yaml:"answer"`
	Context   string   `yaml:"context"`
	Highlight string   `yaml:"highlight"`
}

// ExtractConfig configures document text extraction.
type ExtractConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Inference  InferenceConfig  `yaml:"inference"`
	Ollama     *OllamaConfig    `yaml:"ollama,omitempty"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Override   OverrideConfig   `yaml:"override"`
	Extract    ExtractConfig    `yaml:"extract"`
	LogPath    string           `yaml:"log_path"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, eris.Wrapf(err, "reading config %s", path)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrapf(err, "parsing config %s", path)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "creating config directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "encoding config")
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Inference: InferenceConfig{
			BaseURL:      "https://api-inference.huggingface.co",
			APIKeyEnv:    "HF_API_TOKEN",
			QAModel:      "distilbert-base-cased-distilled-squad",
			SummaryModel: "facebook/bart-large-cnn",
			TimeoutSecs:  30,
		},
		Ollama: &OllamaConfig{
			URL:   "http://localhost:11434",
			Model: "llama3:instruct",
		},
		Chunker:    ChunkerConfig{WindowWords: 1000, OverlapWords: 200},
		Summarizer: SummarizerConfig{Type: "inference", MaxSentences: 5},
		Extract:    ExtractConfig{PdfToTextPath: "pdftotext"},
		LogPath:    "docqa.log",
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.WindowWords == 0 {
		cfg.Chunker.WindowWords = 1000
	}
	if cfg.Chunker.OverlapWords == 0 {
		cfg.Chunker.OverlapWords = 200
	}
	if cfg.Inference.BaseURL == "" {
		cfg.Inference.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Inference.APIKeyEnv == "" {
		cfg.Inference.APIKeyEnv = "HF_API_TOKEN"
	}
	if cfg.Inference.TimeoutSecs == 0 {
		cfg.Inference.TimeoutSecs = 30
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "inference"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
	if cfg.Extract.PdfToTextPath == "" {
		cfg.Extract.PdfToTextPath = "pdftotext"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "docqa.log"
	}
	if cfg.Ollama != nil {
		if cfg.Ollama.URL == "" {
			cfg.Ollama.URL = "http://localhost:11434"
		}
		if cfg.Ollama.Model == "" {
			cfg.Ollama.Model = "llama3:instruct"
		}
	}
}
