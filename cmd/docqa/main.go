package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docqa/internal/capability/hf"
	"docqa/internal/capability/ollama"
	"docqa/internal/challenge"
	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/extract"
	"docqa/internal/qa"
	"docqa/internal/service"
	"docqa/internal/summarizer"
	"docqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: docqa [--config=config.yaml] document.pdf|document.txt")
		os.Exit(1)
	}
	docPath := flag.Arg(0)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogPath)
	defer func() { _ = logger.Sync() }()

	// Assemble components
	inference := hf.NewClient(hf.Config{
		BaseURL:      cfg.Inference.BaseURL,
		APIKeyEnv:    cfg.Inference.APIKeyEnv,
		QAModel:      cfg.Inference.QAModel,
		SummaryModel: cfg.Inference.SummaryModel,
		Timeout:      time.Duration(cfg.Inference.TimeoutSecs) * time.Second,
	})
	ch := chunker.NewWordChunker(cfg.Chunker.WindowWords, cfg.Chunker.OverlapWords)
	override := overrideFromConfig(cfg.Override)
	engine := qa.NewEngine(ch, inference, override, logger)

	// Prefer the generative path when a local Ollama server is reachable.
	var asker service.Asker = engine
	var generator domain.Generator
	if cfg.Ollama != nil {
		oc := ollama.NewClient(ollama.Config{
			URL:     cfg.Ollama.URL,
			Model:   cfg.Ollama.Model,
			Timeout: time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
		})
		if err := oc.Ping(context.Background()); err != nil {
			logger.Info("ollama not reachable, using extractive pipeline", zap.Error(err))
		} else {
			logger.Info("using ollama for question answering", zap.String("model", oc.Model()))
			asker = qa.NewGenerativeEngine(oc, oc.Model())
			generator = oc
		}
	}
	if generator == nil {
		generator = unavailableGenerator{}
	}

	var summ domain.Summarizer
	fallback := summarizer.NewFrequency(cfg.Summarizer.MaxSentences)
	switch cfg.Summarizer.Type {
	case "inference", "":
		summ = summarizer.NewRemote(inference.Summarize)
	case "frequency":
		summ = fallback
	default:
		log.Fatalf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	questions := challenge.NewGenerator(ch, inference, generator, logger)
	assistant := service.New(extract.New(cfg.Extract.PdfToTextPath), asker, questions, summ, fallback, logger)

	fmt.Println("Processing document...")
	if err := assistant.LoadDocument(context.Background(), docPath); err != nil {
		log.Fatalf("failed to process document: %v", err)
	}

	if _, err := tea.NewProgram(tui.New(assistant), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

// newLogger writes structured logs to a file so they don't fight the TUI
// for the terminal.
func newLogger(path string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func overrideFromConfig(oc config.OverrideConfig) qa.Override {
	if oc.Answer == "" {
		return qa.DefaultOverride()
	}
	return qa.Override{
		Triggers:   oc.Triggers,
		Answer:     oc.Answer,
		Context:    oc.Context,
		Highlight:  oc.Highlight,
		Confidence: 95.0,
	}
}

// unavailableGenerator stands in when no generative backend is configured;
// question generation then falls back to the canned question set.
type unavailableGenerator struct{}

func (unavailableGenerator) Generate(context.Context, string, domain.GenerateOptions) (string, error) {
	return "", fmt.Errorf("no generative backend configured")
}
