package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"pdfchat/internal/chunker"
	"pdfchat/internal/config"
	"pdfchat/internal/loader"
	"pdfchat/internal/logging"
	"pdfchat/internal/pdfparser"
	"pdfchat/internal/service"
	"pdfchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath  string
		rebuild  bool
		question string
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/pdfchat/config.yaml if not provided)")
	flag.BoolVar(&rebuild, "rebuild", false, "Ignore the stored index and rebuild it from the PDF folder")
	flag.StringVar(&question, "ask", "", "Answer a single question, print it and exit")
	flag.Parse()

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

	logger, logFile, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer logFile.Close()

	ctx := context.Background()
	parser, err := pdfparser.New(cfg.PDF.Parser, cfg.PDF.LicenseKeyEnv)
	if err != nil {
		log.Fatalf("pdf parser init failed: %v", err)
	}
	ch, err := chunker.New(cfg.Chunker.Type, cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	if err != nil {
		log.Fatalf("chunker init failed: %v", err)
	}
	emb, embCloser, err := newEmbedder(ctx, cfg)
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}
	defer embCloser.Close()
	gen, genCloser, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("llm init failed: %v", err)
	}
	defer genCloser.Close()

	logger.WithField("embedder", emb.Name()).WithField("llm", gen.Name()).Info("starting pdfchat")

	svc := service.NewRAGService(loader.New(parser, logger), ch, emb, gen, service.Options{
		DataDir:   cfg.DataDir,
		IndexPath: cfg.Index.Path,
		TopK:      cfg.Retrieval.TopK,
		Params:    llmParams(cfg.LLM),
	}, logger)

	if question != "" {
		os.Exit(askOnce(ctx, svc, rebuild, question))
	}

	m := tui.New(svc, rebuild)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.WithError(err).Error("tui exited")
		log.Fatal(err)
	}
}

// askOnce answers one question without the TUI and returns the exit code.
func askOnce(ctx context.Context, svc *service.RAGService, rebuild bool, question string) int {
	var err error
	if rebuild {
		_, err = svc.Rebuild(ctx)
	} else {
		var report service.OpenReport
		report, err = svc.Open(ctx)
		if err == nil && report.Rebuilt {
			fmt.Fprintln(os.Stderr, "Could not load index. Regenerating...")
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		return 1
	}
	answer, err := svc.Ask(ctx, question)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		return 1
	}
	fmt.Println(answer)
	return 0
}
