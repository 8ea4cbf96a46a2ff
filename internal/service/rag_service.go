package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pdfchat/internal/chunker"
	"pdfchat/internal/domain"
	"pdfchat/internal/embedding"
	"pdfchat/internal/index"
	"pdfchat/internal/llm"
	"pdfchat/internal/qa"
)

// ErrNotReady is returned by Ask before an index has been opened.
var ErrNotReady = errors.New("vector store is not loaded")

// DocumentLoader reads the page documents of a folder.
type DocumentLoader interface {
	Load(ctx context.Context, dir string) ([]domain.Document, error)
}

// Options locate the corpus and the persisted index and tune retrieval.
type Options struct {
	DataDir   string
	IndexPath string
	TopK      int
	Params    llm.Params
}

// OpenReport describes how the index became available.
type OpenReport struct {
	Rebuilt   bool
	LoadErr   error // why the stored index was not used; nil when it was
	Documents int
	Elapsed   time.Duration
}

// RAGService owns the index lifecycle and answers questions against it.
type RAGService struct {
	loader    DocumentLoader
	chunker   domain.Chunker
	embedder  embedding.Embedder
	generator llm.Generator
	opts      Options
	log       logrus.FieldLogger

	mu    sync.RWMutex
	index *index.Index
	synth *qa.Synthesizer
}

func NewRAGService(loader DocumentLoader, ch domain.Chunker, embedder embedding.Embedder, generator llm.Generator, opts Options, log logrus.FieldLogger) *RAGService {
	if ch == nil {
		ch = chunker.Passthrough{}
	}
	return &RAGService{
		loader:    loader,
		chunker:   ch,
		embedder:  embedder,
		generator: generator,
		opts:      opts,
		log:       log,
	}
}

// Open loads the persisted index. When loading fails for any reason the
// index is rebuilt from the PDF folder and saved; only a failed rebuild is
// returned as an error.
func (s *RAGService) Open(ctx context.Context) (OpenReport, error) {
	start := time.Now()
	ix, err := index.Load(ctx, s.opts.IndexPath, s.embedder)
	if err == nil {
		s.setIndex(ix)
		s.log.WithFields(logrus.Fields{
			"path":      s.opts.IndexPath,
			"documents": ix.Len(),
		}).Info("vector store loaded")
		return OpenReport{Documents: ix.Len(), Elapsed: time.Since(start)}, nil
	}

	s.log.WithError(err).WithField("path", s.opts.IndexPath).Warn("could not load index, regenerating")
	report, rerr := s.Rebuild(ctx)
	report.LoadErr = err
	report.Elapsed = time.Since(start)
	return report, rerr
}

// Rebuild indexes the PDF folder from scratch and overwrites the stored index.
func (s *RAGService) Rebuild(ctx context.Context) (OpenReport, error) {
	start := time.Now()
	pages, err := s.loader.Load(ctx, s.opts.DataDir)
	if err != nil {
		return OpenReport{}, fmt.Errorf("loading documents: %w", err)
	}
	docs, err := chunker.ChunkAll(s.chunker, pages)
	if err != nil {
		return OpenReport{}, err
	}
	ix, err := index.Build(ctx, docs, s.embedder)
	if err != nil {
		return OpenReport{}, fmt.Errorf("building index: %w", err)
	}
	if err := ix.Save(ctx, s.opts.IndexPath); err != nil {
		return OpenReport{}, fmt.Errorf("saving index: %w", err)
	}
	s.setIndex(ix)
	s.log.WithFields(logrus.Fields{
		"pages":     len(pages),
		"documents": ix.Len(),
		"embedder":  ix.EmbedderName(),
		"elapsed":   time.Since(start).String(),
	}).Info("index rebuilt")
	return OpenReport{Rebuilt: true, Documents: ix.Len(), Elapsed: time.Since(start)}, nil
}

func (s *RAGService) setIndex(ix *index.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = ix
	s.synth = qa.NewSynthesizer(ix.Embedder(), ix, s.generator, s.opts.TopK, s.opts.Params, s.log)
}

// Ask answers a single question.
func (s *RAGService) Ask(ctx context.Context, question string) (string, error) {
	s.mu.RLock()
	synth := s.synth
	s.mu.RUnlock()
	if synth == nil {
		return "", ErrNotReady
	}
	start := time.Now()
	answer, err := synth.Answer(ctx, question)
	if err != nil {
		s.log.WithError(err).Error("question failed")
		return "", err
	}
	s.log.WithField("elapsed", time.Since(start).String()).Info("question answered")
	return answer, nil
}

// Documents reports the size of the open index, or zero before Open.
func (s *RAGService) Documents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return 0
	}
	return s.index.Len()
}
