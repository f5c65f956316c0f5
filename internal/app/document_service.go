package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"chatpdf/internal/ai"
	"chatpdf/internal/cache"
	"chatpdf/internal/metrics"
	"chatpdf/internal/model"
	"chatpdf/internal/platform/disk"
)

const (
	SystemPrompt   = "You are an AI assistant that answers questions based only on the provided document text."
	NoResponseText = "No response."
)

var (
	ErrExtraction       = errors.New("pdf extraction failed")
	ErrDocumentNotFound = errors.New("pdf not found")
	ErrCompletion       = errors.New("answer generation failed")
)

type TextExtractor interface {
	ExtractFile(ctx context.Context, path string) (string, error)
}

type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

type UploadStorage interface {
	Save(name string, r io.Reader) (string, error)
}

type DocumentService struct {
	store          cache.DocumentStore
	uploads        UploadStorage
	extractor      TextExtractor
	completer      Completer
	extractTimeout time.Duration
	now            func() time.Time
}

type UploadInput struct {
	Filename string
	Content  io.Reader
}

type UploadResult struct {
	Filename string
	Path     string
	Chars    int
}

type AskInput struct {
	Filename string
	Question string
}

type AskResult struct {
	Answer string
}

func NewDocumentService(
	store cache.DocumentStore,
	uploads UploadStorage,
	extractor TextExtractor,
	completer Completer,
	extractTimeout time.Duration,
) *DocumentService {
	return &DocumentService{
		store:          store,
		uploads:        uploads,
		extractor:      extractor,
		completer:      completer,
		extractTimeout: extractTimeout,
		now:            time.Now,
	}
}

// Upload saves the raw file, extracts its text and stores it under the
// original filename, replacing any previous upload with that name.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	result, err := s.upload(ctx, input)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.ExtractedCharacters.Observe(float64(result.Chars))
	return result, nil
}

func (s *DocumentService) upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	filename := disk.CleanName(input.Filename)
	if filename == "" || input.Content == nil {
		return nil, fmt.Errorf("%w: missing file", ErrExtraction)
	}

	path, err := s.uploads.Save(filename, input.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	extractCtx := ctx
	if s.extractTimeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, s.extractTimeout)
		defer cancel()
	}
	text, err := s.extractor.ExtractFile(extractCtx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	doc := model.Document{
		Filename:   filename,
		Text:       text,
		UploadedAt: s.now(),
	}
	if err := s.store.Put(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	return &UploadResult{
		Filename: filename,
		Path:     path,
		Chars:    len(text),
	}, nil
}

// Ask answers question from the stored text of filename only. The full
// document is resent on every call.
func (s *DocumentService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	doc, ok, err := s.store.Get(ctx, input.Filename)
	if err != nil {
		metrics.QuestionsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	if !ok || doc.Text == "" {
		metrics.QuestionsTotal.WithLabelValues(metrics.ResultNotFound).Inc()
		return nil, ErrDocumentNotFound
	}

	start := time.Now()
	answer, err := s.completer.Complete(ctx, BuildPrompt(doc.Text, input.Question))
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QuestionsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	if answer == "" {
		answer = NoResponseText
	}

	metrics.QuestionsTotal.WithLabelValues(metrics.ResultOK).Inc()
	return &AskResult{Answer: answer}, nil
}

func BuildPrompt(documentText, question string) []ai.ChatMessage {
	return []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: SystemPrompt},
		{Role: ai.RoleUser, Content: "Document: " + documentText + "\n\nQuestion: " + question},
	}
}
