package pdfextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

var ErrEmptyPDF = errors.New("empty pdf")

// ExtractBytes parses an in-memory PDF and returns its plain text.
// A PDF without a text layer yields an empty string and no error.
func ExtractBytes(b []byte) (text string, err error) {
	if len(b) == 0 {
		return "", ErrEmptyPDF
	}
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf panicked: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", err
	}
	plainReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Extractor reads PDFs from disk and bounds each extraction by ctx.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFile stops waiting once ctx is done. The pdf package takes no
// context, so the parse goroutine runs to completion in the background.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("extract pdf text aborted: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf file failed: %w", err)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := ExtractBytes(b)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("extract pdf text aborted: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("extract pdf text failed: %w", res.err)
		}
		return res.text, nil
	}
}
