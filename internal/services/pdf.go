package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"
)

type PDFService struct {
	client  *gotenberg.Client
	timeout time.Duration
}

func NewPDFService(gotenbergURL string, timeoutStr string) (*PDFService, error) {
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
	}

	client, err := gotenberg.NewClient(gotenbergURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg client: %w", err)
	}

	return &PDFService{
		client:  client,
		timeout: timeout,
	}, nil
}

// ConvertHTMLToPDF converts a rendered report page to PDF. The page's own
// @page rule carries the A4 sizing; Chromium honors it via
// prefer-css-page-size.
func (s *PDFService) ConvertHTMLToPDF(ctx context.Context, html string) (io.ReadCloser, error) {
	return s.convertWithRetry(ctx, html, 3)
}

func (s *PDFService) convertWithRetry(ctx context.Context, html string, maxRetries int) (io.ReadCloser, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		pdf, err := s.convertOnce(ctx, html)
		if err == nil {
			return io.NopCloser(bytes.NewReader(pdf)), nil
		}

		lastErr = err
		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	return nil, fmt.Errorf("failed to convert report after %d attempts: %w", maxRetries, lastErr)
}

// convertOnce sends one conversion request and drains the response before the
// per-attempt context is canceled. Canceling the request context invalidates
// further Body reads, so the body must never outlive this function.
func (s *PDFService) convertOnce(ctx context.Context, html string) ([]byte, error) {
	convertCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// The document reader is consumed by the send; rebuild it per attempt.
	index, err := document.FromReader("index.html", strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to create document from HTML: %w", err)
	}

	resp, err := s.client.Send(convertCtx, gotenberg.NewHTMLRequest(index))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted document: %w", err)
	}
	return pdf, nil
}

func (s *PDFService) Close() error {
	return nil
}
