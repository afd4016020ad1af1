package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFService_BodyReadableAfterConversionReturns(t *testing.T) {
	// Well past any transport buffering, so a body backed by an already
	// canceled request context could not be drained lazily.
	payload := bytes.Repeat([]byte("%PDF-1.7 report page "), 50_000)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}))
	defer srv.Close()

	svc, err := NewPDFService(srv.URL, "10s")
	require.NoError(t, err)

	reader, err := svc.ConvertHTMLToPDF(context.Background(), "<html><body>report</body></html>")
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err, "the converted document must stay readable after conversion returns")
	assert.Equal(t, payload, got)
}

func TestPDFService_ConversionFailsAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every attempt hits a dead endpoint

	svc, err := NewPDFService(srv.URL, "2s")
	require.NoError(t, err)

	reader, err := svc.ConvertHTMLToPDF(context.Background(), "<html></html>")
	require.Error(t, err)
	assert.Nil(t, reader)
	assert.Contains(t, err.Error(), "after 3 attempts")
}
