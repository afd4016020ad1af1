package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Client is the interface for report-artifact storage. Both the GCS and the
// local filesystem backend implement it.
type Client interface {
	UploadFile(ctx context.Context, reader io.Reader, objectName, contentType string) (*UploadResult, error)
	DeleteFile(ctx context.Context, objectName string) error
	ReadFile(ctx context.Context, objectName string) (io.ReadCloser, error)
	GetSignedURL(objectName string, expiry time.Duration) (string, error)
	Close() error
}

// UploadResult contains the result of an upload operation.
type UploadResult struct {
	ObjectName string `json:"object_name"`
	PublicURL  string `json:"public_url"`
	Size       int64  `json:"size"`
}

// ReportHTMLObjectName builds the object name for a generated report's HTML
// artifact.
func ReportHTMLObjectName(reportID string) string {
	return fmt.Sprintf("reports/%s/%d_report.html", reportID, time.Now().Unix())
}

// ReportPDFObjectName builds the object name for a generated report's PDF
// artifact.
func ReportPDFObjectName(reportID string) string {
	return fmt.Sprintf("reports/%s/%d_report.pdf", reportID, time.Now().Unix())
}
