package domain

import (
	"context"
)

// ReportRepository stores exported day reports.
type ReportRepository interface {
	// Upload saves a file and returns its access URL
	Upload(ctx context.Context, file []byte, filename string, contentType string) (string, error)
}
