package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestS3ReportRepository_ObjectURL(t *testing.T) {
	r := &S3ReportRepository{bucket: "reports", publicURL: "http://localhost:8333"}
	assert.Equal(t, "http://localhost:8333/reports/reports/p1/day-1-X.json", r.objectURL("reports/p1/day-1-X.json"))
	assert.Equal(t, "http://localhost:8333/reports/a.json", r.objectURL("/a.json"))
}
