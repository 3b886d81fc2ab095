package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/team-schedule/internal/config"
)

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", true, ""},
		{"minio:9000", false, "http://minio:9000"},
		{"minio:9000/", true, "https://minio:9000"},
		{"http://localhost:9000", true, "http://localhost:9000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, endpointURL(tt.endpoint, tt.useSSL), tt.endpoint)
	}
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="team-2024-06-03-to-2024-06-09.pdf"`,
		contentDisposition("exports/abc/uuid/team-2024-06-03-to-2024-06-09.pdf"))
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

// Presigning is computed locally, so it runs without a reachable endpoint.
func TestPresignedDownloadURL(t *testing.T) {
	store, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "schedules",
	})
	require.NoError(t, err)

	url, err := store.GeneratePresignedDownloadURL(context.Background(), "exports/a/b/doc.pdf", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/schedules/exports/a/b/doc.pdf?"), url)
	assert.Contains(t, url, "X-Amz-Expires=300")
}
