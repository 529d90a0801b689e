//go:build integration
// +build integration

// The build tag 'integration' allows separating integration tests from unit tests.
// Run unit tests with: go test ./...
// Run integration tests with: go test -tags=integration ./...

package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

const (
	minioUsername = "admin"
	minioPassword = "password"

	testBucket = "test-bucket"
)

func setupMinioContainer(t *testing.T, ctx context.Context) string {
	t.Helper()

	minioContainer, err := minio.Run(
		ctx,
		"minio/minio:RELEASE.2024-01-16T16-07-38Z",
		minio.WithUsername(minioUsername),
		minio.WithPassword(minioPassword),
	)
	require.NoError(t, err, "Failed to start MinIO container")

	t.Cleanup(func() {
		err := minioContainer.Terminate(context.Background())
		require.NoError(t, err, "Failed to terminate MinIO container")
	})

	connStr, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get MinIO connection string")

	return "http://" + connStr
}

func setupS3Provider(t *testing.T, ctx context.Context) (*S3Provider, S3ClientConfig) {
	t.Helper()

	cfg := S3ClientConfig{
		Endpoint:        setupMinioContainer(t, ctx),
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
	}
	provider, err := NewS3Provider(cfg)
	require.NoError(t, err)
	require.NoError(t, provider.CreateBucket(ctx, testBucket))
	return provider, cfg
}

func TestS3ProviderPutGetObject(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider, _ := setupS3Provider(t, ctx)

	content := []byte("ID,Year\n1,1994\n")
	require.NoError(t, provider.PutObject(ctx, testBucket, "datasets/votes.csv", bytes.NewReader(content)))

	data, err := provider.GetObject(ctx, testBucket, "datasets/votes.csv")
	require.NoError(t, err)
	assert.Equal(t, content, data)

	_, err = provider.GetObject(ctx, testBucket, "datasets/missing.csv")
	assert.Error(t, err)
}

func TestS3ProviderListObjects(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider, _ := setupS3Provider(t, ctx)

	files := []string{"datasets/2024.csv", "datasets/2025.csv", "other/readme.txt"}
	for _, file := range files {
		require.NoError(t, provider.PutObject(ctx, testBucket, file, bytes.NewReader([]byte("content: "+file))))
	}

	objects, err := provider.ListObjects(ctx, testBucket, "datasets/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	for _, obj := range objects {
		assert.Contains(t, []string{"datasets/2024.csv", "datasets/2025.csv"}, obj.Name)
		assert.Greater(t, obj.Size, int64(0))
	}
}

func TestS3ProviderDownloadObject(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider, _ := setupS3Provider(t, ctx)

	require.NoError(t, provider.PutObject(ctx, testBucket, "datasets/votes.csv", bytes.NewReader([]byte("payload"))))

	dst := filepath.Join(t.TempDir(), "nested", "votes.csv")
	require.NoError(t, provider.DownloadObject(ctx, testBucket, "datasets/votes.csv", dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestResolveDatasetS3URI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider, cfg := setupS3Provider(t, ctx)

	content := []byte("ID,Year\n1,1994\n")
	require.NoError(t, provider.PutObject(ctx, testBucket, "datasets/votes.csv", bytes.NewReader(content)))

	cacheDir := t.TempDir()
	resolved, err := ResolveDataset(ctx, DatasetSource{
		S3URI: "s3://" + testBucket + "/datasets/votes.csv",
		S3:    cfg,
	}, cacheDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheDir, "votes.csv"), resolved)

	data, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}
