package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DatasetSource names where the voting dataset comes from. Exactly one of Path, URL, or S3URI is
// expected; they are checked in that order.
type DatasetSource struct {
	Path  string // local file
	URL   string // http(s) download
	S3URI string // s3://bucket/key
	S3    S3ClientConfig
}

// ResolveDataset makes the dataset available as a local file, downloading remote sources into
// cacheDir, and returns its path.
func ResolveDataset(ctx context.Context, src DatasetSource, cacheDir string) (string, error) {
	switch {
	case src.Path != "":
		if _, err := os.Stat(src.Path); err != nil {
			return "", fmt.Errorf("dataset file %s not accessible: %w", src.Path, err)
		}
		return src.Path, nil

	case src.URL != "":
		return fetchURL(ctx, src.URL, cacheDir)

	case src.S3URI != "":
		bucket, key, err := parseS3URI(src.S3URI)
		if err != nil {
			return "", err
		}
		provider, err := NewS3Provider(src.S3)
		if err != nil {
			return "", err
		}
		local := filepath.Join(cacheDir, path.Base(key))
		if err := provider.DownloadObject(ctx, bucket, key, local); err != nil {
			return "", err
		}
		return local, nil

	default:
		return "", fmt.Errorf("no dataset source configured")
	}
}

func fetchURL(ctx context.Context, url, cacheDir string) (string, error) {
	if err := os.MkdirAll(cacheDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("could not create dataset cache dir: %w", err)
	}

	resp, err := resty.New().R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("could not download dataset from %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("could not download dataset from %s: status %s", url, resp.Status())
	}

	name := path.Base(strings.Split(url, "?")[0])
	if name == "" || name == "." || name == "/" {
		name = "dataset.csv"
	}
	local := filepath.Join(cacheDir, name)
	if err := os.WriteFile(local, resp.Body(), 0644); err != nil {
		return "", fmt.Errorf("could not write dataset cache file: %w", err)
	}
	return local, nil
}

func parseS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	if trimmed == uri {
		return "", "", fmt.Errorf("invalid s3 uri %q: must start with s3://", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: expected s3://bucket/key", uri)
	}
	return parts[0], parts[1], nil
}
