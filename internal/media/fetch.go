package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/config"
)

const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxBytes     = 20 * 1024 * 1024
)

var ErrTooLarge = errors.New("media exceeds size limit")

// Fetcher downloads the binary body behind an allow-listed URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher performs a timeout-bounded GET.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			// a redirect could leave the allow-listed host
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxBytes: maxBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build media request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("media fetch returned status %d", resp.StatusCode)
	}
	return readLimited(resp.Body, f.maxBytes)
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read media body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}
	return data, nil
}

// NewFetcher picks the download backend configured by STORAGE_BACKEND.
func NewFetcher(ctx context.Context, cfg config.Config) (Fetcher, error) {
	timeout := time.Duration(cfg.MediaFetchSeconds) * time.Second
	switch cfg.StorageBackend {
	case config.StorageS3:
		return NewS3Fetcher(ctx, S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Timeout:   timeout,
			MaxBytes:  cfg.MediaMaxBytes,
		})
	case config.StorageHTTP, "":
		return NewHTTPFetcher(timeout, cfg.MediaMaxBytes), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
