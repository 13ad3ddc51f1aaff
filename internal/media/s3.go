package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads attachments from S3-compatible storage instead of the
// public object URL. The URL still has to pass the Gate first.
type S3Fetcher struct {
	client   objectGetter
	timeout  time.Duration
	maxBytes int64
}

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Timeout   time.Duration
	MaxBytes  int64
}

func NewS3Fetcher(ctx context.Context, cfg S3Config) (*S3Fetcher, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Fetcher(client, cfg.Timeout, cfg.MaxBytes), nil
}

func newS3Fetcher(client objectGetter, timeout time.Duration, maxBytes int64) *S3Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &S3Fetcher{client: client, timeout: timeout, maxBytes: maxBytes}
}

func (f *S3Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	bucket, key, err := ObjectLocation(rawURL)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	out, err := f.client.GetObject(fetchCtx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return readLimited(out.Body, f.maxBytes)
}

// ObjectLocation extracts bucket and key from a storage object URL. Both the
// storage REST layout (/storage/v1/object/[public|sign|authenticated/]<bucket>/<key>)
// and plain path-style (/<bucket>/<key>) URLs are accepted.
func ObjectLocation(rawURL string) (string, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", fmt.Errorf("invalid object url: %w", err)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) >= 3 && segments[0] == "storage" && segments[1] == "v1" && segments[2] == "object" {
		segments = segments[3:]
		if len(segments) > 0 {
			switch segments[0] {
			case "public", "sign", "authenticated":
				segments = segments[1:]
			}
		}
	}
	if len(segments) < 2 || segments[0] == "" {
		return "", "", errors.New("object url has no bucket and key")
	}
	key := strings.Join(segments[1:], "/")
	if key == "" {
		return "", "", errors.New("object url has no key")
	}
	return segments[0], key, nil
}
