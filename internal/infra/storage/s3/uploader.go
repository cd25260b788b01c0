package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrDisabled is returned by the Disabled uploader when no object storage is
// configured for the deployment.
var ErrDisabled = errors.New("s3: object storage disabled")

// Uploader stores image content in a bucket and returns a public URL.
// Avatars and property photos are the only objects this service writes.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}

// AvatarKey builds the object key for a user's avatar. A fresh UUID per
// upload: old avatars stay resolvable from cached profile URLs.
func AvatarKey(userID, filename string) string {
	return "avatars/" + userID + "/" + uuid.NewString() + imageExt(filename)
}

// PropertyPhotoKey builds the object key for one listing photo.
func PropertyPhotoKey(propertyID, filename string) string {
	return "properties/" + propertyID + "/" + uuid.NewString() + imageExt(filename)
}

func imageExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return ext
	default:
		return ".jpg"
	}
}

// Client uploads to a MinIO/S3 bucket, creating it with a public-read policy
// on first use so listing photos and avatars are directly linkable.
type Client struct {
	bucket     string
	publicBase string
	minio      *minio.Client
	logger     *slog.Logger

	initOnce sync.Once
	initErr  error
}

func NewClient(endpoint string, useSSL bool, accessKey, secretKey, bucket, publicBaseURL string, logger *slog.Logger) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	mc, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	base := strings.TrimSpace(publicBaseURL)
	if base == "" {
		base = endpoint
	}
	return &Client{
		bucket:     bucket,
		publicBase: strings.TrimRight(base, "/"),
		minio:      mc,
		logger:     logger,
	}, nil
}

func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}

	_, err := c.minio.PutObject(ctx, c.bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType: objectContentType(key, contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}

	publicURL := fmt.Sprintf("%s/%s/%s", c.publicBase, c.bucket, key)
	if c.logger != nil {
		c.logger.Info("image stored", "bucket", c.bucket, "key", key)
	}
	return publicURL, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	c.initOnce.Do(func() {
		exists, err := c.minio.BucketExists(ctx, c.bucket)
		if err != nil {
			c.initErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := c.minio.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			c.initErr = fmt.Errorf("s3: create bucket: %w", err)
			return
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, c.bucket)
		if err := c.minio.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
			c.initErr = fmt.Errorf("s3: set bucket policy: %w", err)
		}
	})
	return c.initErr
}

// objectContentType trusts a caller-provided image type, otherwise derives it
// from the key's extension. Multipart uploads often arrive untyped.
func objectContentType(key, contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if strings.HasPrefix(contentType, "image/") {
		return contentType
	}
	if byExt := mime.TypeByExtension(path.Ext(key)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

// Disabled is the uploader wired when no S3 endpoint is configured; every
// upload fails with ErrDisabled, which services surface as their own
// uploads-disabled errors.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader, string) (string, error) {
	return "", ErrDisabled
}

var _ Uploader = (*Client)(nil)
var _ Uploader = Disabled{}
