package artifact

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	UseSSL    bool   `mapstructure:"use-ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
}

// Minio stores artifacts in an S3 compatible bucket. A single PutObject call
// replaces the whole object.
type Minio struct {
	client *minio.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewMinio connects to the endpoint and creates the bucket when it is missing.
func NewMinio(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*Minio, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	m := &Minio{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}

	if err := m.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Minio) ensureBucket(ctx context.Context, region string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", m.bucket, err)
	}
	m.logger.Info("bucket created", zap.String("bucket", m.bucket))

	return nil
}

func (m *Minio) key(name string) string {
	if m.prefix == "" {
		return name
	}
	return path.Join(m.prefix, name)
}

func (m *Minio) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := m.key(name)

	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypeJSON,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	m.logger.Debug("artifact uploaded", zap.String("bucket", m.bucket), zap.String("key", key), zap.Int64("size", info.Size))

	return fmt.Sprintf("s3://%s/%s", m.bucket, key), nil
}
