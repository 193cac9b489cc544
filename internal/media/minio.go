package media

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	PublicURL string
	UseSSL    bool
}

// MinioProvider keeps every asset in one bucket under a per-kind prefix.
type MinioProvider struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *logrus.Logger
}

func NewMinioProvider(ctx context.Context, cfg MinioConfig, log *logrus.Logger) (*MinioProvider, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	p := &MinioProvider{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
		log:       log,
	}
	if p.publicURL == "" {
		p.publicURL = strings.TrimRight(client.EndpointURL().String(), "/")
	}
	if err := p.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"endpoint": cfg.Endpoint, "bucket": cfg.Bucket}).Info("connected to media host")
	return p, nil
}

func (p *MinioProvider) ensureBucket(ctx context.Context, region string) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return errors.Wrapf(err, "check bucket %s", p.bucket)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return errors.Wrapf(err, "create bucket %s", p.bucket)
	}
	return nil
}

func (p *MinioProvider) Upload(ctx context.Context, path string, kind Kind) (Asset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name := objectName(kind, uuid.NewString(), ext)
	_, err := p.client.FPutObject(ctx, p.bucket, name, path, minio.PutObjectOptions{
		ContentType: contentType(kind, ext),
	})
	if err != nil {
		return Asset{}, errors.Wrapf(err, "upload %s", name)
	}
	return Asset{URL: p.objectURL(name), ID: name}, nil
}

func (p *MinioProvider) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	err := p.client.RemoveObject(ctx, p.bucket, id, minio.RemoveObjectOptions{})
	return errors.Wrapf(err, "delete %s", id)
}

func (p *MinioProvider) objectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", p.publicURL, p.bucket, objectName)
}

func objectName(kind Kind, id, ext string) string {
	return fmt.Sprintf("%s/%s%s", kind, id, ext)
}

func contentType(kind Kind, ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if kind == KindVideo {
		return "video/mp4"
	}
	return "application/octet-stream"
}
