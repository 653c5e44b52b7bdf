package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/echo-threads/backend/config"
	"github.com/google/uuid"
)

type s3Storage struct {
	uploader *s3manager.Uploader
	cfg      config.S3Configs
}

func NewS3Storage(cfg config.S3Configs) (*s3Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(cfg.SSLDisabled),
	})
	if err != nil {
		return nil, err
	}

	return &s3Storage{
		uploader: s3manager.NewUploader(sess),
		cfg:      cfg,
	}, nil
}

func (s *s3Storage) uploadInput(object *UploadObject) (*s3manager.UploadInput, *UploadResponse) {
	key := objectKey(object)
	return &s3manager.UploadInput{
			Bucket:      aws.String(s.cfg.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(object.Data),
			ACL:         aws.String("public-read"),
			ContentType: aws.String(object.Mime),
		}, &UploadResponse{
			Url:      publicURL(s.cfg, key),
			FileName: key,
		}
}

func (s *s3Storage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	input, resp := s.uploadInput(object)
	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return nil, fmt.Errorf("upload failed: %w, bucket %s, key %s", err, s.cfg.Bucket, resp.FileName)
	}
	return resp, nil
}

func (s *s3Storage) BulkUpload(ctx context.Context, objects []*UploadObject) ([]*UploadResponse, error) {
	batch := make([]s3manager.BatchUploadObject, 0, len(objects))
	out := make([]*UploadResponse, 0, len(objects))
	for _, o := range objects {
		input, resp := s.uploadInput(o)
		batch = append(batch, s3manager.BatchUploadObject{Object: input})
		out = append(out, resp)
	}

	if err := s.uploader.UploadWithIterator(ctx, &s3manager.UploadObjectsIterator{
		Objects: batch,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func objectKey(object *UploadObject) string {
	name := strings.ReplaceAll(object.FileName, " ", "_")
	return fmt.Sprintf("%s/%s-%s", object.Prefix, uuid.NewString(), name)
}

func publicURL(cfg config.S3Configs, key string) string {
	endpoint := strings.TrimSuffix(cfg.PublicEndpoint, "/")
	if endpoint == "" {
		endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
	}
	return fmt.Sprintf("%s/%s/%s", endpoint, cfg.Bucket, key)
}
