package blob

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

const (
	DevS3Bucket  = "amscout-media-dev"
	ProdS3Bucket = "amscout-media"
)

// S3BlobStore uploads media to S3 and returns the public download url.
type S3BlobStore struct {
	bucket   string
	uploader *s3manager.Uploader
}

func NewS3BlobStore(bucket string) (*S3BlobStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create aws session")
	}

	return &S3BlobStore{
		bucket:   bucket,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (s *S3BlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	res, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "upload "+path)
	}
	return res.Location, nil
}

func (s *S3BlobStore) UploadDataURL(ctx context.Context, path string, dataURL string) (string, error) {
	data, contentType, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	return s.Upload(ctx, path, data, contentType)
}

// DecodeDataURL splits a base64 data URL ("data:image/png;base64,....") into
// raw bytes and content type.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, "", errors.New("not a data url")
	}
	rest := strings.TrimPrefix(dataURL, "data:")
	parts := strings.SplitN(rest, ",", 2)
	if len(parts) != 2 {
		return nil, "", errors.New("malformed data url")
	}

	meta := parts[0]
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == meta {
		return nil, "", errors.New("data url is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", errors.Wrap(err, "decode data url payload")
	}
	return data, contentType, nil
}

// FakeBlobStore returns deterministic urls without talking to any backend.
type FakeBlobStore struct{}

func (*FakeBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	return fmt.Sprintf("fake://%s", path), nil
}

func (*FakeBlobStore) UploadDataURL(ctx context.Context, path string, dataURL string) (string, error) {
	if _, _, err := DecodeDataURL(dataURL); err != nil {
		return "", err
	}
	return fmt.Sprintf("fake://%s", path), nil
}
