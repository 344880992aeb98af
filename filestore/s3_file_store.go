package filestore

import (
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3FileStore struct {
	bucket       string
	publicPrefix string
	uploader     *s3manager.Uploader
	svc          *s3.S3
}

// NewS3FileStore uploads into bucket and serves back through publicPrefix
// (typically a CDN distribution in front of the bucket).
func NewS3FileStore(bucket string, publicPrefix string) (*S3FileStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(regionFromEnv()),
	})
	if err != nil {
		return nil, err
	}

	return &S3FileStore{
		bucket:       bucket,
		publicPrefix: publicPrefix,
		uploader:     s3manager.NewUploader(sess),
		svc:          s3.New(sess),
	}, nil
}

func regionFromEnv() string {
	if region := os.Getenv("AWS_REGION"); region != "" {
		return region
	}
	return "us-west-1"
}

func (s *S3FileStore) Store(body io.Reader, fileName string) (string, error) {
	key, err := generateKey(fileName)
	if err != nil {
		return "", err
	}

	if !s.isKeyExisted(key) {
		_, err = s.uploader.Upload(&s3manager.UploadInput{
			ACL:    aws.String("public-read"),
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   body,
		})
		if err != nil {
			return key, fmt.Errorf("failed to upload to s3 %w", err)
		}
	}
	return key, nil
}

func (s *S3FileStore) isKeyExisted(key string) bool {
	_, err := s.svc.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *S3FileStore) GetUrlFromKey(key string) string {
	return s.publicPrefix + key
}

func (s *S3FileStore) CleanUp() {
	// do nothing for s3
}
