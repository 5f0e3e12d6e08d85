package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/config"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 5 << 20

// ErrUnsupportedImage is returned for files that are not an accepted image type.
var ErrUnsupportedImage = errors.New("only image files are allowed")

// ErrImageTooLarge is returned for uploads over MaxImageSize.
var ErrImageTooLarge = errors.New("image exceeds the 5MB limit")

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ObjectPutter is the part of the S3 client uploads need.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService stores uploaded recipe images in S3.
type ImageService struct {
	client ObjectPutter
	bucket *config.S3Config
	log    *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config, log *zap.Logger) *ImageService {
	return &ImageService{
		client: s3Config.Client,
		bucket: s3Config,
		log:    log.With(zap.String("component", "image-service")),
	}
}

// NewImageServiceWithClient is NewImageService with an explicit client.
func NewImageServiceWithClient(client ObjectPutter, s3Config *config.S3Config, log *zap.Logger) *ImageService {
	s := NewImageService(s3Config, log)
	s.client = client
	return s
}

// ImageContentType maps a filename to its image MIME type. The declared
// content type is only trusted when the extension agrees with it.
func ImageContentType(filename, declared string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if declared != "" && !strings.HasPrefix(declared, "image/") {
		return "", ErrUnsupportedImage
	}
	return contentType, nil
}

// Upload stores an image under a fresh key and returns its public URL.
func (s *ImageService) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	contentType, err := ImageContentType(filename, contentType)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}

	key := fmt.Sprintf("recipes/%d-%s%s", time.Now().Unix(), uuid.New().String(), strings.ToLower(filepath.Ext(filename)))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.bucket.ObjectURL(key)
	s.log.Info("Image uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return url, nil
}
