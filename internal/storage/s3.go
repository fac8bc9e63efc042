package storage

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/linear-intake/backend/internal/models"
)

// Uploader writes submission attachments to a pre-existing S3 bucket and
// hands back stable public-style URLs for embedding in issue bodies.
type Uploader struct {
	Client *s3.Client
	Bucket string
	Region string
}

func NewUploader(ctx context.Context, region, bucket string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Uploader{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Region: region,
	}, nil
}

func (u *Uploader) Upload(ctx context.Context, data []byte, filename, contentType string) (models.UploadResult, error) {
	key := buildKey(filename, time.Now())
	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	return models.UploadResult{
		URL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.Bucket, u.Region, key),
		Key: key,
	}, nil
}

// UploadMany fans out one upload per attachment and joins before returning.
// The result slice preserves the input order regardless of completion order;
// any single failure fails the whole batch.
func (u *Uploader) UploadMany(ctx context.Context, files []models.Attachment) ([]models.UploadResult, error) {
	if len(files) == 0 {
		return nil, nil
	}
	results := make([]models.UploadResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			res, err := u.Upload(gctx, f.Data, f.Filename, f.ContentType)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9.\-]+`)

// SanitizeFilename lowercases and reduces a user-supplied filename to the
// character set safe for S3 keys and markdown links.
func SanitizeFilename(name string) string {
	s := strings.ToLower(name)
	s = unsafeKeyChars.ReplaceAllString(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.ReplaceAll(s, "-.", ".")
	s = strings.Trim(s, "-.")
	return s
}

// buildKey timestamp-prefixes the key so repeated uploads of the same
// filename never collide.
func buildKey(filename string, now time.Time) string {
	safe := SanitizeFilename(filename)
	if safe == "" {
		safe = "file"
	}
	return fmt.Sprintf("uploads/%d-%s", now.UnixMilli(), safe)
}
