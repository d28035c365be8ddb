package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3SourceConfig holds configuration for an S3Source.
type S3SourceConfig struct {
	// Endpoint is the S3 endpoint (e.g. "s3.amazonaws.com", "minio.example.com").
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Bucket is the S3 bucket name.
	Bucket string `yaml:"bucket" json:"bucket"`

	// Prefix is the key prefix to filter objects (optional).
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key"`
	SessionToken    string `yaml:"session_token,omitempty" json:"session_token,omitempty"`

	// UseSSL enables HTTPS connections to the S3 endpoint.
	UseSSL bool `yaml:"use_ssl" json:"use_ssl"`

	// IncludePatterns and ExcludePatterns filter object keys relative to
	// Prefix, with the same doublestar semantics as the filesystem source.
	IncludePatterns []string `yaml:"include,omitempty" json:"include,omitempty"`
	ExcludePatterns []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

func (c S3SourceConfig) newClient() (*minio.Client, error) {
	if c.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if c.AccessKeyID == "" {
		return nil, errors.New("access key ID is required")
	}
	if c.SecretAccessKey == "" {
		return nil, errors.New("secret access key is required")
	}

	return minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKeyID, c.SecretAccessKey, c.SessionToken),
		Secure: c.UseSSL,
	})
}

// S3Source traverses an S3 bucket and yields extracted documents.
type S3Source struct {
	config     S3SourceConfig
	extractors []Extractor
	logger     *zap.Logger
}

// NewS3Source creates an S3 source. The connection is established lazily at
// traversal time. A nil logger and an empty extractor list fall back to
// defaults.
func NewS3Source(config S3SourceConfig, extractors []Extractor, logger *zap.Logger) *S3Source {
	if len(extractors) == 0 {
		extractors = DefaultExtractors()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Source{config: config, extractors: extractors, logger: logger}
}

// Type returns "s3" as the source type.
func (s *S3Source) Type() string {
	return "s3"
}

// Traverse lists all objects under the configured prefix and yields the
// documents extracted from matching objects. Listing and download failures
// terminate the traversal; extraction failures are logged and skipped.
func (s *S3Source) Traverse(ctx context.Context) (<-chan Document, <-chan error) {
	docs := make(chan Document)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		client, err := s.config.newClient()
		if err != nil {
			errs <- fmt.Errorf("creating S3 client: %w", err)
			return
		}

		opts := minio.ListObjectsOptions{
			Prefix:    s.config.Prefix,
			Recursive: true,
		}

		for object := range client.ListObjects(ctx, s.config.Bucket, opts) {
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			default:
			}

			if object.Err != nil {
				errs <- fmt.Errorf("listing objects: %w", object.Err)
				return
			}

			if strings.HasSuffix(object.Key, "/") {
				continue
			}

			relPath := object.Key
			if s.config.Prefix != "" {
				relPath = strings.TrimPrefix(object.Key, s.config.Prefix)
				relPath = strings.TrimPrefix(relPath, "/")
			}

			if matchesAnyPattern(relPath, s.config.ExcludePatterns) {
				continue
			}
			if len(s.config.IncludePatterns) > 0 &&
				!matchesAnyPattern(relPath, s.config.IncludePatterns) {
				continue
			}

			contentType := object.ContentType
			if contentType == "" || contentType == "application/octet-stream" {
				contentType = DetectContentType(object.Key, nil)
			}
			if ExtractorFor(s.extractors, contentType, object.Key) == nil {
				s.logger.Debug("skipping unsupported object",
					zap.String("key", object.Key),
					zap.String("content_type", contentType))
				continue
			}

			obj, err := client.GetObject(ctx, s.config.Bucket, object.Key, minio.GetObjectOptions{})
			if err != nil {
				errs <- fmt.Errorf("getting object %s: %w", object.Key, err)
				return
			}
			content, err := io.ReadAll(obj)
			obj.Close()
			if err != nil {
				errs <- fmt.Errorf("reading object %s: %w", object.Key, err)
				return
			}

			sourceURL := fmt.Sprintf("s3://%s/%s", s.config.Bucket, object.Key)
			doc, err := ExtractDocument(s.extractors, relPath, sourceURL, content)
			if err != nil {
				s.logger.Warn("extraction failed",
					zap.String("key", object.Key), zap.Error(err))
				continue
			}
			doc.Metadata = mergeMetadata(doc.Metadata, map[string]any{
				"bucket":        s.config.Bucket,
				"key":           object.Key,
				"last_modified": object.LastModified,
				"etag":          object.ETag,
			})

			select {
			case docs <- *doc:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return docs, errs
}

// matchesAnyPattern checks if a path matches any of the given glob patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
