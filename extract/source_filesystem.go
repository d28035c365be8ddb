package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// FilesystemSourceConfig holds configuration for a FilesystemSource.
type FilesystemSourceConfig struct {
	// Dir is the directory to traverse.
	Dir string

	// IncludePatterns is a list of glob patterns to include, matched
	// against paths relative to Dir. If empty, every file some extractor
	// claims is included. Supports ** wildcards.
	IncludePatterns []string

	// ExcludePatterns is a list of glob patterns to exclude. The .git
	// tree is always excluded. Supports ** wildcards.
	ExcludePatterns []string
}

// FilesystemSource walks a directory tree and yields extracted documents.
type FilesystemSource struct {
	config     FilesystemSourceConfig
	extractors []Extractor
	logger     *zap.Logger
}

// NewFilesystemSource creates a filesystem source. A nil logger and an
// empty extractor list fall back to defaults.
func NewFilesystemSource(config FilesystemSourceConfig, extractors []Extractor, logger *zap.Logger) *FilesystemSource {
	config.ExcludePatterns = append([]string{".git/**"}, config.ExcludePatterns...)
	if len(extractors) == 0 {
		extractors = DefaultExtractors()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemSource{config: config, extractors: extractors, logger: logger}
}

// Type returns "filesystem" as the source type.
func (fs *FilesystemSource) Type() string {
	return "filesystem"
}

// Traverse walks the directory tree, extracts every matching file, and
// yields the documents. Files that fail to read or extract are logged and
// skipped; only a failed walk terminates the traversal with an error.
func (fs *FilesystemSource) Traverse(ctx context.Context) (<-chan Document, <-chan error) {
	docs := make(chan Document)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		err := filepath.Walk(fs.config.Dir, func(path string, info os.FileInfo, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil {
				return err
			}

			relPath, err := filepath.Rel(fs.config.Dir, path)
			if err != nil {
				relPath = path
			}
			relPath = filepath.ToSlash(relPath)
			if relPath == "." {
				return nil
			}

			for _, pattern := range fs.config.ExcludePatterns {
				matched, err := doublestar.Match(pattern, relPath)
				if err != nil {
					fs.logger.Warn("invalid exclude pattern",
						zap.String("pattern", pattern), zap.Error(err))
					continue
				}
				if matched {
					if info.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
			}

			if len(fs.config.IncludePatterns) > 0 && !fs.included(relPath) {
				if info.IsDir() {
					// A directory can still hold matches when any
					// pattern recurses.
					for _, pattern := range fs.config.IncludePatterns {
						if strings.Contains(pattern, "**") {
							return nil
						}
					}
					return filepath.SkipDir
				}
				return nil
			}

			if info.IsDir() {
				return nil
			}

			contentType := DetectContentType(relPath, nil)
			if ExtractorFor(fs.extractors, contentType, relPath) == nil {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				fs.logger.Warn("failed to read file",
					zap.String("path", path), zap.Error(err))
				return nil
			}

			doc, err := ExtractDocument(fs.extractors, relPath, "", content)
			if err != nil {
				fs.logger.Warn("extraction failed",
					zap.String("path", relPath), zap.Error(err))
				return nil
			}
			doc.Metadata = mergeMetadata(doc.Metadata, map[string]any{
				"abs_path": path,
				"mod_time": info.ModTime(),
			})

			select {
			case docs <- *doc:
			case <-ctx.Done():
				return ctx.Err()
			}

			return nil
		})

		if err != nil {
			errs <- err
		}
	}()

	return docs, errs
}

func (fs *FilesystemSource) included(relPath string) bool {
	for _, pattern := range fs.config.IncludePatterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			fs.logger.Warn("invalid include pattern",
				zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

func mergeMetadata(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
