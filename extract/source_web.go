package extract

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// WebSourceConfig holds configuration for a WebSource.
type WebSourceConfig struct {
	// Seeds are the starting URLs to crawl (at least one is required).
	Seeds []string `yaml:"seeds" json:"seeds"`

	// AllowedDomains restricts crawling to these domains. If empty, the
	// seed hosts are allowed.
	AllowedDomains []string `yaml:"allowed_domains,omitempty" json:"allowed_domains,omitempty"`

	// MaxDepth is the maximum crawl depth (0 = unlimited).
	MaxDepth int `yaml:"max_depth" json:"max_depth"`

	// MaxPages caps the number of pages collected (0 = unlimited).
	MaxPages int `yaml:"max_pages" json:"max_pages"`

	// Concurrency is the number of concurrent requests (default 2).
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	// RequestDelayMS is the delay between requests in milliseconds
	// (default 1000). Sakha library sites tend to be small; crawling
	// them politely matters more than speed.
	RequestDelayMS int `yaml:"request_delay_ms" json:"request_delay_ms"`

	// UserAgent is the User-Agent string to use for requests.
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// WebSource crawls web sites and yields one document per HTML page.
type WebSource struct {
	config    WebSourceConfig
	extractor *HTMLExtractor
	logger    *zap.Logger
}

// NewWebSource creates a web source, deriving allowed domains from the
// seeds when none are configured.
func NewWebSource(config WebSourceConfig, logger *zap.Logger) (*WebSource, error) {
	if len(config.Seeds) == 0 {
		return nil, fmt.Errorf("at least one seed URL is required")
	}

	if len(config.AllowedDomains) == 0 {
		for _, seed := range config.Seeds {
			parsed, err := url.Parse(seed)
			if err != nil {
				return nil, fmt.Errorf("invalid seed URL %q: %w", seed, err)
			}
			config.AllowedDomains = append(config.AllowedDomains, parsed.Host)
		}
	}
	if config.Concurrency == 0 {
		config.Concurrency = 2
	}
	if config.RequestDelayMS == 0 {
		config.RequestDelayMS = 1000
	}
	if config.UserAgent == "" {
		config.UserAgent = "corpusaf/1.0"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebSource{
		config:    config,
		extractor: &HTMLExtractor{},
		logger:    logger,
	}, nil
}

// Type returns "web" as the source type.
func (ws *WebSource) Type() string {
	return "web"
}

// Traverse crawls from the seed URLs and yields a document per HTML page.
// Fetch and extraction failures are logged and skipped; the traversal
// itself only fails when a seed URL cannot be visited at all.
func (ws *WebSource) Traverse(ctx context.Context) (<-chan Document, <-chan error) {
	docs := make(chan Document)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		visited := &sync.Map{}
		var mu sync.Mutex
		pageCount := 0
		done := false

		c := colly.NewCollector(
			colly.AllowedDomains(ws.config.AllowedDomains...),
			colly.Async(true),
			colly.MaxDepth(ws.config.MaxDepth),
		)
		c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: ws.config.Concurrency,
			Delay:       time.Duration(ws.config.RequestDelayMS) * time.Millisecond,
		})
		c.UserAgent = ws.config.UserAgent

		c.OnResponse(func(r *colly.Response) {
			select {
			case <-ctx.Done():
				return
			default:
			}

			mu.Lock()
			if done || (ws.config.MaxPages > 0 && pageCount >= ws.config.MaxPages) {
				mu.Unlock()
				return
			}
			mu.Unlock()

			contentType := r.Headers.Get("Content-Type")
			if !strings.Contains(contentType, "text/html") {
				return
			}

			urlStr := r.Request.URL.String()
			if _, loaded := visited.LoadOrStore(urlStr, true); loaded {
				return
			}

			doc, err := ws.extractor.Extract(r.Request.URL.Path, urlStr, r.Body)
			if err != nil {
				ws.logger.Warn("extraction failed",
					zap.String("url", urlStr), zap.Error(err))
				return
			}
			doc.Name = pageName(r.Request.URL)
			doc.Path = urlStr
			doc.SourceURL = urlStr
			doc.Size = int64(len(r.Body))
			doc.Metadata = mergeMetadata(doc.Metadata, map[string]any{
				"status_code": r.StatusCode,
				"depth":       r.Request.Depth,
			})

			mu.Lock()
			pageCount++
			mu.Unlock()

			select {
			case docs <- *doc:
			case <-ctx.Done():
				mu.Lock()
				done = true
				mu.Unlock()
			}
		})

		c.OnHTML("a[href]", func(e *colly.HTMLElement) {
			select {
			case <-ctx.Done():
				return
			default:
			}

			mu.Lock()
			if done || (ws.config.MaxPages > 0 && pageCount >= ws.config.MaxPages) {
				mu.Unlock()
				return
			}
			mu.Unlock()

			link := e.Attr("href")
			if link == "" ||
				strings.HasPrefix(link, "#") ||
				strings.HasPrefix(link, "javascript:") ||
				strings.HasPrefix(link, "mailto:") ||
				strings.HasPrefix(link, "tel:") {
				return
			}
			e.Request.Visit(e.Attr("href"))
		})

		c.OnError(func(r *colly.Response, err error) {
			ws.logger.Warn("fetch failed",
				zap.String("url", r.Request.URL.String()), zap.Error(err))
		})

		visitedAny := false
		for _, seed := range ws.config.Seeds {
			if err := c.Visit(seed); err != nil {
				ws.logger.Warn("seed visit failed",
					zap.String("url", seed), zap.Error(err))
				continue
			}
			visitedAny = true
		}
		if !visitedAny {
			errs <- fmt.Errorf("no seed URL could be visited")
			return
		}

		c.Wait()
	}()

	return docs, errs
}

// pageName derives a file-name-ish identifier from a page URL, used to name
// the document in logs and reports.
func pageName(u *url.URL) string {
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return u.Host
	}
	name = strings.ReplaceAll(name, "/", "-")
	return u.Host + "-" + name
}
