// Package collector fetches the configured RSS feeds, scrapes article
// bodies for the analysis corpus, and renders the per-category link lists
// shown in the digest.
//
// Collection is best effort throughout: a dead feed or unreachable article
// never fails the run, it just thins the corpus.
package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/findigest/internal/config"
	"github.com/seenimoa/findigest/internal/infra"
	"github.com/seenimoa/findigest/pkg/models"
)

// Collector fetches and aggregates news from the feed catalogue.
type Collector struct {
	categories      []models.FeedCategory
	parser          *gofeed.Parser
	maxPerSource    int
	retries         int
	retryDelay      time.Duration
	articleMaxChars int
	concurrency     int
}

// Option configures the collector.
type Option func(*Collector)

// WithCategories replaces the default feed catalogue.
func WithCategories(categories []models.FeedCategory) Option {
	return func(c *Collector) { c.categories = categories }
}

// New creates a collector from configuration.
func New(cfg config.FeedsConfig, opts ...Option) *Collector {
	parser := gofeed.NewParser()
	parser.UserAgent = infra.DefaultUserAgent

	c := &Collector{
		categories:      DefaultCategories,
		parser:          parser,
		maxPerSource:    cfg.MaxPerSource,
		retries:         cfg.Retries,
		retryDelay:      time.Duration(cfg.RetryDelaySec) * time.Second,
		articleMaxChars: cfg.ArticleMaxChars,
		concurrency:     cfg.Concurrency,
	}
	if c.maxPerSource <= 0 {
		c.maxPerSource = 5
	}
	if c.retries <= 0 {
		c.retries = 3
	}
	if c.articleMaxChars <= 0 {
		c.articleMaxChars = 1500
	}
	if c.concurrency <= 0 {
		c.concurrency = 4
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sourceResult holds the output of one feed fetch, keyed back to its
// catalogue position so assembly stays in catalogue order.
type sourceResult struct {
	markdown string
	analysis string
	articles int
}

// Collect fetches every configured source and returns the assembled corpus.
// Sources are fetched concurrently; failed sources are logged and skipped.
func (c *Collector) Collect(ctx context.Context) *models.Corpus {
	type slot struct{ cat, src int }

	results := make(map[slot]sourceResult)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for ci, cat := range c.categories {
		for si, src := range cat.Sources {
			ci, si, cat, src := ci, si, cat, src
			g.Go(func() error {
				res, ok := c.collectSource(gctx, cat.Title, src)
				if !ok {
					return nil
				}
				mu.Lock()
				results[slot{ci, si}] = res
				mu.Unlock()
				return nil
			})
		}
	}
	// Workers only return nil; the group is used for bounded fan-out.
	_ = g.Wait()

	corpus := &models.Corpus{Sections: make(map[string]string)}
	var analysisParts []string
	for ci, cat := range c.categories {
		var section strings.Builder
		for si := range cat.Sources {
			res, ok := results[slot{ci, si}]
			if !ok {
				continue
			}
			section.WriteString(res.markdown)
			analysisParts = append(analysisParts, res.analysis)
			corpus.ArticleCount += res.articles
		}
		corpus.Sections[cat.Title] = section.String()
		corpus.CategoryOrder = append(corpus.CategoryOrder, cat.Title)
	}
	corpus.AnalysisText = strings.Join(analysisParts, "")

	log.Printf("collector: %d articles across %d categories", corpus.ArticleCount, len(c.categories))
	return corpus
}

// collectSource fetches one feed, scrapes its entries, and renders the
// source block. ok is false when the feed yielded nothing usable.
func (c *Collector) collectSource(ctx context.Context, category string, src models.FeedSource) (sourceResult, bool) {
	feed, err := c.fetchFeedWithRetry(ctx, src)
	if err != nil {
		log.Printf("collector: feed %s unavailable: %v", src.Name, err)
		return sourceResult{}, false
	}
	log.Printf("collector: feed %s returned %d entries", src.Name, len(feed.Items))

	items := feed.Items
	if len(items) > c.maxPerSource {
		items = items[:c.maxPerSource]
	}

	var res sourceResult
	var links []string
	var analysis strings.Builder
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "无标题"
		}
		link := item.Link
		if link == "" {
			link = item.GUID
		}
		if link == "" {
			log.Printf("collector: %s entry %q has no link, skipping", src.Name, title)
			continue
		}

		body := c.fetchArticleText(ctx, link)
		fmt.Fprintf(&analysis, "【%s】\n%s\n\n", title, body)

		links = append(links, fmt.Sprintf("- [%s](%s)", title, link))
		res.articles++
	}
	if len(links) == 0 {
		return sourceResult{}, false
	}

	res.markdown = fmt.Sprintf("### %s\n%s\n\n", src.Name, strings.Join(links, "\n"))
	res.analysis = analysis.String()
	return res, true
}

// fetchFeedWithRetry parses a feed, retrying on failure or empty results.
func (c *Collector) fetchFeedWithRetry(ctx context.Context, src models.FeedSource) (*gofeed.Feed, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		feed, err := c.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if len(feed.Items) == 0 {
			lastErr = fmt.Errorf("feed %s has no entries", src.Name)
			continue
		}
		return feed, nil
	}
	return nil, lastErr
}

// fetchArticleText scrapes the article body for the analysis corpus,
// truncated to the configured rune limit. Failures yield a placeholder
// rather than an error; the link list does not depend on the body.
func (c *Collector) fetchArticleText(ctx context.Context, url string) string {
	body, _, err := infra.DoGet(ctx, url, nil)
	if err != nil {
		log.Printf("collector: fetch article %s: %v", url, err)
		return "（未能获取文章正文）"
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		log.Printf("collector: parse article %s: %v", url, err)
		return "（未能获取文章正文）"
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	var parts []string
	doc.Find("article p, .article-content p, .post-content p, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
		return len(strings.Join(parts, "\n")) < c.articleMaxChars*4
	})

	text := strings.Join(parts, "\n")
	if text == "" {
		text = strings.TrimSpace(doc.Find("body").Text())
	}
	if text == "" {
		return "（未能获取文章正文）"
	}

	runes := []rune(text)
	if len(runes) > c.articleMaxChars {
		runes = runes[:c.articleMaxChars]
	}
	return string(runes)
}
