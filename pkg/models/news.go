package models

import "time"

// FeedSource represents a single configured RSS feed.
type FeedSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FeedCategory groups feed sources under a report section heading.
type FeedCategory struct {
	Title   string       `json:"title"` // e.g., "🇨🇳 中国经济"
	Sources []FeedSource `json:"sources"`
}

// NewsArticle represents one fetched feed entry.
// Content holds the scraped (and truncated) article body; it feeds the
// analysis corpus and is never shown to the reader directly.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Content     string    `json:"content,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Corpus is the accumulated result of one collection run: the per-category
// markdown link lists for display plus the raw text handed to the analyst.
type Corpus struct {
	// Sections maps category title to rendered markdown ("### source" + links).
	// Iteration order is defined by CategoryOrder.
	Sections      map[string]string `json:"sections"`
	CategoryOrder []string          `json:"category_order"`
	AnalysisText  string            `json:"analysis_text"`
	ArticleCount  int               `json:"article_count"`
}

// Empty reports whether the collection run produced no usable text.
func (c *Corpus) Empty() bool {
	return c == nil || c.ArticleCount == 0
}
