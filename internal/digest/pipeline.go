// Package digest orchestrates one end-to-end run: collect news, extract
// industries and global events, synthesize the analysis, validate ticker
// mentions against live quotes, assemble the report, and push it.
//
// The pipeline always produces a report. Degraded inputs (dead feeds,
// LLM outage, missing quotes) thin the output, they never abort the run.
package digest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/seenimoa/findigest/internal/analysis"
	"github.com/seenimoa/findigest/internal/collector"
	"github.com/seenimoa/findigest/internal/config"
	"github.com/seenimoa/findigest/internal/llm"
	"github.com/seenimoa/findigest/internal/notify"
	"github.com/seenimoa/findigest/internal/quote"
	"github.com/seenimoa/findigest/internal/report"
	"github.com/seenimoa/findigest/internal/validator"
	"github.com/seenimoa/findigest/pkg/models"
	"github.com/seenimoa/findigest/pkg/utils"
)

// maxIndustries caps how many industry sections get stock picks.
const maxIndustries = 3

// maxPicksPerIndustry caps picks rendered per industry section.
const maxPicksPerIndustry = 3

// NewsCollector supplies the day's corpus.
type NewsCollector interface {
	Collect(ctx context.Context) *models.Corpus
}

// MarketData supplies the index readings for the report header.
type MarketData interface {
	MarketIndices(ctx context.Context) []models.IndexQuote
}

// TextValidator cleans assembled report text.
type TextValidator interface {
	Validate(ctx context.Context, text string) string
}

// Notifier delivers the finished digest.
type Notifier interface {
	Push(ctx context.Context, title, body string) []notify.Result
}

// Pipeline wires the digest components together.
type Pipeline struct {
	collector   NewsCollector
	market      MarketData
	summarizer  *analysis.Summarizer
	recommender *analysis.Recommender
	validator   TextValidator
	notifier    Notifier
	now         func() time.Time
}

// Option overrides a pipeline component, mainly for tests.
type Option func(*Pipeline)

func WithCollector(c NewsCollector) Option { return func(p *Pipeline) { p.collector = c } }
func WithMarketData(m MarketData) Option   { return func(p *Pipeline) { p.market = m } }
func WithValidator(v TextValidator) Option { return func(p *Pipeline) { p.validator = v } }
func WithNotifier(n Notifier) Option       { return func(p *Pipeline) { p.notifier = n } }
func WithProvider(prov llm.Provider) Option {
	return func(p *Pipeline) {
		p.summarizer = analysis.NewSummarizer(prov)
		p.recommender = analysis.NewRecommender(prov)
	}
}
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// New builds a production pipeline from configuration. A missing LLM
// key is tolerated here (the fallback summary covers it); run-mode key
// enforcement belongs to the caller.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	quotes := quote.New(cfg.Quote)

	var provider llm.Provider
	if client, err := llm.FromConfig(cfg.LLM); err == nil {
		provider = client
	} else {
		log.Printf("digest: LLM unavailable, fallback summaries only: %v", err)
	}

	p := &Pipeline{
		collector:   collector.New(cfg.Feeds),
		market:      quotes,
		summarizer:  analysis.NewSummarizer(provider),
		recommender: analysis.NewRecommender(provider),
		validator:   validator.New(quotes, cfg.Validator),
		notifier:    notify.New(cfg.Push),
		now:         utils.NowCST,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate runs everything up to (but not including) delivery and
// returns the push title and validated report body.
func (p *Pipeline) Generate(ctx context.Context) (title, body string, r *models.Report) {
	date := utils.FormatDateCST(p.now())

	corpus := p.collector.Collect(ctx)
	indices := p.market.MarketIndices(ctx)

	industries, events := analysis.ExtractIndustries(corpus.AnalysisText)
	log.Printf("digest: detected industries %v, %d global events", industries, len(events))

	summary, fallback := p.summarizer.Summarize(ctx, corpus.AnalysisText, events)

	picks := make(map[string][]models.StockPick)
	var pickOrder []string
	capped := industries
	if len(capped) > maxIndustries {
		capped = capped[:maxIndustries]
	}
	for _, industry := range capped {
		stocks := p.recommender.PicksForIndustry(ctx, industry, summary)
		if len(stocks) > maxPicksPerIndustry {
			stocks = stocks[:maxPicksPerIndustry]
		}
		if len(stocks) > 0 {
			picks[industry] = stocks
			pickOrder = append(pickOrder, industry)
		}
	}

	r = &models.Report{
		Date:       date,
		Indices:    indices,
		Sentiment:  analysis.MarketSentiment(),
		Timing:     analysis.MarketTiming(),
		Globals:    events,
		Summary:    summary,
		Picks:      picks,
		PickOrder:  pickOrder,
		News:       corpus,
		AIFallback: fallback,
	}

	body = p.validator.Validate(ctx, report.Assemble(r))
	return report.Title(date), body, r
}

// Run generates the digest and pushes it to every configured key.
// It fails only when delivery failed outright for all keys.
func (p *Pipeline) Run(ctx context.Context) error {
	title, body, r := p.Generate(ctx)
	if r.News.Empty() {
		log.Printf("digest: no articles collected, sending degraded report")
	}

	results := p.notifier.Push(ctx, title, body)
	if len(results) == 0 {
		return fmt.Errorf("digest: no push keys configured")
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed == len(results) {
		return fmt.Errorf("digest: all %d push deliveries failed", failed)
	}
	log.Printf("digest: delivered to %d/%d keys", len(results)-failed, len(results))
	return nil
}
