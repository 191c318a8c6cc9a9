package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/findigest/internal/analysis"
	"github.com/seenimoa/findigest/internal/llm"
	"github.com/seenimoa/findigest/internal/notify"
	"github.com/seenimoa/findigest/pkg/models"
)

type stubCollector struct{ corpus *models.Corpus }

func (s *stubCollector) Collect(_ context.Context) *models.Corpus { return s.corpus }

type stubMarket struct{ indices []models.IndexQuote }

func (s *stubMarket) MarketIndices(_ context.Context) []models.IndexQuote { return s.indices }

type passValidator struct{}

func (passValidator) Validate(_ context.Context, text string) string { return text }

type stubNotifier struct {
	title, body string
	results     []notify.Result
}

func (s *stubNotifier) Push(_ context.Context, title, body string) []notify.Result {
	s.title, s.body = title, body
	return s.results
}

type stubProvider struct{ reply string }

func (s *stubProvider) Name() string                 { return "stub" }
func (s *stubProvider) Ping(_ context.Context) error { return nil }
func (s *stubProvider) Chat(_ context.Context, _ []llm.Message, _ *llm.ChatOptions) (*llm.Response, error) {
	return &llm.Response{Content: s.reply}, nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)
	}
}

func newTestPipeline(opts ...Option) *Pipeline {
	corpus := &models.Corpus{
		Sections:      map[string]string{"🇨🇳 中国经济": "### 源\n- [光伏新政落地](https://example.com/1)\n\n"},
		CategoryOrder: []string{"🇨🇳 中国经济"},
		AnalysisText:  "【光伏新政落地】\n光伏装机量大增。\n\n",
		ArticleCount:  1,
	}
	base := []Option{
		WithCollector(&stubCollector{corpus: corpus}),
		WithMarketData(&stubMarket{indices: []models.IndexQuote{
			{Name: "上证指数", Symbol: "000001", Price: 3456.78, ChangePct: 0.5, OK: true},
		}}),
		WithValidator(passValidator{}),
		WithProvider(nil),
		WithClock(fixedClock()),
	}
	p := &Pipeline{
		summarizer:  analysis.NewSummarizer(nil),
		recommender: analysis.NewRecommender(nil),
	}
	for _, opt := range append(base, opts...) {
		opt(p)
	}
	return p
}

func TestGenerate(t *testing.T) {
	p := newTestPipeline(WithProvider(&stubProvider{reply: "今日光伏板块领涨。"}))

	title, body, r := p.Generate(context.Background())
	if title != "📌 2026-08-29 财经新闻摘要" {
		t.Errorf("title = %q", title)
	}
	if r.AIFallback {
		t.Error("AIFallback should be false with a working provider")
	}
	if !strings.Contains(body, "今日光伏板块领涨。") {
		t.Errorf("body missing summary:\n%s", body)
	}
	if !strings.Contains(body, "上证指数") {
		t.Errorf("body missing indices:\n%s", body)
	}
	if !strings.Contains(body, "[光伏新政落地](https://example.com/1)") {
		t.Errorf("body missing news links:\n%s", body)
	}
	// "光伏" keyword maps to 新能源, whose fallback template renders when
	// the provider replies non-JSON to the picks prompt.
	if !strings.Contains(body, "新能源板块") {
		t.Errorf("body missing industry picks:\n%s", body)
	}
	if r.PickOrder[0] != "新能源" {
		t.Errorf("PickOrder = %v", r.PickOrder)
	}
}

func TestGenerateLLMDownUsesFallbacks(t *testing.T) {
	p := newTestPipeline() // nil provider

	_, body, r := p.Generate(context.Background())
	if !r.AIFallback {
		t.Error("AIFallback should be true without a provider")
	}
	if !strings.Contains(body, "AI 分析服务暂时不可用") {
		t.Errorf("body missing fallback summary:\n%s", body)
	}
	// Static pick templates still populate the industry section.
	if !strings.Contains(body, "300750 宁德时代") {
		t.Errorf("body missing fallback picks:\n%s", body)
	}
}

func TestGenerateEmptyCorpusStillProducesReport(t *testing.T) {
	empty := &models.Corpus{
		Sections:      map[string]string{},
		CategoryOrder: []string{"🇨🇳 中国经济"},
	}
	p := newTestPipeline(WithCollector(&stubCollector{corpus: empty}))

	title, body, r := p.Generate(context.Background())
	if title == "" || body == "" {
		t.Fatal("empty corpus must still produce a report")
	}
	if !r.News.Empty() {
		t.Error("corpus should report empty")
	}
	if !strings.Contains(body, "市场情绪概览") {
		t.Errorf("canned sections should survive an empty corpus:\n%s", body)
	}
}

func TestRunPushFailuresPartial(t *testing.T) {
	n := &stubNotifier{results: []notify.Result{
		{Key: "a", Err: errors.New("boom")},
		{Key: "b", Err: nil},
	}}
	p := newTestPipeline(WithNotifier(n))

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("partial delivery should not fail the run: %v", err)
	}
	if n.title == "" || n.body == "" {
		t.Error("notifier did not receive the report")
	}
}

func TestRunAllPushesFail(t *testing.T) {
	n := &stubNotifier{results: []notify.Result{
		{Key: "a", Err: errors.New("boom")},
	}}
	p := newTestPipeline(WithNotifier(n))

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("total delivery failure should surface as an error")
	}
}

func TestRunNoKeys(t *testing.T) {
	p := newTestPipeline(WithNotifier(&stubNotifier{}))
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("no push keys should surface as an error")
	}
}

func TestGenerateCapsIndustries(t *testing.T) {
	// Corpus touching many industries: picks limited to three sections.
	corpus := &models.Corpus{
		Sections:      map[string]string{},
		CategoryOrder: []string{},
		AnalysisText:  "光伏 芯片 白酒 银行 军工 医院",
		ArticleCount:  1,
	}
	p := newTestPipeline(WithCollector(&stubCollector{corpus: corpus}))

	_, _, r := p.Generate(context.Background())
	if len(r.PickOrder) > maxIndustries {
		t.Errorf("PickOrder = %v, want at most %d sections", r.PickOrder, maxIndustries)
	}
}
