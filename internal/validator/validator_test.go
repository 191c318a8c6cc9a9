package validator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/seenimoa/findigest/internal/config"
	"github.com/seenimoa/findigest/pkg/models"
)

// fakeQuotes serves canned quotes and ST flags per symbol.
type fakeQuotes struct {
	quotes map[string]*models.Quote
	st     map[string]bool
}

func (f *fakeQuotes) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return nil, errNoQuote
}

func (f *fakeQuotes) IsSpecialTreatment(_ context.Context, symbol string) bool {
	return f.st[symbol]
}

var errNoQuote = errors.New("no data")

func defaultConfig() config.ValidatorConfig {
	return config.ValidatorConfig{
		MarketCapCeiling: 50_000_000_000,
		PriceTolerance:   0.15,
		PriceFloorRatio:  0.85,
	}
}

func newValidator(quotes *fakeQuotes) *Validator {
	return New(quotes, defaultConfig())
}

func pinganQuote() *models.Quote {
	return &models.Quote{
		Symbol: "000001", Name: "平安银行",
		Price: 12.00, ChangePct: 1.25, MarketCap: 20_000_000_000,
	}
}

func TestOverCapLineStripped(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{
			"300750": {Symbol: "300750", Name: "宁德时代", Price: 185.0, MarketCap: 900_000_000_000},
			"000001": pinganQuote(),
		},
		st: map[string]bool{},
	}
	v := newValidator(quotes)

	text := strings.Join([]string{
		"### 📈 新能源板块",
		"- **300750 宁德时代** 🟡 🔥",
		"  - 推荐理由: 动力电池龙头",
		"- **000001 平安银行** 🟢 ⚡",
		"  - 推荐理由: 银行股龙头",
	}, "\n")

	out := v.Validate(context.Background(), text)
	if strings.Contains(out, "300750") {
		t.Errorf("over-cap line should be stripped:\n%s", out)
	}
	if !strings.Contains(out, "000001") {
		t.Errorf("sibling line should survive:\n%s", out)
	}
	if !strings.Contains(out, "### 📈 新能源板块") {
		t.Errorf("header with surviving item should stay:\n%s", out)
	}
}

func TestSpecialTreatmentStripped(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{
			"600000": {Symbol: "600000", Price: 5.0, MarketCap: 1_000_000_000},
		},
		st: map[string]bool{"600000": true},
	}
	v := newValidator(quotes)

	out := v.Validate(context.Background(), "- 600000 关注低位机会\n  - 理由: 困境反转")
	if strings.Contains(out, "600000") {
		t.Errorf("ST line should be stripped:\n%s", out)
	}
}

func TestQuoteUnavailableStripped(t *testing.T) {
	v := newValidator(&fakeQuotes{quotes: map[string]*models.Quote{}, st: map[string]bool{}})

	out := v.Validate(context.Background(), "- 999999 神秘代码值得关注")
	if strings.Contains(out, "999999") {
		t.Errorf("line with no quote data should be stripped:\n%s", out)
	}
}

func TestQuoteWithoutUsablePriceStripped(t *testing.T) {
	// The API answers but decoding left no price at all (suspended or
	// otherwise stale instrument). The line must be removed, never
	// annotated with ¥0.00.
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{
			"000001": {Symbol: "000001", Name: "平安银行", Price: 0, ChangePct: 0, MarketCap: 0},
		},
		st: map[string]bool{},
	}
	v := newValidator(quotes)

	out := v.Validate(context.Background(), "- 000001 困境反转机会")
	if strings.Contains(out, "000001") {
		t.Errorf("line with zero-price quote should be stripped:\n%s", out)
	}
	if strings.Contains(out, "¥0.00") {
		t.Errorf("zero price must never be published:\n%s", out)
	}
}

func TestPriceWithinToleranceAnnotated(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{"000001": pinganQuote()},
		st:     map[string]bool{},
	}
	v := newValidator(quotes)

	out := v.Validate(context.Background(), "- 000001 平安银行，建议买入 11.80 元附近")
	if !strings.Contains(out, "000001") {
		t.Fatalf("in-tolerance line should survive:\n%s", out)
	}
	if !strings.Contains(out, "（现价 ¥12.00，+1.25% 📈）") {
		t.Errorf("missing price annotation:\n%s", out)
	}
}

func TestPriceOutOfBandStripped(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{"000001": pinganQuote()},
		st:     map[string]bool{},
	}
	v := newValidator(quotes)

	// 8.00 is 33% below the live 12.00: outside tolerance and below floor.
	out := v.Validate(context.Background(), "- 000001 平安银行，建议买入 8.00 元")
	if strings.Contains(out, "000001") {
		t.Errorf("out-of-band price line should be stripped:\n%s", out)
	}
}

func TestPriceRangePartiallyPlausibleKept(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{"000001": pinganQuote()},
		st:     map[string]bool{},
	}
	v := newValidator(quotes)

	// Lower bound violates the floor, upper bound is fine: one plausible
	// price keeps the line.
	out := v.Validate(context.Background(), "- 000001 平安银行，建议买入 9.5-11.8 元区间")
	if !strings.Contains(out, "000001") {
		t.Errorf("partially plausible range should survive:\n%s", out)
	}
}

func TestRedFlagPhraseStripped(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{"000001": pinganQuote()},
		st:     map[string]bool{},
	}
	v := newValidator(quotes)

	out := v.Validate(context.Background(), "- 000001 平安银行，等待大跌后介入")
	if strings.Contains(out, "000001") {
		t.Errorf("red-flag line should be stripped:\n%s", out)
	}
}

func TestNoPriceNoRedFlagPasses(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{"000001": pinganQuote()},
		st:     map[string]bool{},
	}
	v := newValidator(quotes)

	out := v.Validate(context.Background(), "- 000001 平安银行，零售业务稳健")
	if !strings.Contains(out, "000001") {
		t.Fatalf("plain mention should pass by default:\n%s", out)
	}
	if !strings.Contains(out, "现价 ¥12.00") {
		t.Errorf("surviving mention should be annotated:\n%s", out)
	}
}

func TestAnnotationIdempotent(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{"000001": pinganQuote()},
		st:     map[string]bool{},
	}
	v := newValidator(quotes)

	once := v.Validate(context.Background(), "- 000001 平安银行，零售业务稳健")
	twice := v.Validate(context.Background(), once)
	if once != twice {
		t.Errorf("validation is not idempotent:\nonce:  %s\ntwice: %s", once, twice)
	}
	if strings.Count(twice, "现价") != 1 {
		t.Errorf("annotation duplicated:\n%s", twice)
	}
}

func TestNegativeChangeAnnotation(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{
			"000001": {Symbol: "000001", Price: 12.00, ChangePct: -0.80, MarketCap: 1e9},
		},
		st: map[string]bool{},
	}
	v := newValidator(quotes)

	out := v.Validate(context.Background(), "- 000001 平安银行")
	if !strings.Contains(out, "-0.80% 📉") {
		t.Errorf("negative change should use down arrow:\n%s", out)
	}
}

func TestEmptyHeaderCleanup(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]*models.Quote{
			"300750": {Symbol: "300750", Price: 185, MarketCap: 900_000_000_000},
			"000001": pinganQuote(),
		},
		st: map[string]bool{},
	}
	v := newValidator(quotes)

	text := strings.Join([]string{
		"## 🎯 A股投资机会",
		"",
		"### 📈 新能源板块",
		"- 300750 宁德时代",
		"",
		"### 📈 银行板块",
		"- 000001 平安银行",
		"",
	}, "\n")

	out := v.Validate(context.Background(), text)
	if strings.Contains(out, "新能源板块") {
		t.Errorf("emptied subsection header should be dropped:\n%s", out)
	}
	if !strings.Contains(out, "银行板块") || !strings.Contains(out, "000001") {
		t.Errorf("surviving section damaged:\n%s", out)
	}
	if !strings.Contains(out, "A股投资机会") {
		t.Errorf("parent header with surviving child should stay:\n%s", out)
	}
}

func TestAllSectionsEmptiedDropsParentHeader(t *testing.T) {
	v := newValidator(&fakeQuotes{quotes: map[string]*models.Quote{}, st: map[string]bool{}})

	text := strings.Join([]string{
		"## 🎯 A股投资机会",
		"",
		"### 📈 神秘板块",
		"- 999999 查无此股",
		"",
	}, "\n")

	out := v.Validate(context.Background(), text)
	if strings.Contains(out, "A股投资机会") || strings.Contains(out, "神秘板块") {
		t.Errorf("fully emptied section tree should be dropped:\n%s", out)
	}
}

func TestNonTickerTextUntouched(t *testing.T) {
	v := newValidator(&fakeQuotes{quotes: map[string]*models.Quote{}, st: map[string]bool{}})

	text := "## 市场观察\n\n今日成交额约 1.2 万亿元，北向资金净流入。\n\n- 关注政策催化的板块轮动"
	out := v.Validate(context.Background(), text)
	if out != text {
		t.Errorf("text without tickers should pass through unchanged:\ngot:  %q\nwant: %q", out, text)
	}
}

func TestTickerInsideLongerNumberIgnored(t *testing.T) {
	v := newValidator(&fakeQuotes{quotes: map[string]*models.Quote{}, st: map[string]bool{}})

	// 20500101 contains six-digit runs but is a date, not a ticker.
	text := "- 数据截止 20500101，成交额 123456.78 万元"
	out := v.Validate(context.Background(), text)
	if out != text {
		t.Errorf("embedded digit runs must not be treated as tickers:\n%s", out)
	}
}

func TestTickerInLinkURLIgnored(t *testing.T) {
	v := newValidator(&fakeQuotes{quotes: map[string]*models.Quote{}, st: map[string]bool{}})

	text := "- [某公司公告](https://example.com/news/600519.html)"
	out := v.Validate(context.Background(), text)
	if out != text {
		t.Errorf("digits inside link URLs must not trigger validation:\n%s", out)
	}
}

func TestFindTickers(t *testing.T) {
	codes := findTickers("推荐 300750 和 000001，此外 300750 再次出现，日期20260828。")
	if len(codes) != 2 || codes[0] != "300750" || codes[1] != "000001" {
		t.Errorf("codes = %v", codes)
	}
}

func TestExtractPrices(t *testing.T) {
	text := "建议买入 180-190 元，支撑位 175.5，止损 170元，目标 ¥220.00"
	prices := extractPrices(text)

	want := map[float64]bool{180: true, 190: true, 175.5: true, 170: true, 220: true}
	for _, p := range prices {
		if !want[p] {
			t.Errorf("unexpected price %v in %v", p, prices)
		}
		delete(want, p)
	}
	for p := range want {
		t.Errorf("missing price %v, got %v", p, prices)
	}
}
