// Package validator makes synthesized analysis text compliant with a
// fixed set of business rules before it reaches readers. The upstream
// model has no enforcement over numeric constraints, so this layer
// deterministically strips or annotates its stock mentions using live
// quote data.
//
// The text is parsed into typed lines first, filtered block by block,
// then re-serialized. Any ambiguity (no quote data, unparseable price)
// rejects the block; the only pass-by-default case is a block with no
// quoted price and no red-flag phrasing.
package validator

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/seenimoa/findigest/internal/config"
	"github.com/seenimoa/findigest/pkg/models"
)

// QuoteService is the slice of the quote client the validator needs.
type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	IsSpecialTreatment(ctx context.Context, symbol string) bool
}

// Validator applies the recommendation business rules to report text.
type Validator struct {
	quotes QuoteService
	cfg    config.ValidatorConfig
}

// New creates a validator. Zero config fields fall back to the
// standard thresholds.
func New(quotes QuoteService, cfg config.ValidatorConfig) *Validator {
	if cfg.MarketCapCeiling <= 0 {
		cfg.MarketCapCeiling = 50_000_000_000
	}
	if cfg.PriceTolerance <= 0 {
		cfg.PriceTolerance = 0.15
	}
	if cfg.PriceFloorRatio <= 0 {
		cfg.PriceFloorRatio = 0.85
	}
	return &Validator{quotes: quotes, cfg: cfg}
}

// mention records one candidate ticker found in a block and the
// outcome of its checks. Discarded after validation.
type mention struct {
	code      string
	st        bool
	overCap   bool
	noQuote   bool
	priceFail bool
	quote     *models.Quote
}

func (m *mention) rejected() bool {
	return m.st || m.overCap || m.noQuote || m.priceFail
}

// redFlagPhrases disqualify a recommendation regardless of quoted
// prices ("wait for a crash" style advice).
var redFlagPhrases = []string{"大跌", "暴跌", "深度回调", "腰斩"}

// pricePatterns extract quoted price levels from recommendation text.
// Each pattern's first capture group is a price; an optional second
// group captures the upper bound of a range.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:买入|建仓|介入|吸纳)[^0-9]{0,12}([0-9]+(?:\.[0-9]+)?)(?:\s*[-~至]\s*([0-9]+(?:\.[0-9]+)?))?\s*元`),
	regexp.MustCompile(`支撑[^0-9]{0,8}([0-9]+(?:\.[0-9]+)?)`),
	regexp.MustCompile(`回调(?:至|到)[^0-9]{0,8}([0-9]+(?:\.[0-9]+)?)`),
	regexp.MustCompile(`止损[^0-9]{0,8}([0-9]+(?:\.[0-9]+)?)`),
	regexp.MustCompile(`[¥￥]\s*([0-9]+(?:\.[0-9]+)?)`),
}

var tickerPattern = regexp.MustCompile(`[0-9]{6}`)

// markdownLinkTarget matches the "(url)" tail of a markdown link so
// digit runs inside URLs are never mistaken for tickers or prices.
var markdownLinkTarget = regexp.MustCompile(`\]\([^)]*\)`)

// Validate applies every business rule to the text and returns the
// cleaned version. It never fails; quote lookups that error simply
// reject the affected lines.
func (v *Validator) Validate(ctx context.Context, text string) string {
	lines := parseLines(text)
	blocks := groupBlocks(lines)

	for _, b := range blocks {
		if b.kind != blockListItem {
			continue
		}
		v.validateBlock(ctx, b)
	}

	out := serialize(blocks)
	return dropEmptyHeaders(out)
}

// validateBlock runs the per-ticker checks on one list-item block,
// marking it dropped or annotating the surviving mentions in place.
func (v *Validator) validateBlock(ctx context.Context, b *block) {
	scanText := markdownLinkTarget.ReplaceAllString(b.text(), "]")
	codes := findTickers(scanText)
	if len(codes) == 0 {
		return
	}

	mentions := make([]*mention, 0, len(codes))
	for _, code := range codes {
		mentions = append(mentions, v.checkTicker(ctx, code, scanText))
	}

	for _, m := range mentions {
		if m.rejected() {
			log.Printf("validator: dropping recommendation for %s (st=%t overCap=%t noQuote=%t priceFail=%t)",
				m.code, m.st, m.overCap, m.noQuote, m.priceFail)
			b.dropped = true
			return
		}
	}

	for _, m := range mentions {
		b.annotate(m.code, annotation(m.quote))
	}
}

// checkTicker runs the rule chain for one candidate code. The checks
// short-circuit in severity order; later fields stay false once a
// mention is already rejected.
func (v *Validator) checkTicker(ctx context.Context, code, blockText string) *mention {
	m := &mention{code: code}

	if v.quotes.IsSpecialTreatment(ctx, code) {
		m.st = true
		return m
	}

	q, err := v.quotes.GetQuote(ctx, code)
	if err != nil || q == nil {
		m.noQuote = true
		return m
	}
	// A snapshot the API answers for but with no usable price (raw 0
	// with no previous close to fall back on, e.g. a suspended
	// instrument) is as untrustworthy as no quote at all.
	if !q.HasPrice() {
		m.noQuote = true
		return m
	}
	m.quote = q

	if q.MarketCap > v.cfg.MarketCapCeiling {
		m.overCap = true
		return m
	}

	if hasRedFlag(blockText) {
		m.priceFail = true
		return m
	}

	prices := extractPrices(blockText)
	if len(prices) > 0 && !v.anyPricePlausible(prices, q.Price) {
		m.priceFail = true
	}
	return m
}

// anyPricePlausible reports whether at least one quoted price sits
// inside the tolerance band around the live price.
func (v *Validator) anyPricePlausible(prices []float64, current float64) bool {
	if current <= 0 {
		return false
	}
	for _, p := range prices {
		deviation := (p - current) / current
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation <= v.cfg.PriceTolerance && p >= current*v.cfg.PriceFloorRatio {
			return true
		}
	}
	return false
}

// annotation renders the live-price suffix appended after a mention.
func annotation(q *models.Quote) string {
	arrow := "➡️"
	switch {
	case q.ChangePct > 0:
		arrow = "📈"
	case q.ChangePct < 0:
		arrow = "📉"
	}
	return fmt.Sprintf("（现价 ¥%.2f，%+.2f%% %s）", q.Price, q.ChangePct, arrow)
}

// hasRedFlag reports whether the block carries disqualifying phrasing.
func hasRedFlag(text string) bool {
	for _, phrase := range redFlagPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// extractPrices pulls every quoted price level out of the block text.
func extractPrices(text string) []float64 {
	var prices []float64
	for _, pat := range pricePatterns {
		for _, groups := range pat.FindAllStringSubmatch(text, -1) {
			for _, g := range groups[1:] {
				if g == "" {
					continue
				}
				if p, err := strconv.ParseFloat(g, 64); err == nil && p > 0 {
					prices = append(prices, p)
				}
			}
		}
	}
	return prices
}

// findTickers returns the unique 6-digit codes in the text, in order
// of first occurrence. Matches embedded in longer digit runs or
// decimals are not tickers.
func findTickers(text string) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, loc := range tickerPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isDigitOrDot(text[start-1]) {
			continue
		}
		if end < len(text) && isDigitOrDot(text[end]) {
			continue
		}
		code := text[start:end]
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

func isDigitOrDot(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}
