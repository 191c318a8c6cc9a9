// Package quote implements the Eastmoney push2 quote API client: real-time
// snapshots, daily history bars, and the ST/delisting checks built on them.
//
// Every lookup is best effort. Network and parse failures are logged and
// surfaced as ErrNoData; callers must treat "no data" as a routine outcome.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/seenimoa/findigest/internal/config"
	"github.com/seenimoa/findigest/internal/infra"
	"github.com/seenimoa/findigest/pkg/models"
	"github.com/seenimoa/findigest/pkg/utils"
)

// ErrNoData is returned when the quote API has nothing for a security,
// for whatever reason: unknown code, delisted, network failure, bad payload.
var ErrNoData = errors.New("quote: no data")

const (
	// Public request token of the push2 endpoints.
	apiToken = "fa5fd1943c7b386f172d6893dbfba10b"

	snapshotFields = "f2,f3,f4,f5,f6,f15,f16,f17,f18,f45,f57,f58,f162"
	klineFields1   = "f1,f2,f3,f4,f5,f6"
	klineFields2   = "f51,f52,f53,f54,f55,f56,f57"
)

// indexCatalogue lists the market indices shown in the report header.
var indexCatalogue = []struct {
	Name   string
	Symbol string
}{
	{"上证指数", "000001"},
	{"深证成指", "399001"},
	{"创业板指", "399006"},
}

// Client is the quote API client. Construct once per run with New and
// share by reference; it is safe for concurrent use.
type Client struct {
	baseURL        string
	historyBaseURL string
	cache          *infra.Cache
	limiter        *infra.RateLimiter
	now            func() time.Time
}

// New creates a quote client from configuration.
func New(cfg config.QuoteConfig) *Client {
	ttl := time.Duration(cfg.CacheTTLSec) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		historyBaseURL: strings.TrimRight(cfg.HistoryBaseURL, "/"),
		cache:          infra.NewCache(ttl),
		limiter:        infra.NewRateLimiter(5, time.Second),
		now:            time.Now,
	}
}

// GetQuote returns a decoded snapshot for the given 6-digit symbol.
// Off-hours, when the live price field is the 0 sentinel, the previous
// close is substituted and the change recomputed from the last two
// history bars; if that lookup also fails, change is reported as zero.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	cacheKey := "quote:" + symbol
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*models.Quote), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/qt/stock/get?secid=%s&fields=%s&ut=%s&fltt=2&invt=2&_=%d",
		c.baseURL, utils.SecID(symbol), snapshotFields, apiToken, c.now().UnixMilli())

	var env snapshotEnvelope
	if err := c.fetchJSON(ctx, url, &env); err != nil {
		log.Printf("quote: fetch %s: %v", symbol, err)
		return nil, ErrNoData
	}
	if env.RC != 0 || env.Data == nil {
		log.Printf("quote: no data for %s (rc=%d)", symbol, env.RC)
		return nil, ErrNoData
	}

	q := c.decodeSnapshot(ctx, symbol, env.Data)
	c.cache.Set(cacheKey, q)
	return q, nil
}

// decodeSnapshot converts raw API fields into a Quote, applying the
// scaling and fallback rules of the source encoding.
func (c *Client) decodeSnapshot(ctx context.Context, symbol string, d *snapshotData) *models.Quote {
	q := &models.Quote{
		Symbol:       symbol,
		Name:         d.Name,
		Price:        d.Price.scaled(),
		Open:         d.Open.scaled(),
		High:         d.High.scaled(),
		Low:          d.Low.scaled(),
		PrevClose:    d.PrevClose.scaled(),
		Change:       d.Change.signedScaled(),
		ChangePct:    d.ChangePct.signedScaled(),
		Volume:       int64(d.Volume),
		Turnover:     float64(d.Turnover),
		MarketCap:    d.MarketCap.marketCap(),
		PE:           d.PE.scaled(),
		TradingHours: utils.IsTradingHoursAt(c.now()),
		Timestamp:    c.now(),
	}

	// A raw price of 0 is "unavailable", never a real zero price. Fall back
	// to the previous close and recompute yesterday's change from history.
	if q.Price == 0 && q.PrevClose > 0 {
		q.Price = q.PrevClose
		q.Change, q.ChangePct = c.previousDayChange(ctx, symbol)
	}

	return q
}

// previousDayChange diffs the closes of the last two history bars.
// Returns zeros when history is unavailable rather than propagating
// the failure.
func (c *Client) previousDayChange(ctx context.Context, symbol string) (change, pct float64) {
	bars, err := c.GetHistory(ctx, symbol, 2)
	if err != nil || len(bars) < 2 {
		return 0, 0
	}
	prev, last := bars[len(bars)-2], bars[len(bars)-1]
	if prev.Close <= 0 {
		return 0, 0
	}
	change = last.Close - prev.Close
	return change, change / prev.Close * 100
}

// GetHistory returns up to days daily bars for the symbol, oldest first.
func (c *Client) GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoryBar, error) {
	cacheKey := fmt.Sprintf("history:%s:%d", symbol, days)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.HistoryBar), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/qt/stock/kline/get?secid=%s&fields1=%s&fields2=%s&klt=101&fqt=1&beg=0&end=20500101&lmt=%d&_=%d",
		c.historyBaseURL, utils.SecID(symbol), klineFields1, klineFields2, days, c.now().UnixMilli())

	var env klineEnvelope
	if err := c.fetchJSON(ctx, url, &env); err != nil {
		log.Printf("quote: fetch history %s: %v", symbol, err)
		return nil, ErrNoData
	}
	if env.RC != 0 || env.Data == nil || len(env.Data.KLines) == 0 {
		log.Printf("quote: no history for %s (rc=%d)", symbol, env.RC)
		return nil, ErrNoData
	}

	bars := make([]models.HistoryBar, 0, len(env.Data.KLines))
	for _, line := range env.Data.KLines {
		bar, ok := parseKLine(line)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	c.cache.Set(cacheKey, bars)
	return bars, nil
}

// parseKLine decodes one "date,open,close,high,low,volume,turnover" record.
func parseKLine(line string) (models.HistoryBar, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		return models.HistoryBar{}, false
	}

	vals := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return models.HistoryBar{}, false
		}
		vals[i] = v
	}

	return models.HistoryBar{
		Date:     parts[0],
		Open:     vals[0],
		Close:    vals[1],
		High:     vals[2],
		Low:      vals[3],
		Volume:   vals[4],
		Turnover: vals[5],
	}, true
}

// IsSpecialTreatment reports whether the instrument carries an ST / *ST
// marker in its display name. The check is a plain substring match on the
// uppercased name; names that contain "ST" for unrelated reasons are
// flagged too, a known limitation of the upstream heuristic.
func (c *Client) IsSpecialTreatment(ctx context.Context, symbol string) bool {
	q, err := c.GetQuote(ctx, symbol)
	if err != nil || q.Name == "" {
		return false
	}
	return strings.Contains(strings.ToUpper(q.Name), "ST")
}

// IsDelisted reports whether the instrument looks delisted: no quote data
// at all, or a zero-volume quote with no history behind it. A zero-volume
// quote that still has history is just an off-hours snapshot.
func (c *Client) IsDelisted(ctx context.Context, symbol string) bool {
	q, err := c.GetQuote(ctx, symbol)
	if err != nil {
		log.Printf("quote: %s has no quote data, treating as delisted", symbol)
		return true
	}

	if q.Volume == 0 {
		if _, err := c.GetHistory(ctx, symbol, 5); err != nil {
			log.Printf("quote: %s has no history, treating as delisted", symbol)
			return true
		}
		// History exists but no volume: likely outside trading hours.
		return false
	}

	return false
}

// MarketIndices returns the report-header index readings. Failed lookups
// come back with OK=false instead of being dropped, so the report can
// show a placeholder in a stable position.
func (c *Client) MarketIndices(ctx context.Context) []models.IndexQuote {
	indices := make([]models.IndexQuote, 0, len(indexCatalogue))
	for _, idx := range indexCatalogue {
		iq := models.IndexQuote{Name: idx.Name, Symbol: idx.Symbol}
		q, err := c.GetQuote(ctx, idx.Symbol)
		if err == nil && q.HasPrice() {
			iq.Price = q.Price
			iq.ChangePct = q.ChangePct
			iq.OK = true
		}
		indices = append(indices, iq)
	}
	return indices
}

// fetchJSON performs a GET request with the quote API headers and decodes
// the response into dest.
func (c *Client) fetchJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, map[string]string{
		"Referer": "http://quote.eastmoney.com/",
		"Accept":  "application/json, text/plain, */*",
	})
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}
