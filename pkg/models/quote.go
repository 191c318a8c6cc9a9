// Package models defines the core data structures used throughout findigest.
package models

import "time"

// Quote represents a decoded real-time snapshot for an A-share instrument.
// All scaled fields from the source API are already converted to their
// real-world units: prices in yuan, market cap in yuan, percentages in percent.
type Quote struct {
	Symbol       string    `json:"symbol"`         // 6-digit exchange code, leading zeros significant
	Name         string    `json:"name"`           // display name, carries ST / *ST markers
	Price        float64   `json:"price"`          // current price; falls back to PrevClose off-hours
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	PrevClose    float64   `json:"prev_close"`
	Change       float64   `json:"change"`         // absolute change in yuan
	ChangePct    float64   `json:"change_pct"`     // percent change
	Volume       int64     `json:"volume"`         // traded units, unscaled
	Turnover     float64   `json:"turnover"`       // traded value in yuan, unscaled
	MarketCap    float64   `json:"market_cap"`     // total market cap in yuan; 0 = unavailable
	PE           float64   `json:"pe,omitempty"`   // trailing PE; 0 = not applicable
	TradingHours bool      `json:"trading_hours"`  // true iff fetched during a trading session
	Timestamp    time.Time `json:"timestamp"`
}

// HasPrice reports whether the quote carries a usable current price.
func (q *Quote) HasPrice() bool {
	return q.Price > 0
}

// PEDisplay renders the PE ratio, using "N/A" for the not-applicable sentinel.
func (q *Quote) PEDisplay() string {
	if q.PE <= 0 {
		return "N/A"
	}
	return formatFloat(q.PE)
}

// HistoryBar represents a single trading-day OHLCV record.
// Bars are always ordered oldest to newest.
type HistoryBar struct {
	Date     string  `json:"date"` // exchange-local calendar date, "2006-01-02"
	Open     float64 `json:"open"`
	Close    float64 `json:"close"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Volume   float64 `json:"volume"`
	Turnover float64 `json:"turnover"`
}

// IndexQuote represents a market index reading used in the report header.
type IndexQuote struct {
	Name      string  `json:"name"`       // e.g., "上证指数"
	Symbol    string  `json:"symbol"`     // e.g., "000001"
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	OK        bool    `json:"ok"` // false when the lookup failed
}
