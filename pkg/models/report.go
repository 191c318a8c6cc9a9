package models

import "strconv"

// StockPick is one model-recommended stock for an industry section.
// The nested trading levels are what the validator later checks against
// live quotes.
type StockPick struct {
	Code    string       `json:"code"`
	Name    string       `json:"name"`
	Reason  string       `json:"reason"`
	Risk    string       `json:"risk"`   // "低", "中", "高"
	Impact  string       `json:"impact"` // "高", "中", "低"
	Trading *PickTrading `json:"trading,omitempty"`
}

// PickTrading holds suggested trade levels for a pick.
type PickTrading struct {
	EntryPrice    string `json:"entry_price"`
	StopLoss      string `json:"stop_loss"`
	TargetPrice   string `json:"target_price"`
	HoldingPeriod string `json:"holding_period"`
}

// GlobalEvent is a detected world-market event and its domestic mapping.
type GlobalEvent struct {
	Event      string   `json:"event"`
	Logic      string   `json:"logic"`
	Industries []string `json:"industries"`
	Domestic   []string `json:"domestic"`
}

// Report carries every section of one digest run before final assembly.
type Report struct {
	Date       string                 `json:"date"` // exchange-local, "2006-01-02"
	Indices    []IndexQuote           `json:"indices"`
	Sentiment  [][2]string            `json:"sentiment"` // ordered key/value pairs
	Timing     [][2]string            `json:"timing"`
	Globals    []GlobalEvent          `json:"globals"`
	Summary    string                 `json:"summary"` // validated analysis text
	Picks      map[string][]StockPick `json:"picks"`   // industry → picks
	PickOrder  []string               `json:"pick_order"`
	News       *Corpus                `json:"news"`
	AIFallback bool                   `json:"ai_fallback"` // true when the canned summary was used
}

// formatFloat renders a float with two decimals, the display convention
// used across report sections.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
