package quote

import (
	"bytes"
	"strconv"
)

// --- Wire types for the push2-style quote API ---

// snapshotEnvelope is the top-level quote response. rc != 0 or a null data
// object both mean "no data for this security".
type snapshotEnvelope struct {
	RC   int           `json:"rc"`
	Data *snapshotData `json:"data"`
}

// snapshotData carries the opaque field identifiers of the quote API.
// Price-like fields are scaled by 100; f45 (total market cap) is in units
// of ten-thousand yuan and occasionally arrives as a string.
type snapshotData struct {
	Code      string     `json:"f57"`
	Name      string     `json:"f58"`
	Price     flexNumber `json:"f2"`
	ChangePct flexNumber `json:"f3"`
	Change    flexNumber `json:"f4"`
	Volume    flexNumber `json:"f5"`
	Turnover  flexNumber `json:"f6"`
	High      flexNumber `json:"f15"`
	Low       flexNumber `json:"f16"`
	Open      flexNumber `json:"f17"`
	PrevClose flexNumber `json:"f18"`
	MarketCap flexNumber `json:"f45"`
	PE        flexNumber `json:"f162"`
}

// klineEnvelope is the top-level history response.
type klineEnvelope struct {
	RC   int        `json:"rc"`
	Data *klineData `json:"data"`
}

// klineData carries one comma-joined string per trading day:
// "date,open,close,high,low,volume,turnover[,...]".
type klineData struct {
	Code   string   `json:"code"`
	KLines []string `json:"klines"`
}

// flexNumber decodes a JSON number, a numeric string, or the "-" placeholder
// the quote API emits for suspended instruments. Anything unparseable
// normalizes to zero, which every decoder treats as "unavailable".
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	s := string(data)
	if s == "" || s == "-" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexNumber(v)
	return nil
}

// scaled divides a price-like raw value by 100, mapping non-positive
// raw values to the 0 "unavailable" sentinel.
func (f flexNumber) scaled() float64 {
	if f <= 0 {
		return 0
	}
	return float64(f) / 100
}

// signedScaled divides a signed raw value (change amount, percent change)
// by 100 without the positivity guard.
func (f flexNumber) signedScaled() float64 {
	return float64(f) / 100
}

// marketCap converts the raw ten-thousand-yuan field to yuan, mapping
// non-positive values to 0 ("unavailable").
func (f flexNumber) marketCap() float64 {
	if f <= 0 {
		return 0
	}
	return float64(f) * 10000
}
