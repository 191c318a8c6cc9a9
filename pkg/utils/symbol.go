package utils

import "regexp"

// tickerPattern matches a strict 6-digit A-share code.
var tickerPattern = regexp.MustCompile(`^\d{6}$`)

// IsTickerCode reports whether s is a well-formed 6-digit exchange code.
// Leading zeros are significant, so the input must already be a string.
func IsTickerCode(s string) bool {
	return tickerPattern.MatchString(s)
}

// MarketID maps a 6-digit code to the quote API market id.
// Codes starting with '6' trade on the Shanghai exchange (market "1");
// everything else maps to Shenzhen (market "0"). This prefix rule is a
// heuristic carried over from the source API, not an authoritative listing.
func MarketID(symbol string) string {
	if len(symbol) > 0 && symbol[0] == '6' {
		return "1"
	}
	return "0"
}

// SecID builds the "market.symbol" security id the quote API expects,
// e.g. "1.600036" or "0.000001".
func SecID(symbol string) string {
	return MarketID(symbol) + "." + symbol
}
