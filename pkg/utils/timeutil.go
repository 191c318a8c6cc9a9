package utils

import (
	"time"
)

// CST is the China Standard Time location (UTC+8), the fixed time zone of
// both mainland exchanges regardless of where the process runs.
var CST *time.Location

func init() {
	var err error
	CST, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		CST = time.FixedZone("CST", 8*60*60)
	}
}

// NowCST returns the current time in CST.
func NowCST() time.Time {
	return time.Now().In(CST)
}

// ToCST converts a time.Time to CST.
func ToCST(t time.Time) time.Time {
	return t.In(CST)
}

// MorningOpen returns the morning session open (9:30 CST) for a given date.
func MorningOpen(date time.Time) time.Time {
	d := date.In(CST)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 30, 0, 0, CST)
}

// MorningClose returns the morning session close (11:30 CST) for a given date.
func MorningClose(date time.Time) time.Time {
	d := date.In(CST)
	return time.Date(d.Year(), d.Month(), d.Day(), 11, 30, 0, 0, CST)
}

// AfternoonOpen returns the afternoon session open (13:00 CST) for a given date.
func AfternoonOpen(date time.Time) time.Time {
	d := date.In(CST)
	return time.Date(d.Year(), d.Month(), d.Day(), 13, 0, 0, 0, CST)
}

// AfternoonClose returns the afternoon session close (15:00 CST) for a given date.
func AfternoonClose(date time.Time) time.Time {
	d := date.In(CST)
	return time.Date(d.Year(), d.Month(), d.Day(), 15, 0, 0, 0, CST)
}

// IsTradingHours checks if the market is in a continuous-trading session now.
func IsTradingHours() bool {
	return IsTradingHoursAt(NowCST())
}

// IsTradingHoursAt checks if the market would be in a continuous-trading
// session at the given time: a weekday, within 9:30–11:30 or 13:00–15:00 CST.
// Exchange holidays are not consulted; off-hours quote fallbacks already
// cover closed days.
func IsTradingHoursAt(t time.Time) bool {
	t = t.In(CST)

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}

	inWindow := func(open, close time.Time) bool {
		return !t.Before(open) && !t.After(close)
	}
	return inWindow(MorningOpen(t), MorningClose(t)) ||
		inWindow(AfternoonOpen(t), AfternoonClose(t))
}

// FormatDateCST formats a time.Time to "2006-01-02" in CST.
func FormatDateCST(t time.Time) string {
	return ToCST(t).Format("2006-01-02")
}

// FormatDateTimeCST formats a time.Time to "2006-01-02 15:04:05 CST".
func FormatDateTimeCST(t time.Time) string {
	return ToCST(t).Format("2006-01-02 15:04:05 CST")
}

// MarketStatus returns the current market status string.
func MarketStatus() string {
	now := NowCST()

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "CLOSED (Weekend)"
	}

	switch {
	case now.Before(MorningOpen(now)):
		return "PRE-MARKET"
	case !now.After(MorningClose(now)):
		return "OPEN (Morning Session)"
	case now.Before(AfternoonOpen(now)):
		return "LUNCH BREAK"
	case !now.After(AfternoonClose(now)):
		return "OPEN (Afternoon Session)"
	default:
		return "CLOSED"
	}
}
