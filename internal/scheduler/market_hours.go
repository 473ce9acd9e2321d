package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// TradingCalendar answers whether US markets traded on a given day. The
// evaluation runs after the US close, so only full-day closures matter;
// intraday hours and half days do not.
type TradingCalendar struct {
	tz       *time.Location
	holidays map[string]bool
	log      zerolog.Logger
}

// NewTradingCalendar creates a calendar with the 2026 NYSE holiday schedule.
func NewTradingCalendar(log zerolog.Logger) *TradingCalendar {
	tz, err := time.LoadLocation("America/New_York")
	if err != nil {
		tz = time.UTC
	}

	c := &TradingCalendar{
		tz:       tz,
		holidays: make(map[string]bool),
		log:      log.With().Str("component", "trading_calendar").Logger(),
	}

	for _, d := range []string{
		"2026-01-01", // New Year's Day
		"2026-01-19", // MLK Day
		"2026-02-16", // Presidents Day
		"2026-04-03", // Good Friday
		"2026-05-25", // Memorial Day
		"2026-06-19", // Juneteenth
		"2026-07-03", // Independence Day (observed)
		"2026-09-07", // Labor Day
		"2026-11-26", // Thanksgiving
		"2026-12-25", // Christmas
	} {
		c.holidays[d] = true
	}

	return c
}

// IsTradingDay reports whether US markets were open on the given date.
func (c *TradingCalendar) IsTradingDay(t time.Time) bool {
	local := t.In(c.tz)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	if c.holidays[local.Format("2006-01-02")] {
		c.log.Debug().Str("date", local.Format("2006-01-02")).Msg("Market holiday")
		return false
	}

	return true
}
