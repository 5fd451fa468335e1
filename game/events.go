package game

import (
	"time"

	cfg "github.com/pixelmint/nftplay/config"
)

// EventMultiplier is the time-based score modifier at t. Night hours win
// over the weekend bonus when both apply; the modifiers never stack.
func EventMultiplier(t time.Time) float64 {
	if isNight(t) {
		return cfg.Events.NightMultiplier
	}
	if isWeekend(t) {
		return cfg.Events.WeekendMultiplier
	}
	return 1
}

// isNight covers the wrap-around window [NightStartHour, 24) U [0, NightEndHour).
func isNight(t time.Time) bool {
	h := t.Hour()
	return h >= cfg.Events.NightStartHour || h < cfg.Events.NightEndHour
}

func isWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}
