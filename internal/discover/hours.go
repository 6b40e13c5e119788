package discover

import (
	"math"
	"strconv"

	"github.com/kioskworks/sitescout/internal/model"
)

// DailyHours computes the mean open hours per day from structured opening
// periods. "HHMM" converts to HH + MM/60; a close before its open crosses
// midnight; a period with no close spans the full day. No periods, or a
// wholly malformed period, contribute 0 rather than an error.
func DailyHours(periods []model.Period) float64 {
	if len(periods) == 0 {
		return 0
	}

	var total float64
	for _, p := range periods {
		total += periodHours(p)
	}
	return math.Round(total/float64(len(periods))*100) / 100
}

func periodHours(p model.Period) float64 {
	open, ok := parseHHMM(p.Open)
	if !ok {
		return 0
	}
	if p.Close == "" {
		// Open-ended period: the place never closes.
		return 24
	}
	close, ok := parseHHMM(p.Close)
	if !ok {
		return 0
	}
	if close < open {
		close += 24
	}
	return close - open
}

// parseHHMM converts a 4-digit "HHMM" time to fractional hours.
func parseHHMM(s string) (float64, bool) {
	if len(s) != 4 {
		return 0, false
	}
	hh, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, false
	}
	mm, err := strconv.Atoi(s[2:])
	if err != nil {
		return 0, false
	}
	if hh < 0 || hh > 24 || mm < 0 || mm > 59 {
		return 0, false
	}
	return float64(hh) + float64(mm)/60, true
}
