package uv

import (
	"time"
)

// Tier is the discrete SPF guidance level derived from the day's peak UV.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
	TierVeryHigh Tier = "very_high"
	TierExtreme  Tier = "extreme"
)

// WHO UV index category bounds. Both the SPF tier and the exposure
// windows derive from this single table.
const (
	uvModerateMin = 3.0
	uvHighMin     = 6.0
	uvVeryHighMin = 8.0
	uvExtremeMin  = 11.0
)

const adviceReapply = "Reapply sunscreen every ~2 hours, and after swimming/sweating."

var tierAdvice = map[Tier]string{
	TierLow:      "Low: SPF optional; sunglasses if bright.",
	TierModerate: "Moderate: SPF 30+, sunglasses, hat; seek shade around midday.",
	TierHigh:     "High: SPF 50, reapply every 2h; cover up; limit 11:00-17:00.",
	TierVeryHigh: "Very High: SPF 50+, reapply 2h; cover up; avoid 11:00-17:00.",
	TierExtreme:  "Extreme: SPF 50+, minimize time outdoors; full cover; avoid 10:00-18:00.",
}

// TierForPeak maps a peak consensus value to its SPF guidance tier.
func TierForPeak(peak float64) Tier {
	switch {
	case peak < uvModerateMin:
		return TierLow
	case peak < uvHighMin:
		return TierModerate
	case peak < uvVeryHighMin:
		return TierHigh
	case peak < uvExtremeMin:
		return TierVeryHigh
	default:
		return TierExtreme
	}
}

// Summarize derives the whole-day statistics from the finished consensus
// series: peak value and hour (first occurrence on ties), SPF guidance,
// and the best/moderate/avoid exposure windows. An empty series yields a
// summary with nil peak and all-empty windows.
func Summarize(hourly []HourlyConsensus) DailySummary {
	summary := DailySummary{
		Windows: ExposureWindows{
			Best:     []Window{},
			Moderate: []Window{},
			Avoid:    []Window{},
		},
	}
	if len(hourly) == 0 {
		return summary
	}

	peak := hourly[0]
	for _, h := range hourly[1:] {
		if h.Consensus > peak.Consensus {
			peak = h
		}
	}

	peakUV := peak.Consensus
	peakTime := peak.Time
	tier := TierForPeak(peakUV)

	summary.PeakUV = &peakUV
	summary.PeakTime = &peakTime
	summary.Tier = tier
	summary.Advice = []string{tierAdvice[tier], adviceReapply}

	summary.Windows.Best = collectWindows(hourly, func(v float64) bool { return v < uvModerateMin })
	summary.Windows.Moderate = collectWindows(hourly, func(v float64) bool { return v >= uvModerateMin && v < uvHighMin })
	summary.Windows.Avoid = collectWindows(hourly, func(v float64) bool { return v >= uvVeryHighMin })

	return summary
}

// collectWindows compresses consecutive hours satisfying pred into
// half-open [start, end) intervals, where end is the last matching hour
// plus one hour.
func collectWindows(hourly []HourlyConsensus, pred func(float64) bool) []Window {
	windows := []Window{}

	var start, last time.Time
	open := false

	for _, h := range hourly {
		if pred(h.Consensus) {
			if !open {
				start = h.Time
				open = true
			}
			last = h.Time
			continue
		}
		if open {
			windows = append(windows, Window{Start: start, End: last.Add(time.Hour)})
			open = false
		}
	}
	if open {
		windows = append(windows, Window{Start: start, End: last.Add(time.Hour)})
	}

	return windows
}
