package uv

import (
	"sort"
	"time"
)

const (
	// UVMin and UVMax bound every value before any statistic is
	// computed. The upper bound is wider than the informal 0-11+ UV
	// scale on purpose, to absorb pathological upstream values without
	// discarding them.
	UVMin = 0.0
	UVMax = 15.0

	// madBandFactor scales the MAD into the confidence band and the
	// outlier threshold.
	madBandFactor = 1.5
)

// Matrix maps UTC hour buckets to the values each provider reported for
// that hour. Providers need not agree on hour boundaries or count; the
// bucket set is the union over all successful providers.
type Matrix map[time.Time]map[string]float64

// ClampUV bounds a raw provider value to the [UVMin, UVMax] range.
func ClampUV(v float64) float64 {
	if v < UVMin {
		return UVMin
	}
	if v > UVMax {
		return UVMax
	}
	return v
}

// ComputeConsensus reduces the per-hour matrix to an ordered consensus
// series. Hours with no reporting provider are omitted entirely.
//
// Per hour: values are clamped, the consensus is the median (mean of the
// two middle values for even counts), the band is consensus +/- 1.5*MAD
// clamped to the UV range, and confidence is 1/(1+MAD). A provider is an
// outlier only when MAD > 0 and its deviation exceeds 1.5*MAD; with zero
// dispersion nobody is flagged, so a single source always yields
// confidence 1.0 and a collapsed band.
func ComputeConsensus(matrix Matrix) []HourlyConsensus {
	buckets := make([]time.Time, 0, len(matrix))
	for t := range matrix {
		if len(matrix[t]) == 0 {
			continue
		}
		buckets = append(buckets, t)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

	out := make([]HourlyConsensus, 0, len(buckets))
	for _, t := range buckets {
		reported := matrix[t]

		clamped := make(map[string]float64, len(reported))
		values := make([]float64, 0, len(reported))
		for name, v := range reported {
			c := ClampUV(v)
			clamped[name] = c
			values = append(values, c)
		}

		consensus := median(values)

		deviations := make([]float64, 0, len(values))
		for _, v := range values {
			deviations = append(deviations, abs(v-consensus))
		}
		mad := median(deviations)

		var outliers []string
		if mad > 0 {
			for name, v := range clamped {
				if abs(v-consensus) > madBandFactor*mad {
					outliers = append(outliers, name)
				}
			}
			sort.Strings(outliers)
		}

		out = append(out, HourlyConsensus{
			Time:       t,
			Consensus:  consensus,
			Low:        ClampUV(consensus - madBandFactor*mad),
			High:       ClampUV(consensus + madBandFactor*mad),
			Confidence: 1.0 / (1.0 + mad),
			Providers:  clamped,
			Outliers:   outliers,
		})
	}

	return out
}

// median returns the middle value of vs, averaging the two middle values
// for even lengths. vs must be non-empty; it is not modified.
func median(vs []float64) float64 {
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
