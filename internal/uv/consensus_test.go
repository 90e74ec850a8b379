package uv

import (
	"math"
	"testing"
	"time"
)

func hour(h int) time.Time {
	return time.Date(2024, 6, 21, h, 0, 0, 0, time.UTC)
}

func singleBucket(values map[string]float64) Matrix {
	return Matrix{hour(12): values}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeConsensusMedian(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]float64
		want   float64
	}{
		{
			name:   "odd count takes middle value",
			values: map[string]float64{"a": 0.1, "b": 0.2, "c": 0.3},
			want:   0.2,
		},
		{
			name:   "even count averages two middle values",
			values: map[string]float64{"a": 0.1, "b": 0.2, "c": 0.3, "d": 0.4},
			want:   0.25,
		},
		{
			name:   "unsorted input",
			values: map[string]float64{"a": 7.0, "b": 1.0, "c": 4.0},
			want:   4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ComputeConsensus(singleBucket(tt.values))
			if len(out) != 1 {
				t.Fatalf("expected 1 bucket, got %d", len(out))
			}
			if !almostEqual(out[0].Consensus, tt.want) {
				t.Errorf("consensus = %v, want %v", out[0].Consensus, tt.want)
			}
		})
	}
}

func TestComputeConsensusClampsBeforeStatistics(t *testing.T) {
	out := ComputeConsensus(singleBucket(map[string]float64{"a": 20.0, "b": -5.0}))
	if len(out) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(out))
	}

	h := out[0]
	if !almostEqual(h.Providers["a"], 15.0) {
		t.Errorf("raw 20 should clamp to 15, got %v", h.Providers["a"])
	}
	if !almostEqual(h.Providers["b"], 0.0) {
		t.Errorf("raw -5 should clamp to 0, got %v", h.Providers["b"])
	}
	// Median of the clamped pair {0, 15}.
	if !almostEqual(h.Consensus, 7.5) {
		t.Errorf("consensus = %v, want 7.5", h.Consensus)
	}
}

func TestComputeConsensusBandBounds(t *testing.T) {
	sets := []map[string]float64{
		{"a": 0.0, "b": 0.0},
		{"a": 14.0, "b": 15.0, "c": 13.0},
		{"a": 1.0, "b": 9.0, "c": 2.0, "d": 12.0},
		{"a": 5.5},
	}

	for _, values := range sets {
		out := ComputeConsensus(singleBucket(values))
		if len(out) != 1 {
			t.Fatalf("expected 1 bucket, got %d", len(out))
		}
		h := out[0]
		if h.Low > h.Consensus || h.Consensus > h.High {
			t.Errorf("band ordering violated for %v: low=%v consensus=%v high=%v", values, h.Low, h.Consensus, h.High)
		}
		if h.Low < UVMin || h.High > UVMax {
			t.Errorf("band outside UV range for %v: [%v, %v]", values, h.Low, h.High)
		}
		if h.Confidence < 0 || h.Confidence > 1 {
			t.Errorf("confidence out of range for %v: %v", values, h.Confidence)
		}
	}
}

func TestComputeConsensusSingleProvider(t *testing.T) {
	out := ComputeConsensus(singleBucket(map[string]float64{"open_meteo": 4.2}))
	if len(out) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(out))
	}

	h := out[0]
	if !almostEqual(h.Confidence, 1.0) {
		t.Errorf("single source confidence = %v, want 1.0", h.Confidence)
	}
	if !almostEqual(h.Low, h.Consensus) || !almostEqual(h.High, h.Consensus) {
		t.Errorf("band should collapse to the single value: low=%v high=%v consensus=%v", h.Low, h.High, h.Consensus)
	}
	if len(h.Outliers) != 0 {
		t.Errorf("single source must not be an outlier, got %v", h.Outliers)
	}
}

// A majority agreeing exactly drives the MAD to zero; the explicit guard
// means even a wildly deviating provider is not flagged in that case.
func TestComputeConsensusZeroMADFlagsNobody(t *testing.T) {
	out := ComputeConsensus(singleBucket(map[string]float64{
		"open_meteo": 0.1,
		"openuv":     0.1,
		"weatherbit": 5.0,
	}))
	if len(out) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(out))
	}

	h := out[0]
	if !almostEqual(h.Consensus, 0.1) {
		t.Errorf("consensus = %v, want 0.1", h.Consensus)
	}
	if len(h.Outliers) != 0 {
		t.Errorf("zero MAD must flag nobody, got %v", h.Outliers)
	}
	if !almostEqual(h.Confidence, 1.0) {
		t.Errorf("confidence = %v, want 1.0 with zero MAD", h.Confidence)
	}
}

func TestComputeConsensusFlagsOutlierWithPositiveMAD(t *testing.T) {
	// median 1.2, MAD 0.2: only the 8.0 reading deviates beyond 1.5*MAD.
	out := ComputeConsensus(singleBucket(map[string]float64{
		"open_meteo": 1.0,
		"openuv":     1.2,
		"weatherbit": 8.0,
	}))
	if len(out) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(out))
	}

	h := out[0]
	if len(h.Outliers) != 1 || h.Outliers[0] != "weatherbit" {
		t.Errorf("outliers = %v, want [weatherbit]", h.Outliers)
	}
}

func TestComputeConsensusOmitsEmptyBucketsAndOrders(t *testing.T) {
	matrix := Matrix{
		hour(14): {"a": 3.0},
		hour(9):  {"a": 1.0, "b": 2.0},
		hour(11): {},
	}

	out := ComputeConsensus(matrix)
	if len(out) != 2 {
		t.Fatalf("expected empty bucket omitted, got %d buckets", len(out))
	}
	if !out[0].Time.Equal(hour(9)) || !out[1].Time.Equal(hour(14)) {
		t.Errorf("buckets out of order: %v, %v", out[0].Time, out[1].Time)
	}
}

func TestComputeConsensusConfidenceDecreasesWithSpread(t *testing.T) {
	tight := ComputeConsensus(singleBucket(map[string]float64{"a": 5.0, "b": 5.1, "c": 5.2}))
	wide := ComputeConsensus(singleBucket(map[string]float64{"a": 1.0, "b": 5.0, "c": 12.0}))

	if tight[0].Confidence <= wide[0].Confidence {
		t.Errorf("confidence should shrink with dispersion: tight=%v wide=%v", tight[0].Confidence, wide[0].Confidence)
	}
}
