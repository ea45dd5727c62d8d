package domain

import (
	"math"
	"testing"
)

func TestNextAverage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		avg       float64
		count     int64
		rating    float64
		wantAvg   float64
		wantCount int64
	}{
		{"first rating", 0, 0, 4.5, 4.5, 1},
		{"weighted mean", 4.0, 3, 5.0, 4.25, 4},
		{"pulls average down", 5.0, 1, 3.0, 4.0, 2},
		{"large count barely moves", 4.8, 999, 4.8, 4.8, 1000},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gotAvg, gotCount := NextAverage(tc.avg, tc.count, tc.rating)
			if math.Abs(gotAvg-tc.wantAvg) > 1e-9 {
				t.Errorf("average = %v, want %v", gotAvg, tc.wantAvg)
			}
			if gotCount != tc.wantCount {
				t.Errorf("count = %d, want %d", gotCount, tc.wantCount)
			}
		})
	}
}

func TestRatingDirectionValid(t *testing.T) {
	t.Parallel()

	if !RatingRiderToDriver.Valid() || !RatingDriverToRider.Valid() {
		t.Error("recognized directions must be valid")
	}
	if RatingDirection("sideways").Valid() {
		t.Error("unrecognized direction must be invalid")
	}
	if RatingDirection("").Valid() {
		t.Error("empty direction must be invalid")
	}
}
