package payment

import "testing"

func TestMinorUnits(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		amount float64
		want   int64
	}{
		{0, 0},
		{1, 100},
		{25.50, 2550},
		{19.99, 1999},
		{0.01, 1},
		{0.1, 10},
		// 25.005 is not exactly representable; its float64 product with 100
		// lands exactly on 2500.5, which rounds away from zero.
		{25.005, 2501},
		{25.006, 2501},
	}
	for _, tc := range testCases {
		if got := MinorUnits(tc.amount); got != tc.want {
			t.Errorf("MinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}
