package domain

import "testing"

func TestParseVehicleType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    VehicleType
		wantErr bool
	}{
		{"Sedan", VehicleSedan, false},
		{"sedan", VehicleSedan, false},
		{"car", VehicleSedan, false},
		{"SUV", VehicleSUV, false},
		{" suv ", VehicleSUV, false},
		{"Luxury SUV", VehicleLuxurySUV, false},
		{"luxury suv", VehicleLuxurySUV, false},
		{"truck", "", true},
		{"", "", true},
	}
	for _, tc := range testCases {
		got, err := ParseVehicleType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVehicleType(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVehicleType(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVehicleType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
