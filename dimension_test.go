package gpkg

import (
	"errors"
	"testing"
)

func TestDimensionZM(t *testing.T) {
	tests := []struct {
		dim  Dimension
		z, m int
	}{
		{XY, 0, 0},
		{XYZ, 1, 0},
		{XYM, 0, 1},
		{XYZM, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.dim.String(), func(t *testing.T) {
			z, m := tt.dim.ZM()
			if z != tt.z || m != tt.m {
				t.Errorf("expected (%d,%d), got (%d,%d)", tt.z, tt.m, z, m)
			}

			back, err := DimensionFromZM(z, m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if back != tt.dim {
				t.Errorf("expected %v back, got %v", tt.dim, back)
			}
		})
	}
}

func TestDimensionFromZMRejectsInvalid(t *testing.T) {
	legal := map[[2]int]bool{
		{0, 0}: true, {1, 0}: true, {0, 1}: true, {1, 1}: true,
	}

	// The full {0,1,2}² grid: everything outside the four legal pairs must
	// fail, including 2 ("optional" per the GeoPackage specification).
	for z := 0; z <= 2; z++ {
		for m := 0; m <= 2; m++ {
			_, err := DimensionFromZM(z, m)
			if legal[[2]int{z, m}] {
				if err != nil {
					t.Errorf("(%d,%d): unexpected error %v", z, m, err)
				}
				continue
			}
			var invalid *InvalidDimensionError
			if !errors.As(err, &invalid) {
				t.Errorf("(%d,%d): expected InvalidDimensionError, got %v", z, m, err)
			} else if invalid.Z != z || invalid.M != m {
				t.Errorf("(%d,%d): error carries (%d,%d)", z, m, invalid.Z, invalid.M)
			}
		}
	}

	if _, err := DimensionFromZM(-1, 5); err == nil {
		t.Error("expected error for out-of-range pair")
	}
}
