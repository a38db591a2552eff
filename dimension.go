package gpkg

// Dimension identifies the coordinate dimensions of a layer's geometries.
type Dimension int

const (
	XY Dimension = iota
	XYZ
	XYM
	XYZM
)

// ZM returns the (z, m) flag pair stored in gpkg_geometry_columns for this
// dimension.
func (d Dimension) ZM() (z, m int) {
	switch d {
	case XYZ:
		return 1, 0
	case XYM:
		return 0, 1
	case XYZM:
		return 1, 1
	default:
		return 0, 0
	}
}

func (d Dimension) String() string {
	switch d {
	case XY:
		return "XY"
	case XYZ:
		return "XYZ"
	case XYM:
		return "XYM"
	case XYZM:
		return "XYZM"
	default:
		return "unknown"
	}
}

// DimensionFromZM maps a (z, m) flag pair from gpkg_geometry_columns back to
// a Dimension. The GeoPackage specification allows the value 2 meaning
// "optional", but there is no sound per-row handling for it, so it is
// rejected along with every other pair outside the four supported ones.
func DimensionFromZM(z, m int) (Dimension, error) {
	switch {
	case z == 0 && m == 0:
		return XY, nil
	case z == 1 && m == 0:
		return XYZ, nil
	case z == 0 && m == 1:
		return XYM, nil
	case z == 1 && m == 1:
		return XYZM, nil
	default:
		return 0, &InvalidDimensionError{Z: z, M: m}
	}
}
