// Package gpkg provides GeoPackage feature storage for the orb geometry
// library. It encodes and decodes the GeoPackage Binary geometry format,
// maintains rtree spatial indexes through SQL triggers, and exposes a
// layer-oriented API for reading and writing features backed by SQLite.
package gpkg

import (
	"errors"
	"fmt"
)

// Common errors returned by this package.
var (
	ErrReadOnly      = errors.New("gpkg: geopackage is read-only")
	ErrLayerExists   = errors.New("gpkg: layer already exists")
	ErrLayerNotFound = errors.New("gpkg: layer not found")
	ErrNilGeometry   = errors.New("gpkg: nil geometry")
	ErrNoPrimaryKey  = errors.New("gpkg: no integer primary key column")
	ErrFileExists    = errors.New("gpkg: file already exists")
	ErrFileNotFound  = errors.New("gpkg: file does not exist")
	ErrNotBlob       = errors.New("gpkg: geometry argument is not a blob")
)

// InvalidFlagsError is returned when a geometry blob's envelope contents
// indicator (bits 1-3 of the flags byte) is not one of the five values
// defined by the GeoPackage specification.
type InvalidFlagsError struct {
	Flags byte
}

func (e *InvalidFlagsError) Error() string {
	return fmt.Sprintf("gpkg: invalid geometry flags %#04x", e.Flags)
}

// InvalidLengthError is returned when a geometry blob is shorter than its
// fixed header plus the envelope declared by its flags byte.
type InvalidLengthError struct {
	Len, Min int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("gpkg: geometry blob is %d bytes, need at least %d", e.Len, e.Min)
}

// InvalidDimensionError is returned for a (z, m) metadata pair outside the
// four combinations this package supports. The GeoPackage specification also
// defines the value 2 ("optional"), which is intentionally rejected here.
type InvalidDimensionError struct {
	Z, M int
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("gpkg: invalid geometry dimension (z=%d, m=%d)", e.Z, e.M)
}

// UnsupportedGeometryTypeError is returned when geometry type metadata names
// a type outside the seven GeoPackage geometry types.
type UnsupportedGeometryTypeError struct {
	Name string
}

func (e *UnsupportedGeometryTypeError) Error() string {
	return fmt.Sprintf("gpkg: unsupported geometry type: %s", e.Name)
}

// UnsupportedColumnTypeError is returned when a layer column's declared
// SQLite type cannot be mapped to a ColumnType.
type UnsupportedColumnTypeError struct {
	Column       string
	DeclaredType string
}

func (e *UnsupportedColumnTypeError) Error() string {
	return fmt.Sprintf("gpkg: unsupported column type for column %q: %s", e.Column, e.DeclaredType)
}
