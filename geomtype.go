package gpkg

import (
	"strings"

	"github.com/paulmach/orb"
)

// GeometryType is the geometry type name recorded in gpkg_geometry_columns.
type GeometryType string

const (
	Point              GeometryType = "POINT"
	LineString         GeometryType = "LINESTRING"
	Polygon            GeometryType = "POLYGON"
	MultiPoint         GeometryType = "MULTIPOINT"
	MultiLineString    GeometryType = "MULTILINESTRING"
	MultiPolygon       GeometryType = "MULTIPOLYGON"
	GeometryCollection GeometryType = "GEOMETRYCOLLECTION"
)

// GeometryTypeOf maps an orb geometry to its GeoPackage type name. Rings
// and bounds are reported as polygons, matching how they would be written.
func GeometryTypeOf(geom orb.Geometry) GeometryType {
	switch geom.(type) {
	case orb.Point:
		return Point
	case orb.LineString:
		return LineString
	case orb.Ring, orb.Polygon, orb.Bound:
		return Polygon
	case orb.MultiPoint:
		return MultiPoint
	case orb.MultiLineString:
		return MultiLineString
	case orb.MultiPolygon:
		return MultiPolygon
	default:
		return GeometryCollection
	}
}

// ParseGeometryType maps a type name from layer metadata, case-insensitively.
// The generic "GEOMETRY" is read as a collection, the loosest type.
func ParseGeometryType(name string) (GeometryType, error) {
	switch strings.ToUpper(name) {
	case "POINT":
		return Point, nil
	case "LINESTRING":
		return LineString, nil
	case "POLYGON":
		return Polygon, nil
	case "MULTIPOINT":
		return MultiPoint, nil
	case "MULTILINESTRING":
		return MultiLineString, nil
	case "MULTIPOLYGON":
		return MultiPolygon, nil
	case "GEOMETRY", "GEOMETRYCOLLECTION":
		return GeometryCollection, nil
	default:
		return "", &UnsupportedGeometryTypeError{Name: name}
	}
}

// ColumnType classifies a layer's property columns.
type ColumnType int

const (
	Integer ColumnType = iota
	Double
	Text
	Boolean
	Blob
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Double:
		return "DOUBLE"
	case Text:
		return "TEXT"
	case Boolean:
		return "BOOLEAN"
	case Blob:
		return "BLOB"
	default:
		return "unknown"
	}
}

// sqlType returns the declared SQLite type used when creating a column.
func (t ColumnType) sqlType() string {
	return t.String()
}

// columnTypeFromDecl maps a declared SQLite column type to a ColumnType,
// covering the type names the GeoPackage SQLite container allows, cf.
// https://www.geopackage.org/spec140/index.html#_sqlite_container
func columnTypeFromDecl(decl string) (ColumnType, bool) {
	switch strings.ToUpper(decl) {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER":
		return Integer, true
	case "DOUBLE", "FLOAT", "REAL":
		return Double, true
	case "TEXT":
		return Text, true
	case "BOOLEAN":
		return Boolean, true
	case "BLOB", "GEOMETRY", "POINT", "LINESTRING", "POLYGON",
		"MULTIPOINT", "MULTILINESTRING", "MULTIPOLYGON", "GEOMETRYCOLLECTION":
		return Blob, true
	default:
		return 0, false
	}
}

// Column describes one property column of a layer.
type Column struct {
	Name string
	Type ColumnType
}
