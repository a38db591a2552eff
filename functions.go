package gpkg

import (
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"
)

// RegisterSpatialFunctions registers the five spatial scalar functions on a
// SQLite connection: ST_MinX, ST_MaxX, ST_MinY, ST_MaxY and ST_IsEmpty.
// Each takes a single GeoPackage Binary blob argument and is registered as
// deterministic. They are what the generated spatial-index triggers call,
// so every connection that mutates an indexed table must have them.
//
// The signature matches sqlite3.SQLiteDriver's ConnectHook, so a custom
// driver can install the functions on every pooled connection:
//
//	sql.Register("sqlite3_gpkg", &sqlite3.SQLiteDriver{
//		ConnectHook: gpkg.RegisterSpatialFunctions,
//	})
func RegisterSpatialFunctions(conn *sqlite3.SQLiteConn) error {
	funcs := []struct {
		name string
		impl any
	}{
		{"ST_MinX", boundsComponent(func(b *Bounds) float64 { return b.MinX })},
		{"ST_MaxX", boundsComponent(func(b *Bounds) float64 { return b.MaxX })},
		{"ST_MinY", boundsComponent(func(b *Bounds) float64 { return b.MinY })},
		{"ST_MaxY", boundsComponent(func(b *Bounds) float64 { return b.MaxY })},
		{"ST_IsEmpty", stIsEmpty},
	}
	for _, f := range funcs {
		if err := conn.RegisterFunc(f.name, f.impl, true); err != nil {
			return err
		}
	}
	return nil
}

// boundsComponent builds a scalar function returning one component of the
// argument's bounding box. NULL in, or an empty geometry, yields NULL.
func boundsComponent(sel func(*Bounds) float64) func(any) (any, error) {
	return func(v any) (any, error) {
		geom, null, err := geometryArg(v)
		if err != nil {
			return nil, err
		}
		if null {
			return nil, nil
		}
		b := computeBounds(geom)
		if b == nil {
			return nil, nil
		}
		return sel(b), nil
	}
}

// stIsEmpty returns NULL for NULL input, otherwise 1 if the geometry has no
// coordinates and 0 if it has any.
func stIsEmpty(v any) (any, error) {
	geom, null, err := geometryArg(v)
	if err != nil {
		return nil, err
	}
	if null {
		return nil, nil
	}
	if isEmptyGeometry(geom) {
		return int64(1), nil
	}
	return int64(0), nil
}

// geometryArg decodes a scalar-function argument. SQLite passes NULL
// through as a nil byte slice.
func geometryArg(v any) (geom orb.Geometry, null bool, err error) {
	if v == nil {
		return nil, true, nil
	}
	blob, ok := v.([]byte)
	if !ok {
		return nil, false, ErrNotBlob
	}
	if blob == nil {
		return nil, true, nil
	}
	geom, _, err = DecodeGeometry(blob)
	if err != nil {
		return nil, false, err
	}
	return geom, false, nil
}
