package gpkg

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Layer is a feature table with its geometry metadata and property columns.
type Layer struct {
	gp *GeoPackage

	Name           string
	GeometryColumn string
	IDColumn       string
	GeometryType   GeometryType
	Dimension      Dimension
	SRSID          int32
	Columns        []Column
}

// SpatialIndex returns the generator for this layer's spatial index.
func (l *Layer) SpatialIndex() SpatialIndex {
	return SpatialIndex{
		Table:          l.Name,
		GeometryColumn: l.GeometryColumn,
		IDColumn:       l.IDColumn,
	}
}

// Features reads every feature in primary-key order. Feature IDs carry the
// primary key value. A feature whose geometry column is NULL is returned
// with a nil geometry and its properties intact.
func (l *Layer) Features() (*geojson.FeatureCollection, error) {
	sel := l.selectSQL("")
	return l.queryFeatures(sel)
}

// Search returns the features whose bounding boxes intersect the given
// bound, resolved through the layer's rtree index.
func (l *Layer) Search(bound orb.Bound) (*geojson.FeatureCollection, error) {
	sel := l.selectSQL(fmt.Sprintf(
		"JOIN %s r ON %s.%s = r.id WHERE r.minx <= ? AND r.maxx >= ? AND r.miny <= ? AND r.maxy >= ?",
		l.SpatialIndex().IndexTable(), quote(l.Name), quote(l.IDColumn)))
	return l.queryFeatures(sel,
		bound.Max[0], bound.Min[0], bound.Max[1], bound.Min[1])
}

// Insert adds a feature and returns its assigned primary key. A nil
// geometry is stored as NULL. Properties are matched to the layer's columns
// by name; missing properties become NULL, unknown names are an error.
func (l *Layer) Insert(geom orb.Geometry, props geojson.Properties) (int64, error) {
	if err := l.writable(); err != nil {
		return 0, err
	}
	blob, err := l.geometryBlob(geom)
	if err != nil {
		return 0, err
	}
	args, err := l.propertyArgs(props)
	if err != nil {
		return 0, err
	}

	names := make([]string, 0, len(l.Columns)+1)
	names = append(names, quote(l.GeometryColumn))
	for _, col := range l.Columns {
		names = append(names, quote(col.Name))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(l.Name), strings.Join(names, ","), placeholders)

	res, err := l.gp.db.Exec(stmt, append([]any{blob}, args...)...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update replaces a feature's geometry and properties by primary key.
func (l *Layer) Update(id int64, geom orb.Geometry, props geojson.Properties) error {
	if err := l.writable(); err != nil {
		return err
	}
	blob, err := l.geometryBlob(geom)
	if err != nil {
		return err
	}
	args, err := l.propertyArgs(props)
	if err != nil {
		return err
	}

	assigns := make([]string, 0, len(l.Columns)+1)
	assigns = append(assigns, quote(l.GeometryColumn)+" = ?")
	for _, col := range l.Columns {
		assigns = append(assigns, quote(col.Name)+" = ?")
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quote(l.Name), strings.Join(assigns, ","), quote(l.IDColumn))

	args = append(append([]any{blob}, args...), id)
	_, err = l.gp.db.Exec(stmt, args...)
	return err
}

// Delete removes a feature by primary key.
func (l *Layer) Delete(id int64) error {
	if err := l.writable(); err != nil {
		return err
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(l.Name), quote(l.IDColumn))
	_, err := l.gp.db.Exec(stmt, id)
	return err
}

// Truncate removes every feature from the layer.
func (l *Layer) Truncate() error {
	if err := l.writable(); err != nil {
		return err
	}
	_, err := l.gp.db.Exec("DELETE FROM " + quote(l.Name))
	return err
}

func (l *Layer) writable() error {
	if l.gp.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (l *Layer) geometryBlob(geom orb.Geometry) (any, error) {
	if geom == nil {
		return nil, nil
	}
	blob, err := EncodeGeometry(geom, l.SRSID)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// propertyArgs orders property values to match l.Columns.
func (l *Layer) propertyArgs(props geojson.Properties) ([]any, error) {
	args := make([]any, len(l.Columns))
	byName := make(map[string]int, len(l.Columns))
	for i, col := range l.Columns {
		byName[col.Name] = i
	}
	for name, value := range props {
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("gpkg: layer %s has no column %q", l.Name, name)
		}
		args[i] = value
	}
	return args, nil
}

// selectSQL builds the feature query: geometry and id first, then the
// property columns in schema order.
func (l *Layer) selectSQL(tail string) string {
	names := make([]string, 0, len(l.Columns)+2)
	names = append(names, quote(l.Name)+"."+quote(l.GeometryColumn))
	names = append(names, quote(l.Name)+"."+quote(l.IDColumn))
	for _, col := range l.Columns {
		names = append(names, quote(l.Name)+"."+quote(col.Name))
	}
	sel := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), quote(l.Name))
	if tail != "" {
		sel += " " + tail
	}
	return sel + fmt.Sprintf(" ORDER BY %s.%s", quote(l.Name), quote(l.IDColumn))
}

func (l *Layer) queryFeatures(query string, args ...any) (*geojson.FeatureCollection, error) {
	rows, err := l.gp.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fc := geojson.NewFeatureCollection()
	for rows.Next() {
		var (
			blob []byte
			id   int64
		)
		values := make([]any, len(l.Columns))
		dest := make([]any, 0, len(l.Columns)+2)
		dest = append(dest, &blob, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		var geom orb.Geometry
		if blob != nil {
			geom, _, err = DecodeGeometry(blob)
			if err != nil {
				return nil, err
			}
		}

		f := geojson.NewFeature(geom)
		f.ID = id
		for i, col := range l.Columns {
			f.Properties[col.Name] = propertyValue(col, values[i])
		}
		fc.Append(f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fc, nil
}

// propertyValue converts a scanned SQLite value to the natural Go type for
// the declared column: TEXT to string, BOOLEAN to bool.
func propertyValue(col Column, v any) any {
	switch value := v.(type) {
	case []byte:
		if col.Type == Text {
			return string(value)
		}
		return value
	case int64:
		if col.Type == Boolean {
			return value != 0
		}
		return value
	default:
		return v
	}
}
