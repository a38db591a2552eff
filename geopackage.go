package gpkg

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DriverName is the database/sql driver this package registers: SQLite with
// the spatial scalar functions installed on every connection.
const DriverName = "sqlite3_gpkg"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: RegisterSpatialFunctions,
	})
}

// GeoPackage is a handle to one GeoPackage file (or an in-memory database).
//
// The handle keeps a single underlying connection. GeoPackage writes follow
// SQLite's single-writer model, and spatial-index triggers run inside the
// mutating statement's transaction, so one connection per handle is the
// discipline the format expects.
type GeoPackage struct {
	db       *sql.DB
	readOnly bool
	log      zerolog.Logger
}

// Create creates a new GeoPackage file. It fails if the file already exists.
func Create(path string) (*GeoPackage, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	g, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(g.db); err != nil {
		g.db.Close()
		return nil, err
	}
	return g, nil
}

// Open opens an existing GeoPackage file for reading and writing.
func Open(path string) (*GeoPackage, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return open(path)
}

// OpenReadOnly opens an existing GeoPackage file for reading. Every
// mutating operation on the handle fails with ErrReadOnly.
func OpenReadOnly(path string) (*GeoPackage, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	g, err := open("file:" + path + "?mode=ro")
	if err != nil {
		return nil, err
	}
	g.readOnly = true
	return g, nil
}

// OpenInMemory creates a new GeoPackage in memory.
func OpenInMemory() (*GeoPackage, error) {
	g, err := open(":memory:")
	if err != nil {
		return nil, err
	}
	if err := initSchema(g.db); err != nil {
		g.db.Close()
		return nil, err
	}
	return g, nil
}

func open(dsn string) (*GeoPackage, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}
	// One connection: pooled connections would not share an in-memory
	// database, and writes are single-writer anyway.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &GeoPackage{db: db, log: zerolog.Nop()}, nil
}

// SetLogger sets a logger used to trace executed DDL at debug level.
func (g *GeoPackage) SetLogger(log zerolog.Logger) {
	g.log = log
}

// DB exposes the underlying database handle for queries this API does not
// cover. The spatial scalar functions are available in any SQL run on it.
func (g *GeoPackage) DB() *sql.DB {
	return g.db
}

// Close closes the underlying database.
func (g *GeoPackage) Close() error {
	return g.db.Close()
}

// Layers lists the content table names registered in the package.
func (g *GeoPackage) Layers() ([]string, error) {
	rows, err := g.db.Query(sqlListLayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Layer loads a feature layer's metadata by table name.
func (g *GeoPackage) Layer(name string) (*Layer, error) {
	var (
		geomColumn string
		typeName   string
		z, m       int
		srsID      int32
	)
	err := g.db.QueryRow(sqlSelectGeometryColumnMeta, name).
		Scan(&geomColumn, &typeName, &z, &m, &srsID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	geomType, err := ParseGeometryType(typeName)
	if err != nil {
		return nil, err
	}
	dim, err := DimensionFromZM(z, m)
	if err != nil {
		return nil, err
	}

	idColumn, columns, err := g.tableColumns(name, geomColumn)
	if err != nil {
		return nil, err
	}

	return &Layer{
		gp:             g,
		Name:           name,
		GeometryColumn: geomColumn,
		IDColumn:       idColumn,
		GeometryType:   geomType,
		Dimension:      dim,
		SRSID:          srsID,
		Columns:        columns,
	}, nil
}

// LayerOptions configures layer creation.
type LayerOptions struct {
	GeometryColumn string    // geometry column name (default "geom")
	Dimension      Dimension // coordinate dimensions (default XY)
	SRSID          int32     // spatial reference system id (default 4326)
}

// DefaultLayerOptions returns the defaults used when CreateLayer is called
// with nil options.
func DefaultLayerOptions() *LayerOptions {
	return &LayerOptions{
		GeometryColumn: "geom",
		Dimension:      XY,
		SRSID:          4326,
	}
}

// CreateLayer creates a feature table with an autoincrement integer primary
// key named "fid", a geometry blob column, and the given property columns.
// It registers the layer in the descriptive metadata tables and builds its
// spatial index, whose triggers maintain it from then on.
func (g *GeoPackage) CreateLayer(name string, geomType GeometryType, columns []Column, opts *LayerOptions) (*Layer, error) {
	if g.readOnly {
		return nil, ErrReadOnly
	}
	if opts == nil {
		opts = DefaultLayerOptions()
	}
	if opts.GeometryColumn == "" {
		opts.GeometryColumn = "geom"
	}

	existing, err := g.Layers()
	if err != nil {
		return nil, err
	}
	for _, t := range existing {
		if t == name {
			return nil, fmt.Errorf("%w: %s", ErrLayerExists, name)
		}
	}

	defs := make([]string, 0, len(columns)+2)
	defs = append(defs, quote(idColumnName)+" INTEGER PRIMARY KEY AUTOINCREMENT")
	defs = append(defs, quote(opts.GeometryColumn)+" "+string(geomType))
	for _, col := range columns {
		defs = append(defs, quote(col.Name)+" "+col.Type.sqlType())
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(defs, ", "))

	g.log.Debug().Str("layer", name).Msg("creating feature table")
	if _, err := g.db.Exec(createSQL); err != nil {
		return nil, err
	}

	z, m := opts.Dimension.ZM()
	if _, err := g.db.Exec(sqlInsertContents, name, name, opts.SRSID); err != nil {
		return nil, err
	}
	if _, err := g.db.Exec(sqlInsertGeometryColumns,
		name, opts.GeometryColumn, string(geomType), opts.SRSID, z, m); err != nil {
		return nil, err
	}

	index := SpatialIndex{Table: name, GeometryColumn: opts.GeometryColumn, IDColumn: idColumnName}
	g.log.Debug().Str("layer", name).Str("index", index.IndexTable()).Msg("creating spatial index")
	if err := index.Create(g.db); err != nil {
		return nil, err
	}
	if _, err := g.db.Exec(sqlInsertExtension, name, opts.GeometryColumn); err != nil {
		return nil, err
	}

	return &Layer{
		gp:             g,
		Name:           name,
		GeometryColumn: opts.GeometryColumn,
		IDColumn:       idColumnName,
		GeometryType:   geomType,
		Dimension:      opts.Dimension,
		SRSID:          opts.SRSID,
		Columns:        columns,
	}, nil
}

// DeleteLayer drops a feature table, its spatial index, and its metadata
// registrations.
func (g *GeoPackage) DeleteLayer(name string) error {
	if g.readOnly {
		return ErrReadOnly
	}
	layer, err := g.Layer(name)
	if err != nil {
		return err
	}

	index := layer.SpatialIndex()
	g.log.Debug().Str("layer", name).Msg("deleting layer")
	if err := index.Drop(g.db); err != nil {
		return err
	}
	if _, err := g.db.Exec("DROP TABLE " + quote(name)); err != nil {
		return err
	}
	cleanup := []string{
		"DELETE FROM gpkg_extensions WHERE table_name = ?",
		"DELETE FROM gpkg_geometry_columns WHERE table_name = ?",
		"DELETE FROM gpkg_contents WHERE table_name = ?",
	}
	for _, stmt := range cleanup {
		if _, err := g.db.Exec(stmt, name); err != nil {
			return err
		}
	}
	return nil
}

// tableColumns reads the table schema, returning the integer primary key
// column and the property columns (everything but the pk and the geometry).
func (g *GeoPackage) tableColumns(table, geomColumn string) (string, []Column, error) {
	rows, err := g.db.Query("SELECT name, type, pk FROM pragma_table_info(?)", table)
	if err != nil {
		return "", nil, err
	}
	defer rows.Close()

	var (
		idColumn string
		columns  []Column
	)
	for rows.Next() {
		var (
			name, decl string
			pk         int
		)
		if err := rows.Scan(&name, &decl, &pk); err != nil {
			return "", nil, err
		}
		if pk != 0 {
			if idColumn != "" {
				return "", nil, fmt.Errorf("gpkg: composite primary key on table %s", table)
			}
			idColumn = name
			continue
		}
		if name == geomColumn {
			continue
		}
		colType, ok := columnTypeFromDecl(decl)
		if !ok {
			return "", nil, &UnsupportedColumnTypeError{Column: name, DeclaredType: decl}
		}
		columns = append(columns, Column{Name: name, Type: colType})
	}
	if err := rows.Err(); err != nil {
		return "", nil, err
	}
	if idColumn == "" {
		return "", nil, fmt.Errorf("%w: table %s", ErrNoPrimaryKey, table)
	}
	return idColumn, columns, nil
}

const idColumnName = "fid"

func quote(name string) string {
	return `"` + name + `"`
}
