package gpkg

import (
	"database/sql"
	"fmt"
)

// GeoPackage SQLite container identification, cf.
// https://www.geopackage.org/spec140/index.html#_sqlite_container
const (
	applicationID = 0x47504B47 // "GPKG"
	userVersion   = 10400      // GeoPackage 1.4.0
)

// Table definitions, cf.
// https://www.geopackage.org/spec140/index.html#table_definition_sql

// gpkg_spatial_ref_sys: the SRS catalog referenced by gpkg_contents and
// gpkg_geometry_columns.
const sqlSpatialRefSys = `
CREATE TABLE gpkg_spatial_ref_sys (
  srs_name TEXT NOT NULL,
  srs_id INTEGER PRIMARY KEY,
  organization TEXT NOT NULL,
  organization_coordsys_id INTEGER NOT NULL,
  definition  TEXT NOT NULL,
  description TEXT
)`

// gpkg_contents: lists all geospatial contents in the package with
// identifying and descriptive metadata.
const sqlContents = `
CREATE TABLE gpkg_contents (
  table_name TEXT NOT NULL PRIMARY KEY,
  data_type TEXT NOT NULL,
  identifier TEXT UNIQUE,
  description TEXT DEFAULT '',
  last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
  min_x DOUBLE,
  min_y DOUBLE,
  max_x DOUBLE,
  max_y DOUBLE,
  srs_id INTEGER,
  CONSTRAINT fk_gc_r_srs_id FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
)`

// gpkg_geometry_columns: identifies geometry columns and geometry types for
// vector feature tables.
const sqlGeometryColumns = `
CREATE TABLE gpkg_geometry_columns (
  table_name TEXT NOT NULL,
  column_name TEXT NOT NULL,
  geometry_type_name TEXT NOT NULL,
  srs_id INTEGER NOT NULL,
  z TINYINT NOT NULL,
  m TINYINT NOT NULL,
  CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name),
  CONSTRAINT uk_gc_table_name UNIQUE (table_name),
  CONSTRAINT fk_gc_tn FOREIGN KEY (table_name) REFERENCES gpkg_contents(table_name),
  CONSTRAINT fk_gc_srs FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys (srs_id)
)`

// gpkg_extensions: declares which extensions apply to the GeoPackage, a
// table, or a column, so clients can detect requirements without scanning
// user tables.
const sqlExtensions = `
CREATE TABLE gpkg_extensions (
  table_name TEXT,
  column_name TEXT,
  extension_name TEXT NOT NULL,
  definition TEXT NOT NULL,
  scope TEXT NOT NULL,
  CONSTRAINT ge_tce UNIQUE (table_name, column_name, extension_name)
)`

// gpkg_tile_matrix_set and gpkg_tile_matrix describe tile pyramids. This
// package only stores features, but the tables are part of the container
// definition other readers expect.
const sqlTileMatrixSet = `
CREATE TABLE gpkg_tile_matrix_set (
  table_name TEXT NOT NULL PRIMARY KEY,
  srs_id INTEGER NOT NULL,
  min_x DOUBLE NOT NULL,
  min_y DOUBLE NOT NULL,
  max_x DOUBLE NOT NULL,
  max_y DOUBLE NOT NULL,
  CONSTRAINT fk_gtms_table_name FOREIGN KEY (table_name) REFERENCES gpkg_contents(table_name),
  CONSTRAINT fk_gtms_srs FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys (srs_id)
)`

const sqlTileMatrix = `
CREATE TABLE gpkg_tile_matrix (
  table_name TEXT NOT NULL,
  zoom_level INTEGER NOT NULL,
  matrix_width INTEGER NOT NULL,
  matrix_height INTEGER NOT NULL,
  tile_width INTEGER NOT NULL,
  tile_height INTEGER NOT NULL,
  pixel_x_size DOUBLE NOT NULL,
  pixel_y_size DOUBLE NOT NULL,
  CONSTRAINT pk_ttm PRIMARY KEY (table_name, zoom_level),
  CONSTRAINT fk_tmm_table_name FOREIGN KEY (table_name) REFERENCES gpkg_contents(table_name)
)`

const (
	sqlListLayers = `SELECT table_name FROM gpkg_contents`

	sqlInsertContents = `
INSERT INTO gpkg_contents (table_name, data_type, identifier, description, srs_id)
VALUES (?, 'features', ?, '', ?)`

	sqlInsertGeometryColumns = `
INSERT INTO gpkg_geometry_columns (table_name, column_name, geometry_type_name, srs_id, z, m)
VALUES (?, ?, ?, ?, ?, ?)`

	sqlSelectGeometryColumnMeta = `
SELECT column_name, geometry_type_name, z, m, srs_id
FROM gpkg_geometry_columns
WHERE table_name = ?`

	sqlInsertExtension = `
INSERT INTO gpkg_extensions (table_name, column_name, extension_name, definition, scope)
VALUES (?, ?, 'gpkg_rtree_index', 'http://www.geopackage.org/spec140/index.html#extension_rtree', 'write-only')`

	sqlInsertSpatialRefSys = `
INSERT INTO gpkg_spatial_ref_sys
  (srs_name, srs_id, organization, organization_coordsys_id, definition, description)
VALUES (?, ?, ?, ?, ?, ?)`
)

const epsg4326WKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AXIS["Latitude",NORTH],AXIS["Longitude",EAST],AUTHORITY["EPSG","4326"]]`

// initSchema stamps the SQLite container identifiers and creates the
// descriptive metadata tables with their default SRS entries.
func initSchema(db *sql.DB) error {
	stmts := []string{
		fmt.Sprintf("PRAGMA application_id = %d", applicationID),
		fmt.Sprintf("PRAGMA user_version = %d", userVersion),
		"PRAGMA foreign_keys = ON",
		sqlSpatialRefSys,
		sqlContents,
		sqlGeometryColumns,
		sqlTileMatrixSet,
		sqlTileMatrix,
		sqlExtensions,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return insertDefaultSRS(db)
}

// insertDefaultSRS registers the three SRS entries every GeoPackage must
// carry: WGS 84 plus the undefined cartesian and geographic systems.
func insertDefaultSRS(db *sql.DB) error {
	defaults := []struct {
		name  string
		srsID int32
		org   string
		orgID int32
		def   string
		descr string
	}{
		{"WGS 84", 4326, "EPSG", 4326, epsg4326WKT, "WGS 84"},
		{"Undefined Cartesian SRS", -1, "NONE", -1, "undefined",
			"undefined Cartesian coordinate reference system"},
		{"Undefined geographic SRS", 0, "NONE", 0, "undefined",
			"undefined geographic coordinate reference system"},
	}
	for _, d := range defaults {
		_, err := db.Exec(sqlInsertSpatialRefSys, d.name, d.srsID, d.org, d.orgID, d.def, d.descr)
		if err != nil {
			return err
		}
	}
	return nil
}
