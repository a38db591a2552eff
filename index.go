package gpkg

import (
	"database/sql"
	"strings"
)

// Execer is the subset of database/sql needed to run generated statements.
// Both *sql.DB and *sql.Tx satisfy it.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// SpatialIndex generates the DDL and triggers that create and maintain the
// GeoPackage rtree spatial index for one geometry column, cf.
// https://www.geopackage.org/spec140/index.html#extension_rtree
//
// The index table holds one row per base-table row whose geometry is
// non-null and non-empty, keyed by the row's id with its bounding box. The
// triggers keep that set exact across inserts, updates (including primary
// key reassignment and transitions to or from null/empty geometry) and
// deletes, all inside the mutating statement's own transaction.
type SpatialIndex struct {
	Table          string
	GeometryColumn string
	IDColumn       string
}

// IndexTable returns the name of the rtree virtual table.
func (s SpatialIndex) IndexTable() string {
	return "rtree_" + s.Table + "_" + s.GeometryColumn
}

// CreateSQL returns the statement creating the rtree virtual table.
func (s SpatialIndex) CreateSQL() string {
	return s.expand("CREATE VIRTUAL TABLE {rt} USING rtree(id, minx, maxx, miny, maxy)")
}

// DropSQL returns the statement dropping the rtree virtual table, the
// inverse of CreateSQL. The triggers are not dropped here: they belong to
// the base table and go away with it.
func (s SpatialIndex) DropSQL() string {
	return s.expand("DROP TABLE {rt}")
}

// LoadSQL returns the bulk-load statement filling the index from the
// current base-table contents. INSERT OR REPLACE keyed on id makes it
// idempotent, so re-running it cannot duplicate rows.
func (s SpatialIndex) LoadSQL() string {
	return s.expand(`INSERT OR REPLACE INTO {rt}
  SELECT {i}, ST_MinX({c}), ST_MaxX({c}), ST_MinY({c}), ST_MaxY({c})
  FROM {t} WHERE {c} NOT NULL AND NOT ST_IsEmpty({c})`)
}

// indexTrigger is one row of the trigger case table: a mutation event plus
// the qualification transition it covers, and the index maintenance it
// performs. Together the seven rows cover every reachable combination of
// (id changed?, old geometry qualifies?, new geometry qualifies?). A row
// "qualifies" when its geometry is non-null and non-empty.
type indexTrigger struct {
	Suffix string
	Event  string
	When   string
	Action string
}

// triggerCases returns the seven-case transition table. The split avoids
// delete/insert churn in the common case of a geometry update that keeps
// the row qualified under the same id.
func (s SpatialIndex) triggerCases() []indexTrigger {
	return []indexTrigger{
		{
			// insert, new qualifies: add the index row.
			Suffix: "insert",
			Event:  "AFTER INSERT ON {t}",
			When:   "(NEW.{c} NOT NULL AND NOT ST_IsEmpty(NEW.{c}))",
			Action: "INSERT OR REPLACE INTO {rt} VALUES (\n    NEW.{i},\n    ST_MinX(NEW.{c}), ST_MaxX(NEW.{c}),\n    ST_MinY(NEW.{c}), ST_MaxY(NEW.{c})\n  );",
		},
		{
			// update, same id, new no longer qualifies: remove the row.
			Suffix: "update2",
			Event:  "AFTER UPDATE OF {c} ON {t}",
			When:   "OLD.{i} = NEW.{i} AND\n       (NEW.{c} ISNULL OR ST_IsEmpty(NEW.{c}))",
			Action: "DELETE FROM {rt} WHERE id = OLD.{i};",
		},
		{
			// update, id changed, new does not qualify: remove both ids.
			// The new id should not have had a row; deleting it anyway
			// keeps the index exact even if it somehow did.
			Suffix: "update4",
			Event:  "AFTER UPDATE ON {t}",
			When:   "OLD.{i} != NEW.{i} AND\n       (NEW.{c} ISNULL OR ST_IsEmpty(NEW.{c}))",
			Action: "DELETE FROM {rt} WHERE id IN (OLD.{i}, NEW.{i});",
		},
		{
			// update, id changed, new qualifies: move the row to the new id.
			Suffix: "update5",
			Event:  "AFTER UPDATE ON {t}",
			When:   "OLD.{i} != NEW.{i} AND\n       (NEW.{c} NOT NULL AND NOT ST_IsEmpty(NEW.{c}))",
			Action: "DELETE FROM {rt} WHERE id = OLD.{i};\n  INSERT OR REPLACE INTO {rt} VALUES (\n    NEW.{i},\n    ST_MinX(NEW.{c}), ST_MaxX(NEW.{c}),\n    ST_MinY(NEW.{c}), ST_MaxY(NEW.{c})\n  );",
		},
		{
			// update, same id, old and new both qualify: update in place.
			Suffix: "update6",
			Event:  "AFTER UPDATE OF {c} ON {t}",
			When:   "OLD.{i} = NEW.{i} AND\n       (NEW.{c} NOT NULL AND NOT ST_IsEmpty(NEW.{c})) AND\n       (OLD.{c} NOT NULL AND NOT ST_IsEmpty(OLD.{c}))",
			Action: "UPDATE {rt} SET\n    minx = ST_MinX(NEW.{c}),\n    maxx = ST_MaxX(NEW.{c}),\n    miny = ST_MinY(NEW.{c}),\n    maxy = ST_MaxY(NEW.{c})\n  WHERE id = NEW.{i};",
		},
		{
			// update, same id, old did not qualify but new does: add the row.
			Suffix: "update7",
			Event:  "AFTER UPDATE OF {c} ON {t}",
			When:   "OLD.{i} = NEW.{i} AND\n       (NEW.{c} NOT NULL AND NOT ST_IsEmpty(NEW.{c})) AND\n       (OLD.{c} ISNULL OR ST_IsEmpty(OLD.{c}))",
			Action: "INSERT INTO {rt} VALUES (\n    NEW.{i},\n    ST_MinX(NEW.{c}), ST_MaxX(NEW.{c}),\n    ST_MinY(NEW.{c}), ST_MaxY(NEW.{c})\n  );",
		},
		{
			// delete, old geometry present: remove the row by old id.
			Suffix: "delete",
			Event:  "AFTER DELETE ON {t}",
			When:   "OLD.{c} NOT NULL",
			Action: "DELETE FROM {rt} WHERE id = OLD.{i};",
		},
	}
}

// TriggerSQL returns the seven CREATE TRIGGER statements from the case
// table, one statement per case.
func (s SpatialIndex) TriggerSQL() []string {
	cases := s.triggerCases()
	stmts := make([]string, 0, len(cases))
	for _, c := range cases {
		stmt := "CREATE TRIGGER {rt}_" + c.Suffix + " " + c.Event +
			"\n  WHEN " + c.When +
			"\nBEGIN\n  " + c.Action + "\nEND"
		stmts = append(stmts, s.expand(stmt))
	}
	return stmts
}

// Create creates the rtree table, bulk-loads it from the base table, and
// installs the maintenance triggers.
func (s SpatialIndex) Create(db Execer) error {
	stmts := append([]string{s.CreateSQL(), s.LoadSQL()}, s.TriggerSQL()...)
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Drop removes the rtree table.
func (s SpatialIndex) Drop(db Execer) error {
	_, err := db.Exec(s.DropSQL())
	return err
}

func (s SpatialIndex) expand(text string) string {
	return strings.NewReplacer(
		"{rt}", s.IndexTable(),
		"{t}", s.Table,
		"{c}", s.GeometryColumn,
		"{i}", s.IDColumn,
	).Replace(text)
}
