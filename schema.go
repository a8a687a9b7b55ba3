package yum

import "database/sql"

// depTables lists the four dependency tables that share a common row shape
// in the primary schema. Only "requires" carries the extra `pre` column.
var depTables = []string{"requires", "provides", "conflicts", "obsoletes"}

// packageWriter owns the prepared insert statements for one schema and
// writes a single package's rows — the packages row plus whatever child rows
// that schema defines — inside the caller's transaction.
//
// All three schemas (primary, filelists, other) implement this the same
// way: prepare once per transaction, write many packages, then Close
// finalizes every statement. This is the "callbacks as polymorphism"
// orchestration template of one pipeline parameterized by (schema DDL,
// insert-statement set, parser, per-package writer).
type packageWriter interface {
	// WritePackage inserts the packages row for pkg, assigns pkg.PkgKey from
	// the insert's last-insert-rowid, and writes whatever child rows this
	// schema defines for it. A failure on any individual row is a RowError
	// (spec.md §7): it is logged and the writer moves on rather than
	// aborting the whole update. inserted reports whether the packages row
	// itself went in, which is what the caller counts towards add_count; a
	// row-level failure on a child table does not change inserted.
	WritePackage(pkg *Package) (inserted bool, err error)
	// Close finalizes every prepared statement owned by the writer.
	Close() error
}

// cacheSchema bundles the DDL and writer constructor for one of the three
// on-disk schemas driven by the updater.
type cacheSchema struct {
	name string // "primary", "filelists" or "other" — used only in log/error text

	createTables  func(db *sql.DB) error
	createIndices func(db *sql.DB) error
	newWriter     func(tx *sql.Tx, log logFunc) (packageWriter, error)
}

func execAll(db *sql.DB, stmts ...string) error {
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
