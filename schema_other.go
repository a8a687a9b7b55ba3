package yum

import "database/sql"

const sqlCreateOtherPackages = `CREATE TABLE packages (
  pkgKey INTEGER PRIMARY KEY,
  pkgId TEXT)`

const sqlCreateOtherChangelog = `CREATE TABLE changelog (
  pkgKey INTEGER,
  author TEXT,
  date INTEGER,
  changelog TEXT)`

const sqlCreateOtherTrigger = `CREATE TRIGGER remove_changelogs AFTER DELETE ON packages
  BEGIN
    DELETE FROM changelog WHERE pkgKey = old.pkgKey;
  END`

func otherCreateTables(db *sql.DB) error {
	return execAll(db, sqlCreateOtherPackages, sqlCreateOtherChangelog, sqlCreateOtherTrigger)
}

func otherCreateIndices(db *sql.DB) error {
	return execAll(db,
		`CREATE INDEX keychange ON changelog (pkgKey)`,
		`CREATE INDEX pkgId ON packages (pkgId)`,
	)
}

const sqlInsertOtherPackage = `INSERT INTO packages (pkgId) VALUES (?)`
const sqlInsertChangelog = `INSERT INTO changelog (pkgKey, author, date, changelog) VALUES (?, ?, ?, ?)`

type otherWriter struct {
	log logFunc

	pkgStmt       *sql.Stmt
	changelogStmt *sql.Stmt
}

func newOtherWriter(tx *sql.Tx, log logFunc) (packageWriter, error) {
	w := &otherWriter{log: log}
	var err error

	if w.pkgStmt, err = tx.Prepare(sqlInsertOtherPackage); err != nil {
		return nil, newDatabaseError("prepare other packages insert", err)
	}
	if w.changelogStmt, err = tx.Prepare(sqlInsertChangelog); err != nil {
		return nil, newDatabaseError("prepare changelog insert", err)
	}

	return w, nil
}

func (w *otherWriter) WritePackage(p *Package) (bool, error) {
	res, err := w.pkgStmt.Exec(p.PkgID)
	if err != nil {
		w.log(LogLevelError, "error adding package %q to SQL: %v", p.PkgID, err)
		return false, nil
	}
	pkgKey, err := res.LastInsertId()
	if err != nil {
		w.log(LogLevelError, "error reading package row id for %q: %v", p.PkgID, err)
		return false, nil
	}
	p.PkgKey = pkgKey

	for _, c := range p.Changelogs {
		if _, err := w.changelogStmt.Exec(pkgKey, c.Author, c.Date, c.Changelog); err != nil {
			w.log(LogLevelError, "error adding changelog row for %q: %v", p.PkgID, err)
		}
	}

	return true, nil
}

func (w *otherWriter) Close() error {
	if w.pkgStmt != nil {
		w.pkgStmt.Close()
	}
	if w.changelogStmt != nil {
		w.changelogStmt.Close()
	}
	return nil
}

var otherSchema = cacheSchema{
	name:          "other",
	createTables:  otherCreateTables,
	createIndices: otherCreateIndices,
	newWriter:     newOtherWriter,
}
