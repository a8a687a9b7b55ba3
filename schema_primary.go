package yum

import (
	"database/sql"
	"fmt"
)

const sqlCreatePrimaryPackages = `CREATE TABLE packages (
  pkgKey INTEGER PRIMARY KEY,
  pkgId TEXT,
  name TEXT,
  arch TEXT,
  version TEXT,
  epoch TEXT,
  release TEXT,
  summary TEXT,
  description TEXT,
  url TEXT,
  time_file INTEGER,
  time_build INTEGER,
  rpm_license TEXT,
  rpm_vendor TEXT,
  rpm_group TEXT,
  rpm_buildhost TEXT,
  rpm_sourcerpm TEXT,
  rpm_header_start INTEGER,
  rpm_header_end INTEGER,
  rpm_packager TEXT,
  size_package INTEGER,
  size_installed INTEGER,
  size_archive INTEGER,
  location_href TEXT,
  location_base TEXT,
  checksum_type TEXT)`

const sqlCreatePrimaryFiles = `CREATE TABLE files (
  name TEXT,
  type TEXT,
  pkgKey INTEGER)`

const sqlCreatePrimaryTrigger = `CREATE TRIGGER removals AFTER DELETE ON packages
  BEGIN
    DELETE FROM files WHERE pkgKey = old.pkgKey;
    DELETE FROM requires WHERE pkgKey = old.pkgKey;
    DELETE FROM provides WHERE pkgKey = old.pkgKey;
    DELETE FROM conflicts WHERE pkgKey = old.pkgKey;
    DELETE FROM obsoletes WHERE pkgKey = old.pkgKey;
  END`

func primaryCreateTables(db *sql.DB) error {
	if err := execAll(db, sqlCreatePrimaryPackages, sqlCreatePrimaryFiles); err != nil {
		return err
	}
	for _, t := range depTables {
		pre := ""
		if t == "requires" {
			pre = ", pre BOOLEAN DEFAULT FALSE"
		}
		ddl := fmt.Sprintf(
			`CREATE TABLE %s (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER%s)`,
			t, pre)
		if err := execAll(db, ddl); err != nil {
			return err
		}
	}
	return execAll(db, sqlCreatePrimaryTrigger)
}

func primaryCreateIndices(db *sql.DB) error {
	stmts := []string{
		`CREATE INDEX packagename ON packages (name)`,
		`CREATE INDEX packageId ON packages (pkgId)`,
		`CREATE INDEX filenames ON files (name)`,
		`CREATE INDEX pkgfiles ON files (pkgKey)`,
	}
	for _, t := range depTables {
		stmts = append(stmts, fmt.Sprintf(`CREATE INDEX pkg%s ON %s (pkgKey)`, t, t))
	}
	// Only requires/provides are looked up by name by the resolver.
	stmts = append(stmts,
		`CREATE INDEX requiresname ON requires (name)`,
		`CREATE INDEX providesname ON provides (name)`,
	)
	return execAll(db, stmts...)
}

const sqlInsertPrimaryPackage = `INSERT INTO packages (
  pkgId, name, arch, version, epoch, release, summary, description,
  url, time_file, time_build, rpm_license, rpm_vendor, rpm_group,
  rpm_buildhost, rpm_sourcerpm, rpm_header_start, rpm_header_end,
  rpm_packager, size_package, size_installed, size_archive,
  location_href, location_base, checksum_type
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const sqlInsertPrimaryFile = `INSERT INTO files (name, type, pkgKey) VALUES (?, ?, ?)`

func depInsertSQL(table string) string {
	if table == "requires" {
		return fmt.Sprintf(
			`INSERT INTO %s (name, flags, epoch, version, release, pkgKey, pre) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			table)
	}
	return fmt.Sprintf(
		`INSERT INTO %s (name, flags, epoch, version, release, pkgKey) VALUES (?, ?, ?, ?, ?, ?)`,
		table)
}

// primaryWriter holds the prepared insert statements for the primary schema:
// one packages row, N dependency rows per list, and one files row per file.
type primaryWriter struct {
	log logFunc

	pkgStmt       *sql.Stmt
	fileStmt      *sql.Stmt
	requiresStmt  *sql.Stmt
	providesStmt  *sql.Stmt
	conflictsStmt *sql.Stmt
	obsoletesStmt *sql.Stmt
}

func newPrimaryWriter(tx *sql.Tx, log logFunc) (packageWriter, error) {
	w := &primaryWriter{log: log}
	var err error

	if w.pkgStmt, err = tx.Prepare(sqlInsertPrimaryPackage); err != nil {
		return nil, newDatabaseError("prepare packages insert", err)
	}
	if w.fileStmt, err = tx.Prepare(sqlInsertPrimaryFile); err != nil {
		return nil, newDatabaseError("prepare files insert", err)
	}
	if w.requiresStmt, err = tx.Prepare(depInsertSQL("requires")); err != nil {
		return nil, newDatabaseError("prepare requires insert", err)
	}
	if w.providesStmt, err = tx.Prepare(depInsertSQL("provides")); err != nil {
		return nil, newDatabaseError("prepare provides insert", err)
	}
	if w.conflictsStmt, err = tx.Prepare(depInsertSQL("conflicts")); err != nil {
		return nil, newDatabaseError("prepare conflicts insert", err)
	}
	if w.obsoletesStmt, err = tx.Prepare(depInsertSQL("obsoletes")); err != nil {
		return nil, newDatabaseError("prepare obsoletes insert", err)
	}

	return w, nil
}

func (w *primaryWriter) WritePackage(p *Package) (bool, error) {
	res, err := w.pkgStmt.Exec(
		p.PkgID, p.Name, p.Arch, p.Version, p.Epoch, p.Release, p.Summary, p.Description,
		p.URL, p.TimeFile, p.TimeBuild, p.RPMLicense, p.RPMVendor, p.RPMGroup,
		p.RPMBuildhost, p.RPMSourceRPM, p.RPMHeaderStart, p.RPMHeaderEnd,
		p.RPMPackager, p.SizePackage, p.SizeInstalled, p.SizeArchive,
		p.LocationHref, p.LocationBase, p.ChecksumType,
	)
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

	writeDeps(w.log, w.requiresStmt, pkgKey, p.Requires, true)
	writeDeps(w.log, w.providesStmt, pkgKey, p.Provides, false)
	writeDeps(w.log, w.conflictsStmt, pkgKey, p.Conflicts, false)
	writeDeps(w.log, w.obsoletesStmt, pkgKey, p.Obsoletes, false)

	for _, f := range p.Files {
		if _, err := w.fileStmt.Exec(f.Name, string(f.Type), pkgKey); err != nil {
			w.log(LogLevelError, "error adding file %q to SQL: %v", f.Name, err)
		}
	}

	return true, nil
}

// writeDeps writes one row per dependency. "pre" is stored as the text
// literals "TRUE"/"FALSE" for historical compatibility with existing
// readers of this schema (spec.md §4.2, §9), and is only bound at all for
// the requires table. A single row's insert failing is a RowError (spec.md
// §7): log it and keep going rather than aborting the rest of the package.
func writeDeps(log logFunc, stmt *sql.Stmt, pkgKey int64, deps []Dependency, isRequires bool) {
	for _, d := range deps {
		var err error
		if isRequires {
			pre := "FALSE"
			if d.Pre {
				pre = "TRUE"
			}
			_, err = stmt.Exec(d.Name, string(d.Flags), d.Epoch, d.Version, d.Release, pkgKey, pre)
		} else {
			_, err = stmt.Exec(d.Name, string(d.Flags), d.Epoch, d.Version, d.Release, pkgKey)
		}
		if err != nil {
			log(LogLevelError, "error adding dependency %q to SQL: %v", d.Name, err)
		}
	}
}

func (w *primaryWriter) Close() error {
	for _, s := range []*sql.Stmt{w.pkgStmt, w.fileStmt, w.requiresStmt, w.providesStmt, w.conflictsStmt, w.obsoletesStmt} {
		if s != nil {
			s.Close()
		}
	}
	return nil
}

var primarySchema = cacheSchema{
	name:          "primary",
	createTables:  primaryCreateTables,
	createIndices: primaryCreateIndices,
	newWriter:     newPrimaryWriter,
}
