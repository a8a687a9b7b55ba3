package yum

import (
	"database/sql"
	"path"
	"strings"
)

const sqlCreateFilelistsPackages = `CREATE TABLE packages (
  pkgKey INTEGER PRIMARY KEY,
  pkgId TEXT)`

const sqlCreateFilelistsFilelist = `CREATE TABLE filelist (
  pkgKey INTEGER,
  dirname TEXT,
  filenames TEXT,
  filetypes TEXT)`

const sqlCreateFilelistsTrigger = `CREATE TRIGGER remove_filelist AFTER DELETE ON packages
  BEGIN
    DELETE FROM filelist WHERE pkgKey = old.pkgKey;
  END`

func filelistsCreateTables(db *sql.DB) error {
	return execAll(db, sqlCreateFilelistsPackages, sqlCreateFilelistsFilelist, sqlCreateFilelistsTrigger)
}

func filelistsCreateIndices(db *sql.DB) error {
	return execAll(db,
		`CREATE INDEX keyfile ON filelist (pkgKey)`,
		`CREATE INDEX pkgId ON packages (pkgId)`,
		`CREATE INDEX dirnames ON filelist (dirname)`,
	)
}

const sqlInsertFilelistsPackage = `INSERT INTO packages (pkgId) VALUES (?)`
const sqlInsertFilelist = `INSERT INTO filelist (pkgKey, dirname, filenames, filetypes) VALUES (?, ?, ?, ?)`

// filetypeCode maps a PackageFile's type to the single-character code used
// in an encoded filetypes string.
func filetypeCode(t FileType) byte {
	switch t {
	case FileTypeDir:
		return 'd'
	case FileTypeGhost:
		return 'g'
	default:
		return 'f'
	}
}

// filelistGroup is one (dirname, filenames, filetypes) row of the encoded
// filelists schema: filenames is a '/'-separated, insertion-ordered join of
// basenames, and filetypes is a parallel one-character-per-basename string.
type filelistGroup struct {
	dirname   string
	filenames strings.Builder
	filetypes strings.Builder
}

// encodeFiles groups pkg's files by directory name and builds the encoded
// (filenames, filetypes) pair for each directory, preserving both the
// insertion order of files within a directory and the order directories
// were first seen — the latter keeps cache output deterministic even though
// it is not a spec requirement.
func encodeFiles(files []PackageFile) []*filelistGroup {
	index := make(map[string]*filelistGroup)
	var order []*filelistGroup

	for _, f := range files {
		dir := path.Dir(f.Name)
		base := path.Base(f.Name)

		g, ok := index[dir]
		if !ok {
			g = &filelistGroup{dirname: dir}
			index[dir] = g
			order = append(order, g)
		}

		if g.filenames.Len() > 0 {
			g.filenames.WriteByte('/')
		}
		g.filenames.WriteString(base)
		g.filetypes.WriteByte(filetypeCode(f.Type))
	}

	return order
}

type filelistsWriter struct {
	log logFunc

	pkgStmt  *sql.Stmt
	fileStmt *sql.Stmt
}

func newFilelistsWriter(tx *sql.Tx, log logFunc) (packageWriter, error) {
	w := &filelistsWriter{log: log}
	var err error

	if w.pkgStmt, err = tx.Prepare(sqlInsertFilelistsPackage); err != nil {
		return nil, newDatabaseError("prepare filelists packages insert", err)
	}
	if w.fileStmt, err = tx.Prepare(sqlInsertFilelist); err != nil {
		return nil, newDatabaseError("prepare filelist insert", err)
	}

	return w, nil
}

func (w *filelistsWriter) WritePackage(p *Package) (bool, error) {
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

	for _, g := range encodeFiles(p.Files) {
		if _, err := w.fileStmt.Exec(pkgKey, g.dirname, g.filenames.String(), g.filetypes.String()); err != nil {
			w.log(LogLevelError, "error adding filelist row for dir %q: %v", g.dirname, err)
		}
	}

	return true, nil
}

func (w *filelistsWriter) Close() error {
	if w.pkgStmt != nil {
		w.pkgStmt.Close()
	}
	if w.fileStmt != nil {
		w.fileStmt.Close()
	}
	return nil
}

var filelistsSchema = cacheSchema{
	name:          "filelists",
	createTables:  filelistsCreateTables,
	createIndices: filelistsCreateIndices,
	newWriter:     newFilelistsWriter,
}
