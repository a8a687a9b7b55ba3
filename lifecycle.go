package yum

import (
	"database/sql"
	"errors"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// dbVersion is the compile-time schema version written to db_info. A cache
// whose stored version differs is always discarded and rebuilt; this
// package never migrates an existing cache in place (spec.md §1 Non-goals).
const dbVersion = 10

type dbStatus int

const (
	dbStatusOK dbStatus = iota
	dbStatusVersionMismatch
	dbStatusChecksumMismatch
	dbStatusError
)

// cacheFilename is the on-disk path of the cache database for a given
// metadata document path.
func cacheFilename(mdFilename string) string {
	return mdFilename + ".sqlite"
}

func createDBInfoTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE db_info (dbversion INTEGER, checksum TEXT)`)
	return newDatabaseError("create db_info table", err)
}

// readDBInfoStatus inspects an existing cache's db_info row against the
// checksum the caller is updating with, per spec.md §4.3's decision table.
func readDBInfoStatus(db *sql.DB, checksum string) dbStatus {
	row := db.QueryRow(`SELECT dbversion, checksum FROM db_info`)

	var version int
	var stored string
	if err := row.Scan(&version, &stored); err != nil {
		return dbStatusError
	}

	if version != dbVersion {
		return dbStatusVersionMismatch
	}
	if stored != checksum {
		return dbStatusChecksumMismatch
	}
	return dbStatusOK
}

// openResult describes the outcome of openCache.
type openResult struct {
	db           *sql.DB
	shortCircuit bool // cache already matches checksum/version; nothing to do
}

// openCache implements the cache lifecycle decision procedure of spec.md
// §4.3: missing file or stale db_info triggers a fresh create (discarding
// any previous file); a matching db_info short-circuits the whole update.
// The legacy in-place "update on checksum mismatch" path described in
// spec.md §9 is deliberately not implemented — every mismatch rebuilds.
func openCache(path string, checksum string, schema cacheSchema) (*openResult, error) {
	existed := fileExists(path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		os.Remove(path)
		db, err = sql.Open("sqlite3", path)
		if err != nil {
			return nil, newDatabaseError("open cache database", err)
		}
		existed = false
	}

	if existed {
		status := readDBInfoStatus(db, checksum)
		switch status {
		case dbStatusOK:
			db.Close()
			return &openResult{shortCircuit: true}, nil
		case dbStatusVersionMismatch, dbStatusChecksumMismatch, dbStatusError:
			db.Close()
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, newDatabaseError("remove stale cache", err)
			}
			db, err = sql.Open("sqlite3", path)
			if err != nil {
				return nil, newDatabaseError("reopen cache database", err)
			}
		}
	}

	if err := createDBInfoTable(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := schema.createTables(db); err != nil {
		db.Close()
		return nil, newDatabaseError("create "+schema.name+" schema", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous = 0`); err != nil {
		db.Close()
		return nil, newDatabaseError("set synchronous pragma", err)
	}

	return &openResult{db: db}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeDBInfo records the schema version and the checksum this update ran
// with. It is the cache's freshness key for the next invocation.
func writeDBInfo(db *sql.DB, checksum string) error {
	if _, err := db.Exec(`DELETE FROM db_info`); err != nil {
		return newDatabaseError("clear db_info", err)
	}
	if _, err := db.Exec(`INSERT INTO db_info (dbversion, checksum) VALUES (?, ?)`, dbVersion, checksum); err != nil {
		return newDatabaseError("write db_info", err)
	}
	return nil
}
