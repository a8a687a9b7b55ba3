package yum

import (
	"database/sql"
	"errors"
	"os"
	"time"
)

// updateOptions carries every host-supplied hook for a single update call.
type updateOptions struct {
	log      LogSink
	progress ProgressSink
	token    any
	recorder *Recorder
}

// parserFactory builds the state machine for one document type, wired to
// call emit once per completed <package>.
type parserFactory func(emit func(*Package) error) saxHandler

// runUpdate is the single generic orchestration template behind
// UpdatePrimary, UpdateFilelist and UpdateOther: open-or-short-circuit the
// cache, stream the document through the matching parser inside one
// transaction, reconcile deletions against what the document no longer
// mentions, refresh db_info, and report a summary (spec.md §4.6).
func runUpdate(mdFilename, checksum, mdType string, schema cacheSchema, factory parserFactory, opts updateOptions) (resultPath string, resultErr error) {
	lg := newLogger(opts.log)
	path := cacheFilename(mdFilename)

	res, err := openCache(path, checksum, schema)
	if err != nil {
		return "", err
	}
	if res.shortCircuit {
		lg.log(LogLevelInfo, "%s: cache is up to date, skipping", mdType)
		return path, nil
	}
	db := res.db

	// A fatal ParseError or DatabaseError from here on leaves the cache
	// file half-written; spec.md §7/§9 require it be unlinked so the next
	// invocation rebuilds from scratch rather than finding a stale partial
	// cache. db.Close() must run first (declared after, so it fires first
	// on unwind), then the file is removed if resultErr is non-nil.
	defer func() {
		if resultErr != nil {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				lg.log(LogLevelError, "%s: could not remove cache after failed update: %v", mdType, rmErr)
			}
		}
	}()
	defer db.Close()

	current, err := loadCurrentPackages(db)
	if err != nil {
		return "", err
	}
	observed := make(map[string]struct{}, len(current))

	start := time.Now()

	f, err := os.Open(mdFilename)
	if err != nil {
		return "", &ParseError{MDType: mdType, Err: err}
	}
	defer f.Close()

	tx, err := db.Begin()
	if err != nil {
		return "", newDatabaseError("begin transaction", err)
	}
	writer, err := schema.newWriter(tx, lg.log)
	if err != nil {
		tx.Rollback()
		return "", err
	}

	var added uint32
	emit := func(pkg *Package) error {
		defer pkg.free()

		if pkg.PkgID == "" {
			lg.log(LogLevelWarning, "%s: package %q has no pkgid, skipped", mdType, pkg.Name)
			return nil
		}
		observed[pkg.PkgID] = struct{}{}
		if _, exists := current[pkg.PkgID]; exists {
			return nil // untouched: already present in the cache under this id
		}
		inserted, err := writer.WritePackage(pkg)
		if err != nil {
			return err
		}
		if inserted {
			added++
		}
		return nil
	}

	parser := factory(emit)
	cfg := parseConfig{
		log: lg.log,
		progress: func(cur, total uint32) {
			if opts.progress != nil {
				opts.progress(cur, total, opts.token)
			}
		},
	}

	if err := runSAX(f, mdType, parser, cfg); err != nil {
		writer.Close()
		tx.Rollback()
		return "", err
	}

	writer.Close()
	if err := tx.Commit(); err != nil {
		return "", newDatabaseError("commit transaction", err)
	}

	if err := schema.createIndices(db); err != nil {
		return "", newDatabaseError("create "+schema.name+" indices", err)
	}

	deleted, err := reconcileDeletions(db, current, observed, lg.log)
	if err != nil {
		return "", err
	}

	if err := writeDBInfo(db, checksum); err != nil {
		return "", err
	}

	elapsed := time.Since(start)
	lg.log(LogLevelInfo, "%s: added %d new, deleted %d old in %.2f seconds", mdType, added, deleted, elapsed.Seconds())
	opts.recorder.observe(mdType, added, deleted, elapsed.Seconds())

	return path, nil
}

// loadCurrentPackages reads the cache's existing pkgId -> pkgKey mapping.
// Every schema created by openCache shares the same packages(pkgKey, pkgId)
// shape, so this is schema-agnostic.
func loadCurrentPackages(db *sql.DB) (map[string]int64, error) {
	rows, err := db.Query(`SELECT pkgId, pkgKey FROM packages`)
	if err != nil {
		return nil, newDatabaseError("read current packages", err)
	}
	defer rows.Close()

	current := make(map[string]int64)
	for rows.Next() {
		var pkgID string
		var pkgKey int64
		if err := rows.Scan(&pkgID, &pkgKey); err != nil {
			return nil, newDatabaseError("scan current package row", err)
		}
		current[pkgID] = pkgKey
	}
	return current, newDatabaseError("iterate current packages", rows.Err())
}

// reconcileDeletions removes every row of current whose pkgId was not seen
// in observed, relying on each schema's own DELETE trigger to cascade into
// that package's child rows. A single delete step failing is a RowError
// (spec.md §7): log it and keep reconciling the rest rather than aborting
// the whole update, and count only the deletions that actually happened.
func reconcileDeletions(db *sql.DB, current map[string]int64, observed map[string]struct{}, log logFunc) (uint32, error) {
	stmt, err := db.Prepare(`DELETE FROM packages WHERE pkgKey = ?`)
	if err != nil {
		return 0, newDatabaseError("prepare delete", err)
	}
	defer stmt.Close()

	var deleted uint32
	for pkgID, pkgKey := range current {
		if _, ok := observed[pkgID]; ok {
			continue
		}
		if _, err := stmt.Exec(pkgKey); err != nil {
			log(LogLevelError, "error deleting stale package (pkgKey=%d): %v", pkgKey, err)
			continue
		}
		deleted++
	}
	return deleted, nil
}
