package yum

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenCacheCreatesFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primary.sqlite")

	res, err := openCache(path, "sum1", primarySchema)
	require.NoError(t, err)
	require.False(t, res.shortCircuit)
	require.NotNil(t, res.db)
	defer res.db.Close()

	require.NoError(t, writeDBInfo(res.db, "sum1"))

	var version int
	var checksum string
	require.NoError(t, res.db.QueryRow(`SELECT dbversion, checksum FROM db_info`).Scan(&version, &checksum))
	require.Equal(t, dbVersion, version)
	require.Equal(t, "sum1", checksum)
}

func TestOpenCacheShortCircuitsOnMatchingChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primary.sqlite")

	res, err := openCache(path, "sum1", primarySchema)
	require.NoError(t, err)
	require.NoError(t, writeDBInfo(res.db, "sum1"))
	require.NoError(t, res.db.Close())

	res2, err := openCache(path, "sum1", primarySchema)
	require.NoError(t, err)
	require.True(t, res2.shortCircuit)
}

func TestOpenCacheRebuildsOnChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primary.sqlite")

	res, err := openCache(path, "sum1", primarySchema)
	require.NoError(t, err)
	require.NoError(t, writeDBInfo(res.db, "sum1"))

	tx, err := res.db.Begin()
	require.NoError(t, err)
	writer, err := newPrimaryWriter(tx, noopLog)
	require.NoError(t, err)
	pkg := newPackage()
	pkg.PkgID = "abc123"
	inserted, err := writer.WritePackage(pkg)
	require.NoError(t, err)
	require.True(t, inserted)
	require.NoError(t, writer.Close())
	require.NoError(t, tx.Commit())
	pkg.free()
	require.NoError(t, res.db.Close())

	res2, err := openCache(path, "sum2", primarySchema)
	require.NoError(t, err)
	require.False(t, res2.shortCircuit)
	defer res2.db.Close()

	var count int
	require.NoError(t, res2.db.QueryRow(`SELECT COUNT(*) FROM packages`).Scan(&count))
	require.Equal(t, 0, count, "rebuild must discard the previous cache contents")
}

func TestOpenCacheRebuildsOnVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primary.sqlite")

	res, err := openCache(path, "sum1", primarySchema)
	require.NoError(t, err)
	_, err = res.db.Exec(`INSERT INTO db_info (dbversion, checksum) VALUES (?, ?)`, dbVersion-1, "sum1")
	require.NoError(t, err)
	require.NoError(t, res.db.Close())

	res2, err := openCache(path, "sum1", primarySchema)
	require.NoError(t, err)
	require.False(t, res2.shortCircuit)
	res2.db.Close()
}
