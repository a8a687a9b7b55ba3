package yum

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempXML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func primaryDocWith(pkgID, name string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<metadata xmlns="http://linux.duke.edu/metadata/common" xmlns:rpm="http://linux.duke.edu/metadata/rpm" packages="1">
  <package type="rpm">
    <name>` + name + `</name>
    <arch>x86_64</arch>
    <version epoch="0" ver="1.0" rel="1"/>
    <checksum type="sha256" pkgid="YES">` + pkgID + `</checksum>
    <summary>s</summary>
    <description>d</description>
    <packager>p</packager>
    <url>u</url>
    <time file="1" build="1"/>
    <size package="1" installed="1" archive="1"/>
    <location href="p.rpm"/>
    <format>
      <rpm:header-range start="0" end="0"/>
    </format>
  </package>
</metadata>`
}

func countRows(t *testing.T, path, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestUpdatePrimaryCreatesCacheFromEmpty(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeTempXML(t, dir, "primary.xml", primaryDocWith("pkg1", "bash"))

	cachePath, err := UpdatePrimary(xmlPath, "checksum-1")
	require.NoError(t, err)
	require.Equal(t, xmlPath+".sqlite", cachePath)
	require.Equal(t, 1, countRows(t, cachePath, "packages"))
}

func TestUpdatePrimaryShortCircuitsOnUnchangedChecksum(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeTempXML(t, dir, "primary.xml", primaryDocWith("pkg1", "bash"))

	cachePath, err := UpdatePrimary(xmlPath, "checksum-1")
	require.NoError(t, err)

	// Mutate the XML without changing the checksum passed in: a second call
	// must not observe the new package, proving it short-circuited.
	writeTempXML(t, dir, "primary.xml", primaryDocWith("pkg2", "zsh"))
	_, err = UpdatePrimary(xmlPath, "checksum-1")
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, cachePath, "packages"))

	var name string
	db, err := sql.Open("sqlite3", cachePath)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.QueryRow(`SELECT name FROM packages`).Scan(&name))
	require.Equal(t, "bash", name)
}

func TestUpdatePrimaryReconcilesAddAndDelete(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeTempXML(t, dir, "primary.xml", primaryDocWith("pkg1", "bash"))

	cachePath, err := UpdatePrimary(xmlPath, "checksum-1")
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, cachePath, "packages"))

	writeTempXML(t, dir, "primary.xml", primaryDocWith("pkg2", "zsh"))
	_, err = UpdatePrimary(xmlPath, "checksum-2")
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, cachePath, "packages"))

	var name string
	db, err := sql.Open("sqlite3", cachePath)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.QueryRow(`SELECT name FROM packages`).Scan(&name))
	require.Equal(t, "zsh", name, "stale package must be replaced by the newly observed one")
}

func TestUpdatePrimaryReportsProgress(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeTempXML(t, dir, "primary.xml", primaryDocWith("pkg1", "bash"))

	var gotCur, gotTotal uint32
	var gotToken any
	_, err := UpdatePrimary(xmlPath, "checksum-1",
		WithProgress(func(cur, total uint32, token any) {
			gotCur, gotTotal, gotToken = cur, total, token
		}, "token-value"),
	)
	require.NoError(t, err)
	require.Equal(t, uint32(1), gotCur)
	require.Equal(t, uint32(1), gotTotal)
	require.Equal(t, "token-value", gotToken)
}

func TestUpdatePrimaryRemovesCacheOnParseFailure(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeTempXML(t, dir, "primary.xml", `<metadata packages="1"><package>`)

	cachePath, err := UpdatePrimary(xmlPath, "checksum-1")
	require.Error(t, err)
	require.Empty(t, cachePath)

	_, statErr := os.Stat(xmlPath + ".sqlite")
	require.True(t, os.IsNotExist(statErr), "a failed update must not leave a half-written cache behind")
}

func TestUpdatePrimaryLogSinkReceivesSummary(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeTempXML(t, dir, "primary.xml", primaryDocWith("pkg1", "bash"))

	var messages []string
	_, err := UpdatePrimary(xmlPath, "checksum-1", WithLogSink(func(level LogLevel, msg string) {
		messages = append(messages, msg)
	}))
	require.NoError(t, err)
	require.NotEmpty(t, messages)
}
