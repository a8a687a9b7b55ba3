package yum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const primaryDoc = `<?xml version="1.0" encoding="UTF-8"?>
<metadata xmlns="http://linux.duke.edu/metadata/common" xmlns:rpm="http://linux.duke.edu/metadata/rpm" packages="1">
  <package type="rpm">
    <name>bash</name>
    <arch>x86_64</arch>
    <version epoch="0" ver="5.1" rel="1"/>
    <checksum type="sha256" pkgid="YES">abc123</checksum>
    <summary>The GNU Bourne Again shell</summary>
    <description>Bash is the shell.</description>
    <packager>Fedora Project</packager>
    <url>https://www.gnu.org/software/bash</url>
    <time file="1600000000" build="1599999999"/>
    <size package="1000" installed="4000" archive="4096"/>
    <location href="Packages/bash-5.1-1.x86_64.rpm"/>
    <format>
      <rpm:license>GPLv3+</rpm:license>
      <rpm:vendor>Fedora Project</rpm:vendor>
      <rpm:group>System Environment/Shells</rpm:group>
      <rpm:buildhost>build.example.com</rpm:buildhost>
      <rpm:sourcerpm>bash-5.1-1.src.rpm</rpm:sourcerpm>
      <rpm:header-range start="280" end="3000"/>
      <rpm:provides>
        <rpm:entry name="bash" flags="EQ" epoch="0" ver="5.1" rel="1"/>
        <rpm:entry name="/bin/sh"/>
        <rpm:entry name="rpmlib(CompressedFileNames)" flags="LE" epoch="0" ver="3.0.4" rel="1"/>
      </rpm:provides>
      <rpm:requires>
        <rpm:entry name="rpmlib(PayloadIsXz)" flags="LE" epoch="0" ver="5.2" rel="1" pre="1"/>
        <rpm:entry name="libc.so.6" pre="1"/>
        <rpm:entry name="glibc"/>
      </rpm:requires>
      <file type="dir">/etc</file>
      <file>/etc/skel/.bash_profile</file>
    </format>
  </package>
</metadata>`

func TestPrimaryParserBuildsPackage(t *testing.T) {
	var got []*Package
	p := newPrimaryParser(func(pkg *Package) error {
		got = append(got, pkg)
		return nil
	})

	cfg := parseConfig{log: func(LogLevel, string, ...interface{}) {}}
	err := runSAX(strings.NewReader(primaryDoc), "primary.xml", p, cfg)
	require.NoError(t, err)
	require.Len(t, got, 1)

	pkg := got[0]
	require.Equal(t, "bash", pkg.Name)
	require.Equal(t, "x86_64", pkg.Arch)
	require.Equal(t, "abc123", pkg.PkgID)
	require.Equal(t, "sha256", pkg.ChecksumType)
	require.Equal(t, "5.1", pkg.Version)
	require.Equal(t, int64(1600000000), pkg.TimeFile)
	require.Equal(t, int64(4096), pkg.SizeArchive)
	require.Equal(t, "GPLv3+", pkg.RPMLicense)
	require.Equal(t, int64(280), pkg.RPMHeaderStart)
	require.Equal(t, int64(3000), pkg.RPMHeaderEnd)

	// rpmlib( entries are filtered out of every dependency list, not just requires.
	// Entries are prepended while parsing, so lists are in reverse document order.
	require.Len(t, pkg.Provides, 2)
	require.Equal(t, "/bin/sh", pkg.Provides[0].Name)
	require.Equal(t, "bash", pkg.Provides[1].Name)

	require.Len(t, pkg.Requires, 2)
	require.Equal(t, "glibc", pkg.Requires[0].Name)
	require.False(t, pkg.Requires[0].Pre)
	require.Equal(t, "libc.so.6", pkg.Requires[1].Name)
	require.True(t, pkg.Requires[1].Pre)

	require.Len(t, pkg.Files, 2)
	require.Equal(t, FileTypeDir, pkg.Files[1].Type)
	require.Equal(t, "/etc", pkg.Files[1].Name)
	require.Equal(t, FileTypeFile, pkg.Files[0].Type)
}

func TestPrimaryParserReportsDeclaredCount(t *testing.T) {
	p := newPrimaryParser(func(*Package) error { return nil })
	var lastCur, lastTotal uint32
	cfg := parseConfig{
		log: func(LogLevel, string, ...interface{}) {},
		progress: func(cur, total uint32) {
			lastCur, lastTotal = cur, total
		},
	}
	err := runSAX(strings.NewReader(primaryDoc), "primary.xml", p, cfg)
	require.NoError(t, err)
	require.Equal(t, uint32(1), lastCur)
	require.Equal(t, uint32(1), lastTotal)
}

func TestPrimaryParserMalformedXMLIsFatal(t *testing.T) {
	p := newPrimaryParser(func(*Package) error { return nil })
	cfg := parseConfig{log: func(LogLevel, string, ...interface{}) {}}
	err := runSAX(strings.NewReader(`<metadata packages="1"><package>`), "primary.xml", p, cfg)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
