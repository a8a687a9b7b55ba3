package yum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrependDependencyBuildsReverseParseOrder(t *testing.T) {
	var deps []Dependency
	prependDependency(&deps, Dependency{Name: "a"})
	prependDependency(&deps, Dependency{Name: "b"})
	prependDependency(&deps, Dependency{Name: "c"})

	require.Len(t, deps, 3)
	assert.Equal(t, "c", deps[0].Name)
	assert.Equal(t, "b", deps[1].Name)
	assert.Equal(t, "a", deps[2].Name)
}

func TestPrependChangelogThenReverseRestoresSourceOrder(t *testing.T) {
	p := newPackage()
	defer p.free()

	p.prependChangelog(ChangelogEntry{Author: "first"})
	p.prependChangelog(ChangelogEntry{Author: "second"})
	p.prependChangelog(ChangelogEntry{Author: "third"})

	p.reverseChangelogs()

	require.Len(t, p.Changelogs, 3)
	assert.Equal(t, "first", p.Changelogs[0].Author)
	assert.Equal(t, "second", p.Changelogs[1].Author)
	assert.Equal(t, "third", p.Changelogs[2].Author)
}

func TestPackageInternCopiesIntoOwnArena(t *testing.T) {
	p := newPackage()
	defer p.free()

	name := p.intern("glibc")
	assert.Equal(t, "glibc", name)
}

func TestPrependFileKeepsInsertionOrderReversed(t *testing.T) {
	p := newPackage()
	defer p.free()

	p.prependFile(PackageFile{Name: "/a"})
	p.prependFile(PackageFile{Name: "/b"})

	require.Len(t, p.Files, 2)
	assert.Equal(t, "/b", p.Files[0].Name)
	assert.Equal(t, "/a", p.Files[1].Name)
}
