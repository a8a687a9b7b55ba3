package yum

// DepFlag is a version-comparison operator attached to a Dependency.
type DepFlag string

// Dependency comparison flags, matching the `flags` attribute of an
// `<rpm:entry>` element.
const (
	DepFlagEQ DepFlag = "EQ"
	DepFlagLT DepFlag = "LT"
	DepFlagLE DepFlag = "LE"
	DepFlagGT DepFlag = "GT"
	DepFlagGE DepFlag = "GE"
)

// FileType classifies a PackageFile entry.
type FileType string

// File type names stored in the primary `files` table; filetypeCode maps
// each to the single-character code of the filelists schema's encoded
// `filetypes`.
const (
	FileTypeFile  FileType = "file"
	FileTypeDir   FileType = "dir"
	FileTypeGhost FileType = "ghost"
)

// Dependency is one requires/provides/conflicts/obsoletes entry of a
// Package. All string fields are arena-owned and only valid for the
// lifetime of the Package that produced them.
type Dependency struct {
	Name    string
	Flags   DepFlag
	Epoch   string
	Version string
	Release string
	Pre     bool // meaningful only within Package.Requires
}

// PackageFile is a single file or directory entry belonging to a Package.
type PackageFile struct {
	Name string
	Type FileType
}

// ChangelogEntry is one changelog record of a Package, in source order.
type ChangelogEntry struct {
	Author    string
	Date      int64
	Changelog string
}

// Package is a single RPM package as described by a repository's metadata
// documents. A Package is built up incrementally by a parser across nested
// start/end/character events and is handed, fully populated, to exactly one
// updater callback before being discarded.
//
// Every string field is backed by the Package's own arena; the Package must
// not outlive the callback invocation that receives it, and the storage
// layer must copy every string into bound statement values before that
// callback returns.
type Package struct {
	chunk *arena

	// PkgKey is assigned by the storage layer at insert time and is zero
	// until then.
	PkgKey int64
	// PkgID is the content-hash identity of the package within a single
	// input document (typically 40 hex characters). It is the cache's
	// logical key; PkgKey is only a storage-layer convenience.
	PkgID string

	Name    string
	Arch    string
	Epoch   string
	Version string
	Release string

	Summary      string
	Description  string
	URL          string
	ChecksumType string

	RPMLicense     string
	RPMVendor      string
	RPMGroup       string
	RPMBuildhost   string
	RPMSourceRPM   string
	RPMPackager    string
	RPMHeaderStart int64
	RPMHeaderEnd   int64

	TimeFile  int64
	TimeBuild int64

	SizePackage   int64
	SizeInstalled int64
	SizeArchive   int64

	LocationHref string
	LocationBase string

	Requires  []Dependency
	Provides  []Dependency
	Conflicts []Dependency
	Obsoletes []Dependency

	Files      []PackageFile
	Changelogs []ChangelogEntry
}

// newPackage allocates a Package with its own arena. Call free when done
// with it (normally right after the updater callback returns).
func newPackage() *Package {
	return &Package{chunk: newArena(defaultArenaSize)}
}

// free releases the package's arena. The Package must not be used
// afterwards.
func (p *Package) free() {
	p.chunk = nil
}

// intern copies s into the package's arena.
func (p *Package) intern(s string) string {
	return p.chunk.insert(s)
}

// internBytes copies b into the package's arena.
func (p *Package) internBytes(b []byte) string {
	return p.chunk.insertBytes(b)
}

// prependFile inserts f at the head of p.Files, matching the prepend
// convention the parsers use for every list; only changelogs are reversed
// afterwards (files are never reversed since order is not a spec invariant
// for them, but the prepend keeps the same allocation shape).
func (p *Package) prependFile(f PackageFile) {
	p.Files = append(p.Files, PackageFile{})
	copy(p.Files[1:], p.Files)
	p.Files[0] = f
}

// prependDependency inserts d at the head of the named list. The primary
// parser builds requires/provides/conflicts/obsoletes by prepending as it
// walks <rpm:entry> children document order does not matter for
// dependencies so no reversal is needed afterward.
func prependDependency(list *[]Dependency, d Dependency) {
	*list = append(*list, Dependency{})
	copy((*list)[1:], *list)
	(*list)[0] = d
}

// prependChangelog inserts c at the head of p.Changelogs. The other.xml
// parser prepends while parsing and must reverse once the package closes so
// that changelog rows end up in source (earliest-first) order.
func (p *Package) prependChangelog(c ChangelogEntry) {
	p.Changelogs = append(p.Changelogs, ChangelogEntry{})
	copy(p.Changelogs[1:], p.Changelogs)
	p.Changelogs[0] = c
}

// reverseChangelogs reverses p.Changelogs in place.
func (p *Package) reverseChangelogs() {
	for i, j := 0, len(p.Changelogs)-1; i < j; i, j = i+1, j-1 {
		p.Changelogs[i], p.Changelogs[j] = p.Changelogs[j], p.Changelogs[i]
	}
}
