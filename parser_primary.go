package yum

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// primaryState is the primary.xml parser's state, mirroring
// PrimarySAXContextState in the original xml-parser.c.
type primaryState int

const (
	primaryStateToplevel primaryState = iota
	primaryStatePackage
	primaryStateFormat
	primaryStateDep
)

// primaryDepList names which of a package's four dependency lists is
// currently being filled while in primaryStateDep.
type primaryDepList int

const (
	depNone primaryDepList = iota
	depRequires
	depProvides
	depConflicts
	depObsoletes
)

// rpmlibPrefix is filtered out of every dependency list (requires, provides,
// conflicts, obsoletes): it names a feature the package manager itself
// provides, never a real package dependency (xml-parser.c:
// primary_parser_dep_start, the rpmlib( prefix check applied unconditionally
// of ctx->current_dep_list).
const rpmlibPrefix = "rpmlib("

// primaryParser implements saxHandler for primary.xml.
type primaryParser struct {
	state primaryState
	dep   primaryDepList

	count uint32
	pkg   *Package
	emit  func(*Package) error

	curFileType FileType
}

func newPrimaryParser(emit func(*Package) error) *primaryParser {
	return &primaryParser{emit: emit}
}

func (p *primaryParser) total() uint32 { return p.count }

func (p *primaryParser) start(name string, attrs []xml.Attr) error {
	switch p.state {
	case primaryStateToplevel:
		switch name {
		case "metadata":
			p.count = parseCount(attrs)
		case "package":
			p.pkg = newPackage()
			p.state = primaryStatePackage
		}

	case primaryStatePackage:
		switch name {
		case "version":
			p.pkg.Epoch = p.pkg.intern(parseAttr(attrs, "epoch"))
			p.pkg.Version = p.pkg.intern(parseAttr(attrs, "ver"))
			p.pkg.Release = p.pkg.intern(parseAttr(attrs, "rel"))
		case "checksum":
			p.pkg.ChecksumType = p.pkg.intern(parseAttr(attrs, "type"))
		case "time":
			p.pkg.TimeFile = parseInt64(parseAttr(attrs, "file"))
			p.pkg.TimeBuild = parseInt64(parseAttr(attrs, "build"))
		case "size":
			p.pkg.SizePackage = parseInt64(parseAttr(attrs, "package"))
			p.pkg.SizeInstalled = parseInt64(parseAttr(attrs, "installed"))
			p.pkg.SizeArchive = parseInt64(parseAttr(attrs, "archive"))
		case "location":
			p.pkg.LocationHref = p.pkg.intern(parseAttr(attrs, "href"))
			p.pkg.LocationBase = p.pkg.intern(parseAttr(attrs, "base"))
		case "format":
			p.state = primaryStateFormat
		}

	case primaryStateFormat:
		switch name {
		case "header-range":
			p.pkg.RPMHeaderStart = parseInt64(parseAttr(attrs, "start"))
			p.pkg.RPMHeaderEnd = parseInt64(parseAttr(attrs, "end"))
		case "provides":
			p.dep = depProvides
			p.state = primaryStateDep
		case "requires":
			p.dep = depRequires
			p.state = primaryStateDep
		case "conflicts":
			p.dep = depConflicts
			p.state = primaryStateDep
		case "obsoletes":
			p.dep = depObsoletes
			p.state = primaryStateDep
		case "file":
			p.curFileType = FileTypeFile
			if t := parseAttr(attrs, "type"); t != "" {
				p.curFileType = FileType(t)
			}
		}

	case primaryStateDep:
		if name == "entry" {
			p.addDepEntry(attrs)
		}
	}

	return nil
}

func (p *primaryParser) addDepEntry(attrs []xml.Attr) {
	name := parseAttr(attrs, "name")
	if strings.HasPrefix(name, rpmlibPrefix) {
		return
	}

	d := Dependency{
		Name:    p.pkg.intern(name),
		Flags:   DepFlag(p.pkg.intern(parseAttr(attrs, "flags"))),
		Epoch:   p.pkg.intern(parseAttr(attrs, "epoch")),
		Version: p.pkg.intern(parseAttr(attrs, "ver")),
		Release: p.pkg.intern(parseAttr(attrs, "rel")),
	}
	if p.dep == depRequires {
		d.Pre = hasAttr(attrs, "pre")
	}

	switch p.dep {
	case depRequires:
		prependDependency(&p.pkg.Requires, d)
	case depProvides:
		prependDependency(&p.pkg.Provides, d)
	case depConflicts:
		prependDependency(&p.pkg.Conflicts, d)
	case depObsoletes:
		prependDependency(&p.pkg.Obsoletes, d)
	}
}

func (p *primaryParser) end(name string, text []byte) error {
	switch p.state {
	case primaryStatePackage:
		switch name {
		case "name":
			p.pkg.Name = p.pkg.internBytes(text)
		case "arch":
			p.pkg.Arch = p.pkg.internBytes(text)
		case "checksum":
			p.pkg.PkgID = p.pkg.internBytes(text)
		case "summary":
			p.pkg.Summary = p.pkg.internBytes(text)
		case "description":
			p.pkg.Description = p.pkg.internBytes(text)
		case "packager":
			p.pkg.RPMPackager = p.pkg.internBytes(text)
		case "url":
			p.pkg.URL = p.pkg.internBytes(text)
		case "package":
			pkg := p.pkg
			p.pkg = nil
			p.state = primaryStateToplevel
			return p.emit(pkg)
		}

	case primaryStateFormat:
		switch name {
		case "license":
			p.pkg.RPMLicense = p.pkg.internBytes(text)
		case "vendor":
			p.pkg.RPMVendor = p.pkg.internBytes(text)
		case "group":
			p.pkg.RPMGroup = p.pkg.internBytes(text)
		case "buildhost":
			p.pkg.RPMBuildhost = p.pkg.internBytes(text)
		case "sourcerpm":
			p.pkg.RPMSourceRPM = p.pkg.internBytes(text)
		case "file":
			p.pkg.prependFile(PackageFile{Name: p.pkg.internBytes(text), Type: p.curFileType})
		case "format":
			p.state = primaryStatePackage
		}

	case primaryStateDep:
		switch name {
		case "provides", "requires", "conflicts", "obsoletes":
			p.dep = depNone
			p.state = primaryStateFormat
		}
	}

	return nil
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
