package yum

import "encoding/xml"

// filelistsState is the filelists.xml parser's state, mirroring
// FilelistSAXContextState in the original xml-parser.c. This document has no
// FORMAT/DEP nesting: <file> elements are direct children of <package>.
type filelistsState int

const (
	filelistsStateToplevel filelistsState = iota
	filelistsStatePackage
)

type filelistsParser struct {
	state filelistsState

	count uint32
	pkg   *Package
	emit  func(*Package) error

	curFileType FileType
}

func newFilelistsParser(emit func(*Package) error) *filelistsParser {
	return &filelistsParser{emit: emit}
}

func (p *filelistsParser) total() uint32 { return p.count }

func (p *filelistsParser) start(name string, attrs []xml.Attr) error {
	switch p.state {
	case filelistsStateToplevel:
		switch name {
		case "filelists":
			p.count = parseCount(attrs)
		case "package":
			p.pkg = newPackage()
			p.pkg.PkgID = p.pkg.intern(parseAttr(attrs, "pkgid"))
			p.pkg.Name = p.pkg.intern(parseAttr(attrs, "name"))
			p.pkg.Arch = p.pkg.intern(parseAttr(attrs, "arch"))
			p.state = filelistsStatePackage
		}

	case filelistsStatePackage:
		switch name {
		case "version":
			p.pkg.Epoch = p.pkg.intern(parseAttr(attrs, "epoch"))
			p.pkg.Version = p.pkg.intern(parseAttr(attrs, "ver"))
			p.pkg.Release = p.pkg.intern(parseAttr(attrs, "rel"))
		case "file":
			p.curFileType = FileTypeFile
			if t := parseAttr(attrs, "type"); t != "" {
				p.curFileType = FileType(t)
			}
		}
	}

	return nil
}

func (p *filelistsParser) end(name string, text []byte) error {
	if p.state != filelistsStatePackage {
		return nil
	}

	switch name {
	case "file":
		p.pkg.prependFile(PackageFile{Name: p.pkg.internBytes(text), Type: p.curFileType})
	case "package":
		pkg := p.pkg
		p.pkg = nil
		p.state = filelistsStateToplevel
		return p.emit(pkg)
	}

	return nil
}
