package yum

import "encoding/xml"

// otherState is the other.xml parser's state, mirroring
// OtherSAXContextState in the original xml-parser.c.
type otherState int

const (
	otherStateToplevel otherState = iota
	otherStatePackage
)

type otherParser struct {
	state otherState

	count uint32
	pkg   *Package
	emit  func(*Package) error

	curChangelogAuthor string
	curChangelogDate   int64
}

func newOtherParser(emit func(*Package) error) *otherParser {
	return &otherParser{emit: emit}
}

func (p *otherParser) total() uint32 { return p.count }

func (p *otherParser) start(name string, attrs []xml.Attr) error {
	switch p.state {
	case otherStateToplevel:
		switch name {
		case "otherdata":
			p.count = parseCount(attrs)
		case "package":
			p.pkg = newPackage()
			p.pkg.PkgID = p.pkg.intern(parseAttr(attrs, "pkgid"))
			p.pkg.Name = p.pkg.intern(parseAttr(attrs, "name"))
			p.pkg.Arch = p.pkg.intern(parseAttr(attrs, "arch"))
			p.state = otherStatePackage
		}

	case otherStatePackage:
		switch name {
		case "version":
			p.pkg.Epoch = p.pkg.intern(parseAttr(attrs, "epoch"))
			p.pkg.Version = p.pkg.intern(parseAttr(attrs, "ver"))
			p.pkg.Release = p.pkg.intern(parseAttr(attrs, "rel"))
		case "changelog":
			p.curChangelogAuthor = parseAttr(attrs, "author")
			p.curChangelogDate = parseInt64(parseAttr(attrs, "date"))
		}
	}

	return nil
}

func (p *otherParser) end(name string, text []byte) error {
	if p.state != otherStatePackage {
		return nil
	}

	switch name {
	case "changelog":
		p.pkg.prependChangelog(ChangelogEntry{
			Author:    p.pkg.intern(p.curChangelogAuthor),
			Date:      p.curChangelogDate,
			Changelog: p.pkg.internBytes(text),
		})
	case "package":
		pkg := p.pkg
		pkg.reverseChangelogs()
		p.pkg = nil
		p.state = otherStateToplevel
		return p.emit(pkg)
	}

	return nil
}
