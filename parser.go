package yum

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
)

// logFunc receives internal diagnostics at the levels described by LogLevel
// in logging.go. It is always non-nil by the time a parser runs (updater.go
// passes its logger's log method).
type logFunc func(level LogLevel, format string, args ...interface{})

// progressFunc reports how many packages have been consumed so far against
// the declared total (0 if the document never stated one).
type progressFunc func(current, total uint32)

// parseConfig carries the callbacks a document parser needs beyond the
// bytes it reads; it is identical across all three document types.
type parseConfig struct {
	log      logFunc
	progress progressFunc
}

// saxHandler is implemented by each of the three document-type state
// machines (parser_primary.go, parser_filelists.go, parser_other.go). It
// mirrors the original libxml2 SAX callback pair (start/end element), with
// character data collapsed into a single buffer handed to end() — the
// equivalent of the original's want_text flag, since every element that
// cares about its text content has no children of its own.
type saxHandler interface {
	start(name string, attrs []xml.Attr) error
	end(name string, text []byte) error
	// total returns the document's declared package count (the toplevel
	// element's "packages" attribute), or 0 if it was absent or malformed.
	total() uint32
}

// parseAttr returns the value of the named attribute, or "" if absent.
func parseAttr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// hasAttr reports whether the named attribute is present at all, regardless
// of its value — the presence-triggers-true semantics spec.md §9 requires
// for the `pre` attribute of `<rpm:entry>`.
func hasAttr(attrs []xml.Attr, name string) bool {
	for _, a := range attrs {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

// parseCount parses a "packages" attribute, defaulting to 0 on absence or on
// a malformed value rather than failing the whole parse: the count is only
// ever used for progress reporting.
func parseCount(attrs []xml.Attr) uint32 {
	v := parseAttr(attrs, "packages")
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// runSAX drives dec through a full document, dispatching start/end/character
// events to h and reporting progress as each <package> element closes.
//
// XML well-formedness errors are fatal: parsing stops immediately and the
// error is returned wrapped as *ParseError. Any package h had in progress is
// lost; runSAX only logs that fact, since discarding it and rolling back the
// open transaction is the caller's responsibility (spec.md §4.4.4 — an
// already-committed transaction from an earlier batch of packages stays
// committed).
func runSAX(r io.Reader, mdType string, h saxHandler, cfg parseConfig) error {
	dec := xml.NewDecoder(r)
	var text bytes.Buffer
	var count uint32
	packageOpen := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if packageOpen {
				cfg.log(LogLevelWarning, "%s: incomplete package lost: %v", mdType, err)
			}
			return &ParseError{MDType: mdType, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			text.Reset()
			if t.Name.Local == "package" {
				packageOpen = true
			}
			if err := h.start(t.Name.Local, t.Attr); err != nil {
				cfg.log(LogLevelWarning, "%s: %v", mdType, err)
				continue
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if err := h.end(t.Name.Local, text.Bytes()); err != nil {
				cfg.log(LogLevelWarning, "%s: %v", mdType, err)
			}
			text.Reset()
			if t.Name.Local == "package" {
				packageOpen = false
				count++
				if cfg.progress != nil {
					cfg.progress(count, h.total())
				}
			}
		}
	}
}
