// Package xliff2 implements the XLIFF 2.0 dialect codec: parsing documents
// into the canonical catalog model and rendering the model back to text.
package xliff2

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"xliffmerge/core/catalog"
	xerrors "xliffmerge/core/errors"
	"xliffmerge/core/xml"
)

const (
	// Namespace is the XLIFF 2.0 document namespace.
	Namespace = "urn:oasis:names:tc:xliff:document:2.0"

	// UnitPath is the XPath to translation unit elements in this dialect.
	UnitPath = "/xliff/file/unit"

	dialect      = "xliff-2.0"
	fileID       = "ngi18n"
	fileOriginal = "ng.template"
)

// Options controls rendering.
type Options struct {
	Format xml.FormatOptions
}

// Detect reports whether text looks like an XLIFF 2.0 document.
func Detect(text string) bool {
	return strings.Contains(text, "<xliff") && strings.Contains(text, `version="2.0"`)
}

// Parse decodes an XLIFF 2.0 document into the canonical model.
func Parse(text string) (*catalog.File, error) {
	doc, err := xml.Parse(text)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, xerrors.NewStructural(dialect, "xliff", "")
	}

	f := &catalog.File{
		XMLHeader:  doc.Header,
		SourceLang: xml.GetAttr(root, "srcLang"),
		TargetLang: xml.GetAttr(root, "trgLang"),
	}

	fileEl := xml.FindChild(root, "file")
	if fileEl == nil {
		return nil, xerrors.NewStructural(dialect, "file", "xliff")
	}

	for _, u := range xml.ElementChildren(fileEl) {
		unit, err := parseUnit(u)
		if err != nil {
			return nil, err
		}
		f.Units = append(f.Units, unit)
	}
	return f, nil
}

func parseUnit(n *xmlquery.Node) (*catalog.Unit, error) {
	unit := &catalog.Unit{ID: xml.GetAttr(n, "id")}

	seg := xml.FindChild(n, "segment")
	if seg == nil {
		return nil, xerrors.NewStructural(dialect, "segment", "unit")
	}
	src := xml.FindChild(seg, "source")
	if src == nil {
		return nil, xerrors.NewStructural(dialect, "source", "segment")
	}
	unit.Source = xml.InnerXML(src)
	if tgt := xml.FindChild(seg, "target"); tgt != nil {
		unit.SetTarget(xml.InnerXML(tgt))
	}
	unit.State = xml.GetAttr(seg, "state")

	if notes := xml.FindChild(n, "notes"); notes != nil {
		for _, note := range xml.FindChildren(notes, "note") {
			text := xml.InnerText(note)
			switch xml.GetAttr(note, "category") {
			case "meaning":
				unit.Meaning = text
			case "description":
				unit.Description = text
			case "location":
				loc, err := DecodeLocation(text)
				if err != nil {
					return nil, err
				}
				unit.Locations = append(unit.Locations, loc)
			}
		}
	}
	return unit, nil
}

// DecodeLocation decodes a location note of the form "file:line" or
// "file:line,line".
func DecodeLocation(text string) (catalog.Location, error) {
	i := strings.Index(text, ":")
	if i < 0 {
		return catalog.Location{}, xerrors.NewMalformedLocation(text, "missing ':' separator")
	}
	loc := catalog.Location{File: text[:i]}
	lines := text[i+1:]

	startStr := lines
	endStr := ""
	if j := strings.Index(lines, ","); j >= 0 {
		startStr = lines[:j]
		endStr = lines[j+1:]
	}

	start, err := strconv.Atoi(startStr)
	if err != nil {
		return catalog.Location{}, &xerrors.MalformedLocationError{
			Text:   text,
			Reason: "line start is not a number",
			Err:    xerrors.NewIntegerParse("lineStart", startStr, err),
		}
	}
	loc.LineStart = start

	if endStr != "" {
		end, err := strconv.Atoi(endStr)
		if err != nil {
			return catalog.Location{}, &xerrors.MalformedLocationError{
				Text:   text,
				Reason: "line end is not a number",
				Err:    xerrors.NewIntegerParse("lineEnd", endStr, err),
			}
		}
		loc.LineEnd = end
	}
	return loc, nil
}

// EncodeLocation renders a Location as note text.
func EncodeLocation(loc catalog.Location) string {
	text := loc.File + ":" + strconv.Itoa(loc.LineStart)
	if loc.LineEnd != 0 {
		text += "," + strconv.Itoa(loc.LineEnd)
	}
	return text
}

// Render encodes the canonical model as a pretty-printed XLIFF 2.0 document
// with the preserved XML declaration prepended.
func Render(f *catalog.File, opts Options) (string, error) {
	root := xml.NewElement("xliff",
		xml.Attr{Name: "version", Value: "2.0"},
		xml.Attr{Name: "xmlns", Value: Namespace},
		xml.Attr{Name: "srcLang", Value: f.SourceLang},
	)
	if f.TargetLang != "" {
		xml.SetAttr(root, "trgLang", f.TargetLang)
	}

	fileEl := xml.NewElement("file",
		xml.Attr{Name: "id", Value: fileID},
		xml.Attr{Name: "original", Value: fileOriginal},
	)
	xml.AppendChild(root, fileEl)

	for _, u := range f.Units {
		unitEl, err := buildUnit(u)
		if err != nil {
			return "", err
		}
		xml.AppendChild(fileEl, unitEl)
	}

	doc := xml.NewDocument(f.XMLHeader)
	doc.SetRoot(root)
	return doc.Format(opts.Format), nil
}

func buildUnit(u *catalog.Unit) (*xmlquery.Node, error) {
	unitEl := xml.NewElement("unit", xml.Attr{Name: "id", Value: u.ID})

	// The notes block leads the unit: location notes first, then
	// description, then meaning.
	if u.Meaning != "" || u.Description != "" || len(u.Locations) > 0 {
		notes := xml.NewElement("notes")
		for _, loc := range u.Locations {
			note := xml.NewElement("note", xml.Attr{Name: "category", Value: "location"})
			xml.AppendChild(note, xml.NewText(EncodeLocation(loc)))
			xml.AppendChild(notes, note)
		}
		if u.Description != "" {
			note := xml.NewElement("note", xml.Attr{Name: "category", Value: "description"})
			xml.AppendChild(note, xml.NewText(u.Description))
			xml.AppendChild(notes, note)
		}
		if u.Meaning != "" {
			note := xml.NewElement("note", xml.Attr{Name: "category", Value: "meaning"})
			xml.AppendChild(note, xml.NewText(u.Meaning))
			xml.AppendChild(notes, note)
		}
		xml.AppendChild(unitEl, notes)
	}

	seg := xml.NewElement("segment")
	if u.State != "" {
		xml.SetAttr(seg, "state", u.State)
	}
	src := xml.NewElement("source")
	if err := xml.AppendRaw(src, u.Source); err != nil {
		return nil, err
	}
	xml.AppendChild(seg, src)
	if u.HasTarget {
		tgt := xml.NewElement("target")
		if err := xml.AppendRaw(tgt, u.Target); err != nil {
			return nil, err
		}
		xml.AppendChild(seg, tgt)
	}
	xml.AppendChild(unitEl, seg)
	return unitEl, nil
}
