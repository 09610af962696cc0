// Package xliff1 implements the XLIFF 1.2 dialect codec: parsing documents
// into the canonical catalog model and rendering the model back to text.
package xliff1

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"xliffmerge/core/catalog"
	xerrors "xliffmerge/core/errors"
	"xliffmerge/core/xml"
)

const (
	// Namespace is the XLIFF 1.2 document namespace.
	Namespace = "urn:oasis:names:tc:xliff:document:1.2"

	// UnitPath is the XPath to translation unit elements in this dialect.
	UnitPath = "/xliff/file/body/trans-unit"

	dialect      = "xliff-1.2"
	fileDatatype = "plaintext"
	fileOriginal = "ng2.template"
	unitDatatype = "html"
)

// Options controls rendering.
type Options struct {
	Format xml.FormatOptions
}

// Detect reports whether text looks like an XLIFF 1.2 document.
func Detect(text string) bool {
	return strings.Contains(text, "<xliff") && strings.Contains(text, `version="1.2"`)
}

// Parse decodes an XLIFF 1.2 document into the canonical model.
func Parse(text string) (*catalog.File, error) {
	doc, err := xml.Parse(text)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, xerrors.NewStructural(dialect, "xliff", "")
	}

	fileEl := xml.FindChild(root, "file")
	if fileEl == nil {
		return nil, xerrors.NewStructural(dialect, "file", "xliff")
	}

	f := &catalog.File{
		XMLHeader:  doc.Header,
		SourceLang: xml.GetAttr(fileEl, "source-language"),
		TargetLang: xml.GetAttr(fileEl, "target-language"),
	}

	body := xml.FindChild(fileEl, "body")
	if body == nil {
		return nil, xerrors.NewStructural(dialect, "body", "file")
	}

	for _, tu := range xml.ElementChildren(body) {
		unit, err := parseTransUnit(tu)
		if err != nil {
			return nil, err
		}
		f.Units = append(f.Units, unit)
	}
	return f, nil
}

func parseTransUnit(n *xmlquery.Node) (*catalog.Unit, error) {
	unit := &catalog.Unit{ID: xml.GetAttr(n, "id")}

	src := xml.FindChild(n, "source")
	if src == nil {
		return nil, xerrors.NewStructural(dialect, "source", "trans-unit")
	}
	unit.Source = xml.InnerXML(src)

	// In 1.2 the workflow state lives on the target element, not the unit.
	if tgt := xml.FindChild(n, "target"); tgt != nil {
		unit.SetTarget(xml.InnerXML(tgt))
		unit.State = xml.GetAttr(tgt, "state")
	}

	for _, note := range xml.FindChildren(n, "note") {
		switch xml.GetAttr(note, "from") {
		case "meaning":
			unit.Meaning = xml.InnerText(note)
		case "description":
			unit.Description = xml.InnerText(note)
		}
	}

	for _, cg := range xml.FindChildren(n, "context-group") {
		loc, err := parseContextGroup(cg)
		if err != nil {
			return nil, err
		}
		unit.Locations = append(unit.Locations, loc)
	}
	return unit, nil
}

func parseContextGroup(cg *xmlquery.Node) (catalog.Location, error) {
	var loc catalog.Location
	for _, ctx := range xml.FindChildren(cg, "context") {
		text := xml.InnerText(ctx)
		switch xml.GetAttr(ctx, "context-type") {
		case "sourcefile":
			loc.File = text
		case "linenumber":
			line, err := strconv.Atoi(text)
			if err != nil {
				return catalog.Location{}, xerrors.NewIntegerParse("linenumber", text, err)
			}
			loc.LineStart = line
		}
	}
	return loc, nil
}

// Render encodes the canonical model as a pretty-printed XLIFF 1.2 document
// with the preserved XML declaration prepended.
//
// The file element's attributes are rebuilt in the fixed order
// source-language, target-language, datatype, original: downstream consumers
// of the format are sensitive to attribute order.
func Render(f *catalog.File, opts Options) (string, error) {
	root := xml.NewElement("xliff",
		xml.Attr{Name: "version", Value: "1.2"},
		xml.Attr{Name: "xmlns", Value: Namespace},
	)

	fileEl := xml.NewElement("file", xml.Attr{Name: "source-language", Value: f.SourceLang})
	if f.TargetLang != "" {
		xml.SetAttr(fileEl, "target-language", f.TargetLang)
	}
	xml.SetAttr(fileEl, "datatype", fileDatatype)
	xml.SetAttr(fileEl, "original", fileOriginal)
	xml.AppendChild(root, fileEl)

	body := xml.NewElement("body")
	xml.AppendChild(fileEl, body)

	for _, u := range f.Units {
		tu, err := buildTransUnit(u)
		if err != nil {
			return "", err
		}
		xml.AppendChild(body, tu)
	}

	doc := xml.NewDocument(f.XMLHeader)
	doc.SetRoot(root)
	return doc.Format(opts.Format), nil
}

func buildTransUnit(u *catalog.Unit) (*xmlquery.Node, error) {
	tu := xml.NewElement("trans-unit",
		xml.Attr{Name: "id", Value: u.ID},
		xml.Attr{Name: "datatype", Value: unitDatatype},
	)

	src := xml.NewElement("source")
	if err := xml.AppendRaw(src, u.Source); err != nil {
		return nil, err
	}
	xml.AppendChild(tu, src)

	if u.HasTarget {
		tgt := xml.NewElement("target")
		if u.State != "" {
			xml.SetAttr(tgt, "state", u.State)
		}
		if err := xml.AppendRaw(tgt, u.Target); err != nil {
			return nil, err
		}
		xml.AppendChild(tu, tgt)
	}

	if u.Description != "" {
		note := xml.NewElement("note", xml.Attr{Name: "from", Value: "description"})
		xml.AppendChild(note, xml.NewText(u.Description))
		xml.AppendChild(tu, note)
	}
	if u.Meaning != "" {
		note := xml.NewElement("note", xml.Attr{Name: "from", Value: "meaning"})
		xml.AppendChild(note, xml.NewText(u.Meaning))
		xml.AppendChild(tu, note)
	}

	for _, loc := range u.Locations {
		cg := xml.NewElement("context-group", xml.Attr{Name: "purpose", Value: "location"})
		fileCtx := xml.NewElement("context", xml.Attr{Name: "context-type", Value: "sourcefile"})
		xml.AppendChild(fileCtx, xml.NewText(loc.File))
		xml.AppendChild(cg, fileCtx)
		lineCtx := xml.NewElement("context", xml.Attr{Name: "context-type", Value: "linenumber"})
		xml.AppendChild(lineCtx, xml.NewText(strconv.Itoa(loc.LineStart)))
		xml.AppendChild(cg, lineCtx)
		xml.AppendChild(tu, cg)
	}
	return tu, nil
}
