package xml

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// FormatOptions controls pretty-printing behavior.
type FormatOptions struct {
	// Indent is the number of spaces per nesting level. Zero means the
	// default of 2.
	Indent int

	// NestInline also reindents inline markup nested inside source/target
	// elements, provided the element holds no bare significant text.
	NestInline bool
}

func (o FormatOptions) indentWidth() int {
	if o.Indent <= 0 {
		return 2
	}
	return o.Indent
}

// Format pretty-prints the document and returns the serialized text with the
// preserved XML declaration prepended.
//
// The algorithm is two-pass: all structural whitespace is stripped first,
// then indentation is re-inserted as explicit text nodes. The strip pass is a
// left inverse of the insert pass for all whitespace this engine produces, so
// formatting already-formatted text is byte-identical.
func (d *Document) Format(opts FormatOptions) string {
	StripWhitespace(d.root)
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			indentElement(child, 0, opts, false)
		}
	}
	out := d.Serialize()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// Format parses, pretty-prints, and re-serializes XML text.
func Format(text string, opts FormatOptions) (string, error) {
	doc, err := Parse(text)
	if err != nil {
		return "", err
	}
	return doc.Format(opts), nil
}

// indentElement inserts indentation whitespace below n. inContent tracks
// whether n sits inside a source/target subtree.
func indentElement(n *xmlquery.Node, depth int, opts FormatOptions, inContent bool) {
	in := inContent || contentTags[n.Data]
	if in && !opts.NestInline {
		// Frozen subtree: translatable text must not be reformatted.
		return
	}

	// Only elements with structural content are indented. Inside
	// source/target the children must be entirely whitespace-or-element so
	// plain-text translatable content stays untouched.
	canIndent := hasElementChild(n) && allChildrenBlankOrElement(n)

	if canIndent {
		removeBlankTextChildren(n)
		for child := n.FirstChild; child != nil; {
			next := child.NextSibling
			InsertBefore(NewText("\n"+pad(depth+1, opts)), child)
			child = next
		}
		AppendChild(n, NewText("\n"+pad(depth, opts)))
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		childDepth := depth
		if canIndent {
			childDepth = depth + 1
		}
		indentElement(child, childDepth, opts, in)
	}
}

func pad(depth int, opts FormatOptions) string {
	return strings.Repeat(" ", depth*opts.indentWidth())
}
