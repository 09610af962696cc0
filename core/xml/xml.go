// Package xml provides the XML tree layer shared by the XLIFF codecs: parsing
// into a DOM, XPath queries, node construction, and serialization with a
// controlled whitespace policy.
//
// The xmlquery library is used for parsing, which uses Go's encoding/xml
// internally and inherits its security properties (external entities are not
// fetched).
package xml

import (
	stdxml "encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"xliffmerge/core/encoding"
	xerrors "xliffmerge/core/errors"
)

// Document represents a parsed XML document. Header holds the raw leading
// <?xml ...?> declaration substring (including trailing whitespace) exactly
// as it appeared in the input; it is reattached verbatim on serialization.
type Document struct {
	root   *xmlquery.Node
	Header string
}

// Attr is an element attribute. Attribute order is significant to this
// package: serialization writes attributes in insertion order.
type Attr struct {
	Name  string
	Value string
}

var headerPattern = regexp.MustCompile(`(?i)^<\?xml [^>]*\?>[ \t\r\n]*`)

const bom = "\uFEFF"

// SplitHeader splits text into the raw leading prefix (a UTF-8 BOM if
// present, then the XML declaration; possibly empty) and the remaining
// document text. The BOM is kept in the prefix so it round-trips, and so a
// BOM-led declaration is still recognized and never reaches the parser as a
// stray node.
func SplitHeader(text string) (header, rest string) {
	prefix := ""
	if strings.HasPrefix(text, bom) {
		prefix = bom
		text = text[len(bom):]
	}
	if m := headerPattern.FindString(text); m != "" {
		return prefix + m, text[len(m):]
	}
	return prefix, text
}

// Parse parses XML text into a Document, capturing the raw XML declaration
// prefix separately so it can be reproduced byte-for-byte.
func Parse(text string) (*Document, error) {
	header, rest := SplitHeader(text)
	root, err := xmlquery.Parse(strings.NewReader(rest))
	if err != nil {
		return nil, &xerrors.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}
	return &Document{root: root, Header: header}, nil
}

// NewDocument creates an empty document with the given header.
func NewDocument(header string) *Document {
	return &Document{
		root:   &xmlquery.Node{Type: xmlquery.DocumentNode},
		Header: header,
	}
}

// Root returns the first element child of the document, or nil.
func (d *Document) Root() *xmlquery.Node {
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// SetRoot appends an element as the document's root.
func (d *Document) SetRoot(n *xmlquery.Node) {
	AppendChild(d.root, n)
}

// Query executes an XPath expression and returns all matching nodes.
func (d *Document) Query(expr string) ([]*xmlquery.Node, error) {
	// Compile the expression to check for errors
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return nodes, nil
}

// Serialize converts the document back to XML text, prepending the preserved
// header and writing whitespace exactly as present in the tree.
func (d *Document) Serialize() string {
	var b strings.Builder
	b.WriteString(d.Header)
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		serializeNode(&b, child)
	}
	return b.String()
}

// NewElement creates an element node with attributes in the given order.
func NewElement(name string, attrs ...Attr) *xmlquery.Node {
	n := &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
	for _, a := range attrs {
		SetAttr(n, a.Name, a.Value)
	}
	return n
}

// NewText creates a text node.
func NewText(text string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.TextNode, Data: text}
}

// SetAttr appends an attribute, replacing the value in place if the name is
// already present so that attribute order stays stable.
func SetAttr(n *xmlquery.Node, name, value string) {
	for i := range n.Attr {
		if attrName(n.Attr[i]) == name {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{Name: xmlName(name), Value: value})
}

// GetAttr returns the value of the named attribute, or "".
func GetAttr(n *xmlquery.Node, name string) string {
	for _, a := range n.Attr {
		if attrName(a) == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func HasAttr(n *xmlquery.Node, name string) bool {
	for _, a := range n.Attr {
		if attrName(a) == name {
			return true
		}
	}
	return false
}

// AppendChild links child as the last child of parent.
func AppendChild(parent, child *xmlquery.Node) {
	child.Parent = parent
	child.NextSibling = nil
	if parent.LastChild == nil {
		child.PrevSibling = nil
		parent.FirstChild = child
		parent.LastChild = child
		return
	}
	child.PrevSibling = parent.LastChild
	parent.LastChild.NextSibling = child
	parent.LastChild = child
}

// InsertBefore links n as a sibling immediately before ref.
func InsertBefore(n, ref *xmlquery.Node) {
	parent := ref.Parent
	n.Parent = parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if parent != nil {
		parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// RemoveNode unlinks n from its parent.
func RemoveNode(n *xmlquery.Node) {
	if n.Parent == nil {
		return
	}
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	} else {
		n.Parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	} else {
		n.Parent.LastChild = n.PrevSibling
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
}

// ElementChildren returns the element child nodes of n.
func ElementChildren(n *xmlquery.Node) []*xmlquery.Node {
	var children []*xmlquery.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, child)
		}
	}
	return children
}

// FindChild returns the first element child named name, or nil.
func FindChild(n *xmlquery.Node, name string) *xmlquery.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == name {
			return child
		}
	}
	return nil
}

// FindChildren returns all element children named name.
func FindChildren(n *xmlquery.Node, name string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == name {
			out = append(out, child)
		}
	}
	return out
}

// InnerText returns the concatenated text content of n's subtree.
func InnerText(n *xmlquery.Node) string {
	return n.InnerText()
}

// InnerXML serializes the children of n, preserving inline markup.
func InnerXML(n *xmlquery.Node) string {
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		serializeNode(&b, child)
	}
	return b.String()
}

// AppendRaw parses raw as an XML fragment and grafts the resulting nodes as
// children of parent. Text in raw is entity-decoded by the parse and
// re-escaped on serialization, so round-trips are stable.
func AppendRaw(parent *xmlquery.Node, raw string) error {
	if raw == "" {
		return nil
	}
	frag, err := xmlquery.Parse(strings.NewReader("<frag>" + raw + "</frag>"))
	if err != nil {
		return &xerrors.ParseError{Format: "XML fragment", Message: err.Error(), Err: err}
	}
	wrapper := frag.FirstChild
	for wrapper != nil && wrapper.Type != xmlquery.ElementNode {
		wrapper = wrapper.NextSibling
	}
	if wrapper == nil {
		return nil
	}
	for child := wrapper.FirstChild; child != nil; {
		next := child.NextSibling
		RemoveNode(child)
		AppendChild(parent, child)
		child = next
	}
	return nil
}

// serializeNode writes one node and its subtree. Whitespace is written
// exactly as present in the tree; no collapsing is performed here.
func serializeNode(b *strings.Builder, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.ElementNode:
		b.WriteString("<")
		b.WriteString(elementName(n))
		for _, attr := range n.Attr {
			b.WriteString(" ")
			b.WriteString(attrName(attr))
			b.WriteString("=\"")
			b.WriteString(encoding.EscapeXMLAttr(attr.Value))
			b.WriteString("\"")
		}
		if n.FirstChild == nil {
			b.WriteString("/>")
			return
		}
		b.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			serializeNode(b, child)
		}
		b.WriteString("</")
		b.WriteString(elementName(n))
		b.WriteString(">")

	case xmlquery.TextNode:
		b.WriteString(encoding.EscapeXMLText(n.Data))

	case xmlquery.CharDataNode:
		b.WriteString("<![CDATA[")
		b.WriteString(n.Data)
		b.WriteString("]]>")

	case xmlquery.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")

	case xmlquery.DeclarationNode:
		// The declaration is carried verbatim in Document.Header.
	}
}

func elementName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

func attrName(a xmlquery.Attr) string {
	if a.Name.Space != "" {
		return a.Name.Space + ":" + a.Name.Local
	}
	return a.Name.Local
}

func xmlName(name string) stdxml.Name {
	if i := strings.Index(name, ":"); i >= 0 {
		return stdxml.Name{Space: name[:i], Local: name[i+1:]}
	}
	return stdxml.Name{Local: name}
}
