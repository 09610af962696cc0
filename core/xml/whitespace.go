package xml

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// contentTags are the elements whose subtree whitespace is part of the
// translatable content. Whitespace below them is never treated as structural.
var contentTags = map[string]bool{
	"source": true,
	"target": true,
}

// IsContentTag reports whether name marks a translatable-content element.
func IsContentTag(name string) bool {
	return contentTags[name]
}

// IsBlank reports whether s consists entirely of whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// StripWhitespace removes structural whitespace-only text nodes below n.
//
// A whitespace-only text node is structural, and removable, only when every
// sibling is itself whitespace-only text or an element: mixed text/markup
// content is left untouched. Recursion stops at content elements
// (source/target), whose subtrees are frozen because their whitespace is part
// of the translatable text.
func StripWhitespace(n *xmlquery.Node) {
	if n.Type == xmlquery.ElementNode && contentTags[n.Data] {
		return
	}
	if allChildrenBlankOrElement(n) {
		removeBlankTextChildren(n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			StripWhitespace(child)
		}
	}
}

// allChildrenBlankOrElement reports whether every child of n is either a
// whitespace-only text node or element-like markup (elements, comments,
// declarations). Significant text or CDATA anywhere among the children makes
// the whole child list content-bearing.
func allChildrenBlankOrElement(n *xmlquery.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode:
			if !IsBlank(child.Data) {
				return false
			}
		case xmlquery.CharDataNode:
			return false
		}
	}
	return true
}

func removeBlankTextChildren(n *xmlquery.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == xmlquery.TextNode && IsBlank(child.Data) {
			RemoveNode(child)
		}
		child = next
	}
}

func hasElementChild(n *xmlquery.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}
