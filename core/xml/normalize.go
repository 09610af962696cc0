package xml

import (
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"
)

// NormalizeOptions controls generic document normalization.
type NormalizeOptions struct {
	// Format controls the whitespace/indentation pass.
	Format FormatOptions

	// RemovePaths are XPath expressions; every matching node is removed
	// before formatting.
	RemovePaths []string

	// SortPath is an XPath expression selecting sibling elements to reorder.
	// Matches are stably sorted in place by the value of SortAttr, compared
	// case-insensitively. Empty means no sorting.
	SortPath string

	// SortAttr names the attribute supplying the sort key. Defaults to "id".
	SortAttr string
}

// Normalize parses raw XML text, applies removal and sort instructions, and
// re-serializes it with canonical indentation. The XML declaration is
// preserved byte-for-byte.
func Normalize(text string, opts NormalizeOptions) (string, error) {
	doc, err := Parse(text)
	if err != nil {
		return "", err
	}

	for _, expr := range opts.RemovePaths {
		nodes, err := doc.Query(expr)
		if err != nil {
			return "", err
		}
		for _, n := range nodes {
			RemoveNode(n)
		}
	}

	if opts.SortPath != "" {
		attr := opts.SortAttr
		if attr == "" {
			attr = "id"
		}
		nodes, err := doc.Query(opts.SortPath)
		if err != nil {
			return "", err
		}
		SortSiblings(nodes, func(a, b *xmlquery.Node) bool {
			return strings.ToLower(GetAttr(a, attr)) < strings.ToLower(GetAttr(b, attr))
		})
	}

	return doc.Format(opts.Format), nil
}

// SortSiblings stably reorders nodes, which are expected to share a parent,
// according to less. Nodes are re-appended to their parent in sorted order;
// any interleaved whitespace is left for the formatting pass to rebuild.
func SortSiblings(nodes []*xmlquery.Node, less func(a, b *xmlquery.Node) bool) {
	if len(nodes) < 2 {
		return
	}
	parent := nodes[0].Parent
	sorted := make([]*xmlquery.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	for _, n := range sorted {
		RemoveNode(n)
		AppendChild(parent, n)
	}
}
