// Package resync reorders the units of a freshly merged catalog so they match
// a prior file's order, even when the merge renamed some unit ids.
package resync

import (
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"

	xerrors "xliffmerge/core/errors"
	"xliffmerge/core/xml"
)

// Options controls resynchronization.
type Options struct {
	// UnitPath is the XPath selecting unit elements carrying an id
	// attribute (e.g. "/xliff/file/body/trans-unit" for 1.2).
	UnitPath string

	// Format controls the final reformatting pass.
	Format xml.FormatOptions
}

// Resync reorders the units of mergedText to match the unit order of
// originalText and returns the re-pretty-printed result.
//
// idMap maps an original unit id to its post-merge id; ids absent from the
// map are assumed unchanged. Units whose id does not occur in the original
// document sort after all recognized ids, ordered among themselves by
// case-insensitive id comparison so the result is deterministic regardless
// of merge output order.
func Resync(originalText, mergedText string, idMap map[string]string, opts Options) (string, error) {
	if opts.UnitPath == "" {
		return "", xerrors.NewParse("resync options", "unit path is required")
	}

	originalDoc, err := xml.Parse(originalText)
	if err != nil {
		return "", xerrors.Wrap(err, "parsing original document")
	}
	originalUnits, err := originalDoc.Query(opts.UnitPath)
	if err != nil {
		return "", err
	}

	// Track each original id forward through the merge's renames so a
	// renamed unit lands in its old slot.
	orderIndex := make(map[string]int, len(originalUnits))
	for i, n := range originalUnits {
		id := xml.GetAttr(n, "id")
		if mapped, ok := idMap[id]; ok {
			id = mapped
		}
		if _, seen := orderIndex[id]; !seen {
			orderIndex[id] = i
		}
	}

	mergedDoc, err := xml.Parse(mergedText)
	if err != nil {
		return "", xerrors.Wrap(err, "parsing merged document")
	}
	mergedUnits, err := mergedDoc.Query(opts.UnitPath)
	if err != nil {
		return "", err
	}

	xml.SortSiblings(mergedUnits, func(a, b *xmlquery.Node) bool {
		return unitLess(xml.GetAttr(a, "id"), xml.GetAttr(b, "id"), orderIndex)
	})

	// The splice leaves whatever whitespace the nodes carried with them, so
	// the whole document is reformatted from scratch.
	return xml.Normalize(mergedDoc.Serialize(), xml.NormalizeOptions{Format: opts.Format})
}

func unitLess(a, b string, orderIndex map[string]int) bool {
	ai, aKnown := orderIndex[a]
	bi, bKnown := orderIndex[b]
	switch {
	case aKnown && bKnown:
		return ai < bi
	case aKnown:
		return true
	case bKnown:
		return false
	default:
		return strings.ToLower(a) < strings.ToLower(b)
	}
}

// Order returns the resynchronized order of ids without touching a document:
// ids known to orderIDs (after remapping) first in that order, then the rest
// sorted case-insensitively. Exposed for diagnostics and tests.
func Order(originalIDs, mergedIDs []string, idMap map[string]string) []string {
	orderIndex := make(map[string]int, len(originalIDs))
	for i, id := range originalIDs {
		if mapped, ok := idMap[id]; ok {
			id = mapped
		}
		if _, seen := orderIndex[id]; !seen {
			orderIndex[id] = i
		}
	}
	out := make([]string, len(mergedIDs))
	copy(out, mergedIDs)
	sort.SliceStable(out, func(i, j int) bool {
		return unitLess(out[i], out[j], orderIndex)
	})
	return out
}
