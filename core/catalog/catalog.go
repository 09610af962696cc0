// Package catalog defines the canonical in-memory representation of a
// translation catalog. Both XLIFF dialect codecs parse into and render from
// these types; a File is produced fresh by a parse and consumed once by a
// render, with no shared mutable ownership across components.
package catalog

// File is the canonical representation of one translation catalog.
type File struct {
	// Units is the ordered sequence of translation units. Order is
	// meaningful: it drives output order unless overridden by
	// resynchronization.
	Units []*Unit

	// SourceLang is the source language tag (e.g., "en").
	SourceLang string

	// TargetLang is the target language tag. Empty when the file is a
	// source-only catalog.
	TargetLang string

	// XMLHeader is the raw leading <?xml ...?> declaration substring of the
	// original document, including trailing whitespace. It is reattached
	// verbatim on render. Empty when the input had no declaration.
	XMLHeader string
}

// Unit is one translatable message.
type Unit struct {
	// ID is the unit identifier, unique within the file. It is the join key
	// across dialects and across merge/resync operations.
	ID string

	// Source is the serialized inner markup of the source text. Inline tags
	// (placeholders and the like) appear as literal markup, not escaped
	// prose.
	Source string

	// Target has the same shape as Source. Empty means not yet translated;
	// HasTarget distinguishes an empty translation from an absent one.
	Target    string
	HasTarget bool

	// State is the translation workflow state tag (dialect-specific
	// vocabulary, e.g. "translated", "new"). Empty means absent.
	State string

	// Meaning and Description are optional free-text annotations carried as
	// side notes.
	Meaning     string
	Description string

	// Locations are source-code references in document order, not
	// deduplicated.
	Locations []Location
}

// Location is one source-code reference for a unit.
type Location struct {
	// File is the source file path.
	File string

	// LineStart is the starting line number.
	LineStart int

	// LineEnd is the ending line number. Zero means absent; it is only
	// representable in the v2 dialect's combined "file:start,end" note
	// encoding.
	LineEnd int
}

// UnitIDs returns the ids of all units in file order.
func (f *File) UnitIDs() []string {
	ids := make([]string, len(f.Units))
	for i, u := range f.Units {
		ids[i] = u.ID
	}
	return ids
}

// UnitByID returns the first unit with the given id, or nil.
func (f *File) UnitByID(id string) *Unit {
	for _, u := range f.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// SetTarget sets the target text and marks it present.
func (u *Unit) SetTarget(text string) {
	u.Target = text
	u.HasTarget = true
}
