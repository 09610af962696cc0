package xml

import (
	"strings"
	"testing"
)

func TestSplitHeader(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader string
		wantRest   string
	}{
		{
			name:       "declaration with trailing newline",
			input:      "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<root/>",
			wantHeader: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n",
			wantRest:   "<root/>",
		},
		{
			name:       "no declaration",
			input:      "<root/>",
			wantHeader: "",
			wantRest:   "<root/>",
		},
		{
			name:       "case insensitive",
			input:      "<?XML version=\"1.0\"?><root/>",
			wantHeader: "<?XML version=\"1.0\"?>",
			wantRest:   "<root/>",
		},
		{
			name:       "declaration mid-document is not a header",
			input:      "<root><?xml version=\"1.0\"?></root>",
			wantHeader: "",
			wantRest:   "<root><?xml version=\"1.0\"?></root>",
		},
		{
			name:       "BOM before declaration",
			input:      "\uFEFF<?xml version=\"1.0\"?>\n<root/>",
			wantHeader: "\uFEFF<?xml version=\"1.0\"?>\n",
			wantRest:   "<root/>",
		},
		{
			name:       "BOM without declaration",
			input:      "\uFEFF<root/>",
			wantHeader: "\uFEFF",
			wantRest:   "<root/>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, rest := SplitHeader(tt.input)
			if header != tt.wantHeader {
				t.Errorf("header = %q, want %q", header, tt.wantHeader)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestParsePreservesHeader(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n\n<root/>"
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Header != "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n\n" {
		t.Errorf("Header = %q", doc.Header)
	}
	out := doc.Serialize()
	if !strings.HasPrefix(out, doc.Header) {
		t.Errorf("Serialize() = %q, want header prefix", out)
	}
}

func TestParsePreservesBOM(t *testing.T) {
	input := "\uFEFF<?xml version=\"1.0\"?>\n<root><a/></root>"
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Serialize(); got != input {
		t.Errorf("Serialize() = %q, want input back", got)
	}
}

func TestStripWhitespace(t *testing.T) {
	t.Run("structural whitespace removed", func(t *testing.T) {
		doc, err := Parse("<root>\n  <a/>\n  <b/>\n</root>")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		StripWhitespace(doc.root)
		if got := doc.Serialize(); got != "<root><a/><b/></root>" {
			t.Errorf("Serialize() = %q, want collapsed", got)
		}
	})

	t.Run("mixed content untouched", func(t *testing.T) {
		input := "<root>text <a/> tail</root>"
		doc, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		StripWhitespace(doc.root)
		if got := doc.Serialize(); got != input {
			t.Errorf("Serialize() = %q, want %q", got, input)
		}
	})

	t.Run("source subtree frozen", func(t *testing.T) {
		input := "<root><source>  <x/>  </source></root>"
		doc, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		StripWhitespace(doc.root)
		if got := doc.Serialize(); got != input {
			t.Errorf("Serialize() = %q, want %q", got, input)
		}
	})
}

func TestFormat(t *testing.T) {
	t.Run("canonical indentation", func(t *testing.T) {
		got, err := Format("<root><a><b/></a></root>", FormatOptions{})
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		want := "<root>\n  <a>\n    <b/>\n  </a>\n</root>\n"
		if got != want {
			t.Errorf("Format() = %q, want %q", got, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once, err := Format("<root>\n\n<a>   <b/></a>  </root>", FormatOptions{})
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		twice, err := Format(once, FormatOptions{})
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		if once != twice {
			t.Errorf("second Format changed output:\nfirst:  %q\nsecond: %q", once, twice)
		}
	})

	t.Run("translatable text preserved", func(t *testing.T) {
		input := "<root><unit><source>a <x/> b</source></unit></root>"
		for _, nest := range []bool{false, true} {
			got, err := Format(input, FormatOptions{NestInline: nest})
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if !strings.Contains(got, "<source>a <x/> b</source>") {
				t.Errorf("nest=%v: source content disturbed: %q", nest, got)
			}
		}
	})

	t.Run("nested inline markup indented only with NestInline", func(t *testing.T) {
		input := "<root><source><x/><y/></source></root>"

		plain, err := Format(input, FormatOptions{})
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		if !strings.Contains(plain, "<source><x/><y/></source>") {
			t.Errorf("without NestInline source was reformatted: %q", plain)
		}

		nested, err := Format(input, FormatOptions{NestInline: true})
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		if !strings.Contains(nested, "<source>\n    <x/>\n    <y/>\n  </source>") {
			t.Errorf("with NestInline inline markup not indented: %q", nested)
		}
	})

	t.Run("custom indent width", func(t *testing.T) {
		got, err := Format("<root><a/></root>", FormatOptions{Indent: 4})
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		want := "<root>\n    <a/>\n</root>\n"
		if got != want {
			t.Errorf("Format() = %q, want %q", got, want)
		}
	})
}

func TestInnerXMLRoundTrip(t *testing.T) {
	doc, err := Parse("<root><source>a &amp; b <ph id=\"1\"/> c</source></root>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	source := FindChild(doc.Root(), "source")
	if source == nil {
		t.Fatal("source element not found")
	}
	inner := InnerXML(source)
	if inner != "a &amp; b <ph id=\"1\"/> c" {
		t.Errorf("InnerXML() = %q", inner)
	}

	elem := NewElement("source")
	if err := AppendRaw(elem, inner); err != nil {
		t.Fatalf("AppendRaw failed: %v", err)
	}
	if got := InnerXML(elem); got != inner {
		t.Errorf("round-trip = %q, want %q", got, inner)
	}
}

func TestAttrOrder(t *testing.T) {
	n := NewElement("file",
		Attr{Name: "source-language", Value: "en"},
		Attr{Name: "target-language", Value: "de"},
		Attr{Name: "datatype", Value: "plaintext"},
		Attr{Name: "original", Value: "ng2.template"},
	)
	var b strings.Builder
	serializeNode(&b, n)
	want := `<file source-language="en" target-language="de" datatype="plaintext" original="ng2.template"/>`
	if b.String() != want {
		t.Errorf("serialized = %q, want %q", b.String(), want)
	}

	// Replacing a value must not disturb the order.
	SetAttr(n, "source-language", "fr")
	b.Reset()
	serializeNode(&b, n)
	if !strings.HasPrefix(b.String(), `<file source-language="fr" target-language="de"`) {
		t.Errorf("attribute order changed after SetAttr: %q", b.String())
	}
}

func TestNormalize(t *testing.T) {
	t.Run("remove paths", func(t *testing.T) {
		got, err := Normalize("<root><keep/><drop/></root>", NormalizeOptions{
			RemovePaths: []string{"//drop"},
		})
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if strings.Contains(got, "<drop") {
			t.Errorf("drop element survived: %q", got)
		}
		if !strings.Contains(got, "<keep/>") {
			t.Errorf("keep element missing: %q", got)
		}
	})

	t.Run("sort path", func(t *testing.T) {
		got, err := Normalize(`<root><u id="b"/><u id="A"/><u id="c"/></root>`, NormalizeOptions{
			SortPath: "//u",
			SortAttr: "id",
		})
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		iA := strings.Index(got, `id="A"`)
		iB := strings.Index(got, `id="b"`)
		iC := strings.Index(got, `id="c"`)
		if !(iA < iB && iB < iC) {
			t.Errorf("case-insensitive sort order wrong: %q", got)
		}
	})

	t.Run("invalid xpath", func(t *testing.T) {
		_, err := Normalize("<root/>", NormalizeOptions{RemovePaths: []string{"//["}})
		if err == nil {
			t.Fatal("expected error for invalid xpath")
		}
	})
}
