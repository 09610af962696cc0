package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestStructuralError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuralError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with parent",
			err:      &StructuralError{Dialect: "xliff-2.0", Element: "segment", Parent: "unit"},
			wantMsg:  "xliff-2.0: missing required element <segment> in <unit>",
			wantBase: ErrStructure,
		},
		{
			name:     "without parent",
			err:      &StructuralError{Dialect: "xliff-1.2", Element: "body"},
			wantMsg:  "xliff-1.2: missing required element <body>",
			wantBase: ErrStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestMalformedLocationError(t *testing.T) {
	err := NewMalformedLocation("onlyfile", "missing ':' separator")
	want := `malformed location note "onlyfile": missing ':' separator`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrMalformed) {
		t.Error("expected MalformedLocationError to unwrap to ErrMalformed")
	}
}

func TestIntegerParseError(t *testing.T) {
	underlying := fmt.Errorf("strconv failure")
	err := NewIntegerParse("lineStart", "abc", underlying)
	if got := err.Error(); got != `lineStart: "abc" is not a number` {
		t.Errorf("Error() = %q", got)
	}
	if got := err.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	bare := NewIntegerParse("lineEnd", "x", nil)
	if !errors.Is(bare, ErrMalformed) {
		t.Error("expected bare IntegerParseError to unwrap to ErrMalformed")
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if got := Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})

	t.Run("adds context", func(t *testing.T) {
		base := errors.New("boom")
		got := Wrap(base, "reading file")
		if got.Error() != "reading file: boom" {
			t.Errorf("Wrap() = %q", got.Error())
		}
		if !errors.Is(got, base) {
			t.Error("wrapped error should match base via errors.Is")
		}
	})
}

func TestErrorsAs(t *testing.T) {
	var target *StructuralError
	err := Wrap(NewStructural("xliff-2.0", "source", "segment"), "parsing unit u1")
	if !As(err, &target) {
		t.Fatal("expected As to find StructuralError through wrapping")
	}
	if target.Element != "source" {
		t.Errorf("Element = %q, want source", target.Element)
	}
}
