package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	xerrors "xliffmerge/core/errors"
	"xliffmerge/core/xml"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		path := writeProfile(t, `{
			"source": "messages.xlf",
			"targets": [{"lang": "de", "path": "messages.de.xlf"}],
			"backup": true,
			"report": "run.json",
			"indent": 4,
			"nest": true,
			"merge": {"fuzzy": true, "omitUntranslated": true, "initialState": "new"}
		}`)
		p, err := LoadProfile(path)
		if err != nil {
			t.Fatalf("LoadProfile failed: %v", err)
		}
		if p.Source == nil || *p.Source != "messages.xlf" {
			t.Errorf("Source = %v, want messages.xlf", p.Source)
		}
		want := []TargetFile{{Lang: "de", Path: "messages.de.xlf"}}
		if diff := cmp.Diff(want, p.Targets); diff != "" {
			t.Errorf("Targets mismatch (-want +got):\n%s", diff)
		}
		if p.Merge == nil || p.Merge.InitialState == nil || *p.Merge.InitialState != "new" {
			t.Errorf("Merge section not decoded: %+v", p.Merge)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeProfile(t, `{"source": `)
		_, err := LoadProfile(path)
		if !errors.Is(err, xerrors.ErrInvalidInput) {
			t.Fatalf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadProfile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Fatal("expected error for missing profile")
		}
	})
}

func TestProfileApply(t *testing.T) {
	flagCfg := func() Config {
		return Config{
			SourcePath: "flag.xlf",
			Targets:    []TargetFile{{Lang: "fr", Path: "fr.xlf"}},
			Merge:      MergeOptions{InitialState: "translated"},
			Format:     xml.FormatOptions{Indent: 2},
			ReportPath: "flag-report.json",
		}
	}

	t.Run("present fields win over flags", func(t *testing.T) {
		source := "profile.xlf"
		backup := true
		indent := 4
		state := "new"
		p := &Profile{
			Source:  &source,
			Targets: []TargetFile{{Lang: "de", Path: "de.xlf"}},
			Backup:  &backup,
			Indent:  &indent,
			Merge:   &MergeProfile{InitialState: &state},
		}
		cfg := flagCfg()
		p.Apply(&cfg)

		if cfg.SourcePath != "profile.xlf" {
			t.Errorf("SourcePath = %q, want profile.xlf", cfg.SourcePath)
		}
		if !cfg.Backup {
			t.Error("Backup not overridden")
		}
		if cfg.Format.Indent != 4 {
			t.Errorf("Indent = %d, want 4", cfg.Format.Indent)
		}
		if cfg.Merge.InitialState != "new" {
			t.Errorf("InitialState = %q, want new", cfg.Merge.InitialState)
		}
		wantTargets := []TargetFile{{Lang: "fr", Path: "fr.xlf"}, {Lang: "de", Path: "de.xlf"}}
		if diff := cmp.Diff(wantTargets, cfg.Targets); diff != "" {
			t.Errorf("Targets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("absent fields keep flags", func(t *testing.T) {
		cfg := flagCfg()
		(&Profile{}).Apply(&cfg)
		if diff := cmp.Diff(flagCfg(), cfg); diff != "" {
			t.Errorf("empty profile changed config (-want +got):\n%s", diff)
		}
	})
}
