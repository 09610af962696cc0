// Package pipeline orchestrates the extract-merge-resync-write cycle around
// the core codecs. Target files are processed sequentially, one at a time;
// each iteration works on its own freshly parsed trees and shares no mutable
// state with the others.
package pipeline

import (
	"context"
	"os"

	xerrors "xliffmerge/core/errors"
	"xliffmerge/core/xml"
	"xliffmerge/internal/fileutil"
	"xliffmerge/internal/formats/xliff1"
	"xliffmerge/internal/formats/xliff2"
	"xliffmerge/internal/logging"
	"xliffmerge/internal/resync"
)

// Dialect identifies one of the two supported XLIFF schema versions.
type Dialect string

const (
	Dialect12 Dialect = "1.2"
	Dialect20 Dialect = "2.0"
)

// UnitPath returns the XPath to unit elements for the dialect.
func (d Dialect) UnitPath() string {
	if d == Dialect20 {
		return xliff2.UnitPath
	}
	return xliff1.UnitPath
}

// DetectDialect inspects document text and returns its dialect.
func DetectDialect(text string) (Dialect, error) {
	switch {
	case xliff2.Detect(text):
		return Dialect20, nil
	case xliff1.Detect(text):
		return Dialect12, nil
	default:
		return "", xerrors.NewUnsupported("document", "neither XLIFF 1.2 nor 2.0 markers found")
	}
}

// MergeOptions are passed through to the external merge collaborator.
type MergeOptions struct {
	// FuzzyMatch enables fuzzy matching of changed source texts.
	FuzzyMatch bool

	// OmitUntranslated omits target elements for untranslated units instead
	// of writing blank ones.
	OmitUntranslated bool

	// InitialState forces the workflow state of newly added units. Empty
	// leaves the merger's default.
	InitialState string
}

// MergeResult is the outcome of one merge invocation.
type MergeResult struct {
	// Text is the merged document.
	Text string

	// IDMap maps an original unit id to its post-merge id for units the
	// merge renamed.
	IDMap map[string]string
}

// Merger reconciles a newly extracted source catalog against an existing
// target-language catalog. Implementations are external collaborators; the
// pipeline treats them as black boxes invoked synchronously.
type Merger interface {
	Merge(source, target string, opts MergeOptions) (MergeResult, error)
}

// Extractor produces a first-pass source catalog at outPath, typically by
// invoking the platform's native extraction tool.
type Extractor interface {
	Extract(ctx context.Context, outPath string) error
}

// PassthroughMerger replaces the target with the extracted source unchanged.
// It stands in when no external merger is wired, and in tests.
type PassthroughMerger struct{}

func (PassthroughMerger) Merge(source, _ string, _ MergeOptions) (MergeResult, error) {
	return MergeResult{Text: source}, nil
}

// TargetFile is one per-language output catalog.
type TargetFile struct {
	Path string `json:"path"`
	Lang string `json:"lang"`
}

// Config describes one pipeline run.
type Config struct {
	// SourcePath is where the extracted source catalog lives (or is written
	// by the extractor).
	SourcePath string

	// Targets are processed sequentially in the given order.
	Targets []TargetFile

	// Merge is forwarded to the merge collaborator.
	Merge MergeOptions

	// Format controls pretty-printing of all written documents.
	Format xml.FormatOptions

	// Backup writes an xz-compressed copy of each pre-merge target.
	Backup bool

	// ReportPath, when set, receives the JSON run report.
	ReportPath string
}

// Pipeline wires the collaborators together.
type Pipeline struct {
	Extractor Extractor
	Merger    Merger
}

// Run executes one full extract-merge-resync-write cycle and returns the run
// report. Per-target failures are recorded in the report and do not abort the
// remaining targets; a source-level failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*RunReport, error) {
	report := NewRunReport()
	ctx = logging.WithRunID(ctx, report.ID)

	if p.Extractor != nil {
		logging.InfoContext(ctx, "extracting source catalog", "path", cfg.SourcePath)
		if err := p.Extractor.Extract(ctx, cfg.SourcePath); err != nil {
			return nil, xerrors.Wrap(err, "extracting source catalog")
		}
	}

	raw, err := os.ReadFile(cfg.SourcePath)
	if err != nil {
		return nil, xerrors.NewIO("read", cfg.SourcePath, err)
	}
	source, err := xml.Normalize(string(raw), xml.NormalizeOptions{Format: cfg.Format})
	if err != nil {
		return nil, xerrors.Wrap(err, "normalizing source catalog")
	}

	merger := p.Merger
	if merger == nil {
		merger = PassthroughMerger{}
	}

	for _, target := range cfg.Targets {
		if err := ctx.Err(); err != nil {
			report.Finish()
			return report, err
		}
		fr := p.processTarget(ctx, merger, cfg, source, target)
		report.Files = append(report.Files, fr)
	}
	report.Finish()

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (p *Pipeline) processTarget(ctx context.Context, merger Merger, cfg Config, source string, target TargetFile) FileReport {
	fr := FileReport{Path: target.Path, Lang: target.Lang}
	log := logging.LoggerFromContext(ctx).With("path", target.Path, "lang", target.Lang)

	existing := ""
	if data, err := os.ReadFile(target.Path); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return fr.fail(xerrors.NewIO("read", target.Path, err))
	}

	if cfg.Backup && existing != "" {
		backupPath, err := fileutil.BackupFile(target.Path)
		if err != nil {
			return fr.fail(err)
		}
		fr.BackupPath = backupPath
	}

	merged, err := merger.Merge(source, existing, cfg.Merge)
	if err != nil {
		return fr.fail(xerrors.Wrap(err, "merging"))
	}

	final := merged.Text
	if existing != "" {
		dialect, err := DetectDialect(existing)
		if err != nil {
			return fr.fail(err)
		}
		final, err = resync.Resync(existing, merged.Text, merged.IDMap, resync.Options{
			UnitPath: dialect.UnitPath(),
			Format:   cfg.Format,
		})
		if err != nil {
			return fr.fail(xerrors.Wrap(err, "resynchronizing"))
		}
	} else {
		final, err = xml.Normalize(final, xml.NormalizeOptions{Format: cfg.Format})
		if err != nil {
			return fr.fail(xerrors.Wrap(err, "normalizing"))
		}
	}

	wrote, err := fileutil.WriteFileIfChanged(target.Path, []byte(final))
	if err != nil {
		return fr.fail(err)
	}
	if wrote {
		fr.Status = StatusChanged
		log.Info("target updated")
	} else {
		fr.Status = StatusUnchanged
		log.Info("target unchanged")
	}
	return fr
}
