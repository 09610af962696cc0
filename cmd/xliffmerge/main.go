// Command xliffmerge converts translation catalogs between the XLIFF 1.2 and
// 2.0 dialects, pretty-prints them with a whitespace-preserving policy, and
// runs the extract-merge-resync pipeline for target-language files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/text/language"

	"xliffmerge/core/catalog"
	xerrors "xliffmerge/core/errors"
	"xliffmerge/core/xml"
	"xliffmerge/internal/formats/xliff1"
	"xliffmerge/internal/formats/xliff2"
	"xliffmerge/internal/logging"
	"xliffmerge/internal/pipeline"
	"xliffmerge/internal/resync"
)

const version = "0.2.0"

// CLI defines the command-line interface for xliffmerge.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Convert ConvertCmd `cmd:"" help:"Convert a catalog between XLIFF 1.2 and 2.0"`
	Format  FormatCmd  `cmd:"" help:"Normalize and pretty-print a catalog"`
	Resync  ResyncCmd  `cmd:"" help:"Reorder a merged catalog to match a prior file's unit order"`
	Merge   MergeCmd   `cmd:"" help:"Run the extract-merge-resync pipeline over target files"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func formatOptions(indent int, nest bool) xml.FormatOptions {
	return xml.FormatOptions{Indent: indent, NestInline: nest}
}

func validateLang(flag, tag string) error {
	if tag == "" {
		return nil
	}
	if _, err := language.Parse(tag); err != nil {
		return xerrors.Wrapf(err, "invalid %s %q", flag, tag)
	}
	return nil
}

func parseCatalog(text string) (*catalog.File, pipeline.Dialect, error) {
	dialect, err := pipeline.DetectDialect(text)
	if err != nil {
		return nil, "", err
	}
	var f *catalog.File
	if dialect == pipeline.Dialect20 {
		f, err = xliff2.Parse(text)
	} else {
		f, err = xliff1.Parse(text)
	}
	return f, dialect, err
}

func writeOutput(path, text string) error {
	if path == "" || path == "-" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return xerrors.NewIO("write", path, err)
	}
	return nil
}

// ConvertCmd converts a catalog from one dialect to the other.
type ConvertCmd struct {
	Input      string `arg:"" help:"Input catalog path" type:"existingfile"`
	To         string `name:"to" required:"" enum:"1.2,2.0" help:"Output dialect version"`
	Output     string `name:"out" short:"o" help:"Output path (defaults to stdout)"`
	Indent     int    `name:"indent" default:"2" help:"Spaces per indentation level"`
	Nest       bool   `name:"nest" help:"Also indent inline markup inside source/target"`
	SourceLang string `name:"source-lang" help:"Override the source language tag"`
	TargetLang string `name:"target-lang" help:"Override the target language tag"`
}

func (c *ConvertCmd) Run(ctx *kong.Context) error {
	if err := validateLang("--source-lang", c.SourceLang); err != nil {
		return err
	}
	if err := validateLang("--target-lang", c.TargetLang); err != nil {
		return err
	}

	data, err := os.ReadFile(c.Input)
	if err != nil {
		return xerrors.NewIO("read", c.Input, err)
	}
	f, from, err := parseCatalog(string(data))
	if err != nil {
		return err
	}
	if c.SourceLang != "" {
		f.SourceLang = c.SourceLang
	}
	if c.TargetLang != "" {
		f.TargetLang = c.TargetLang
	}

	opts := formatOptions(c.Indent, c.Nest)
	var out string
	if c.To == "2.0" {
		out, err = xliff2.Render(f, xliff2.Options{Format: opts})
	} else {
		out, err = xliff1.Render(f, xliff1.Options{Format: opts})
	}
	if err != nil {
		return err
	}
	logging.Info("converted catalog", "from", string(from), "to", c.To, "units", len(f.Units))
	return writeOutput(c.Output, out)
}

// FormatCmd normalizes a document: canonical indentation plus optional
// XPath-addressed removal and sorting.
type FormatCmd struct {
	Input    string   `arg:"" help:"Input catalog path" type:"existingfile"`
	Output   string   `name:"out" short:"o" help:"Output path (defaults to rewriting the input)"`
	Indent   int      `name:"indent" default:"2" help:"Spaces per indentation level"`
	Nest     bool     `name:"nest" help:"Also indent inline markup inside source/target"`
	Remove   []string `name:"remove" help:"XPath of nodes to remove (repeatable)"`
	SortPath string   `name:"sort-path" help:"XPath of sibling elements to sort"`
	SortAttr string   `name:"sort-attr" default:"id" help:"Attribute supplying the sort key"`
}

func (c *FormatCmd) Run(ctx *kong.Context) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return xerrors.NewIO("read", c.Input, err)
	}
	out, err := xml.Normalize(string(data), xml.NormalizeOptions{
		Format:      formatOptions(c.Indent, c.Nest),
		RemovePaths: c.Remove,
		SortPath:    c.SortPath,
		SortAttr:    c.SortAttr,
	})
	if err != nil {
		return err
	}
	path := c.Output
	if path == "" {
		path = c.Input
	}
	return writeOutput(path, out)
}

// ResyncCmd reorders a merged catalog to match the unit order of the
// original document, honoring an id-remapping table.
type ResyncCmd struct {
	Original string `arg:"" help:"Pre-merge catalog path" type:"existingfile"`
	Merged   string `arg:"" help:"Post-merge catalog path" type:"existingfile"`
	MapFile  string `name:"id-map" help:"JSON file mapping old unit ids to new ids" type:"existingfile"`
	Output   string `name:"out" short:"o" help:"Output path (defaults to rewriting the merged file)"`
	Indent   int    `name:"indent" default:"2" help:"Spaces per indentation level"`
	Nest     bool   `name:"nest" help:"Also indent inline markup inside source/target"`
}

func (c *ResyncCmd) Run(ctx *kong.Context) error {
	original, err := os.ReadFile(c.Original)
	if err != nil {
		return xerrors.NewIO("read", c.Original, err)
	}
	merged, err := os.ReadFile(c.Merged)
	if err != nil {
		return xerrors.NewIO("read", c.Merged, err)
	}

	idMap := map[string]string{}
	if c.MapFile != "" {
		data, err := os.ReadFile(c.MapFile)
		if err != nil {
			return xerrors.NewIO("read", c.MapFile, err)
		}
		if err := json.Unmarshal(data, &idMap); err != nil {
			return xerrors.Wrap(err, "decoding id map")
		}
	}

	dialect, err := pipeline.DetectDialect(string(merged))
	if err != nil {
		return err
	}
	out, err := resync.Resync(string(original), string(merged), idMap, resync.Options{
		UnitPath: dialect.UnitPath(),
		Format:   formatOptions(c.Indent, c.Nest),
	})
	if err != nil {
		return err
	}
	path := c.Output
	if path == "" {
		path = c.Merged
	}
	return writeOutput(path, out)
}

// MergeCmd runs the full pipeline: optional extraction, then a sequential
// merge-resync-write cycle per target file.
type MergeCmd struct {
	Source       string   `arg:"" optional:"" help:"Source catalog path (written by the extractor when configured)"`
	Targets      []string `name:"target" help:"Target file as lang=path (repeatable)"`
	Profile      string   `name:"profile" help:"JSON run profile; its fields override the flags" type:"existingfile"`
	ExtractCmd   string   `name:"extract-cmd" help:"Extraction command; {out} is replaced with the source path"`
	ExtractArgs  []string `name:"extract-arg" help:"Extraction command argument (repeatable)"`
	Backup       bool     `name:"backup" help:"Keep an xz-compressed backup of each pre-merge target"`
	Report       string   `name:"report" help:"Write a JSON run report to this path"`
	Indent       int      `name:"indent" default:"2" help:"Spaces per indentation level"`
	Nest         bool     `name:"nest" help:"Also indent inline markup inside source/target"`
	Fuzzy        bool     `name:"fuzzy" help:"Enable fuzzy matching in the merge collaborator"`
	OmitNew      bool     `name:"omit-untranslated" help:"Omit target elements for untranslated units"`
	InitialState string   `name:"initial-state" help:"Workflow state forced onto newly added units"`
}

// buildConfig translates the flags into a pipeline Config and overlays the
// run profile, when given. Profile fields win over flags.
func (c *MergeCmd) buildConfig() (pipeline.Config, error) {
	targets := make([]pipeline.TargetFile, 0, len(c.Targets))
	for _, spec := range c.Targets {
		lang, path, ok := strings.Cut(spec, "=")
		if !ok {
			return pipeline.Config{}, xerrors.NewParse("target flag", fmt.Sprintf("%q is not lang=path", spec))
		}
		targets = append(targets, pipeline.TargetFile{Lang: lang, Path: path})
	}

	cfg := pipeline.Config{
		SourcePath: c.Source,
		Targets:    targets,
		Merge: pipeline.MergeOptions{
			FuzzyMatch:       c.Fuzzy,
			OmitUntranslated: c.OmitNew,
			InitialState:     c.InitialState,
		},
		Format:     formatOptions(c.Indent, c.Nest),
		Backup:     c.Backup,
		ReportPath: c.Report,
	}

	if c.Profile != "" {
		profile, err := pipeline.LoadProfile(c.Profile)
		if err != nil {
			return pipeline.Config{}, err
		}
		profile.Apply(&cfg)
	}

	if cfg.SourcePath == "" {
		return pipeline.Config{}, xerrors.NewParse("merge config", "no source catalog given (argument or profile)")
	}
	if len(cfg.Targets) == 0 {
		return pipeline.Config{}, xerrors.NewParse("merge config", "no target files given (--target or profile)")
	}
	for _, t := range cfg.Targets {
		if err := validateLang("target", t.Lang); err != nil {
			return pipeline.Config{}, err
		}
	}
	return cfg, nil
}

func (c *MergeCmd) Run(ctx *kong.Context) error {
	cfg, err := c.buildConfig()
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{}
	if c.ExtractCmd != "" {
		p.Extractor = &pipeline.CommandExtractor{Command: c.ExtractCmd, Args: c.ExtractArgs}
	}

	report, err := p.Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	for _, f := range report.Files {
		fmt.Printf("  %-10s %s\n", f.Status, f.Path)
	}
	if report.Failed() {
		return fmt.Errorf("run %s finished with failures", report.ID)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Printf("xliffmerge %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("xliffmerge"),
		kong.Description("XLIFF 1.2/2.0 catalog converter and merge pipeline"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	var format logging.Format
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	} else {
		format = logging.FormatText
	}
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
