package pipeline

import (
	"encoding/json"
	"os"

	xerrors "xliffmerge/core/errors"
)

// Profile is an on-disk JSON run profile. Fields present in the file
// override the corresponding command-line flags; absent fields leave the
// flag values in place, which is why the scalar fields are pointers.
// Profile targets are appended after the flag-supplied ones.
type Profile struct {
	Source  *string       `json:"source,omitempty"`
	Targets []TargetFile  `json:"targets,omitempty"`
	Backup  *bool         `json:"backup,omitempty"`
	Report  *string       `json:"report,omitempty"`
	Indent  *int          `json:"indent,omitempty"`
	Nest    *bool         `json:"nest,omitempty"`
	Merge   *MergeProfile `json:"merge,omitempty"`
}

// MergeProfile is the profile section forwarded to the merge collaborator.
type MergeProfile struct {
	Fuzzy            *bool   `json:"fuzzy,omitempty"`
	OmitUntranslated *bool   `json:"omitUntranslated,omitempty"`
	InitialState     *string `json:"initialState,omitempty"`
}

// LoadProfile parses a profile JSON file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.NewIO("read", path, err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, xerrors.NewParse("profile JSON", err.Error())
	}
	return &p, nil
}

// Apply overlays the profile onto a flag-built Config.
func (p *Profile) Apply(cfg *Config) {
	if p.Source != nil {
		cfg.SourcePath = *p.Source
	}
	cfg.Targets = append(cfg.Targets, p.Targets...)
	if p.Backup != nil {
		cfg.Backup = *p.Backup
	}
	if p.Report != nil {
		cfg.ReportPath = *p.Report
	}
	if p.Indent != nil {
		cfg.Format.Indent = *p.Indent
	}
	if p.Nest != nil {
		cfg.Format.NestInline = *p.Nest
	}
	if p.Merge != nil {
		if p.Merge.Fuzzy != nil {
			cfg.Merge.FuzzyMatch = *p.Merge.Fuzzy
		}
		if p.Merge.OmitUntranslated != nil {
			cfg.Merge.OmitUntranslated = *p.Merge.OmitUntranslated
		}
		if p.Merge.InitialState != nil {
			cfg.Merge.InitialState = *p.Merge.InitialState
		}
	}
}
