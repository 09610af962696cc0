package pipeline

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	xerrors "xliffmerge/core/errors"
)

// FileStatus is the outcome for one target file.
type FileStatus string

const (
	StatusChanged   FileStatus = "changed"
	StatusUnchanged FileStatus = "unchanged"
	StatusFailed    FileStatus = "failed"
)

// FileReport records the outcome of one target file.
type FileReport struct {
	Path       string     `json:"path"`
	Lang       string     `json:"lang,omitempty"`
	Status     FileStatus `json:"status"`
	BackupPath string     `json:"backup_path,omitempty"`
	Error      string     `json:"error,omitempty"`
}

func (fr FileReport) fail(err error) FileReport {
	fr.Status = StatusFailed
	fr.Error = err.Error()
	return fr
}

// RunReport summarizes one pipeline run.
type RunReport struct {
	ID         string       `json:"id"`
	StartedAt  string       `json:"started_at"`
	FinishedAt string       `json:"finished_at,omitempty"`
	Files      []FileReport `json:"files"`
}

// NewRunReport creates a report with a fresh run ID.
func NewRunReport() *RunReport {
	return &RunReport{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Finish stamps the completion time.
func (r *RunReport) Finish() {
	r.FinishedAt = time.Now().UTC().Format(time.RFC3339)
}

// Failed reports whether any target failed.
func (r *RunReport) Failed() bool {
	for _, f := range r.Files {
		if f.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Write serializes the report as indented JSON at path.
func (r *RunReport) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return xerrors.Wrap(err, "encoding run report")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return xerrors.NewIO("write", path, err)
	}
	return nil
}
