// Package output provides JSON output formatting for widen.
package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/simonkoeck/widen/pkg/expand"
	"github.com/simonkoeck/widen/pkg/widen"
)

// RegionResult describes the decision taken for one conflict region.
type RegionResult struct {
	Index     int    `json:"index"`
	StartLine int    `json:"start_line"` // 1-based line of the <<<<<<< marker in the input
	EndLine   int    `json:"end_line"`   // 1-based line of the >>>>>>> marker in the input
	NodeKind  string `json:"node_kind,omitempty"`
	Outcome   string `json:"outcome"`
	Before    int    `json:"before,omitempty"`
	After     int    `json:"after,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FileResult contains the widening result for a single file.
type FileResult struct {
	File          string         `json:"file"`
	Language      string         `json:"language,omitempty"`
	Status        string         `json:"status,omitempty"`
	RegionCount   int            `json:"region_count"`
	ExpandedCount int            `json:"expanded_count"`
	LineDelta     int            `json:"line_delta"`
	Changed       bool           `json:"changed"`
	Written       bool           `json:"written"`
	Backup        string         `json:"backup,omitempty"`
	Skipped       bool           `json:"skipped,omitempty"`
	Regions       []RegionResult `json:"regions,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// RunResult contains the overall result of a run.
type RunResult struct {
	Success       bool         `json:"success"`
	TotalRegions  int          `json:"total_regions"`
	ExpandedCount int          `json:"expanded_count"`
	ChangedFiles  int          `json:"changed_files"`
	FailedFiles   int          `json:"failed_files"`
	Files         []FileResult `json:"files"`
	Error         string       `json:"error,omitempty"`
	DryRun        bool         `json:"dry_run,omitempty"`
}

// NewRunResult creates a new empty RunResult.
func NewRunResult() *RunResult {
	return &RunResult{
		Files: make([]FileResult, 0),
	}
}

// FromFile converts a processed file into its JSON form.
func FromFile(r *widen.FileResult) FileResult {
	fr := FileResult{
		File:     r.File,
		Language: string(r.Language),
		Changed:  r.Changed(),
		Written:  r.Written,
		Backup:   r.Backup,
		Skipped:  r.Skipped(),
	}
	if r.Error != nil {
		fr.Error = r.Error.Error()
	}
	if r.Error != nil && r.Report.Original == "" {
		return fr
	}

	fr.Status = r.Report.Status.String()
	fr.ExpandedCount = r.Report.Expanded()
	fr.LineDelta = r.Report.LineDelta
	fr.RegionCount = len(r.Report.Regions)
	for _, rr := range r.Report.Regions {
		fr.Regions = append(fr.Regions, fromRegion(rr))
	}
	return fr
}

func fromRegion(rr expand.RegionReport) RegionResult {
	res := RegionResult{
		Index:     rr.Index,
		StartLine: rr.Region.Start + 1,
		EndLine:   rr.Region.End + 1,
		NodeKind:  rr.NodeKind,
		Outcome:   rr.Outcome.String(),
		Before:    rr.Decision.Before,
		After:     rr.Decision.After,
	}
	if rr.Err != nil {
		res.Error = rr.Err.Error()
	}
	return res
}

// AddFileResult adds a file result to the run result.
func (r *RunResult) AddFileResult(file FileResult) {
	r.Files = append(r.Files, file)
	r.TotalRegions += file.RegionCount
	r.ExpandedCount += file.ExpandedCount
	if file.Changed {
		r.ChangedFiles++
	}
	if file.Error != "" && !file.Skipped {
		r.FailedFiles++
	}
}

// SetError sets the error message.
func (r *RunResult) SetError(err error) {
	if err != nil {
		r.Error = err.Error()
	}
}

// Finalize calculates the final success state.
func (r *RunResult) Finalize() {
	r.Success = r.Error == "" && r.FailedFiles == 0
}

// WriteJSON writes the run result as JSON to the given writer.
func WriteJSON(w io.Writer, result *RunResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// WriteJSONStdout writes the run result as JSON to stdout.
func WriteJSONStdout(result *RunResult) error {
	return WriteJSON(os.Stdout, result)
}
