package widen

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/simonkoeck/widen/pkg/expand"
	"github.com/simonkoeck/widen/pkg/logging"
	"github.com/simonkoeck/widen/pkg/syntax"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrBinaryFile   = errors.New("binary file")
	ErrUnsupported  = errors.New("unsupported language")
)

// binarySniffLen is how much of a file IsBinaryFile looks at.
const binarySniffLen = 8000

// FileResult is the outcome of processing one file.
type FileResult struct {
	File     string
	Language syntax.LanguageID
	Size     int64
	Report   expand.Report
	Written  bool
	Backup   string // path of the .orig file, if one was created
	Error    error
}

// Changed reports whether widening altered the file's content.
func (r *FileResult) Changed() bool {
	return r.Error == nil && r.Report.Changed()
}

// Skipped reports whether the file was passed over without an error of its
// own, for example because it is binary or in an unsupported language.
func (r *FileResult) Skipped() bool {
	return errors.Is(r.Error, ErrBinaryFile) || errors.Is(r.Error, ErrUnsupported)
}

// Failed reports whether the file could not be processed.
func (r *FileResult) Failed() bool {
	return r.Error != nil && !r.Skipped()
}

// IsBinaryFile checks if content appears to be binary.
func IsBinaryFile(content []byte) bool {
	return bytes.IndexByte(content[:min(len(content), binarySniffLen)], 0) >= 0
}

// AnalyzeFile reads file and computes its widened content without writing.
func AnalyzeFile(file string, cfg Config, e *expand.Expander) *FileResult {
	result := &FileResult{File: file, Language: cfg.Language}
	if result.Language == syntax.LangUnknown {
		result.Language = syntax.DetectLanguage(file)
	}

	info, err := os.Stat(file)
	if err != nil {
		result.Error = formatReadError(file, err)
		return result
	}
	result.Size = info.Size()

	if cfg.MaxFileSize > 0 && info.Size() > cfg.MaxFileSize {
		result.Error = fmt.Errorf("%w: %s is %s (limit %s)", ErrFileTooLarge, file,
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(cfg.MaxFileSize)))
		return result
	}

	content, err := os.ReadFile(file)
	if err != nil {
		result.Error = formatReadError(file, err)
		return result
	}

	if IsBinaryFile(content) {
		result.Error = fmt.Errorf("%w: %s", ErrBinaryFile, file)
		return result
	}
	if result.Language == syntax.LangUnknown || !syntax.HasGrammar(result.Language) {
		result.Error = fmt.Errorf("%w: %s", ErrUnsupported, file)
		return result
	}

	result.Report = e.ExpandWithReport(string(content), result.Language)

	logging.Debug("analyzed file",
		"file", file,
		"language", string(result.Language),
		"size", humanize.IBytes(uint64(result.Size)),
		"status", result.Report.Status.String(),
		"expanded", result.Report.Expanded(),
	)
	return result
}

// ApplyFile writes the widened content of result back to disk. Unchanged
// files are left alone.
func ApplyFile(result *FileResult, cfg Config) error {
	if !result.Changed() {
		return nil
	}

	backup, err := atomicWriteWithBackup(result.File, []byte(result.Report.Content), cfg.CreateBackup)
	if err != nil {
		result.Error = err
		return err
	}

	result.Written = true
	result.Backup = backup
	logging.Info("widened file", "file", result.File, "regions", result.Report.Expanded())
	return nil
}

func formatReadError(file string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("cannot read %s: no such file", file)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("cannot read %s: permission denied", file)
	default:
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
}
