// Package widen applies conflict widening to files on disk.
package widen

import (
	"time"

	"github.com/simonkoeck/widen/pkg/git"
	"github.com/simonkoeck/widen/pkg/syntax"
)

// Config controls how files are processed.
type Config struct {
	DryRun       bool              // If true, compute and report changes but don't write
	CreateBackup bool              // If true, create .orig backup (default: true)
	Verbose      bool              // If true, print per-region decisions
	JSONOutput   bool              // If true, output JSON instead of human-readable text
	LogLevel     string            // Log level: debug, info, warn, error
	GitTimeout   time.Duration     // Timeout for git operations (0 = use default)
	MaxFileSize  int64             // Maximum file size to process (0 = unlimited)
	Jobs         int               // Files processed in parallel
	Language     syntax.LanguageID // Overrides extension based detection when set
	Interactive  bool              // If true, writes wait for review
}

// DefaultConfig returns safe defaults.
func DefaultConfig() Config {
	return Config{
		DryRun:       false,
		CreateBackup: true,
		Verbose:      false,
		JSONOutput:   false,
		LogLevel:     "warn",
		GitTimeout:   git.DefaultTimeout,
		MaxFileSize:  0,
		Jobs:         4,
	}
}

// writes reports whether ProcessFiles should write results itself.
func (c Config) writes() bool {
	return !c.DryRun && !c.Interactive
}
