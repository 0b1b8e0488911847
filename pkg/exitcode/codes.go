// Package exitcode defines the exit codes of widen.
package exitcode

const (
	// Success indicates every file was processed (widened or left as is).
	Success = 0

	// FilesFailed indicates at least one file could not be processed.
	FilesFailed = 1

	// GitError indicates a git command failed.
	GitError = 2

	// TimeoutError indicates an operation timed out.
	TimeoutError = 3

	// UsageError indicates invalid flags or arguments (sysexits EX_USAGE).
	UsageError = 64

	// NotGitRepo indicates the command was run outside a git repository.
	// This matches git's convention for this error.
	NotGitRepo = 128
)
