package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/simonkoeck/widen/pkg/exitcode"
	"github.com/simonkoeck/widen/pkg/expand"
	"github.com/simonkoeck/widen/pkg/git"
	"github.com/simonkoeck/widen/pkg/logging"
	"github.com/simonkoeck/widen/pkg/output"
	"github.com/simonkoeck/widen/pkg/syntax"
	"github.com/simonkoeck/widen/pkg/tui"
	"github.com/simonkoeck/widen/pkg/ui"
	"github.com/simonkoeck/widen/pkg/widen"
)

// Package-level git executor (replaceable for testing)
var gitExec git.Executor = git.NewDefaultExecutor()

// isTerminal gates --interactive; tests replace it.
var isTerminal = tui.IsTerminal

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// cliOptions holds flag values that need checking before they become a
// widen.Config.
type cliOptions struct {
	cfg      widen.Config
	lang     string
	maxSize  string
	noBackup bool
	stdin    bool
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prev := ui.SetOutput(stdout)
	defer ui.SetOutput(prev)

	code := exitcode.Success
	cmd := newRootCmd(stdin, stdout, &code)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "widen: %v\n", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Run 'widen --help' for usage.\n")
		return exitcode.UsageError
	}
	return code
}

// runWithExecutor runs the command line with a custom git executor (for testing)
func runWithExecutor(args []string, stdin io.Reader, stdout io.Writer, e git.Executor) int {
	oldExec := gitExec
	gitExec = e
	defer func() { gitExec = oldExec }()
	return run(args, stdin, stdout)
}

func newRootCmd(stdin io.Reader, stdout io.Writer, code *int) *cobra.Command {
	opts := &cliOptions{cfg: widen.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "widen [flags] [file...]",
		Short: "Widen merge conflict regions to whole syntactic units",
		Long: `widen rewrites git conflict regions so that each one covers a complete
syntactic unit, such as a whole if statement or function, instead of a
fragment that leaves both sides unparseable.

Without file arguments it widens every conflicted file of the current
repository. Changed files are written in place with a .orig backup.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(args); err != nil {
				return err
			}
			logging.Init(logging.Config{
				Level:      logging.ParseLevel(opts.cfg.LogLevel),
				JSONFormat: opts.cfg.JSONOutput,
			})

			e := expand.New(expand.WithLogger(logging.With("component", "expand")))
			if opts.stdin {
				*code = widenStdin(opts.cfg, e, stdin, stdout)
				return nil
			}
			*code = widenFiles(cmd.Context(), opts.cfg, e, args, stdout)
			return nil
		},
	}

	langs := make([]string, 0, len(syntax.Languages()))
	for _, id := range syntax.Languages() {
		langs = append(langs, string(id))
	}

	f := cmd.Flags()
	f.BoolVar(&opts.cfg.DryRun, "dry-run", false, "show the proposed changes without writing them")
	f.BoolVar(&opts.cfg.JSONOutput, "json", false, "print a machine-readable report on stdout")
	f.BoolVarP(&opts.cfg.Interactive, "interactive", "i", false, "review each widened file before it is written")
	f.BoolVar(&opts.noBackup, "no-backup", false, "do not keep a .orig copy of changed files")
	f.StringVar(&opts.lang, "lang", "", "language of the input, overriding detection by extension ("+strings.Join(langs, ", ")+")")
	f.StringVar(&opts.maxSize, "max-size", "", "skip files larger than this, e.g. 512KiB or 2MB")
	f.IntVar(&opts.cfg.Jobs, "jobs", opts.cfg.Jobs, "number of files processed in parallel")
	f.DurationVar(&opts.cfg.GitTimeout, "timeout", opts.cfg.GitTimeout, "timeout for git commands")
	f.StringVar(&opts.cfg.LogLevel, "log-level", opts.cfg.LogLevel, "log level: debug, info, warn, error")
	f.BoolVarP(&opts.cfg.Verbose, "verbose", "v", false, "list every region and skipped file, not only widened ones")
	f.BoolVar(&opts.stdin, "stdin", false, "read content from stdin and write the result to stdout (needs --lang)")

	return cmd
}

// resolve validates flag combinations and fills in the derived config.
func (o *cliOptions) resolve(args []string) error {
	o.cfg.CreateBackup = !o.noBackup

	if o.lang != "" {
		o.cfg.Language = syntax.ParseLanguage(o.lang)
		if o.cfg.Language == syntax.LangUnknown {
			return fmt.Errorf("unknown language %q", o.lang)
		}
	}

	if o.maxSize != "" {
		n, err := humanize.ParseBytes(o.maxSize)
		if err != nil {
			return fmt.Errorf("invalid --max-size %q: %w", o.maxSize, err)
		}
		o.cfg.MaxFileSize = int64(n)
	}

	switch {
	case o.cfg.Jobs < 1:
		return fmt.Errorf("--jobs must be at least 1, got %d", o.cfg.Jobs)
	case o.cfg.GitTimeout <= 0:
		return fmt.Errorf("--timeout must be positive, got %s", o.cfg.GitTimeout)
	case o.stdin && o.cfg.Language == syntax.LangUnknown:
		return errors.New("--stdin needs --lang")
	case o.stdin && len(args) > 0:
		return errors.New("--stdin cannot be combined with file arguments")
	case o.stdin && (o.cfg.JSONOutput || o.cfg.Interactive):
		return errors.New("--stdin cannot be combined with --json or --interactive")
	case o.cfg.Interactive && (o.cfg.JSONOutput || o.cfg.DryRun):
		return errors.New("--interactive cannot be combined with --json or --dry-run")
	case o.cfg.Interactive && !isTerminal():
		return errors.New("--interactive needs a terminal")
	}
	return nil
}

// widenStdin filters stdin to stdout. Dry-run prints the diff instead.
func widenStdin(cfg widen.Config, e *expand.Expander, stdin io.Reader, stdout io.Writer) int {
	content, err := io.ReadAll(stdin)
	if err != nil {
		logging.Error("failed to read stdin", "error", err)
		ui.Error(fmt.Sprintf("Failed to read stdin: %v", err))
		return exitcode.FilesFailed
	}

	// Binary input passes through untouched.
	if widen.IsBinaryFile(content) {
		_, err = stdout.Write(content)
		return writeExitCode(err)
	}

	report := e.ExpandWithReport(string(content), cfg.Language)
	if cfg.DryRun {
		ui.PrintDryRunDiff("<stdin>", report.Original, report.Content)
		return exitcode.Success
	}
	_, err = io.WriteString(stdout, report.Content)
	return writeExitCode(err)
}

func writeExitCode(err error) int {
	if err != nil {
		logging.Error("failed to write stdout", "error", err)
		return exitcode.FilesFailed
	}
	return exitcode.Success
}

// widenFiles processes files, or the repository's conflicted files when
// none are given, and reports the outcome.
func widenFiles(ctx context.Context, cfg widen.Config, e *expand.Expander, files []string, stdout io.Writer) int {
	jsonResult := output.NewRunResult()
	jsonResult.DryRun = cfg.DryRun

	fail := func(code int, err error) int {
		if cfg.JSONOutput {
			jsonResult.SetError(err)
			jsonResult.Finalize()
			output.WriteJSON(stdout, jsonResult)
		} else {
			ui.Error(capitalize(err.Error()))
		}
		return code
	}

	if !cfg.JSONOutput {
		ui.Header("widen")
		if cfg.DryRun {
			ui.Info("Dry-run mode: no files will be modified")
		}
	}

	if len(files) == 0 {
		if !cfg.JSONOutput {
			ui.Step("Looking for conflicted files...")
		}
		var err error
		files, err = conflictingFiles(ctx, cfg)
		if err != nil {
			logging.Error("failed to list conflicting files", "error", err)
			return fail(gitExitCode(err), err)
		}
		if len(files) == 0 {
			if cfg.JSONOutput {
				jsonResult.Finalize()
				output.WriteJSON(stdout, jsonResult)
			} else {
				ui.Info("No conflicting files found")
			}
			return exitcode.Success
		}
	}

	if !cfg.JSONOutput {
		ui.Step(fmt.Sprintf("Analyzing %d file(s)...", len(files)))
	}

	results, err := widen.ProcessFiles(ctx, files, cfg, e)
	if err != nil {
		logging.Warn("run interrupted", "error", err, "processed", len(results))
		if !cfg.JSONOutput {
			ui.Warning(fmt.Sprintf("Interrupted after %d of %d file(s)", len(results), len(files)))
		}
	}

	if cfg.Interactive {
		aborted, rerr := reviewResults(results, cfg, stdout)
		if rerr != nil {
			return fail(exitcode.FilesFailed, rerr)
		}
		if aborted {
			return exitcode.Success
		}
	}

	if cfg.JSONOutput {
		for _, r := range results {
			jsonResult.AddFileResult(output.FromFile(r))
		}
		if err != nil {
			jsonResult.SetError(err)
		}
		jsonResult.Finalize()
		if werr := output.WriteJSON(stdout, jsonResult); werr != nil {
			logging.Error("failed to write JSON", "error", werr)
			return exitcode.FilesFailed
		}
		if !jsonResult.Success {
			return exitcode.FilesFailed
		}
		return exitcode.Success
	}

	failed := printReport(results, cfg)
	if failed > 0 || err != nil {
		return exitcode.FilesFailed
	}
	return exitcode.Success
}

// conflictingFiles asks git for the unmerged paths of the current repository.
func conflictingFiles(ctx context.Context, cfg widen.Config) ([]string, error) {
	exec := gitExec
	if d, ok := exec.(*git.DefaultExecutor); ok && cfg.GitTimeout != d.Timeout {
		exec = &git.DefaultExecutor{Timeout: cfg.GitTimeout, Dir: d.Dir}
	}

	root, err := git.RepoRoot(ctx, exec)
	if err != nil {
		return nil, err
	}
	return git.ConflictingFiles(ctx, exec, root)
}

func gitExitCode(err error) int {
	switch {
	case git.IsNotRepositoryError(err):
		return exitcode.NotGitRepo
	case git.IsTimeoutError(err):
		return exitcode.TimeoutError
	default:
		return exitcode.GitError
	}
}

// reviewResults lets the user accept or reject each changed file and writes
// the accepted ones. It reports whether the review was aborted.
func reviewResults(results []*widen.FileResult, cfg widen.Config, stdout io.Writer) (bool, error) {
	byFile := make(map[string]*widen.FileResult)
	var items []tui.ReviewItem
	for _, r := range results {
		if !r.Changed() {
			continue
		}
		byFile[r.File] = r
		items = append(items, tui.ReviewItem{
			File:     displayPath(r.File),
			Language: string(r.Language),
			Regions:  len(r.Report.Regions),
			Expanded: r.Report.Expanded(),
			Original: r.Report.Original,
			Proposed: r.Report.Content,
		})
	}
	if len(items) == 0 {
		return false, nil
	}

	review, err := tui.RunReview(items)
	if err != nil {
		return false, err
	}
	tui.PrintSummary(stdout, review)

	accepted := make(map[string]bool)
	for _, it := range review.Accepted() {
		accepted[it.File] = true
	}
	for file, r := range byFile {
		if !accepted[displayPath(file)] {
			continue
		}
		if err := widen.ApplyFile(r, cfg); err != nil {
			logging.Error("failed to write file", "file", file, "error", err)
		}
	}
	return review.Aborted, nil
}

// printReport prints the region table, dry-run diffs, per-file problems and
// the summary. It returns the number of files that failed.
func printReport(results []*widen.FileResult, cfg widen.Config) int {
	var rows []ui.Row
	for _, r := range results {
		for _, rr := range r.Report.Regions {
			if !cfg.Verbose && rr.Outcome != expand.OutcomeExpanded {
				continue
			}
			node := rr.NodeKind
			if node == "" {
				node = "-"
			}
			rows = append(rows, ui.Row{
				File:    displayPath(r.File),
				Lines:   fmt.Sprintf("%d-%d", rr.Region.Start+1, rr.Region.End+1),
				Node:    node,
				Outcome: rr.Outcome.String(),
			})
		}
	}
	if len(rows) > 0 {
		ui.Newline()
		ui.RegionTable(rows)
	}

	if cfg.DryRun {
		for _, r := range results {
			if r.Changed() {
				ui.PrintDryRunDiff(displayPath(r.File), r.Report.Original, r.Report.Content)
			}
		}
	}

	expanded, files, failed := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Failed():
			failed++
			ui.Error(r.Error.Error())
		case r.Skipped():
			if cfg.Verbose {
				ui.Info(fmt.Sprintf("Skipped %s", r.Error))
			}
		case r.Written || (cfg.DryRun && r.Changed()):
			expanded += r.Report.Expanded()
			files++
			if r.Backup != "" && cfg.Verbose {
				ui.Info(fmt.Sprintf("Backup saved to %s", displayPath(r.Backup)))
			}
		}
	}

	ui.Summary(expanded, files, failed, cfg.DryRun)
	return failed
}

// displayPath shortens file to a path relative to the working directory
// when it lies below it.
func displayPath(file string) string {
	wd, err := os.Getwd()
	if err != nil || !filepath.IsAbs(file) {
		return file
	}
	rel, err := filepath.Rel(wd, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return rel
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
