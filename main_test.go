package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonkoeck/widen/pkg/exitcode"
	"github.com/simonkoeck/widen/pkg/git"
	"github.com/simonkoeck/widen/pkg/output"
	"github.com/simonkoeck/widen/pkg/widen"
)

const conflictedGo = "package main\n\nfunc main() {\n\tif ready {\n<<<<<<< HEAD\n\t\tstart()\n=======\n\t\tstart(\n>>>>>>> feature\n\t}\n}\n"

const widenedGo = "package main\n\nfunc main() {\n<<<<<<< HEAD\n\tif ready {\n\t\tstart()\n\t}\n=======\n\tif ready {\n\t\tstart(\n\t}\n>>>>>>> feature\n}\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// repoMock answers rev-parse with root and the conflicted-files diff with
// files.
func repoMock(root string, files ...string) *git.MockExecutor {
	mock := git.NewMockExecutor()
	mock.OnOutput = func(ctx context.Context, args []string) ([]byte, error) {
		if len(args) == 0 {
			return nil, nil
		}
		switch args[0] {
		case "rev-parse":
			return []byte(root + "\n"), nil
		case "diff":
			return []byte(strings.Join(files, "\n")), nil
		}
		return nil, nil
	}
	return mock
}

func runCLI(t *testing.T, mock git.Executor, args ...string) (int, string) {
	t.Helper()
	var stdout bytes.Buffer
	code := runWithExecutor(args, strings.NewReader(""), &stdout, mock)
	return code, stdout.String()
}

// ==================== Repository Tests ====================

func TestWiden_GitErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not a repository", git.ErrNotRepository, exitcode.NotGitRepo},
		{"timeout", context.DeadlineExceeded, exitcode.TimeoutError},
		{"other failure", errors.New("exit status 128"), exitcode.GitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := git.NewMockExecutor()
			mock.SetResponse("rev-parse", nil, tt.err)

			code, _ := runCLI(t, mock)
			if code != tt.expected {
				t.Errorf("expected exit code %d, got %d", tt.expected, code)
			}
		})
	}
}

func TestWiden_GitErrorJSON(t *testing.T) {
	mock := git.NewMockExecutor()
	mock.SetResponse("rev-parse", nil, git.ErrNotRepository)

	code, out := runCLI(t, mock, "--json")
	if code != exitcode.NotGitRepo {
		t.Errorf("expected exit code %d, got %d", exitcode.NotGitRepo, code)
	}

	var decoded output.RunResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v\n%s", err, out)
	}
	if decoded.Success || !strings.Contains(decoded.Error, "not a git repository") {
		t.Errorf("unexpected result: %+v", decoded)
	}
}

func TestWiden_NoConflictingFiles(t *testing.T) {
	mock := repoMock(t.TempDir())

	code, out := runCLI(t, mock)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(out, "No conflicting files found") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !mock.Called("diff", "--name-only", "--diff-filter=U") {
		t.Error("expected conflicted files to be listed")
	}
}

func TestWiden_RepositoryFiles(t *testing.T) {
	root := t.TempDir()
	goFile := writeFile(t, root, "main.go", conflictedGo)
	mdFile := writeFile(t, root, "README.md", "<<<<<<< HEAD\na\n=======\nb\n>>>>>>> x\n")

	code, out := runCLI(t, repoMock(root, "main.go", "README.md"))
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d\n%s", exitcode.Success, code, out)
	}

	if got := readFile(t, goFile); got != widenedGo {
		t.Errorf("main.go not widened:\n%s", got)
	}
	if got := readFile(t, goFile+widen.BackupSuffix); got != conflictedGo {
		t.Errorf("backup should hold the original, got:\n%s", got)
	}
	if _, err := os.Stat(mdFile + widen.BackupSuffix); !os.IsNotExist(err) {
		t.Error("unsupported file should be left alone")
	}

	for _, want := range []string{"block", "expanded", "Widened 1 region(s) in 1 file(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// ==================== File Argument Tests ====================

func TestWiden_FileArguments(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.go", conflictedGo)

	mock := git.NewMockExecutor()
	code, _ := runCLI(t, mock, "--no-backup", file)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := readFile(t, file); got != widenedGo {
		t.Errorf("file not widened:\n%s", got)
	}
	if _, err := os.Stat(file + widen.BackupSuffix); !os.IsNotExist(err) {
		t.Error("--no-backup should not create a backup")
	}
	if len(mock.Calls()) != 0 {
		t.Errorf("git should not be consulted for explicit files, got %+v", mock.Calls())
	}
}

func TestWiden_DryRun(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.go", conflictedGo)

	code, out := runCLI(t, git.NewMockExecutor(), "--dry-run", file)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := readFile(t, file); got != conflictedGo {
		t.Error("dry run must not modify the file")
	}
	for _, want := range []string{"Dry Run:", "Would widen 1 region(s) in 1 file(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWiden_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.go", conflictedGo)

	code, out := runCLI(t, git.NewMockExecutor(), "--json", "--dry-run", file)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}

	var decoded output.RunResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v\n%s", err, out)
	}
	if !decoded.Success || !decoded.DryRun {
		t.Errorf("expected successful dry run, got %+v", decoded)
	}
	if decoded.ExpandedCount != 1 || decoded.ChangedFiles != 1 || len(decoded.Files) != 1 {
		t.Fatalf("unexpected counts: %+v", decoded)
	}
	region := decoded.Files[0].Regions[0]
	if region.NodeKind != "block" || region.Before != 1 || region.After != 1 {
		t.Errorf("unexpected region: %+v", region)
	}
}

func TestWiden_FailedFiles(t *testing.T) {
	dir := t.TempDir()
	big := writeFile(t, dir, "big.go", conflictedGo)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{filepath.Join(dir, "nope.go")}, "no such file"},
		{"too large", []string{"--max-size", "10B", big}, "file too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := runCLI(t, git.NewMockExecutor(), tt.args...)
			if code != exitcode.FilesFailed {
				t.Errorf("expected exit code %d, got %d", exitcode.FilesFailed, code)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

// ==================== Stdin Tests ====================

func TestWiden_Stdin(t *testing.T) {
	var stdout bytes.Buffer
	code := runWithExecutor([]string{"--stdin", "--lang", "golang"}, strings.NewReader(conflictedGo), &stdout, git.NewMockExecutor())

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout.String() != widenedGo {
		t.Errorf("unexpected stdout:\n%s", stdout.String())
	}
}

func TestWiden_StdinUnchanged(t *testing.T) {
	input := "package main\n\nfunc main() {}\n"

	var stdout bytes.Buffer
	code := runWithExecutor([]string{"--stdin", "--lang", "go"}, strings.NewReader(input), &stdout, git.NewMockExecutor())

	if code != exitcode.Success || stdout.String() != input {
		t.Errorf("expected input echoed, got code %d:\n%s", code, stdout.String())
	}
}

// ==================== Usage Tests ====================

func TestWiden_UsageErrors(t *testing.T) {
	oldTerminal := isTerminal
	isTerminal = func() bool { return false }
	defer func() { isTerminal = oldTerminal }()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"unknown language", []string{"--lang", "cobol", "a.go"}},
		{"bad max size", []string{"--max-size", "lots", "a.go"}},
		{"zero jobs", []string{"--jobs", "0", "a.go"}},
		{"stdin without lang", []string{"--stdin"}},
		{"stdin with files", []string{"--stdin", "--lang", "go", "a.go"}},
		{"stdin with json", []string{"--stdin", "--lang", "go", "--json"}},
		{"interactive with json", []string{"-i", "--json", "a.go"}},
		{"interactive without terminal", []string{"-i", "a.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := git.NewMockExecutor()
			code, _ := runCLI(t, mock, tt.args...)
			if code != exitcode.UsageError {
				t.Errorf("expected exit code %d, got %d", exitcode.UsageError, code)
			}
			if len(mock.Calls()) != 0 {
				t.Errorf("git should not run on usage errors, got %+v", mock.Calls())
			}
		})
	}
}

func TestDisplayPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in       string
		expected string
	}{
		{"relative.go", "relative.go"},
		{filepath.Join(wd, "pkg", "a.go"), filepath.Join("pkg", "a.go")},
		{filepath.Join(filepath.Dir(wd), "elsewhere.go"), filepath.Join(filepath.Dir(wd), "elsewhere.go")},
	}
	for _, tt := range tests {
		if got := displayPath(tt.in); got != tt.expected {
			t.Errorf("displayPath(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
