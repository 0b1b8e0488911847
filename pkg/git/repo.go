package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// RepoRoot returns the top-level directory of the repository.
func RepoRoot(ctx context.Context, e Executor) (string, error) {
	out, err := e.Output(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", ErrNotRepository
	}
	return root, nil
}

// ConflictingFiles returns the unmerged paths of the repository, joined to
// root so they can be opened from any working directory.
func ConflictingFiles(ctx context.Context, e Executor, root string) ([]string, error) {
	out, err := e.Output(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to get conflicting files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if root != "" {
			line = filepath.Join(root, filepath.FromSlash(line))
		}
		files = append(files, line)
	}
	return files, nil
}
