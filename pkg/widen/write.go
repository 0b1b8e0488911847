package widen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BackupSuffix is appended to a file's name to form its backup path.
const BackupSuffix = ".orig"

// atomicWriteWithBackup replaces filename with content through a temp file
// in the same directory. When createBackup is set and no backup exists yet,
// the current content is copied to filename+BackupSuffix first; the backup
// path is returned in that case.
func atomicWriteWithBackup(filename string, content []byte, createBackup bool) (string, error) {
	mode := os.FileMode(0644)
	if info, err := os.Stat(filename); err == nil {
		mode = info.Mode().Perm()
	}

	var backupPath string
	if createBackup {
		candidate := filename + BackupSuffix
		// Only create backup if original exists and backup doesn't
		if _, err := os.Stat(filename); err == nil {
			if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
				original, err := os.ReadFile(filename)
				if err != nil {
					return "", formatWriteError(filename, err, "read original for backup")
				}
				if err := os.WriteFile(candidate, original, mode); err != nil {
					return "", fmt.Errorf("cannot create backup %s: %w", candidate, err)
				}
				backupPath = candidate
			}
		}
	}

	dir := filepath.Dir(filename)
	tempFile, err := os.CreateTemp(dir, ".widen-*")
	if err != nil {
		return "", formatWriteError(filename, err, "create temp file")
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempPath != "" {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()
		return "", formatWriteError(filename, err, "write temp file")
	}
	if err := tempFile.Chmod(mode); err != nil {
		tempFile.Close()
		return "", formatWriteError(filename, err, "set permissions on temp file")
	}
	if err := tempFile.Close(); err != nil {
		return "", formatWriteError(filename, err, "close temp file")
	}

	if err := os.Rename(tempPath, filename); err != nil {
		return "", formatWriteError(filename, err, "rename temp to target")
	}

	tempPath = ""
	return backupPath, nil
}

// formatWriteError turns write errors into user-facing messages.
func formatWriteError(filename string, err error, operation string) error {
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("cannot write to %s: permission denied", filename)
	}
	msg := err.Error()
	if strings.Contains(msg, "no space left") {
		return fmt.Errorf("cannot write to %s: disk full", filename)
	}
	if strings.Contains(msg, "locked") || strings.Contains(msg, "busy") {
		return fmt.Errorf("cannot write to %s: file is locked by another process", filename)
	}
	return fmt.Errorf("failed to %s for %s: %w", operation, filename, err)
}
