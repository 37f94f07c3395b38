// Package filex contains filesystem helpers for the askpdf data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vkazlou/askpdf/internal/common"
)

// AppDir returns the per-user application directory (~/.askpdf),
// creating it if needed.
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("user home dir: %w", err)
	}

	dir := filepath.Join(home, "."+common.AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// EnsureSubDir creates (if needed) and returns a subdirectory of the
// application directory, e.g. EnsureSubDir("downloads").
func EnsureSubDir(dirName string) (string, error) {
	base, err := AppDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(base, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}
