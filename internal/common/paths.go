package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CleanPath makes a path absolute and rejects directory traversal
func CleanPath(path string) (string, error) {
	cleaned := filepath.Clean(path)

	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid path: contains directory traversal")
	}

	if !filepath.IsAbs(cleaned) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		cleaned = abs
	}

	return cleaned, nil
}

// ValidatePath ensures a path is baseDir or inside it
func ValidatePath(path, baseDir string) (string, error) {
	cleanedPath, err := CleanPath(path)
	if err != nil {
		return "", err
	}

	cleanedBase, err := CleanPath(baseDir)
	if err != nil {
		return "", err
	}

	if cleanedPath != cleanedBase &&
		!strings.HasPrefix(cleanedPath, strings.TrimSuffix(cleanedBase, string(filepath.Separator))+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside %s", cleanedPath, cleanedBase)
	}

	return cleanedPath, nil
}

// JoinPath joins elements onto base and refuses results that leave base
func JoinPath(base string, elements ...string) (string, error) {
	cleanedBase, err := CleanPath(base)
	if err != nil {
		return "", err
	}

	joined := filepath.Join(append([]string{cleanedBase}, elements...)...)
	return ValidatePath(joined, cleanedBase)
}
