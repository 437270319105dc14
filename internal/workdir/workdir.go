// Package workdir locates the recap working files.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// LogFile receives TUI logs, since the terminal belongs to the UI.
	LogFile = "recap.log"

	exportsDir = "exports"
)

// Root returns the base directory for all recap working files.
// The path is expanded at runtime to resolve to:
//
//	$HOME/Documents/Alkime/Recap
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "Alkime", "Recap"), nil
}

// ExportsPath returns the default directory for exported summaries.
func ExportsPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, exportsDir), nil
}

// LogPath returns the path of the TUI log file.
func LogPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, LogFile), nil
}

// Prep ensures that the root and exports directories exist.
func Prep() error {
	exports, err := ExportsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(exports, 0755); err != nil {
		return fmt.Errorf("failed to create working directory %s: %w", exports, err)
	}

	return nil
}
