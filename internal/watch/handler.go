package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/alkime/recap/internal/export"
	"github.com/alkime/recap/internal/lifecycle"
	"github.com/alkime/recap/internal/upload"
)

// Summarize returns a Handler that runs each file through ctrl and writes a
// text export into outDir. An empty outDir writes next to the source file.
// The controller is reset after every file so the next one starts clean.
func Summarize(ctrl *lifecycle.Controller, outDir string, logger *slog.Logger) Handler {
	return func(ctx context.Context, path string) error {
		defer ctrl.Reset()

		file, err := upload.FromFile(path)
		if err != nil {
			return err
		}

		snap, err := ctrl.Upload(ctx, file)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		artifact, err := export.FromSnapshot(snap, export.FormatText)
		if err != nil {
			return err
		}

		dir := outDir
		if dir == "" {
			dir = filepath.Dir(path)
		}

		written, err := artifact.WriteTo(dir)
		if err != nil {
			return err
		}

		logger.Info("Summary written", "source", path, "output", written)

		return nil
	}
}
