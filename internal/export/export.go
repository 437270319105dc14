// Package export renders a completed result into a downloadable artifact.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/lifecycle"
)

// Format identifies an export format.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var (
	// ErrUnsupportedFormat is returned for declared formats that are not implemented.
	ErrUnsupportedFormat = errors.New("export format not supported yet")
	// ErrUnknownFormat is returned for identifiers that are not formats at all.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrNotCompleted is returned when there is no completed result to export.
	ErrNotCompleted = errors.New("no completed result to export")
)

// Formats lists every declared format, implemented or not.
var Formats = []Format{FormatText, FormatPDF, FormatDOCX}

// ParseFormat maps an identifier such as "txt", "text" or ".TXT" to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case "text":
		return FormatText, nil
	case FormatText, FormatPDF, FormatDOCX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Artifact is an exported file held in memory.
type Artifact struct {
	Filename    string
	ContentType string
	Content     []byte
}

// WriteTo writes the artifact into dir, creating dir if needed, and returns
// the file path.
func (a Artifact) WriteTo(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Content, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// Export renders result in format. sourceName is the uploaded file's name and
// only shapes the artifact's file name.
func Export(result domain.Result, format Format, sourceName string) (Artifact, error) {
	switch format {
	case FormatText:
		return Artifact{
			Filename:    filename(sourceName, format),
			ContentType: "text/plain; charset=utf-8",
			Content:     []byte(Text(result)),
		}, nil
	case FormatPDF, FormatDOCX:
		return Artifact{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	default:
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// FromSnapshot exports the result held by a completed snapshot.
func FromSnapshot(snap lifecycle.Snapshot, format Format) (Artifact, error) {
	result, ok := snap.Result()
	if !ok {
		return Artifact{}, fmt.Errorf("%w: job is %s", ErrNotCompleted, snap.Stage)
	}

	return Export(result, format, snap.FileName)
}

// Text is the plain text rendering of a result.
func Text(result domain.Result) string {
	return "Summary:\n" + result.Summary + "\n\nTranscription:\n" + result.Transcription
}

func filename(sourceName string, format Format) string {
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	if sourceName == "" || base == "" || base == "." || base == string(filepath.Separator) {
		return "summary." + string(format)
	}

	return base + "-summary." + string(format)
}
