// Package upload builds and validates audio files selected for processing.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// extensionTypes covers the accepted containers, which the platform's
// mime tables do not always know.
var extensionTypes = map[string]string{
	".wav": "audio/wav",
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".ogg": "audio/ogg",
}

// containerTypes are sniffed types that may hold audio only. An .m4a with an
// "isom" or "mp42" brand sniffs as video/mp4.
var containerTypes = map[string][]string{
	".m4a": {"video/mp4", "audio/mp4"},
	".ogg": {"application/ogg", "video/ogg"},
}

// Opener opens the bytes behind a candidate.
type Opener func() (io.ReadCloser, error)

// Candidate is a file selected by the user before validation.
type Candidate struct {
	Name     string
	Size     int64
	MIMEType string
	open     Opener
}

// NewCandidate creates a candidate from explicit metadata.
func NewCandidate(name string, size int64, mimeType string, open Opener) Candidate {
	return Candidate{
		Name:     name,
		Size:     size,
		MIMEType: mimeType,
		open:     open,
	}
}

// FromFile stats a file on disk and sniffs its MIME type from content.
func FromFile(path string) (Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return Candidate{}, fmt.Errorf("%s is a directory", path)
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to detect type of %s: %w", path, err)
	}

	mimeType := detected.String()
	if !strings.HasPrefix(mimeType, "audio/") && extensionDecides(detected, path) {
		if byExt := typeByExtension(path); byExt != "" {
			mimeType = byExt
		}
	}

	return NewCandidate(filepath.Base(path), info.Size(), mimeType, func() (io.ReadCloser, error) {
		return os.Open(path) //nolint:gosec // path chosen by the user
	}), nil
}

// extensionDecides reports whether the extension's type should replace the
// sniffed one: sniffing was inconclusive, or it found a container the
// extension says carries audio.
func extensionDecides(detected *mimetype.MIME, path string) bool {
	if detected.Is("application/octet-stream") {
		return true
	}

	for _, t := range containerTypes[strings.ToLower(filepath.Ext(path))] {
		if detected.Is(t) {
			return true
		}
	}

	return false
}

// FromFileHeader wraps a multipart upload. The declared content type wins;
// the extension's registered type is used when none was sent.
func FromFileHeader(fh *multipart.FileHeader) Candidate {
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = typeByExtension(fh.Filename)
	}

	return NewCandidate(fh.Filename, fh.Size, mimeType, func() (io.ReadCloser, error) {
		return fh.Open()
	})
}

// Open returns a reader over the candidate's bytes. The caller closes it.
func (c Candidate) Open() (io.ReadCloser, error) {
	if c.open == nil {
		return nil, errors.New("candidate has no content")
	}

	return c.open()
}

// Ext returns the lower-cased file extension including the dot.
func (c Candidate) Ext() string {
	return strings.ToLower(filepath.Ext(c.Name))
}

func typeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}

	return mime.TypeByExtension(ext)
}
