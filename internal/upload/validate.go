package upload

import (
	"fmt"
	"slices"
	"strings"
)

// MaxSize is the largest accepted upload, 25 MiB.
const MaxSize int64 = 25 * 1024 * 1024

// AllowedExtensions lists the audio containers the service accepts.
var AllowedExtensions = []string{".wav", ".mp3", ".m4a", ".ogg"}

// Reason classifies why a candidate was rejected.
type Reason string

const (
	ReasonNoFile               Reason = "no_file"
	ReasonNotAudio             Reason = "not_audio"
	ReasonTooLarge             Reason = "too_large"
	ReasonUnsupportedExtension Reason = "unsupported_extension"
)

// ValidationError rejects a candidate before any job starts.
type ValidationError struct {
	Reason Reason
	File   string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonNoFile:
		return "No audio file provided"
	case ReasonNotAudio:
		return "Please upload an audio file (WAV, MP3, etc.)"
	case ReasonTooLarge:
		return fmt.Sprintf("File size exceeds %dMB limit", MaxSize/(1024*1024))
	case ReasonUnsupportedExtension:
		return fmt.Sprintf("Unsupported audio format: use %s", strings.Join(AllowedExtensions, ", "))
	default:
		return "Invalid upload"
	}
}

// Validate accepts the first candidate or explains why it was rejected.
// Candidates after the first are ignored.
func Validate(candidates ...Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, &ValidationError{Reason: ReasonNoFile}
	}

	file := candidates[0]

	if !strings.HasPrefix(strings.ToLower(file.MIMEType), "audio/") {
		return Candidate{}, &ValidationError{Reason: ReasonNotAudio, File: file.Name}
	}

	if file.Size > MaxSize {
		return Candidate{}, &ValidationError{Reason: ReasonTooLarge, File: file.Name}
	}

	if !slices.Contains(AllowedExtensions, file.Ext()) {
		return Candidate{}, &ValidationError{Reason: ReasonUnsupportedExtension, File: file.Name}
	}

	return file, nil
}
