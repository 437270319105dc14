package content

import "fmt"

// Length selects how detailed a summary should be.
type Length string

const (
	// LengthShort is a concise summary.
	LengthShort Length = "short"
	// LengthMedium is the balanced default.
	LengthMedium Length = "medium"
	// LengthLong is a detailed summary.
	LengthLong Length = "long"
)

// ParseLength validates a summary length setting.
func ParseLength(s string) (Length, error) {
	switch Length(s) {
	case LengthShort, LengthMedium, LengthLong:
		return Length(s), nil
	default:
		return "", fmt.Errorf("invalid summary length %q: must be short, medium or long", s)
	}
}

// MaxTokens is the response budget for a summary of this length.
func (l Length) MaxTokens() int64 {
	switch l {
	case LengthShort:
		return 512
	case LengthLong:
		return 2048
	default:
		return 1024
	}
}

func (l Length) guidance() string {
	switch l {
	case LengthShort:
		return "Write two or three sentences covering only the main point and any decision made."
	case LengthLong:
		return "Write a detailed summary of several paragraphs that follows the order of the recording " +
			"and keeps names, numbers and decisions."
	default:
		return "Write one paragraph of four to six sentences covering the main topics and outcomes."
	}
}

// SummarySystemPrompt is the system prompt for summarizing a transcript.
func SummarySystemPrompt(l Length) string {
	return `You summarize transcripts of audio recordings such as meetings, lectures and voice memos.
- Use only information present in the transcript
- Write plain prose without markdown headings, bullet lists or preamble
- Keep the language of the transcript
- ` + l.guidance()
}
