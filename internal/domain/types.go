// Package domain defines the shared vocabulary of a processing job.
package domain

// Stage is one phase of a processing job.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageUploading    Stage = "uploading"
	StageTranscribing Stage = "transcribing"
	StageSummarizing  Stage = "summarizing"
	StageCompleted    Stage = "completed"
	StageFailed       Stage = "failed"
)

// String returns the human-readable name of the stage.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageUploading:
		return "Uploading"
	case StageTranscribing:
		return "Transcribing"
	case StageSummarizing:
		return "Summarizing"
	case StageCompleted:
		return "Completed"
	case StageFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Running reports whether the stage belongs to an in-flight job.
func (s Stage) Running() bool {
	switch s {
	case StageUploading, StageTranscribing, StageSummarizing:
		return true
	default:
		return false
	}
}

// Rank orders the running stages. Non-running stages rank 0.
func (s Stage) Rank() int {
	switch s {
	case StageUploading:
		return 1
	case StageTranscribing:
		return 2
	case StageSummarizing:
		return 3
	default:
		return 0
	}
}

// Update is a progress report from a processor.
type Update struct {
	Stage    Stage
	Progress int
}

// ProgressFunc receives progress reports while a job runs.
type ProgressFunc func(Update)

// Result holds the payload of a completed job.
type Result struct {
	Summary       string `json:"summary"`
	Transcription string `json:"transcription"`
}
