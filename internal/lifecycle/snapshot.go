package lifecycle

import "github.com/alkime/recap/internal/domain"

// Snapshot is a flat read-only view of the controller state.
type Snapshot struct {
	JobID         string       `json:"job_id,omitempty"`
	Stage         domain.Stage `json:"stage"`
	Progress      int          `json:"progress"`
	FileName      string       `json:"file_name,omitempty"`
	Summary       string       `json:"summary,omitempty"`
	Transcription string       `json:"transcription,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// Terminal reports whether the snapshot ends a job.
func (s Snapshot) Terminal() bool {
	return s.Stage == domain.StageCompleted || s.Stage == domain.StageFailed
}

// Result returns the payload of a completed snapshot.
func (s Snapshot) Result() (domain.Result, bool) {
	if s.Stage != domain.StageCompleted {
		return domain.Result{}, false
	}

	return domain.Result{Summary: s.Summary, Transcription: s.Transcription}, true
}

func snapshotOf(s State) Snapshot {
	switch s := s.(type) {
	case Active:
		return Snapshot{
			JobID:    s.JobID,
			Stage:    s.Stage,
			Progress: s.Progress,
			FileName: s.File.Name,
		}
	case Completed:
		return Snapshot{
			JobID:         s.JobID,
			Stage:         domain.StageCompleted,
			Progress:      100,
			FileName:      s.File.Name,
			Summary:       s.Result.Summary,
			Transcription: s.Result.Transcription,
		}
	case Failed:
		return Snapshot{
			JobID:    s.JobID,
			Stage:    domain.StageFailed,
			FileName: s.File.Name,
			Error:    domain.UserMessage(s.Err),
		}
	default:
		return Snapshot{Stage: domain.StageIdle}
	}
}
