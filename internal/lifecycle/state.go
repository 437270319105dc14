package lifecycle

import (
	"errors"
	"fmt"

	"github.com/alkime/recap/internal/domain"
)

var (
	// ErrJobInFlight is returned when an upload starts while another job runs.
	ErrJobInFlight = errors.New("a file is already being processed")
	// ErrJobCancelled is returned when a job is abandoned before it finished.
	ErrJobCancelled = errors.New("processing cancelled")
	// ErrStaleJob marks an action for a job that is no longer current.
	ErrStaleJob = errors.New("action for a job that is no longer current")
	// ErrOutOfOrder marks a progress report that would move backwards.
	ErrOutOfOrder = errors.New("progress report out of order")
)

// FileInfo describes the accepted file of a job.
type FileInfo struct {
	Name     string
	Size     int64
	MIMEType string
}

// State is one of Idle, Active, Completed or Failed.
type State interface {
	isState()
}

// Idle is the initial state: no file, no result, no error.
type Idle struct{}

// Active is a running job.
type Active struct {
	JobID    string
	File     FileInfo
	Stage    domain.Stage
	Progress int
}

// Completed holds the result of a finished job.
type Completed struct {
	JobID  string
	File   FileInfo
	Result domain.Result
}

// Failed holds the error that ended a job.
type Failed struct {
	JobID string
	File  FileInfo
	Err   error
}

func (Idle) isState()      {}
func (Active) isState()    {}
func (Completed) isState() {}
func (Failed) isState()    {}

// action is a named input to the state machine.
type action interface {
	name() string
}

type started struct {
	jobID string
	file  FileInfo
}

type progressed struct {
	jobID  string
	update domain.Update
}

type succeeded struct {
	jobID  string
	result domain.Result
}

type failed struct {
	jobID string
	err   error
}

type reset struct{}

func (started) name() string    { return "started" }
func (progressed) name() string { return "progressed" }
func (succeeded) name() string  { return "succeeded" }
func (failed) name() string     { return "failed" }
func (reset) name() string      { return "reset" }

// progressCeiling keeps running stages below 100 until the job completes.
func progressCeiling(stage domain.Stage) int {
	if stage == domain.StageSummarizing {
		return 100
	}

	return 99
}

// transition is the only place the state changes. On error the caller keeps
// the current state.
func transition(s State, a action) (State, error) {
	if _, ok := a.(reset); ok {
		return Idle{}, nil
	}

	active, isActive := s.(Active)

	switch a := a.(type) {
	case started:
		if isActive {
			return s, ErrJobInFlight
		}

		return Active{
			JobID:    a.jobID,
			File:     a.file,
			Stage:    domain.StageUploading,
			Progress: 0,
		}, nil

	case progressed:
		if !isActive || active.JobID != a.jobID {
			return s, ErrStaleJob
		}
		if !a.update.Stage.Running() {
			return s, fmt.Errorf("cannot report progress for stage %s", a.update.Stage)
		}
		if a.update.Stage.Rank() < active.Stage.Rank() {
			return s, fmt.Errorf("%w: %s after %s", ErrOutOfOrder, a.update.Stage, active.Stage)
		}

		progress := min(max(a.update.Progress, 0), progressCeiling(a.update.Stage))
		if progress < active.Progress {
			return s, fmt.Errorf("%w: %d after %d", ErrOutOfOrder, progress, active.Progress)
		}

		active.Stage = a.update.Stage
		active.Progress = progress

		return active, nil

	case succeeded:
		if !isActive || active.JobID != a.jobID {
			return s, ErrStaleJob
		}

		return Completed{JobID: active.JobID, File: active.File, Result: a.result}, nil

	case failed:
		if !isActive || active.JobID != a.jobID {
			return s, ErrStaleJob
		}
		if a.err == nil {
			return s, errors.New("failed action without an error")
		}

		return Failed{JobID: active.JobID, File: active.File, Err: a.err}, nil

	default:
		return s, fmt.Errorf("unknown action %s", a.name())
	}
}
