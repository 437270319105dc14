package lifecycle

import (
	"errors"
	"testing"

	"github.com/alkime/recap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memo = FileInfo{Name: "memo.wav", Size: 2048, MIMEType: "audio/wav"}

func active(stage domain.Stage, progress int) Active {
	return Active{JobID: "job-1", File: memo, Stage: stage, Progress: progress}
}

func TestTransition(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		from    State
		action  action
		want    State
		wantErr error
	}{
		{
			name:   "start from idle",
			from:   Idle{},
			action: started{jobID: "job-1", file: memo},
			want:   active(domain.StageUploading, 0),
		},
		{
			name:   "start again after completion",
			from:   Completed{JobID: "job-0", Result: domain.Result{Summary: "old"}},
			action: started{jobID: "job-1", file: memo},
			want:   active(domain.StageUploading, 0),
		},
		{
			name:   "retry after failure",
			from:   Failed{JobID: "job-0", Err: boom},
			action: started{jobID: "job-1", file: memo},
			want:   active(domain.StageUploading, 0),
		},
		{
			name:    "start while active",
			from:    active(domain.StageTranscribing, 20),
			action:  started{jobID: "job-2", file: memo},
			want:    active(domain.StageTranscribing, 20),
			wantErr: ErrJobInFlight,
		},
		{
			name:   "progress within stage",
			from:   active(domain.StageTranscribing, 20),
			action: progressed{jobID: "job-1", update: domain.Update{Stage: domain.StageTranscribing, Progress: 25}},
			want:   active(domain.StageTranscribing, 25),
		},
		{
			name:   "progress into next stage",
			from:   active(domain.StageTranscribing, 50),
			action: progressed{jobID: "job-1", update: domain.Update{Stage: domain.StageSummarizing, Progress: 50}},
			want:   active(domain.StageSummarizing, 50),
		},
		{
			name:   "transcribing is capped below 100",
			from:   active(domain.StageTranscribing, 50),
			action: progressed{jobID: "job-1", update: domain.Update{Stage: domain.StageTranscribing, Progress: 100}},
			want:   active(domain.StageTranscribing, 99),
		},
		{
			name:   "negative progress is clamped",
			from:   active(domain.StageUploading, 0),
			action: progressed{jobID: "job-1", update: domain.Update{Stage: domain.StageUploading, Progress: -3}},
			want:   active(domain.StageUploading, 0),
		},
		{
			name:    "progress backwards",
			from:    active(domain.StageSummarizing, 70),
			action:  progressed{jobID: "job-1", update: domain.Update{Stage: domain.StageSummarizing, Progress: 60}},
			want:    active(domain.StageSummarizing, 70),
			wantErr: ErrOutOfOrder,
		},
		{
			name:    "stage backwards",
			from:    active(domain.StageSummarizing, 50),
			action:  progressed{jobID: "job-1", update: domain.Update{Stage: domain.StageTranscribing, Progress: 55}},
			want:    active(domain.StageSummarizing, 50),
			wantErr: ErrOutOfOrder,
		},
		{
			name:    "progress for another job",
			from:    active(domain.StageUploading, 10),
			action:  progressed{jobID: "job-0", update: domain.Update{Stage: domain.StageUploading, Progress: 40}},
			want:    active(domain.StageUploading, 10),
			wantErr: ErrStaleJob,
		},
		{
			name:    "progress while idle",
			from:    Idle{},
			action:  progressed{jobID: "job-1", update: domain.Update{Stage: domain.StageUploading, Progress: 40}},
			want:    Idle{},
			wantErr: ErrStaleJob,
		},
		{
			name:   "success",
			from:   active(domain.StageSummarizing, 100),
			action: succeeded{jobID: "job-1", result: domain.Result{Summary: "S", Transcription: "T"}},
			want:   Completed{JobID: "job-1", File: memo, Result: domain.Result{Summary: "S", Transcription: "T"}},
		},
		{
			name:    "success after reset",
			from:    Idle{},
			action:  succeeded{jobID: "job-1"},
			want:    Idle{},
			wantErr: ErrStaleJob,
		},
		{
			name:   "failure",
			from:   active(domain.StageUploading, 30),
			action: failed{jobID: "job-1", err: boom},
			want:   Failed{JobID: "job-1", File: memo, Err: boom},
		},
		{
			name:    "failure from completed",
			from:    Completed{JobID: "job-1"},
			action:  failed{jobID: "job-1", err: boom},
			want:    Completed{JobID: "job-1"},
			wantErr: ErrStaleJob,
		},
		{
			name:   "reset from completed",
			from:   Completed{JobID: "job-1", Result: domain.Result{Summary: "S"}},
			action: reset{},
			want:   Idle{},
		},
		{
			name:   "reset from active",
			from:   active(domain.StageSummarizing, 80),
			action: reset{},
			want:   Idle{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transition(tt.from, tt.action)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_RejectsTerminalProgress(t *testing.T) {
	from := active(domain.StageSummarizing, 90)
	got, err := transition(from, progressed{jobID: "job-1", update: domain.Update{Stage: domain.StageCompleted, Progress: 100}})

	require.Error(t, err)
	assert.Equal(t, from, got)
}

func TestSnapshotOf(t *testing.T) {
	t.Run("idle is the zero job", func(t *testing.T) {
		assert.Equal(t, Snapshot{Stage: domain.StageIdle}, snapshotOf(Idle{}))
	})

	t.Run("completed forces 100", func(t *testing.T) {
		snap := snapshotOf(Completed{JobID: "job-1", File: memo, Result: domain.Result{Summary: "S", Transcription: "T"}})

		assert.Equal(t, domain.StageCompleted, snap.Stage)
		assert.Equal(t, 100, snap.Progress)
		assert.Empty(t, snap.Error)
		assert.True(t, snap.Terminal())

		result, ok := snap.Result()
		require.True(t, ok)
		assert.Equal(t, domain.Result{Summary: "S", Transcription: "T"}, result)
	})

	t.Run("failed has zero progress and a message", func(t *testing.T) {
		snap := snapshotOf(Failed{JobID: "job-1", File: memo, Err: &domain.ServiceError{StatusCode: 500, Message: "Summarization failed: x"}})

		assert.Equal(t, domain.StageFailed, snap.Stage)
		assert.Zero(t, snap.Progress)
		assert.Equal(t, "Summarization failed: x", snap.Error)
		assert.Empty(t, snap.Summary)
		assert.Empty(t, snap.Transcription)

		_, ok := snap.Result()
		assert.False(t, ok)
	})

	t.Run("active keeps file and progress", func(t *testing.T) {
		snap := snapshotOf(active(domain.StageTranscribing, 35))

		assert.Equal(t, "memo.wav", snap.FileName)
		assert.Equal(t, 35, snap.Progress)
		assert.False(t, snap.Terminal())
	})
}
