package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/pipeline"
	"github.com/alkime/recap/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCandidate() upload.Candidate {
	return upload.NewCandidate("call.mp3", 1024, "audio/mpeg", nil)
}

func TestSimulated_Sequence(t *testing.T) {
	p := pipeline.NewSimulated(0)

	var updates []domain.Update
	result, err := p.Process(context.Background(), sampleCandidate(), func(u domain.Update) {
		updates = append(updates, u)
	})
	require.NoError(t, err)

	assert.Equal(t, pipeline.SampleSummary, result.Summary)
	assert.Equal(t, pipeline.SampleTranscription, result.Transcription)

	// 0..50 transcribing, then 50..100 summarizing, in steps of 5.
	require.Len(t, updates, 22)
	for i := 0; i <= 10; i++ {
		assert.Equal(t, domain.Update{Stage: domain.StageTranscribing, Progress: i * 5}, updates[i])
	}
	for i := 0; i <= 10; i++ {
		assert.Equal(t, domain.Update{Stage: domain.StageSummarizing, Progress: 50 + i*5}, updates[11+i])
	}
}

func TestSimulated_Deterministic(t *testing.T) {
	p := pipeline.NewSimulated(0)

	first, err := p.Process(context.Background(), sampleCandidate(), nil)
	require.NoError(t, err)
	second, err := p.Process(context.Background(), sampleCandidate(), nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulated_Cancelled(t *testing.T) {
	p := pipeline.NewSimulated(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	start := time.Now()
	_, err := p.Process(ctx, sampleCandidate(), nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestSimulated_CancelledWithoutInterval(t *testing.T) {
	p := pipeline.NewSimulated(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var updates int
	_, err := p.Process(ctx, sampleCandidate(), func(domain.Update) { updates++ })

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, updates)
}
