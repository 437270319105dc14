package pipeline_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/pipeline"
	"github.com/alkime/recap/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func audioCandidate(data []byte) upload.Candidate {
	return upload.NewCandidate("memo.wav", int64(len(data)), "audio/wav", func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

func TestService_Success(t *testing.T) {
	audio := bytes.Repeat([]byte{0x52}, 4096)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, pipeline.SummarizePath, r.URL.Path)

		file, header, err := r.FormFile(pipeline.FormField)
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		got, _ := io.ReadAll(file)
		assert.Equal(t, audio, got)
		assert.Equal(t, "memo.wav", header.Filename)
		assert.Equal(t, "audio/wav", header.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"summary":"S","transcription":"T"}`))
	}))
	defer srv.Close()

	var updates []domain.Update
	result, err := pipeline.NewService(srv.URL+"/").Process(
		context.Background(),
		audioCandidate(audio),
		func(u domain.Update) { updates = append(updates, u) },
	)
	require.NoError(t, err)

	assert.Equal(t, domain.Result{Summary: "S", Transcription: "T"}, result)

	require.NotEmpty(t, updates)
	assert.Equal(t, domain.Update{Stage: domain.StageUploading, Progress: 0}, updates[0])
	for i, u := range updates {
		assert.Equal(t, domain.StageUploading, u.Stage)
		assert.LessOrEqual(t, u.Progress, 90)
		if i > 0 {
			assert.GreaterOrEqual(t, u.Progress, updates[i-1].Progress)
		}
	}
}

func TestService_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "error payload",
			status:      http.StatusInternalServerError,
			body:        `{"error":"Transcription failed: model unavailable"}`,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Transcription failed: model unavailable",
		},
		{
			name:        "plain error body",
			status:      http.StatusBadGateway,
			body:        "bad gateway",
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Bad Gateway",
		},
		{
			name:        "not json",
			status:      http.StatusOK,
			body:        "<html></html>",
			wantStatus:  http.StatusOK,
			wantMessage: "Malformed response from summarization service",
		},
		{
			name:        "missing transcription",
			status:      http.StatusOK,
			body:        `{"summary":"S"}`,
			wantStatus:  http.StatusOK,
			wantMessage: "Malformed response from summarization service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := pipeline.NewService(srv.URL).Process(context.Background(), audioCandidate([]byte("RIFF")), nil)
			require.Error(t, err)

			var svcErr *domain.ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tt.wantStatus, svcErr.StatusCode)
			assert.Equal(t, tt.wantMessage, domain.UserMessage(err))
		})
	}
}

func TestService_EmptyResultIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"summary":"","transcription":""}`))
	}))
	defer srv.Close()

	result, err := pipeline.NewService(srv.URL).Process(context.Background(), audioCandidate([]byte("RIFF")), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Result{}, result)
}

func TestService_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := pipeline.NewService(url).Process(context.Background(), audioCandidate([]byte("RIFF")), nil)
	require.Error(t, err)

	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, domain.NetworkFailureMessage, domain.UserMessage(err))
}

func TestService_Cancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := pipeline.NewService(srv.URL).Process(ctx, audioCandidate([]byte("RIFF")), nil)
		done <- err
	}()

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_OpenFailure(t *testing.T) {
	file := upload.NewCandidate("gone.wav", 10, "audio/wav", func() (io.ReadCloser, error) {
		return nil, io.ErrUnexpectedEOF
	})

	_, err := pipeline.NewService("http://127.0.0.1:0").Process(context.Background(), file, nil)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
