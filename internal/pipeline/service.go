package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/upload"
)

const (
	// SummarizePath is the Summarization Service endpoint.
	SummarizePath = "/summarize"
	// FormField is the multipart field carrying the audio file.
	FormField = "file"

	// uploadCeiling caps progress while request bytes are still being sent;
	// the service only reports completion.
	uploadCeiling = 90
	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 * 1024

	malformedResponse = "Malformed response from summarization service"
)

// Service is a Processor backed by the remote Summarization Service.
type Service struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a client for the Summarization Service at baseURL.
func NewService(baseURL string, opts ...ServiceOption) *Service {
	s := &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type summarizeResponse struct {
	Summary       *string `json:"summary"`
	Transcription *string `json:"transcription"`
	Error         string  `json:"error"`
}

// Process uploads the file and waits for the service's result.
func (s *Service) Process(
	ctx context.Context,
	file upload.Candidate,
	report domain.ProgressFunc,
) (domain.Result, error) {
	body, contentType, err := encodeForm(file)
	if err != nil {
		return domain.Result{}, err
	}

	emit(report, domain.StageUploading, 0)

	total := int64(body.Len())
	reader := &progressReader{
		r:     body,
		total: total,
		onRead: func(sent int64) {
			emit(report, domain.StageUploading, int(sent*uploadCeiling/max(total, 1)))
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+SummarizePath, reader)
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to build summarize request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("Uploading audio", "file", file.Name, "bytes", total, "url", req.URL.String())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Result{}, ctxErr
		}

		return domain.Result{}, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	result, err := decodeSummarize(resp)
	if err != nil {
		return domain.Result{}, err
	}

	return result, nil
}

func encodeForm(file upload.Candidate) (*bytes.Buffer, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer src.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, file.Name))
	header.Set("Content-Type", file.MIMEType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}

	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", file.Name, err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

func decodeSummarize(resp *http.Response) (domain.Result, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		var payload summarizeResponse
		if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
			return domain.Result{}, &domain.ServiceError{StatusCode: resp.StatusCode}
		}

		return domain.Result{}, &domain.ServiceError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	var payload summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Result{}, &domain.ServiceError{StatusCode: resp.StatusCode, Message: malformedResponse}
	}

	if payload.Summary == nil || payload.Transcription == nil {
		return domain.Result{}, &domain.ServiceError{StatusCode: resp.StatusCode, Message: malformedResponse}
	}

	return domain.Result{
		Summary:       *payload.Summary,
		Transcription: *payload.Transcription,
	}, nil
}

// progressReader reports cumulative bytes read.
type progressReader struct {
	r      io.Reader
	total  int64
	onRead func(sent int64)

	mu   sync.Mutex
	sent int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.sent += int64(n)
		sent := p.sent
		p.mu.Unlock()

		p.onRead(sent)
	}

	return n, err
}
