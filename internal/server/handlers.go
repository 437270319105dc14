package server

import (
	"errors"
	"net/http"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/pipeline"
	"github.com/alkime/recap/internal/upload"
	"github.com/gin-gonic/gin"
)

// maxRequestBody leaves room for multipart framing around the largest file.
const maxRequestBody = upload.MaxSize + 1<<20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSummarize(c *gin.Context) {
	fileHeader, err := c.FormFile(pipeline.FormField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.logger.Info("Upload rejected", "reason", upload.ReasonTooLarge, "ip", c.ClientIP())
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{
				Error: (&upload.ValidationError{Reason: upload.ReasonTooLarge}).Error(),
			})
			return
		}

		s.logger.Info("Upload rejected", "reason", upload.ReasonNoFile, "ip", c.ClientIP(), "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: (&upload.ValidationError{Reason: upload.ReasonNoFile}).Error(),
		})
		return
	}

	file, err := upload.Validate(upload.FromFileHeader(fileHeader))
	if err != nil {
		s.logger.Info("Upload rejected", "file", fileHeader.Filename, "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Info("Processing upload",
		"file", file.Name,
		"bytes", file.Size,
		"type", file.MIMEType,
	)

	result, err := s.processor.Process(c.Request.Context(), file, func(u domain.Update) {
		s.logger.Debug("Progress", "file", file.Name, "stage", u.Stage, "progress", u.Progress)
	})
	if err != nil {
		s.logger.Error("Processing failed", "file", file.Name, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: domain.UserMessage(err)})
		return
	}

	entry := s.history.Add(file.Name, result)
	s.logger.Info("Processing complete", "file", file.Name, "history_id", entry.ID)

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.history.List())
}
