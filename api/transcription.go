package api

import (
	stderrors "errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/735726032/openai-SenseVoice/errors"
	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/server"
	"github.com/735726032/openai-SenseVoice/server/middleware"
	"github.com/735726032/openai-SenseVoice/transcription"
)

// Route paths.
const (
	PathTranscriptions = "/v1/audio/transcriptions"
	PathModels         = "/v1/models"
)

// Form field names accepted besides the parameter names in transcription.
const (
	fieldFile          = "file"
	fieldGranularities = "timestamp_granularities"
)

// TranscriptionHandler serves the OpenAI-compatible transcription API.
type TranscriptionHandler struct {
	service *transcription.Service
	log     *logger.Logger
}

// NewTranscriptionHandler creates a handler backed by svc.
func NewTranscriptionHandler(svc *transcription.Service, log *logger.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{service: svc, log: log.WithComponent("api")}
}

// RegisterRoutes mounts the API on r, which is expected to be guarded by
// middleware.APIKeyAuth.
func (h *TranscriptionHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST(PathTranscriptions, h.Transcribe)
	r.GET(PathModels, h.ListModels)
}

// Transcribe handles POST /v1/audio/transcriptions. The response is a JSON
// array with one entry per uploaded file, in upload order.
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && !stderrors.Is(err, http.ErrNotMultipart) {
		server.RespondWithError(c, h.formError(c, err))
		return
	}
	if form != nil {
		defer func() {
			_ = form.RemoveAll()
		}()
	}

	req, err := parseRequest(form)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	results, err := h.service.Transcribe(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondJSON(c, results)
}

func (h *TranscriptionHandler) formError(c *gin.Context, err error) error {
	if tooLarge := middleware.BodyTooLarge(err); tooLarge != nil {
		h.log.WithContext(c.Request.Context()).Warn("Upload rejected", logger.Fields("reason", "body too large"))
		return tooLarge
	}
	return errors.Validation(fmt.Sprintf("Could not parse multipart body: %v", err)).WithCause(err)
}

// parseRequest maps the multipart form onto a TranscriptionRequest. Empty
// fields count as absent. form may be nil for a non-multipart body, which
// yields an empty file list.
func parseRequest(form *multipart.Form) (transcription.TranscriptionRequest, error) {
	req := transcription.TranscriptionRequest{
		Model:          transcription.DefaultModel,
		ResponseFormat: transcription.FormatText,
	}
	if form == nil {
		return req, nil
	}

	for _, key := range []string{transcription.ParamFiles, fieldFile} {
		for _, fh := range form.File[key] {
			req.Files = append(req.Files, transcription.FromFileHeader(fh))
		}
	}

	if v, ok := formValue(form, transcription.ParamLanguage); ok {
		req.Language = &v
	}
	if v, ok := formValue(form, transcription.ParamModel); ok {
		req.Model = v
	}
	if v, ok := formValue(form, transcription.ParamResponseFormat); ok {
		req.ResponseFormat = v
	}
	if v, ok := formValue(form, transcription.ParamWordTimestamps); ok {
		b, err := parseBool(v)
		if err != nil {
			return req, errors.InvalidParam(transcription.ParamWordTimestamps,
				fmt.Sprintf("Invalid word_timestamps %s. Must be a boolean.", v)).WithDetail("value", v)
		}
		req.WordTimestamps = b
	}
	for _, key := range []string{transcription.ParamTimestampGranularities, fieldGranularities} {
		for _, v := range form.Value[key] {
			if v = strings.TrimSpace(v); v != "" {
				req.TimestampGranularities = append(req.TimestampGranularities, v)
			}
		}
	}
	return req, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	values := form.Value[key]
	if len(values) == 0 || values[0] == "" {
		return "", false
	}
	return values[0], true
}

// parseBool accepts the spellings form clients commonly send.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
