package transcription

import (
	"io"
	"net/http"
	"testing"

	"github.com/735726032/openai-SenseVoice/errors"
)

func strPtr(s string) *string { return &s }

func files(names ...string) []UploadedFile {
	out := make([]UploadedFile, len(names))
	for i, n := range names {
		out[i] = NewUploadedFile(n, "audio/wav", []byte("x"))
	}
	return out
}

func validRequest() TranscriptionRequest {
	return TranscriptionRequest{
		Files:          files("audio.wav"),
		Language:       strPtr("en"),
		Model:          DefaultModel,
		ResponseFormat: FormatText,
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *TranscriptionRequest)
		wantParam string
		wantMsg   string
	}{
		{
			name:   "valid",
			mutate: func(r *TranscriptionRequest) {},
		},
		{
			name:   "nil language is allowed",
			mutate: func(r *TranscriptionRequest) { r.Language = nil },
		},
		{
			name:   "upper-case extension accepted",
			mutate: func(r *TranscriptionRequest) { r.Files = files("A.WAV", "b.Flac") },
		},
		{
			name:      "bad extension",
			mutate:    func(r *TranscriptionRequest) { r.Files = files("clip.xyz") },
			wantParam: ParamFiles,
			wantMsg:   "Invalid file extension. Supported extensions are: mp3, mp4, mpeg, mpga, m4a, wav, webm, opus, flac, ogg",
		},
		{
			name:      "bad extension on a later file",
			mutate:    func(r *TranscriptionRequest) { r.Files = files("a.wav", "b.mp3", "c.txt") },
			wantParam: ParamFiles,
		},
		{
			name: "extension checked before language model and format",
			mutate: func(r *TranscriptionRequest) {
				r.Files = files("a.wav", "c.txt")
				r.Language = strPtr("fr")
				r.Model = "whisper-1"
				r.ResponseFormat = "srt"
			},
			wantParam: ParamFiles,
		},
		{
			name: "language checked before model and format",
			mutate: func(r *TranscriptionRequest) {
				r.Language = strPtr("fr")
				r.Model = "whisper-1"
				r.ResponseFormat = "srt"
			},
			wantParam: ParamLanguage,
			wantMsg:   "Invalid language fr. Language parameter must be specified in ISO-639-1 format.",
		},
		{
			name:      "empty language string is invalid",
			mutate:    func(r *TranscriptionRequest) { r.Language = strPtr("") },
			wantParam: ParamLanguage,
		},
		{
			name: "model checked before format",
			mutate: func(r *TranscriptionRequest) {
				r.Model = "whisper-1"
				r.ResponseFormat = "srt"
			},
			wantParam: ParamModel,
			wantMsg:   "Invalid model size. Supported models are: iic/SenseVoiceSmall",
		},
		{
			name:      "bad response format",
			mutate:    func(r *TranscriptionRequest) { r.ResponseFormat = "srt" },
			wantParam: ParamResponseFormat,
			wantMsg:   "Invalid response_format. Supported format are: text, verbose_json",
		},
		{
			name:      "bad granularity",
			mutate:    func(r *TranscriptionRequest) { r.TimestampGranularities = []string{"segment", "char"} },
			wantParam: ParamTimestampGranularities,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			err := ValidateRequest(req)
			if tc.wantParam == "" {
				if err != nil {
					t.Fatalf("expected valid request, got %v", err)
				}
				return
			}

			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.HTTPStatus != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", appErr.HTTPStatus)
			}
			if appErr.Type != errors.TypeInvalidRequest {
				t.Errorf("expected invalid_request_error, got %s", appErr.Type)
			}
			if appErr.Param != tc.wantParam {
				t.Errorf("expected param %q, got %q", tc.wantParam, appErr.Param)
			}
			if tc.wantMsg != "" && appErr.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tc.wantMsg)
			}
		})
	}
}

func TestValidateRequest_Idempotent(t *testing.T) {
	opened := 0
	req := validRequest()
	req.Files[0].open = func() (io.ReadCloser, error) {
		opened++
		return nil, nil
	}

	for i := 0; i < 3; i++ {
		if err := ValidateRequest(req); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if opened != 0 {
		t.Errorf("validation must not open uploads, opened %d times", opened)
	}
}
