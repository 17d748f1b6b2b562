package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/735726032/openai-SenseVoice/api"
	"github.com/735726032/openai-SenseVoice/auth"
	apperrors "github.com/735726032/openai-SenseVoice/errors"
	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/server/middleware"
	"github.com/735726032/openai-SenseVoice/server/testutil"
	"github.com/735726032/openai-SenseVoice/transcription"
	"github.com/735726032/openai-SenseVoice/transcription/stub"
)

const testKey = "sk-test-0123456789"

type harness struct {
	baseURL string
	tempDir string
	model   *stub.Provider
}

func newHarness(t *testing.T, opts ...stub.Option) *harness {
	t.Helper()
	tempDir := t.TempDir()
	model := stub.New(opts...)
	invoker := transcription.NewInvoker(model, transcription.InvokerConfig{MaxThreads: 2, Reentrant: true}, nil, logger.Nop())
	svc := transcription.NewService(transcription.NewTempFileManager(tempDir, logger.Nop()), invoker, nil, logger.Nop())

	authn, err := auth.NewAuthenticator(auth.Config{APIKey: testKey})
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	srv := testutil.NewServer(testutil.WithMaxBodySize("64KB"))
	protected := srv.GinEngine().Group("/", middleware.APIKeyAuth(authn, nil, logger.Nop()))
	api.NewTranscriptionHandler(svc, logger.Nop()).RegisterRoutes(protected)

	srv.StartT(t)

	return &harness{baseURL: srv.URL(""), tempDir: tempDir, model: model}
}

type upload struct {
	field string
	name  string
	data  []byte
}

type formField struct {
	key   string
	value string
}

func (h *harness) post(t *testing.T, token string, files []upload, fields ...formField) (*http.Response, []byte) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		field := f.field
		if field == "" {
			field = "files"
		}
		part, err := w.CreateFormFile(field, f.name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(f.data)
	}
	for _, f := range fields {
		_ = w.WriteField(f.key, f.value)
	}
	_ = w.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, h.baseURL+api.PathTranscriptions, &body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeError(t *testing.T, data []byte) apperrors.ErrorBody {
	t.Helper()
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("invalid error JSON: %v (%s)", err, data)
	}
	return body.Error
}

func (h *harness) assertNoTempFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(h.tempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty temp dir, found %d entries", len(entries))
	}
}

func wav(name string) upload {
	return upload{name: name, data: []byte("RIFF....WAVEfmt " + name)}
}

func TestTranscribe_TextResponse(t *testing.T) {
	h := newHarness(t, stub.WithText("<|en|><|NEUTRAL|><|Speech|><|withitn|>Hello from SenseVoice."))

	resp, data := h.post(t, testKey, []upload{wav("audio.wav")},
		formField{"language", "en"},
		formField{"model", "iic/SenseVoiceSmall"},
		formField{"response_format", "text"},
	)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}

	var results []map[string]any
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	want := map[string]any{"filename": "audio.wav", "text": "Hello from SenseVoice."}
	if len(results[0]) != len(want) || results[0]["filename"] != want["filename"] || results[0]["text"] != want["text"] {
		t.Errorf("result = %v, want %v", results[0], want)
	}
	if got := h.model.Calls()[0].Options.Language; got != "en" {
		t.Errorf("language forwarded = %q, want en", got)
	}
	h.assertNoTempFiles(t)
}

func TestTranscribe_WrongToken(t *testing.T) {
	h := newHarness(t)

	for _, token := range []string{"", "sk-wrong"} {
		resp, data := h.post(t, token, []upload{wav("audio.wav")})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d", token, resp.StatusCode)
		}
		if got := resp.Header.Get("WWW-Authenticate"); got != "Bearer" {
			t.Errorf("WWW-Authenticate = %q", got)
		}
		body := decodeError(t, data)
		if body.Type != "invalid_request_error" || body.Code != 401 || body.Message != "Incorrect API key" {
			t.Errorf("unexpected error %+v", body)
		}
	}

	if calls := h.model.Calls(); len(calls) != 0 {
		t.Errorf("model must not be called, got %d calls", len(calls))
	}
	h.assertNoTempFiles(t)
}

func TestTranscribe_UnsupportedExtension(t *testing.T) {
	h := newHarness(t)

	resp, data := h.post(t, testKey, []upload{wav("good.wav"), wav("clip.xyz")})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}
	body := decodeError(t, data)
	if body.Param == nil || *body.Param != "files" {
		t.Fatalf("param = %v, want files", body.Param)
	}
	want := "Invalid file extension. Supported extensions are: mp3, mp4, mpeg, mpga, m4a, wav, webm, opus, flac, ogg"
	if body.Message != want {
		t.Errorf("message = %q, want %q", body.Message, want)
	}
	if len(h.model.Calls()) != 0 {
		t.Error("validation failure must not reach the model")
	}
	h.assertNoTempFiles(t)
}

func TestTranscribe_VerboseWithWordTimestamps(t *testing.T) {
	segments := []transcription.Segment{
		{Text: " First part. ", Start: 0.12, End: 1.5, Words: []transcription.Word{
			{Text: " First ", Start: 0.12, End: 0.6}, {Text: "part. ", Start: 0.61, End: 1.5},
		}},
		{Text: "Second part.", Start: 1.75, End: 3.0, Words: []transcription.Word{
			{Text: "\tSecond", Start: 1.75, End: 2.3}, {Text: " part.", Start: 2.31, End: 3.0},
		}},
	}
	h := newHarness(t, stub.WithText("<|en|><|HAPPY|><|Speech|><|withitn|>First part. Second part.", segments...))

	resp, data := h.post(t, testKey, []upload{wav("talk.flac")},
		formField{"response_format", "verbose_json"},
		formField{"word_timestamps", "true"},
	)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}

	var results []transcription.TranscriptionResult
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	got := results[0]
	if got.Language != "en" {
		t.Errorf("language = %q, want en", got.Language)
	}
	want := []transcription.SegmentRecord{
		{Text: "First part.", Start: 0.12, End: 1.5, Words: []transcription.WordRecord{
			{Word: "First", Start: 0.12, End: 0.6}, {Word: "part.", Start: 0.61, End: 1.5},
		}},
		{Text: "Second part.", Start: 1.75, End: 3.0, Words: []transcription.WordRecord{
			{Word: "Second", Start: 1.75, End: 2.3}, {Word: "part.", Start: 2.31, End: 3.0},
		}},
	}
	if len(got.Segments) != len(want) {
		t.Fatalf("segments = %d, want %d", len(got.Segments), len(want))
	}
	for i := range want {
		if got.Segments[i].Text != want[i].Text || got.Segments[i].Start != want[i].Start || got.Segments[i].End != want[i].End {
			t.Errorf("segment %d = %+v, want %+v", i, got.Segments[i], want[i])
		}
		for j := range want[i].Words {
			if got.Segments[i].Words[j] != want[i].Words[j] {
				t.Errorf("segment %d word %d = %+v, want %+v", i, j, got.Segments[i].Words[j], want[i].Words[j])
			}
		}
	}
}

func TestTranscribe_FormParsing(t *testing.T) {
	tests := []struct {
		name      string
		files     []upload
		fields    []formField
		wantCode  int
		wantParam string
	}{
		{"no files", nil, []formField{{"model", "iic/SenseVoiceSmall"}}, http.StatusBadRequest, "files"},
		{"file alias", []upload{{field: "file", name: "a.mp3", data: []byte("x")}}, nil, http.StatusOK, ""},
		{"empty language is absent", []upload{wav("a.wav")}, []formField{{"language", ""}}, http.StatusOK, ""},
		{"bad language", []upload{wav("a.wav")}, []formField{{"language", "english"}}, http.StatusBadRequest, "language"},
		{"bad model", []upload{wav("a.wav")}, []formField{{"model", "whisper-1"}}, http.StatusBadRequest, "model"},
		{"bad format", []upload{wav("a.wav")}, []formField{{"response_format", "srt"}}, http.StatusBadRequest, "response_format"},
		{"bad word_timestamps", []upload{wav("a.wav")}, []formField{{"word_timestamps", "maybe"}}, http.StatusBadRequest, "word_timestamps"},
		{"bad granularity", []upload{wav("a.wav")}, []formField{{"timestamp_granularities[]", "char"}}, http.StatusBadRequest, "timestamp_granularities[]"},
		{"word granularity", []upload{wav("a.wav")}, []formField{{"timestamp_granularities[]", "word"}, {"response_format", "verbose_json"}}, http.StatusOK, ""},
	}

	h := newHarness(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := h.post(t, testKey, tt.files, tt.fields...)
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", resp.StatusCode, tt.wantCode, data)
			}
			if tt.wantParam == "" {
				return
			}
			body := decodeError(t, data)
			if body.Param == nil || *body.Param != tt.wantParam {
				t.Errorf("param = %v, want %s", body.Param, tt.wantParam)
			}
			if body.Type != "invalid_request_error" {
				t.Errorf("type = %q", body.Type)
			}
		})
	}
	h.assertNoTempFiles(t)
}

func TestTranscribe_ModelFailure(t *testing.T) {
	h := newHarness(t, stub.WithError(io.ErrUnexpectedEOF))

	resp, data := h.post(t, testKey, []upload{wav("audio.wav")})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}
	body := decodeError(t, data)
	if body.Type != "server_error" || body.Param != nil {
		t.Errorf("unexpected error %+v", body)
	}
	if strings.Contains(body.Message, io.ErrUnexpectedEOF.Error()) {
		t.Error("internal cause must not leak into the message")
	}
	h.assertNoTempFiles(t)
}

func TestTranscribe_BodyTooLarge(t *testing.T) {
	h := newHarness(t)

	resp, data := h.post(t, testKey, []upload{{name: "big.wav", data: bytes.Repeat([]byte{0}, 128<<10)}})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}
	if body := decodeError(t, data); body.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("code = %d", body.Code)
	}
	if len(h.model.Calls()) != 0 {
		t.Error("oversized upload must not reach the model")
	}
}

func TestListModels(t *testing.T) {
	h := newHarness(t)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, h.baseURL+api.PathModels, http.NoBody)
	req.Header.Set("Authorization", "Bearer "+testKey)
	resp, data := do(t, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var list api.ModelList
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if list.Object != "list" || len(list.Data) != 1 || list.Data[0].ID != transcription.DefaultModel {
		t.Errorf("unexpected model list %+v", list)
	}
}
