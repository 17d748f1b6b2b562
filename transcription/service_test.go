package transcription_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/735726032/openai-SenseVoice/errors"
	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/transcription"
	"github.com/735726032/openai-SenseVoice/transcription/stub"
)

type fixture struct {
	dir     string
	model   *stub.Provider
	service *transcription.Service
}

func newFixture(t *testing.T, cfg transcription.InvokerConfig, opts ...stub.Option) *fixture {
	t.Helper()
	dir := t.TempDir()
	model := stub.New(opts...)
	if cfg.MaxThreads == 0 {
		cfg.MaxThreads = 6
	}
	invoker := transcription.NewInvoker(model, cfg, nil, logger.Nop())
	svc := transcription.NewService(transcription.NewTempFileManager(dir, logger.Nop()), invoker, nil, logger.Nop())
	return &fixture{dir: dir, model: model, service: svc}
}

func (f *fixture) assertNoTempFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no temp files, found %d", len(entries))
	}
}

func lang(s string) *string { return &s }

func request(names ...string) transcription.TranscriptionRequest {
	files := make([]transcription.UploadedFile, len(names))
	for i, n := range names {
		files[i] = transcription.NewUploadedFile(n, "audio/wav", []byte("audio:"+n))
	}
	return transcription.TranscriptionRequest{
		Files:          files,
		Language:       lang("en"),
		Model:          transcription.DefaultModel,
		ResponseFormat: transcription.FormatText,
	}
}

func TestTranscribe_Text(t *testing.T) {
	f := newFixture(t, transcription.InvokerConfig{Reentrant: true, CacheInvoke: true},
		stub.WithText("<|en|><|NEUTRAL|><|Speech|><|withitn|>Hello world."))

	results, err := f.service.Transcribe(context.Background(), request("audio.wav", "second.MP3"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, name := range []string{"audio.wav", "second.MP3"} {
		if results[i].Filename != name || results[i].Text != "Hello world." {
			t.Errorf("result %d = %+v", i, results[i])
		}
		if results[i].Language != "" || results[i].Segments != nil {
			t.Errorf("text format must not include verbose fields: %+v", results[i])
		}
	}

	calls := f.model.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(calls))
	}
	if string(calls[0].Data) != "audio:audio.wav" || string(calls[1].Data) != "audio:second.MP3" {
		t.Error("files must be processed in request order with their own bytes")
	}
	if !strings.HasSuffix(calls[1].Path, ".mp3") {
		t.Errorf("temp file must carry the lower-cased extension, got %s", calls[1].Path)
	}
	want := transcription.InferenceOptions{
		Language: "en", UseITN: true, BatchSizeS: 60, MergeVAD: true, MergeLengthS: 15, CacheInvoke: true,
	}
	if calls[0].Options != want {
		t.Errorf("inference options = %+v, want %+v", calls[0].Options, want)
	}
	f.assertNoTempFiles(t)
}

func TestTranscribe_DefaultLanguageIsAuto(t *testing.T) {
	f := newFixture(t, transcription.InvokerConfig{Reentrant: true})
	req := request("a.wav")
	req.Language = nil

	if _, err := f.service.Transcribe(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if got := f.model.Calls()[0].Options.Language; got != transcription.LanguageAuto {
		t.Errorf("expected auto language, got %q", got)
	}
}

func TestTranscribe_VerboseWithWords(t *testing.T) {
	segments := []transcription.Segment{
		{Text: " Hello there. ", Start: 0.0, End: 1.2, Words: []transcription.Word{
			{Text: " Hello ", Start: 0.0, End: 0.6}, {Text: " there.", Start: 0.7, End: 1.2},
		}},
		{Text: " Bye. ", Start: 1.5, End: 2.25, Words: []transcription.Word{
			{Text: "\tBye", Start: 1.5, End: 1.9}, {Text: ". ", Start: 1.9, End: 2.25},
		}},
	}
	f := newFixture(t, transcription.InvokerConfig{Reentrant: true},
		stub.WithText("<|en|><|NEUTRAL|><|Speech|><|withitn|>Hello there. Bye.", segments...))

	req := request("audio.wav")
	req.Language = nil
	req.ResponseFormat = transcription.FormatVerboseJSON
	req.WordTimestamps = true

	results, err := f.service.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	res := results[0]
	if res.Language != "en" {
		t.Errorf("expected detected language en, got %q", res.Language)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(res.Segments))
	}

	wantWords := [][]transcription.WordRecord{
		{{Word: "Hello", Start: 0.0, End: 0.6}, {Word: "there.", Start: 0.7, End: 1.2}},
		{{Word: "Bye", Start: 1.5, End: 1.9}, {Word: ".", Start: 1.9, End: 2.25}},
	}
	for i, seg := range res.Segments {
		if seg.Start != segments[i].Start || seg.End != segments[i].End {
			t.Errorf("segment %d times changed: %+v", i, seg)
		}
		if len(seg.Words) != 2 {
			t.Fatalf("segment %d: expected 2 words, got %d", i, len(seg.Words))
		}
		for j, w := range seg.Words {
			if w != wantWords[i][j] {
				t.Errorf("segment %d word %d = %+v, want %+v", i, j, w, wantWords[i][j])
			}
		}
	}
	if !f.model.Calls()[0].Options.OutputTimestamp {
		t.Error("verbose requests must ask the model for timestamps")
	}
}

func TestTranscribe_WordGranularityImpliesWords(t *testing.T) {
	seg := transcription.Segment{Text: "x", End: 1, Words: []transcription.Word{{Text: "x", End: 1}}}
	f := newFixture(t, transcription.InvokerConfig{Reentrant: true}, stub.WithText("<|zh|>x", seg))

	req := request("a.wav")
	req.ResponseFormat = transcription.FormatVerboseJSON
	req.TimestampGranularities = []string{transcription.GranularityWord}

	results, err := f.service.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(results[0].Segments[0].Words) != 1 {
		t.Error("word granularity must include words")
	}
}

func TestTranscribe_ValidationFailureWritesNothing(t *testing.T) {
	var created atomic.Int32
	f := newFixture(t, transcription.InvokerConfig{Reentrant: true}, stub.WithHook(func(string) error {
		created.Add(1)
		return nil
	}))

	_, err := f.service.Transcribe(context.Background(), request("good.wav", "clip.xyz"))
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.HTTPStatus != http.StatusBadRequest || appErr.Param != transcription.ParamFiles {
		t.Fatalf("expected 400 files error, got %v", err)
	}
	if created.Load() != 0 || len(f.model.Calls()) != 0 {
		t.Error("no file may reach the model when validation fails")
	}
	f.assertNoTempFiles(t)
}

func TestTranscribe_NoFiles(t *testing.T) {
	f := newFixture(t, transcription.InvokerConfig{Reentrant: true})
	req := request()

	_, err := f.service.Transcribe(context.Background(), req)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Param != transcription.ParamFiles || appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400 files error, got %v", err)
	}
}

func TestTranscribe_ModelFailureCleansUp(t *testing.T) {
	boom := stderrors.New("unsupported codec")
	var during string
	f := newFixture(t, transcription.InvokerConfig{Reentrant: true},
		stub.WithError(boom),
		stub.WithHook(func(path string) error {
			during = path
			return nil
		}))

	_, err := f.service.Transcribe(context.Background(), request("a.wav", "b.wav"))
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.HTTPStatus != http.StatusInternalServerError || appErr.Type != errors.TypeServer {
		t.Errorf("expected 500 server_error, got %d %s", appErr.HTTPStatus, appErr.Type)
	}
	if !stderrors.Is(err, boom) {
		t.Error("processing error must wrap the model error")
	}
	if len(f.model.Calls()) != 1 {
		t.Errorf("first failure must abort the request, got %d calls", len(f.model.Calls()))
	}
	if during == "" {
		t.Fatal("hook did not run")
	}
	if _, err := os.Stat(during); !os.IsNotExist(err) {
		t.Errorf("temp file %s survived a model failure", filepath.Base(during))
	}
	f.assertNoTempFiles(t)
}

func TestTranscribe_EmptyModelResult(t *testing.T) {
	f := newFixture(t, transcription.InvokerConfig{Reentrant: true}, stub.WithResults(nil))

	_, err := f.service.Transcribe(context.Background(), request("a.wav"))
	if !stderrors.Is(err, transcription.ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
	f.assertNoTempFiles(t)
}

func TestInvoker_BoundsConcurrency(t *testing.T) {
	var current, peak atomic.Int32
	release := make(chan struct{})
	hook := func(string) error {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		current.Add(-1)
		return nil
	}

	tests := []struct {
		name     string
		cfg      transcription.InvokerConfig
		wantPeak int32
	}{
		{"reentrant pool of two", transcription.InvokerConfig{MaxThreads: 2, Reentrant: true}, 2},
		{"non-reentrant model", transcription.InvokerConfig{MaxThreads: 4, Reentrant: false}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			current.Store(0)
			peak.Store(0)
			release = make(chan struct{})

			f := newFixture(t, tc.cfg, stub.WithHook(hook))
			var wg sync.WaitGroup
			for i := 0; i < 6; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = f.service.Transcribe(context.Background(), request("a.wav"))
				}()
			}

			deadline := time.Now().Add(2 * time.Second)
			for peak.Load() < tc.wantPeak && time.Now().Before(deadline) {
				time.Sleep(time.Millisecond)
			}
			time.Sleep(20 * time.Millisecond)
			close(release)
			wg.Wait()

			if got := peak.Load(); got != tc.wantPeak {
				t.Errorf("peak concurrency = %d, want %d", got, tc.wantPeak)
			}
			f.assertNoTempFiles(t)
		})
	}
}

func TestInvoker_CancelledWhileQueued(t *testing.T) {
	release := make(chan struct{})
	f := newFixture(t, transcription.InvokerConfig{MaxThreads: 1, Reentrant: true},
		stub.WithHook(func(string) error { <-release; return nil }))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.service.Transcribe(context.Background(), request("a.wav"))
	}()
	for len(f.model.Calls()) == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.service.Transcribe(ctx, request("b.wav"))
	close(release)
	<-done

	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}
