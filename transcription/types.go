package transcription

import (
	"bytes"
	"io"
	"mime/multipart"
)

// UploadedFile is one audio upload borrowed from the caller's request.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64

	open func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the upload's bytes.
func (f UploadedFile) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return f.open()
}

// NewUploadedFile wraps in-memory bytes.
func NewUploadedFile(filename, contentType string, data []byte) UploadedFile {
	return UploadedFile{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromFileHeader wraps a parsed multipart file part.
func FromFileHeader(fh *multipart.FileHeader) UploadedFile {
	return UploadedFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// TranscriptionRequest is a validated-before-use batch of uploads.
type TranscriptionRequest struct {
	Files []UploadedFile
	// Language is nil when the caller did not send one.
	Language               *string
	Model                  string
	ResponseFormat         string
	WordTimestamps         bool
	TimestampGranularities []string
}

// Verbose reports whether segments are included in the response.
func (r TranscriptionRequest) Verbose() bool {
	return r.ResponseFormat == FormatVerboseJSON
}

// IncludeWords reports whether word-level timestamps were requested, either
// through word_timestamps or the "word" granularity.
func (r TranscriptionRequest) IncludeWords() bool {
	if r.WordTimestamps {
		return true
	}
	for _, g := range r.TimestampGranularities {
		if g == GranularityWord {
			return true
		}
	}
	return false
}

// TranscriptionResult is the per-file response entry.
type TranscriptionResult struct {
	Filename string          `json:"filename"`
	Text     string          `json:"text"`
	Language string          `json:"language,omitempty"`
	Segments []SegmentRecord `json:"segments,omitempty"`
}

// Segment is a timed span of model output. Times are in seconds.
type Segment struct {
	Text  string
	Start float64
	End   float64
	Words []Word
}

// Word is a timed token inside a Segment.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// SegmentRecord is the response shape of a Segment.
type SegmentRecord struct {
	Text  string       `json:"text"`
	Start float64      `json:"start"`
	End   float64      `json:"end"`
	Words []WordRecord `json:"words,omitempty"`
}

// WordRecord is the response shape of a Word.
type WordRecord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// InferenceOptions are passed to the model for every call.
type InferenceOptions struct {
	Language        string `json:"language"`
	UseITN          bool   `json:"use_itn"`
	BatchSizeS      int    `json:"batch_size_s"`
	MergeVAD        bool   `json:"merge_vad"`
	MergeLengthS    int    `json:"merge_length_s"`
	CacheInvoke     bool   `json:"cache_invoke"`
	OutputTimestamp bool   `json:"output_timestamp"`
}

// ModelResult is one raw record returned by the model.
type ModelResult struct {
	Key      string
	Text     string
	Segments []Segment
}
