package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MultipartBody is a multipart/form-data request body. It is streamed:
// parts are written into a pipe as the transport reads, so file content
// is never buffered whole in memory.
type MultipartBody struct {
	// Fields are written first, in order.
	Fields []Field
	Files  []FileField
}

// Field is a plain form value.
type Field struct {
	Name  string
	Value string
}

// FileField is a file part. Reader takes precedence over Data.
type FileField struct {
	FieldName string
	FileName  string
	// ContentType defaults to application/octet-stream.
	ContentType string
	Data        []byte
	Reader      io.Reader
}

// encode starts writing the form into a pipe and returns its read end. The
// writer goroutine exits once the form is complete or the reader is closed.
func (m *MultipartBody) encode() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	contentType := w.FormDataContentType()

	go func() {
		pw.CloseWithError(m.write(w))
	}()
	return pr, contentType
}

func (m *MultipartBody) write(w *multipart.Writer) error {
	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}
	for _, f := range m.Files {
		part, err := w.CreatePart(fileHeader(f))
		if err != nil {
			return err
		}
		src := f.Reader
		if src == nil {
			src = bytes.NewReader(f.Data)
		}
		if _, err := io.Copy(part, src); err != nil {
			return err
		}
	}
	return w.Close()
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func fileHeader(f FileField) textproto.MIMEHeader {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		`form-data; name="`+quoteEscaper.Replace(f.FieldName)+`"; filename="`+quoteEscaper.Replace(f.FileName)+`"`)
	h.Set("Content-Type", ct)
	return h
}
