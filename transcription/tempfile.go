package transcription

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/735726032/openai-SenseVoice/logger"
)

// TempFileManager materialises uploads as short-lived files for the model.
type TempFileManager struct {
	// Dir is where files are created. Empty means os.TempDir().
	Dir string
	log *logger.Logger
}

// NewTempFileManager creates a manager rooted at dir.
func NewTempFileManager(dir string, log *logger.Logger) *TempFileManager {
	if log == nil {
		log = logger.Nop()
	}
	return &TempFileManager{Dir: dir, log: log}
}

// WithTempFile writes file into a new uniquely named file ending in
// "."+ext, calls fn with its path and removes the file when fn returns,
// fails or panics. Names come from os.CreateTemp, which creates with
// O_EXCL, so concurrent calls never share a path.
func (m *TempFileManager) WithTempFile(ctx context.Context, file UploadedFile, ext string, fn func(path string) error) error {
	pattern := "sensevoice-*"
	if ext != "" {
		pattern += "." + ext
	}

	tmp, err := os.CreateTemp(m.Dir, pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()

	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			m.log.Warn("Failed to remove temp file", logger.Fields("path", path, logger.FieldError, rmErr.Error()))
		}
	}()

	if err := m.copyUpload(ctx, tmp, file); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return fn(path)
}

func (m *TempFileManager) copyUpload(ctx context.Context, dst io.Writer, file UploadedFile) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, &ctxReader{ctx: ctx, r: src}); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
