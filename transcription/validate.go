package transcription

import (
	"fmt"

	"github.com/735726032/openai-SenseVoice/errors"
)

// Request parameter names as they appear on the wire.
const (
	ParamFiles                  = "files"
	ParamLanguage               = "language"
	ParamModel                  = "model"
	ParamResponseFormat         = "response_format"
	ParamWordTimestamps         = "word_timestamps"
	ParamTimestampGranularities = "timestamp_granularities[]"
)

// ValidateRequest checks req against the supported value sets. Checks run
// in a fixed order and stop at the first failing category: every file's
// extension, then language (when present), model, response format and
// timestamp granularities. It performs no I/O and never opens a file.
//
// The returned error is an *errors.AppError with Param naming the field and
// the offending value under Details["value"].
func ValidateRequest(req TranscriptionRequest) error {
	for _, f := range req.Files {
		ext := GetExtension(f.Filename)
		if !SupportedExtensions.Contains(ext) {
			return reject(ParamFiles, ext,
				fmt.Sprintf("Invalid file extension. Supported extensions are: %s", SupportedExtensions))
		}
	}

	if req.Language != nil && !SupportedLanguages.Contains(*req.Language) {
		return reject(ParamLanguage, *req.Language,
			fmt.Sprintf("Invalid language %s. Language parameter must be specified in ISO-639-1 format.", *req.Language))
	}

	if !SupportedModels.Contains(req.Model) {
		return reject(ParamModel, req.Model,
			fmt.Sprintf("Invalid model size. Supported models are: %s", SupportedModels))
	}

	if !SupportedFormats.Contains(req.ResponseFormat) {
		return reject(ParamResponseFormat, req.ResponseFormat,
			fmt.Sprintf("Invalid response_format. Supported format are: %s", SupportedFormats))
	}

	for _, g := range req.TimestampGranularities {
		if !SupportedGranularities.Contains(g) {
			return reject(ParamTimestampGranularities, g,
				fmt.Sprintf("Invalid timestamp_granularities. Supported values are: %s", SupportedGranularities))
		}
	}

	return nil
}

func reject(param, value, message string) *errors.AppError {
	return errors.InvalidParam(param, message).WithDetail("value", value)
}
