// Package transcription turns uploaded audio into clean SenseVoice transcripts.
//
// A request flows through a fixed pipeline:
//
//	ValidateRequest          extension, language, model, format checks
//	TempFileManager          one uniquely named temp file per upload
//	Invoker                  bounded, optionally serialised model call
//	CleanTranscript          strip SenseVoice markup
//	FormatSegments           verbose responses only
//
// Service.Transcribe runs the pipeline for every file of a request in
// order and returns either all results or the first error. The model itself
// sits behind Provider; concrete backends live in the funasr and stub
// subpackages and are selected by name through a provider.Registry.
package transcription
