// Package api exposes the transcription service over an OpenAI-compatible
// HTTP API:
//
//	POST /v1/audio/transcriptions   multipart upload, JSON array response
//	GET  /v1/models                 supported models
//
// Authentication is applied by the caller's route group; errors use the
// OpenAI error envelope.
package api
