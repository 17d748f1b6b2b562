// Package logger provides structured logging on top of zerolog.
//
// Loggers carry a service name and may be narrowed to a component or a
// request:
//
//	log := logger.NewDefault("sensevoice").WithComponent("transcription")
//	log.WithContext(ctx).Info("file transcribed", logger.Fields("filename", name))
package logger
