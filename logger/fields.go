package logger

import "time"

// Field keys shared across the service.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldFilename  = "filename"
)

// Fields builds a field map from alternating key/value pairs. Non-string
// keys and a trailing key without a value are dropped.
//
//	log.Info("Transcribed", logger.Fields(logger.FieldFilename, name, "files", 2))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2+1)
	for i := 0; i+1 < len(kvs); i += 2 {
		key, ok := kvs[i].(string)
		if !ok {
			continue
		}
		m[key] = kvs[i+1]
	}
	return m
}

// Err is Fields with err's message stored under FieldError. A nil err adds
// nothing.
func Err(err error, kvs ...interface{}) map[string]interface{} {
	m := Fields(kvs...)
	if err != nil {
		m[FieldError] = err.Error()
	}
	return m
}

// DurationFields records op and its duration in milliseconds.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return Fields(FieldOperation, op, FieldDuration, d.Milliseconds())
}
