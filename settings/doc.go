// Package settings defines the configuration of the transcription server
// and loads it through the config package.
//
// Sources, lowest precedence first: built-in defaults, config.yml, .env,
// environment variables. Nested keys map from UPPER_SNAKE names
// (MODEL_MAX_THREADS sets model.max_threads). The flat variables PORT,
// API_KEY, FORCE_CACHE_INVOKE and FORCE_CPU are honoured as well.
package settings
