// Package config loads service configuration with Viper.
//
// Values are layered, lowest precedence first: registered defaults, a YAML
// config file, a .env file, and process environment variables. Environment
// variables are matched against nested keys by treating underscores as
// either separators or literal underscores, so SERVER_MAX_BODY_SIZE sets
// server.max_body_size.
//
//	var cfg MyConfig
//	err := config.LoadConfig("sensevoice-server", &cfg)
package config
