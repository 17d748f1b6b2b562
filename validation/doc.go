// Package validation validates configuration structs with struct tags,
// backed by go-playground/validator. Field names in messages follow the
// mapstructure key path, so errors read the same as the YAML they came from:
//
//	type ModelConfig struct {
//	    MaxThreads int `mapstructure:"max_threads" validate:"min=1,max=64"`
//	}
//	err := validation.Validate(cfg) // "model.max_threads: must be at least 1"
package validation
