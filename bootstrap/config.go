package bootstrap

import (
	"github.com/735726032/openai-SenseVoice/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig and defining ApplyDefaults and Validate
// satisfies it.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
