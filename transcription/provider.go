package transcription

import (
	"context"

	"github.com/735726032/openai-SenseVoice/provider"
)

// Provider is the loaded speech model. Implementations must be safe for
// concurrent Generate calls unless the service is configured as
// non-reentrant, in which case calls are serialised by the Invoker.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Generate runs inference on the audio file at path and returns one
	// result per input, in input order.
	Generate(ctx context.Context, path string, opts InferenceOptions) ([]ModelResult, error)
}

// NewRegistry creates a registry for model backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
