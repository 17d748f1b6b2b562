// Package provider is a small framework for swappable backends.
//
// A backend implements Provider and is registered under a name with a
// Factory. The service picks the backend at startup from configuration:
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("funasr", funasr.Factory())
//	p, err := reg.Create(cfg.Model.Backend, provider.Options{"url": cfg.Model.URL})
package provider
