// Package version reports the build identity of the server.
//
// Values are stamped at link time and fall back to the VCS data the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/735726032/openai-SenseVoice/version.Version=1.0.0" ./cmd/sensevoice-server
package version
