// Command sensevoice-server serves the OpenAI-compatible transcription API.
//
//	sensevoice-server                          # serve on server.port
//	sensevoice-server -config ./config.yml     # explicit config file
//	sensevoice-server -hash-key <key>          # print a bcrypt hash for auth.api_key_hash
//	sensevoice-server -transcribe a.wav        # transcribe one file and exit
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/735726032/openai-SenseVoice/api"
	"github.com/735726032/openai-SenseVoice/auth"
	"github.com/735726032/openai-SenseVoice/bootstrap"
	"github.com/735726032/openai-SenseVoice/config"
	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/observability"
	"github.com/735726032/openai-SenseVoice/server"
	"github.com/735726032/openai-SenseVoice/server/middleware"
	"github.com/735726032/openai-SenseVoice/settings"
	"github.com/735726032/openai-SenseVoice/transcription"
	"github.com/735726032/openai-SenseVoice/transcription/funasr"
	"github.com/735726032/openai-SenseVoice/transcription/stub"
	"github.com/735726032/openai-SenseVoice/version"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: ./cmd/sensevoice-server/config.yml, ./config/, ./)")
	hashKey := flag.String("hash-key", "", "print the bcrypt hash of the given API key and exit")
	transcribe := flag.String("transcribe", "", "transcribe a local audio file, print the JSON result and exit")
	language := flag.String("language", "", "language for -transcribe (default: auto)")
	format := flag.String("format", transcription.FormatText, "response_format for -transcribe")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Short())
		return
	}
	if *hashKey != "" {
		hash, err := auth.HashAPIKey(*hashKey, 0)
		if err != nil {
			fatal("hash key", err)
		}
		fmt.Println(hash)
		return
	}

	var opts []config.LoaderOption
	if *configPath != "" {
		opts = append(opts, config.WithConfigFile(*configPath))
	}
	cfg, err := settings.Load(opts...)
	if err != nil {
		fatal("config", err)
	}

	var appOpts []bootstrap.Option
	if *transcribe != "" {
		// stdout carries the JSON result
		cfg.Logging.Output = "stderr"
		appOpts = append(appOpts, bootstrap.WithSummaryWriter(os.Stderr))
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		fatal("bootstrap", err)
	}

	svc, err := wire(app)
	if err != nil {
		fatal("wire", err)
	}

	ctx := context.Background()
	if *transcribe != "" {
		err = app.RunTask(ctx, func(ctx context.Context) error {
			return transcribeFile(ctx, svc, *transcribe, app.Cfg.Model.Name, *language, *format)
		})
	} else {
		err = serve(app, svc)
		if err == nil {
			err = app.Run(ctx)
		}
	}
	if err != nil {
		app.Logger.Error("Exited with error", logger.Err(err))
		os.Exit(1)
	}
}

// wire registers the observability and model components and builds the
// transcription service on top of them.
func wire(app *bootstrap.App[*settings.Settings]) (*transcription.Service, error) {
	cfg := app.Cfg
	log := app.Logger

	models := transcription.NewRegistry()
	models.RegisterFactory(funasr.ProviderName, funasr.Factory())
	models.RegisterFactory(stub.ProviderName, stub.Factory())
	model, err := models.Create(cfg.Model.Backend, cfg.Model.ProviderOptions())
	if err != nil {
		return nil, fmt.Errorf("model backend %s: %w", cfg.Model.Backend, err)
	}

	obs := observability.NewComponent(cfg.Observability, cfg.Name, version.Short(), cfg.Environment)
	metrics, err := observability.NewTranscriptionMetrics(observability.Meter(cfg.Name))
	if err != nil {
		log.Warn("Transcription metrics disabled", logger.Err(err))
		metrics = observability.NopTranscriptionMetrics()
	}

	modelComponent := transcription.NewModelComponent(model, cfg.Model.Name, cfg.Model.MaxThreads, log)
	invoker := transcription.NewInvoker(model, cfg.Model.InvokerConfig(), metrics, log)
	temp := transcription.NewTempFileManager(cfg.Model.TempDir, log)
	svc := transcription.NewService(temp, invoker, metrics, log)

	if err := app.RegisterComponent(obs); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(modelComponent); err != nil {
		return nil, err
	}
	return svc, nil
}

// serve mounts the HTTP API and registers the server last so that it
// starts after the model and stops first.
func serve(app *bootstrap.App[*settings.Settings], svc *transcription.Service) error {
	cfg := app.Cfg
	log := app.Logger

	authn, err := auth.NewAuthenticator(cfg.Auth)
	if err != nil {
		return fmt.Errorf("authenticator: %w", err)
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)

	v1 := srv.GinEngine().Group("/", middleware.APIKeyAuth(authn, cfg.Auth.SkipPaths, log))
	api.NewTranscriptionHandler(svc, log).RegisterRoutes(v1)

	return app.RegisterComponent(server.NewComponent(srv))
}

func transcribeFile(ctx context.Context, svc *transcription.Service, path, model, language, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	req := transcription.TranscriptionRequest{
		Files:          []transcription.UploadedFile{transcription.NewUploadedFile(filepath.Base(path), "", data)},
		Model:          model,
		ResponseFormat: format,
	}
	if language != "" {
		req.Language = &language
	}

	results, err := svc.Transcribe(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func fatal(stage string, err error) {
	fmt.Fprintf(os.Stderr, "sensevoice-server: %s: %v\n", stage, err)
	os.Exit(1)
}
