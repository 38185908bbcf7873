package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oukeidos/kozh/internal/apperrors"
	"github.com/oukeidos/kozh/internal/auth"
	"github.com/oukeidos/kozh/internal/cleanup"
	"github.com/oukeidos/kozh/internal/config"
	"github.com/oukeidos/kozh/internal/files"
	"github.com/oukeidos/kozh/internal/gemini"
	"github.com/oukeidos/kozh/internal/language"
	"github.com/oukeidos/kozh/internal/llm"
	"github.com/oukeidos/kozh/internal/logger"
	"github.com/oukeidos/kozh/internal/metadata"
	"github.com/oukeidos/kozh/internal/openai"
	"github.com/oukeidos/kozh/internal/prompt"
	"github.com/oukeidos/kozh/internal/session"
	"github.com/oukeidos/kozh/internal/speech"
	"github.com/oukeidos/kozh/internal/speech/local"
	"github.com/oukeidos/kozh/internal/speech/remote"
	"github.com/oukeidos/kozh/internal/store"
	"github.com/oukeidos/kozh/internal/store/filestore"
	"github.com/oukeidos/kozh/internal/store/sqlitestore"
	"github.com/oukeidos/kozh/internal/store/valkeystore"
)

// Replaced in tests.
var (
	isTerminal     = term.IsTerminal
	promptForKey   = auth.PromptForAPIKey
	getEnvKey      = auth.GetEnvKey
	openStore      = openConfiguredStore
	newCredentials = configuredCredentials
	newModel       = configuredModelFactory
	newSpeech      = configuredSpeech
	newConfirmer   = prompt.DefaultConfirmer
)

// load resolves the configuration and starts logging.
func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store.Kind = o.store
	}
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("model") {
		cfg.Model = o.model
	}
	if flags.Changed("speech") {
		cfg.Speech.Strategy = o.speech
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	cfg.Debug = cfg.Debug || o.debug
	cfg.AllowEnv = cfg.AllowEnv || o.allowEnv

	if err := initLogging(cfg); err != nil {
		return err
	}
	cfg, notes := cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config adjusted", "note", note)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func initLogging(cfg config.Config) error {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		level = logger.LevelDebug
	}
	var sink io.Writer
	if cfg.LogFile != "" {
		if err := files.RejectSymlinkPath(cfg.LogFile); err != nil {
			return err
		}
		w, err := logger.OpenLogFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.RegisterCloser("log file", w)
		sink = w
	}
	logger.Init(level, sink)
	return nil
}

func (o *globalOptions) parsedTone() (session.Tone, error) {
	return session.ParseTone(o.tone)
}

func (o *globalOptions) parsedDirection() (language.Direction, error) {
	return language.ParseDirection(o.direction)
}

func serviceFor(cfg config.Config) string {
	if cfg.Backend == config.BackendOpenAI {
		return auth.ServiceOpenAI
	}
	return auth.ServiceGemini
}

// openFyneStore is replaced in builds tagged fyne.
var openFyneStore = func() (store.Store, error) {
	return nil, errors.New("this kozh build has no fyne support; rebuild with -tags fyne")
}

func openConfiguredStore(cfg config.Config) (store.Store, error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return store.NewMemory(), nil
	case config.StoreSQLite:
		st, err := sqlitestore.Open(cfg.StorePath())
		if err != nil {
			return nil, err
		}
		cleanup.RegisterCloser("sqlite store", st)
		return st, nil
	case config.StoreValkey:
		st, err := valkeystore.Open(valkeystore.Options{
			Addr:     cfg.Store.Addr,
			Username: cfg.Store.Username,
			Password: cfg.Store.Password,
			DB:       cfg.Store.DB,
			Prefix:   cfg.Store.Prefix,
		})
		if err != nil {
			return nil, err
		}
		cleanup.RegisterCloser("valkey store", st)
		return st, nil
	case config.StoreFyne:
		return openFyneStore()
	default:
		return filestore.Open(cfg.StorePath())
	}
}

func configuredCredentials(cfg config.Config, st store.Store) auth.Credentials {
	var creds auth.Credentials = auth.StoreBacked{Store: st}
	if cfg.Credential == config.CredentialKeyring {
		creds = auth.Keyring{}
	}
	if cfg.AllowEnv {
		creds = auth.EnvFallback{Credentials: creds}
	}
	return creds
}

func configuredModelFactory(cfg config.Config) session.ModelFactory {
	return func(ctx context.Context, apiKey string) (llm.Model, error) {
		if cfg.Backend == config.BackendOpenAI {
			model := cfg.Model
			if model == "" {
				model = metadata.DefaultOpenAIModel
			}
			client := openai.NewClient(apiKey, model)
			logger.Debug("Model client ready", "backend", cfg.Backend, "model", client.ModelName())
			return client, nil
		}
		model := cfg.Model
		if model == "" {
			model = metadata.DefaultGeminiModel
		}
		client, err := gemini.NewClient(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		logger.Debug("Model client ready", "backend", cfg.Backend, "model", client.ModelName())
		return client, nil
	}
}

// configuredSpeech returns nil when speech is disabled or the remote
// engine has no Gemini key.
func configuredSpeech(ctx context.Context, cfg config.Config, creds auth.Credentials) (speech.Service, error) {
	switch cfg.Speech.Strategy {
	case config.SpeechNone:
		return nil, nil
	case config.SpeechRemote:
		key, _, err := creds.Get(ctx, auth.ServiceGemini)
		if err != nil {
			return nil, err
		}
		if key == "" {
			logger.Warn("Remote speech needs a Gemini API key; speech disabled")
			return nil, nil
		}
		synth, err := remote.NewSynthesizer(ctx, key, remote.Options{
			Model: cfg.Speech.Model,
			Voice: cfg.Speech.Voice,
		})
		if err != nil {
			return nil, err
		}
		return synth, nil
	default:
		return local.New(), nil
	}
}

// openSession wires storage, credentials, model and speech from cfg.
func openSession(ctx context.Context, cfg config.Config) (*session.Session, store.Store, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	creds := newCredentials(cfg, st)
	svc, err := newSpeech(ctx, cfg, creds)
	if err != nil {
		return nil, nil, err
	}
	s, err := session.New(ctx, session.Options{
		Store:       st,
		Credentials: creds,
		Service:     serviceFor(cfg),
		NewModel:    newModel(cfg),
		Speech:      svc,
		SpeechLang:  cfg.Speech.Lang,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup.RegisterCloser("session", s)
	return s, st, nil
}

// readText joins args, or reads stdin when there are none.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(int(f.Fd())) {
		return "", fmt.Errorf("no text given: pass it as arguments or pipe it on stdin")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// userError turns classified failures into their safe message.
func userError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.KindOf(err); ok {
		return fmt.Errorf("%s", apperrors.PublicMessage(err))
	}
	return err
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}

func printPair(w io.Writer, pair *session.TranslationPair) {
	fmt.Fprintf(w, "Precise:  %s\n", pair.Precise)
	fmt.Fprintf(w, "Creative: %s\n", pair.Creative)
}
