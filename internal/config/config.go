// Package config loads kozh settings from a YAML file, a .env file and
// KOZH_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oukeidos/kozh/internal/metadata"
	"github.com/oukeidos/kozh/internal/speech"
)

const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"

	SpeechLocal  = "local"
	SpeechRemote = "remote"
	SpeechNone   = "none"

	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreValkey = "valkey"
	StoreMemory = "memory"
	// StoreFyne shares the preferences of a fyne host. Needs -tags fyne.
	StoreFyne = "fyne"

	CredentialStore   = "store"
	CredentialKeyring = "keyring"

	dirName        = ".kozh"
	configFileName = "config.yml"
	storeFileName  = "store.json"
	sqliteFileName = "kozh.db"

	MaxValkeyDB = 15
)

type Config struct {
	Backend    string       `yaml:"backend"`
	Model      string       `yaml:"model"`
	Speech     SpeechConfig `yaml:"speech"`
	Store      StoreConfig  `yaml:"store"`
	Credential string       `yaml:"credential"`
	// AllowEnv lets GEMINI_API_KEY / OPENAI_API_KEY stand in for a saved key.
	AllowEnv bool   `yaml:"allow_env"`
	LogFile  string `yaml:"log_file"`
	// LogLevel is debug, info, warn or error. Debug: true overrides it.
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

type SpeechConfig struct {
	Strategy string `yaml:"strategy"`
	Model    string `yaml:"model"`
	Voice    string `yaml:"voice"`
	Lang     string `yaml:"lang"`
}

type StoreConfig struct {
	Kind string `yaml:"kind"`
	// Path is the JSON file for "file" and the database for "sqlite".
	Path     string `yaml:"path"`
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Dir is where kozh keeps its files, ~/.kozh. It falls back to a
// directory under the system temp dir when no home directory is known.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "kozh")
	}
	return filepath.Join(home, dirName)
}

func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}

func Default() Config {
	return Config{
		Backend: BackendGemini,
		Speech: SpeechConfig{
			Strategy: SpeechLocal,
			Model:    metadata.DefaultSpeechModel,
			Voice:    metadata.DefaultSpeechVoice,
			Lang:     speech.DefaultLang,
		},
		Store:      StoreConfig{Kind: StoreFile},
		Credential: CredentialStore,
	}
}

// Load reads path over the defaults, then applies the environment. A
// missing file is an error only when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	loadDotEnv()
	cfg.applyEnv()
	return cfg, nil
}

// StorePath resolves the store location, filling in the default file for
// the store kind.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Kind == StoreSQLite {
		return filepath.Join(Dir(), sqliteFileName)
	}
	return filepath.Join(Dir(), storeFileName)
}

// Normalize tidies values that have a safe replacement and returns a note
// for each adjustment.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Speech.Strategy = strings.ToLower(strings.TrimSpace(c.Speech.Strategy))
	c.Store.Kind = strings.ToLower(strings.TrimSpace(c.Store.Kind))
	c.Credential = strings.ToLower(strings.TrimSpace(c.Credential))

	if c.Backend == BackendGemini && c.Model != "" {
		if normalized, changed := metadata.NormalizeGeminiModel(c.Model); changed {
			notes = append(notes, fmt.Sprintf("model %q replaced with %q", c.Model, normalized))
			c.Model = normalized
		}
	}
	if strings.TrimSpace(c.Speech.Lang) == "" {
		c.Speech.Lang = speech.DefaultLang
	}
	if c.Store.DB < 0 || c.Store.DB > MaxValkeyDB {
		clamped := max(0, min(MaxValkeyDB, c.Store.DB))
		notes = append(notes, fmt.Sprintf("store db clamped from %d to %d (max %d)", c.Store.DB, clamped, MaxValkeyDB))
		c.Store.DB = clamped
	}
	return c, notes
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendGemini, BackendOpenAI:
	default:
		return fmt.Errorf("unknown backend %q (want gemini or openai)", c.Backend)
	}
	switch c.Speech.Strategy {
	case SpeechLocal, SpeechRemote, SpeechNone:
	default:
		return fmt.Errorf("unknown speech strategy %q (want local, remote or none)", c.Speech.Strategy)
	}
	switch c.Store.Kind {
	case StoreFile, StoreSQLite, StoreMemory, StoreFyne:
	case StoreValkey:
		if strings.TrimSpace(c.Store.Addr) == "" {
			return fmt.Errorf("valkey store needs an address")
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	switch c.Credential {
	case CredentialStore, CredentialKeyring:
	default:
		return fmt.Errorf("unknown credential location %q (want store or keyring)", c.Credential)
	}
	return nil
}
