package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "KOZH_"

// loadDotEnv reads .env from the working directory if present. Variables
// already set win.
func loadDotEnv() {
	_ = godotenv.Load()
}

func (c *Config) applyEnv() {
	c.Backend = getEnvString("BACKEND", c.Backend)
	c.Model = getEnvString("MODEL", c.Model)
	c.Speech.Strategy = getEnvString("SPEECH", c.Speech.Strategy)
	c.Speech.Model = getEnvString("SPEECH_MODEL", c.Speech.Model)
	c.Speech.Voice = getEnvString("SPEECH_VOICE", c.Speech.Voice)
	c.Speech.Lang = getEnvString("SPEECH_LANG", c.Speech.Lang)
	c.Store.Kind = getEnvString("STORE", c.Store.Kind)
	c.Store.Path = getEnvString("STORE_PATH", c.Store.Path)
	c.Store.Addr = getEnvString("VALKEY_ADDR", c.Store.Addr)
	c.Store.Username = getEnvString("VALKEY_USERNAME", c.Store.Username)
	c.Store.Password = getEnvString("VALKEY_PASSWORD", c.Store.Password)
	c.Store.DB = getEnvInt("VALKEY_DB", c.Store.DB)
	c.Store.Prefix = getEnvString("VALKEY_PREFIX", c.Store.Prefix)
	c.Credential = getEnvString("CREDENTIAL", c.Credential)
	c.AllowEnv = getEnvBool("ALLOW_ENV", c.AllowEnv)
	c.LogFile = getEnvString("LOG_FILE", c.LogFile)
	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
	c.Debug = getEnvBool("DEBUG", c.Debug)
}

func getEnvString(name, def string) string {
	value := strings.TrimSpace(os.Getenv(envPrefix + name))
	if value == "" {
		return def
	}
	return value
}

func getEnvInt(name string, def int) int {
	value := strings.TrimSpace(os.Getenv(envPrefix + name))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvBool(name string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(envPrefix + name)))
	if value == "" {
		return def
	}
	return value == "true" || value == "1" || value == "yes" || value == "y"
}
