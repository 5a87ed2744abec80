// Package keystore provides credential lookup for cloud providers.
//
// Keys live in the process environment (optionally seeded from a .env file),
// never in plaintext config files next to settings.
package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ErrKeyNotFound indicates no credential is stored for the provider.
var ErrKeyNotFound = errors.New("keystore: key not found")

// envKeyPrefix builds HEXNOTE_API_KEY_OPENAI style variable names.
const envKeyPrefix = "HEXNOTE_API_KEY_"

// Store is the credential lookup contract consumed by the router and the
// cloud providers. Absence is reported as an error wrapping ErrKeyNotFound.
type Store interface {
	APIKey(provider string) (string, error)
}

// EnvStore reads API keys from environment variables.
type EnvStore struct{}

// NewEnvStore creates an environment-backed store and loads the nearest
// .env file into the process environment.
func NewEnvStore() *EnvStore {
	LoadEnv()
	return &EnvStore{}
}

// APIKey returns the key for a provider, e.g. HEXNOTE_API_KEY_OPENAI.
func (s *EnvStore) APIKey(provider string) (string, error) {
	key := os.Getenv(EnvVar(provider))
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, provider)
	}
	return key, nil
}

// HasAPIKey reports whether a credential exists for the provider.
func (s *EnvStore) HasAPIKey(provider string) bool {
	_, err := s.APIKey(provider)
	return err == nil
}

// EnvVar returns the environment variable name holding a provider's key.
func EnvVar(provider string) string {
	return envKeyPrefix + strings.ToUpper(provider)
}

// Static is a fixed in-memory store, useful for tests and one-off wiring.
type Static map[string]string

// APIKey returns the configured key for a provider.
func (s Static) APIKey(provider string) (string, error) {
	key, ok := s[provider]
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, provider)
	}
	return key, nil
}

// LoadEnv searches for a .env file starting from the current directory and
// walking up the directory tree, loading the first one found. Missing .env
// files are not an error; the system environment is used as-is.
func LoadEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
