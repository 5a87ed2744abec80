package keystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "HEXNOTE_API_KEY_OPENAI", EnvVar("openai"))
	assert.Equal(t, "HEXNOTE_API_KEY_ANTHROPIC", EnvVar("anthropic"))
}

func TestEnvStoreAPIKey(t *testing.T) {
	t.Setenv("HEXNOTE_API_KEY_OPENAI", "sk-test")

	s := &EnvStore{}
	key, err := s.APIKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)
	assert.True(t, s.HasAPIKey("openai"))
}

func TestEnvStoreMissingKey(t *testing.T) {
	t.Setenv("HEXNOTE_API_KEY_GOOGLE", "")

	s := &EnvStore{}
	_, err := s.APIKey("google")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.False(t, s.HasAPIKey("google"))
}

func TestStaticStore(t *testing.T) {
	s := Static{"anthropic": "sk-ant"}

	key, err := s.APIKey("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", key)

	_, err = s.APIKey("openai")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
