package keyring_test

import (
	"testing"

	"github.com/alkime/recap/internal/config"
	"github.com/alkime/recap/internal/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestSetGet(t *testing.T) {
	gokeyring.MockInit()

	assert.False(t, keyring.IsSet(keyring.OpenAI))

	require.NoError(t, keyring.Set(keyring.OpenAI, "sk-test"))
	assert.True(t, keyring.IsSet(keyring.OpenAI))

	got, err := keyring.Get(keyring.OpenAI)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", got)

	_, err = keyring.Get(keyring.Anthropic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic")
}

func TestAPIKeyFromServiceName(t *testing.T) {
	k, err := keyring.APIKeyFromServiceName("anthropic")
	require.NoError(t, err)
	assert.Equal(t, keyring.Anthropic, k)

	_, err = keyring.APIKeyFromServiceName("gemini")
	assert.Error(t, err)
}

func TestResolveInto(t *testing.T) {
	gokeyring.MockInit()
	require.NoError(t, keyring.Set(keyring.OpenAI, "sk-from-keychain"))
	require.NoError(t, keyring.Set(keyring.Anthropic, "sk-ant-keychain"))

	cfg := &config.Config{AnthropicAPIKey: "sk-ant-env"}
	missing := keyring.ResolveInto(cfg)

	assert.Empty(t, missing)
	assert.Equal(t, "sk-from-keychain", cfg.OpenAIAPIKey)
	assert.Equal(t, "sk-ant-env", cfg.AnthropicAPIKey, "environment wins over keychain")
}

func TestResolveInto_Missing(t *testing.T) {
	gokeyring.MockInit()

	cfg := &config.Config{}
	missing := keyring.ResolveInto(cfg)

	assert.Equal(t, []string{"openai", "anthropic"}, missing)
	assert.Empty(t, cfg.OpenAIAPIKey)
}
