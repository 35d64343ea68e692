package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	path := writeConfig(t, `
openai:
  model: gpt-4o
qdrant:
  url: http://qdrant:6333
smtp:
  host: smtp.example.org
  from: tide@example.org
`)

	s, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-test", s.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", s.OpenAI.Model)
	assert.Equal(t, "http://qdrant:6333", s.Qdrant.URL)
	// Defaults fill in the gaps.
	assert.Equal(t, "Tide", s.Qdrant.Collection)
	assert.Equal(t, 587, s.SMTP.Port)
	assert.Equal(t, 2, s.Agent.MaxReformulations)
	assert.Equal(t, "info", s.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("QDRANT_URL", "http://override:6333")
	t.Setenv("SMTP_PORT", "2525")

	path := writeConfig(t, `
openai:
  api_key: sk-file
qdrant:
  url: http://file:6333
`)

	s, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-env", s.OpenAI.APIKey)
	assert.Equal(t, "http://override:6333", s.Qdrant.URL)
	assert.Equal(t, 2525, s.SMTP.Port)
}

func TestLoad_NoFileUsesEnvAndDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	s, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:6333", s.Qdrant.URL)
	assert.False(t, s.MailEnabled())
}

func TestLoad_MissingAPIKeyFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api key")
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	s := Defaults()
	s.OpenAI.APIKey = "sk-test"
	s.SMTP.Port = -1
	s.Log.Level = "loud"
	s.Agent.MaxReformulations = -2

	err := s.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp port")
	assert.Contains(t, err.Error(), "log level")
	assert.Contains(t, err.Error(), "max_reformulations")
}

func TestMailEnabled(t *testing.T) {
	s := Defaults()
	assert.False(t, s.MailEnabled())

	s.SMTP.Host = "smtp.example.org"
	s.SMTP.From = "tide@example.org"
	assert.True(t, s.MailEnabled())
}
