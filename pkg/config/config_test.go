package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("DEEPSEEK_ENDPOINT", "")
	t.Setenv("DEEPSEEK_MODEL", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")
	t.Setenv("ACTIVITY_LOG_PATH", "")
	t.Setenv("PORT", "")

	cfg := Load()

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "https://api.deepseek.com/chat/completions", cfg.DeepSeekURL)
	assert.Equal(t, "deepseek-coder", cfg.DeepSeekModel)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "business_data.csv", cfg.ActivityLogPath)
	assert.False(t, cfg.Online())
	assert.Equal(t, MissingKey, cfg.Credential.Token())
}

func TestLoad_EnvVarOverride(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-0123456789abcdef0123")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "15")
	t.Setenv("ACTIVITY_LOG_PATH", "/tmp/activity.csv")

	cfg := Load()

	assert.True(t, cfg.Online())
	assert.True(t, cfg.Credential.LooksValid())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/activity.csv", cfg.ActivityLogPath)
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "soon")
	assert.Equal(t, 120*time.Second, Load().RequestTimeout)

	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-3")
	assert.Equal(t, 120*time.Second, Load().RequestTimeout)
}

func TestCredential_SentinelNeverLooksValid(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n"} {
		c := NewCredential(raw)
		assert.False(t, c.Present(), "raw=%q", raw)
		assert.False(t, c.LooksValid(), "raw=%q", raw)
	}

	// Even if someone configures the sentinel text literally.
	c := NewCredential(MissingKey)
	assert.False(t, c.Present())
	assert.False(t, c.LooksValid())
}

func TestCredential_LooksValid(t *testing.T) {
	assert.True(t, NewCredential("sk-abcdefghijklmnop").LooksValid())
	assert.False(t, NewCredential("short").LooksValid())
	assert.True(t, NewCredential("short").Present())
	assert.False(t, NewCredential("sk-abc defghijklmnop").LooksValid())
}

func TestCredential_StringRedacts(t *testing.T) {
	c := NewCredential("sk-0123456789abcdef")
	assert.Equal(t, "sk-***cdef", c.String())
	assert.NotContains(t, c.String(), "0123456789")
	assert.Equal(t, "<missing>", NewCredential("").String())
	assert.Equal(t, "***", NewCredential("abc").String())
}
