package config

import (
	"feiji/internal/core/domain"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[irc]
host = "irc.example.org"
`)

	c, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "irc.example.org", c.IRC.Host)
	assert.Equal(t, 6667, c.IRC.Port)
	assert.Equal(t, "feiji", c.IRC.Nick)
	assert.Equal(t, []string{"#foobartest"}, c.IRC.Channels)
	assert.Equal(t, 400, c.IRC.MaxLineLength)
	assert.Equal(t, "!", c.Bot.Leader)
	assert.Equal(t, zerolog.InfoLevel, c.Bot.LogLevel)
	assert.Equal(t, 30*time.Second, c.Commands.Timeout)
	assert.Equal(t, 64, c.Commands.MaxPending)
	assert.Equal(t, 4, c.Commands.MaxPendingPerNick)
	assert.Equal(t, time.Second, c.Reconnect.InitialDelay)
	assert.Equal(t, 5*time.Minute, c.Reconnect.MaxDelay)
	assert.InDelta(t, 2.0, c.Reconnect.Multiplier, 0.0001)
	assert.Zero(t, c.Reconnect.MaxAttempts)
	assert.Equal(t, 24*time.Hour, c.SayLater.MaxDelay)
	assert.Equal(t, int64(1<<20), c.Title.MaxBodyBytes)
	assert.Equal(t, 3, c.Dictionary.MaxEntries)
	assert.Equal(t, "en", c.Translate.NativeLanguage)
	assert.Equal(t, "zh", c.Translate.ForeignLanguage)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
[irc]
host = "irc.libera.chat"
port = 6697
tls = true
nick = "feiji_"
channels = ["#one", "#two"]

[bot]
leader = "."
log_level = "debug"

[commands]
timeout = "10s"

[commands.timeouts]
title = "5s"
saylater = "25h"

[reconnect]
max_attempts = 7
`)

	t.Setenv("FEIJI_IRC_NICK", "feiji_env")

	c, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, 6697, c.IRC.Port)
	assert.True(t, c.IRC.TLS)
	assert.Equal(t, "feiji_env", c.IRC.Nick)
	assert.Equal(t, []string{"#one", "#two"}, c.IRC.Channels)
	assert.Equal(t, ".", c.Bot.Leader)
	assert.Equal(t, zerolog.DebugLevel, c.Bot.LogLevel)
	assert.Equal(t, 10*time.Second, c.Commands.Timeout)
	assert.Equal(t, map[string]time.Duration{"title": 5 * time.Second, "saylater": 25 * time.Hour}, c.Commands.Timeouts)
	assert.Equal(t, 7, c.Reconnect.MaxAttempts)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	_, err := Load(path, true)
	require.Error(t, err)

	t.Setenv("FEIJI_IRC_HOST", "irc.example.org")

	c, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "irc.example.org", c.IRC.Host)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing host",
			content: `[irc]` + "\n" + `port = 6667`,
		},
		{
			name:    "port out of range",
			content: "[irc]\nhost = \"h\"\nport = 70000",
		},
		{
			name:    "multi character leader",
			content: "[irc]\nhost = \"h\"\n[bot]\nleader = \"!!\"",
		},
		{
			name:    "empty leader",
			content: "[irc]\nhost = \"h\"\n[bot]\nleader = \"\"",
		},
		{
			name:    "bad log level",
			content: "[irc]\nhost = \"h\"\n[bot]\nlog_level = \"loud\"",
		},
		{
			name:    "bad command timeout",
			content: "[irc]\nhost = \"h\"\n[commands.timeouts]\ntitle = \"soon\"",
		},
		{
			name:    "shrinking backoff",
			content: "[irc]\nhost = \"h\"\n[reconnect]\nmultiplier = 0.5",
		},
		{
			name:    "max below initial",
			content: "[irc]\nhost = \"h\"\n[reconnect]\ninitial_delay = \"10s\"\nmax_delay = \"1s\"",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content), true)
			require.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}
