package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"requestdepot/clients"
	"requestdepot/clients/discord"
	"requestdepot/clients/slack"
	"requestdepot/config"
	"requestdepot/core/log"
)

func resetLogging(t *testing.T) {
	t.Cleanup(func() {
		log.SetWriter(os.Stderr)
		log.Disable()
	})
}

func TestSetupProgramLogging_Disabled(t *testing.T) {
	resetLogging(t)
	home := t.TempDir()
	console := &bytes.Buffer{}

	logging, err := setupProgramLogging(debugOff, home, console)

	require.NoError(t, err)
	assert.Empty(t, logging.filePath)
	log.Info("📋 should not be written")
	assert.Empty(t, console.String())
	assert.NoDirExists(t, filepath.Join(home, ".config"))
}

func TestSetupProgramLogging_Console(t *testing.T) {
	resetLogging(t)
	console := &bytes.Buffer{}

	logging, err := setupProgramLogging(debugConsole, t.TempDir(), console)

	require.NoError(t, err)
	assert.Empty(t, logging.filePath)
	log.Info("📋 visible")
	log.Debug("hidden")
	assert.Contains(t, console.String(), "📋 visible")
	assert.NotContains(t, console.String(), "hidden")
}

func TestSetupProgramLogging_File(t *testing.T) {
	tests := []struct {
		name          string
		level         int
		expectedLevel slog.Level
	}{
		{name: "file", level: debugFile, expectedLevel: slog.LevelInfo},
		{name: "verbose file", level: debugVerbose, expectedLevel: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLogging(t)
			home := t.TempDir()
			console := &bytes.Buffer{}

			logging, err := setupProgramLogging(tt.level, home, console)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(home, ".config", "requestdepot", "logs"), filepath.Dir(logging.filePath))
			assert.True(t, log.Enabled(tt.expectedLevel))
			assert.Equal(t, tt.expectedLevel == slog.LevelDebug, log.Enabled(slog.LevelDebug))

			log.Info("📋 to file")
			require.NoError(t, logging.Close())

			content, err := os.ReadFile(logging.filePath)
			require.NoError(t, err)
			assert.Contains(t, string(content), "📋 to file")
			assert.Empty(t, console.String())
		})
	}
}

func TestNewMessagingClient(t *testing.T) {
	slackClient, err := newMessagingClient(&config.AppConfig{
		MessagingProvider: config.ProviderSlack,
		SlackConfig:       config.SlackConfig{BotToken: "xoxb-test", ContactsUserGroupID: "S1"},
	})
	require.NoError(t, err)
	assert.IsType(t, &slack.SlackClient{}, slackClient)

	discordClient, err := newMessagingClient(&config.AppConfig{
		MessagingProvider: config.ProviderDiscord,
		DiscordConfig:     config.DiscordConfig{BotToken: "token", GuildID: "1", ContactsRoleID: "2"},
	})
	require.NoError(t, err)
	assert.IsType(t, &discord.DiscordClient{}, discordClient)

	_, err = newMessagingClient(&config.AppConfig{MessagingProvider: "twitter"})
	assert.ErrorIs(t, err, clients.ErrUnknownProvider)
}

func TestNewCmdRunner(t *testing.T) {
	cmdRunner, err := NewCmdRunner(&config.AppConfig{
		MessagingProvider: config.ProviderSlack,
		SlackConfig:       config.SlackConfig{BotToken: "xoxb-test", ContactsUserGroupID: "S1"},
		CaptureConfig:     config.CaptureConfig{DefaultEmail: "home@example.com", ToolPath: "/opt/snap"},
		LightConfig:       config.LightConfig{Pin: 12},
	})

	require.NoError(t, err)
	assert.Equal(t, "/opt/snap", cmdRunner.captureClient.ToolPath())
	assert.NotEmpty(t, cmdRunner.runName)
	assert.Regexp(t, `^run_`, cmdRunner.runID)
}
