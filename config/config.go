package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"requestdepot/core/log"
)

const (
	ProviderSlack   = "slack"
	ProviderDiscord = "discord"

	DefaultCaptureToolPath   = "/usr/local/src/snapandtell/snap_and_tell.py"
	DefaultSleepCycleSeconds = 60
	DefaultLightPin          = 12
)

type SlackConfig struct {
	BotToken            string
	ContactsUserGroupID string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.BotToken != "" &&
		c.ContactsUserGroupID != ""
}

// DiscordConfig selects the contacts as the members of one guild role. Listing
// guild members requires the privileged Server Members intent on the bot.
type DiscordConfig struct {
	BotToken       string
	GuildID        string
	ContactsRoleID string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != "" &&
		c.GuildID != "" &&
		c.ContactsRoleID != ""
}

type CaptureConfig struct {
	DefaultEmail string
	ToolPath     string // Optional with default DefaultCaptureToolPath
}

type LightConfig struct {
	Pin       int  // Physical header pin
	ActiveLow bool // If true, "on" drives the pin low
}

type AppConfig struct {
	MessagingProvider string
	SleepCycle        time.Duration

	SlackConfig   SlackConfig
	DiscordConfig DiscordConfig
	CaptureConfig CaptureConfig
	LightConfig   LightConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ Could not load .env file, continuing with system env vars")
	}

	provider := strings.ToLower(getEnvWithDefault("MESSAGING_PROVIDER", ProviderSlack))
	if provider != ProviderSlack && provider != ProviderDiscord {
		return nil, fmt.Errorf("MESSAGING_PROVIDER must be %q or %q, got %q", ProviderSlack, ProviderDiscord, provider)
	}

	defaultEmail, err := getEnvRequired("CAPTURE_DEFAULT_EMAIL")
	if err != nil {
		return nil, err
	}

	sleepSeconds, err := getEnvPositiveInt("SLEEP_CYCLE_SECONDS", DefaultSleepCycleSeconds)
	if err != nil {
		return nil, err
	}

	lightPin, err := getEnvPositiveInt("LIGHT_PIN", DefaultLightPin)
	if err != nil {
		return nil, err
	}

	activeLow, err := strconv.ParseBool(getEnvWithDefault("LIGHT_ACTIVE_LOW", "false"))
	if err != nil {
		return nil, fmt.Errorf("LIGHT_ACTIVE_LOW must be a boolean: %w", err)
	}

	config := &AppConfig{
		MessagingProvider: provider,
		SleepCycle:        time.Duration(sleepSeconds) * time.Second,

		SlackConfig: SlackConfig{
			BotToken:            os.Getenv("SLACK_BOT_TOKEN"),
			ContactsUserGroupID: os.Getenv("SLACK_CONTACTS_USERGROUP_ID"),
		},

		DiscordConfig: DiscordConfig{
			BotToken:       os.Getenv("DISCORD_BOT_TOKEN"),
			GuildID:        os.Getenv("DISCORD_GUILD_ID"),
			ContactsRoleID: os.Getenv("DISCORD_CONTACTS_ROLE_ID"),
		},

		CaptureConfig: CaptureConfig{
			DefaultEmail: defaultEmail,
			ToolPath:     getEnvWithDefault("CAPTURE_TOOL_PATH", DefaultCaptureToolPath),
		},

		LightConfig: LightConfig{
			Pin:       lightPin,
			ActiveLow: activeLow,
		},
	}

	// Only the selected provider has to be complete
	switch provider {
	case ProviderSlack:
		if !config.SlackConfig.IsConfigured() {
			return nil, fmt.Errorf("slack provider selected but SLACK_BOT_TOKEN and SLACK_CONTACTS_USERGROUP_ID are not both set")
		}
		log.Info("✅ Slack messaging configured")
	case ProviderDiscord:
		if !config.DiscordConfig.IsConfigured() {
			return nil, fmt.Errorf(
				"discord provider selected but DISCORD_BOT_TOKEN, DISCORD_GUILD_ID and DISCORD_CONTACTS_ROLE_ID are not all set",
			)
		}
		log.Info("✅ Discord messaging configured")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvPositiveInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return value, nil
}
