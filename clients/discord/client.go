package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"requestdepot/clients"
	"requestdepot/core/log"
	"requestdepot/models"
)

const (
	guildMembersPageSize = 1000
	channelMessagesLimit = 100
)

// DiscordClient implements clients.MessagingClient with a bot session.
// Contacts are the guild members holding one role; their DMs with the bot
// form the inbox.
type DiscordClient struct {
	session *discordgo.Session
	guildID string
	roleID  string

	contactIDs []string
	dmChannels map[string]string
}

// NewDiscordClient creates a Discord client. discordgo waits out rate limits
// itself when ShouldRetryOnRateLimit is set.
func NewDiscordClient(botToken, guildID, roleID string) (*DiscordClient, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.ShouldRetryOnRateLimit = true

	return &DiscordClient{
		session:    session,
		guildID:    guildID,
		roleID:     roleID,
		dmChannels: make(map[string]string),
	}, nil
}

func (c *DiscordClient) Authenticate(ctx context.Context) (*models.Account, error) {
	log.Info("📋 Starting to authenticate with Discord")
	user, err := c.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		log.Error("❌ Discord authentication failed: %v", err)
		return nil, fmt.Errorf("discord authentication failed: %w", err)
	}

	log.Info("📋 Completed successfully - authenticated as %s (%s)", user.Username, user.ID)
	return &models.Account{ID: user.ID, Handle: user.Username}, nil
}

func (c *DiscordClient) GetContacts(ctx context.Context) ([]models.Contact, error) {
	log.Info("📋 Starting to get members of guild %s with role %s", c.guildID, c.roleID)

	var contacts []models.Contact
	after := ""
	for {
		members, err := c.session.GuildMembers(c.guildID, after, guildMembersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			if isForbidden(err) {
				return nil, fmt.Errorf(
					"failed to list guild members (enable the privileged Server Members intent for the bot): %w", err,
				)
			}
			return nil, fmt.Errorf("failed to list guild members: %w", err)
		}

		for _, member := range members {
			if member.User == nil || member.User.Bot || !slices.Contains(member.Roles, c.roleID) {
				continue
			}
			displayName := member.Nick
			if displayName == "" {
				displayName = member.User.GlobalName
			}
			if displayName == "" {
				displayName = member.User.Username
			}
			contacts = append(contacts, models.Contact{
				ID:          member.User.ID,
				DisplayName: displayName,
				Handle:      member.User.Username,
			})
		}

		if len(members) < guildMembersPageSize || members[len(members)-1].User == nil {
			break
		}
		after = members[len(members)-1].User.ID
	}

	c.contactIDs = make([]string, 0, len(contacts))
	for _, contact := range contacts {
		c.contactIDs = append(c.contactIDs, contact.ID)
	}

	log.Info("📋 Completed successfully - found %d contacts", len(contacts))
	return contacts, nil
}

// GetDirectMessages reads the DM channel of every contact. With since set,
// each channel is paged forward until a short page comes back, so every
// message newer than since is returned.
func (c *DiscordClient) GetDirectMessages(
	ctx context.Context,
	since mo.Option[models.MessageID],
	count int,
) ([]models.Message, error) {
	var messages []models.Message
	for _, contactID := range c.contactIDs {
		channelID, err := c.dmChannel(ctx, contactID)
		if err != nil {
			return nil, err
		}

		channelMessages, err := c.channelHistory(ctx, channelID, since, count)
		if err != nil {
			return nil, err
		}
		messages = append(messages, channelMessages...)
	}

	return clients.NewestFirst(messages, count), nil
}

func (c *DiscordClient) channelHistory(
	ctx context.Context,
	channelID string,
	since mo.Option[models.MessageID],
	count int,
) ([]models.Message, error) {
	limit := count
	if limit <= 0 || limit > channelMessagesLimit {
		limit = channelMessagesLimit
	}
	cursor, paged := since.Get()

	var messages []models.Message
	for {
		afterID := ""
		if paged {
			afterID = cursor.String()
		}

		page, err := c.session.ChannelMessages(channelID, limit, "", afterID, "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to get messages of DM channel %s: %w", channelID, err)
		}

		for _, msg := range page {
			id, err := ParseSnowflake(msg.ID)
			if err != nil {
				return nil, fmt.Errorf("malformed message in DM channel %s: %w", channelID, err)
			}
			senderID := ""
			if msg.Author != nil {
				senderID = msg.Author.ID
			}
			messages = append(messages, models.Message{
				ID:        id,
				SenderID:  senderID,
				ChannelID: channelID,
				Text:      msg.Content,
			})
			cursor = max(cursor, id)
		}

		if !paged || len(page) < limit {
			return messages, nil
		}
		log.Debug("Fetching messages of DM channel %s after %s", channelID, cursor)
	}
}

func (c *DiscordClient) PostDirectMessage(ctx context.Context, recipientID, text string) error {
	log.Info("📋 Starting to post direct message to %s", recipientID)
	channelID, err := c.dmChannel(ctx, recipientID)
	if err != nil {
		return err
	}

	if _, err := c.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		log.Error("❌ Failed to post direct message to %s: %v", recipientID, err)
		return fmt.Errorf("failed to post direct message to %s: %w", recipientID, err)
	}

	log.Info("📋 Completed successfully - posted direct message to %s", recipientID)
	return nil
}

// dmChannel creates (or reuses) the bot's DM channel with userID
func (c *DiscordClient) dmChannel(ctx context.Context, userID string) (string, error) {
	if channelID, ok := c.dmChannels[userID]; ok {
		return channelID, nil
	}

	channel, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to open DM channel with %s: %w", userID, err)
	}

	c.dmChannels[userID] = channel.ID
	return channel.ID, nil
}

func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}

// ParseSnowflake converts a Discord snowflake into a MessageID
func ParseSnowflake(snowflake string) (models.MessageID, error) {
	id, err := strconv.ParseUint(snowflake, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", snowflake, err)
	}
	return models.MessageID(id), nil
}
