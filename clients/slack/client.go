package slack

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/slack-go/slack"

	"requestdepot/clients"
	"requestdepot/core/log"
	"requestdepot/models"
	"requestdepot/utils"
)

// SlackClient implements clients.MessagingClient on top of the slack-go SDK.
// Contacts are the members of one user group; their DMs with the bot form the inbox.
type SlackClient struct {
	api         *slack.Client
	userGroupID string

	contactIDs []string
	dmChannels map[string]string

	sleep func(ctx context.Context, d time.Duration) error
}

// NewSlackClient creates a Slack client for the given bot token
func NewSlackClient(botToken, userGroupID string, options ...slack.Option) *SlackClient {
	return &SlackClient{
		api:         slack.New(botToken, options...),
		userGroupID: userGroupID,
		dmChannels:  make(map[string]string),
		sleep:       utils.SleepContext,
	}
}

// withRateLimitWait retries call for as long as Slack answers with a rate
// limit, sleeping for the advertised Retry-After in between
func withRateLimitWait[T any](c *SlackClient, ctx context.Context, op string, call func() (T, error)) (T, error) {
	for {
		result, err := call()
		var rateErr *slack.RateLimitedError
		if !errors.As(err, &rateErr) {
			return result, err
		}

		log.Info("⏱️ Slack rate limited %s, waiting %v", op, rateErr.RetryAfter)
		if sleepErr := c.sleep(ctx, rateErr.RetryAfter); sleepErr != nil {
			var zero T
			return zero, sleepErr
		}
	}
}

func (c *SlackClient) Authenticate(ctx context.Context) (*models.Account, error) {
	log.Info("📋 Starting to authenticate with Slack")
	response, err := withRateLimitWait(c, ctx, "auth.test", func() (*slack.AuthTestResponse, error) {
		return c.api.AuthTestContext(ctx)
	})
	if err != nil {
		log.Error("❌ Slack authentication failed: %v", err)
		return nil, fmt.Errorf("slack authentication failed: %w", err)
	}

	log.Info("📋 Completed successfully - authenticated as %s (%s)", response.User, response.UserID)
	return &models.Account{ID: response.UserID, Handle: response.User}, nil
}

func (c *SlackClient) GetContacts(ctx context.Context) ([]models.Contact, error) {
	log.Info("📋 Starting to get members of user group %s", c.userGroupID)
	memberIDs, err := withRateLimitWait(c, ctx, "usergroups.users.list", func() ([]string, error) {
		return c.api.GetUserGroupMembersContext(ctx, c.userGroupID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list user group members: %w", err)
	}

	contacts := make([]models.Contact, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		user, err := withRateLimitWait(c, ctx, "users.info", func() (*slack.User, error) {
			return c.api.GetUserInfoContext(ctx, memberID)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get user info for %s: %w", memberID, err)
		}

		displayName := user.Profile.DisplayName
		if displayName == "" {
			displayName = user.RealName
		}
		contacts = append(contacts, models.Contact{
			ID:          user.ID,
			DisplayName: displayName,
			Handle:      user.Name,
		})
	}

	c.contactIDs = memberIDs
	log.Info("📋 Completed successfully - found %d contacts", len(contacts))
	return contacts, nil
}

// GetDirectMessages reads the DM channel of every contact. With since set,
// each channel is paged through until Slack reports nothing more, so every
// message newer than since is returned.
func (c *SlackClient) GetDirectMessages(
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

func (c *SlackClient) channelHistory(
	ctx context.Context,
	channelID string,
	since mo.Option[models.MessageID],
	count int,
) ([]models.Message, error) {
	params := &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     count,
	}
	cursor, paged := since.Get()
	if paged {
		params.Oldest = FormatTimestamp(cursor)
	}

	var messages []models.Message
	for {
		history, err := withRateLimitWait(c, ctx, "conversations.history", func() (*slack.GetConversationHistoryResponse, error) {
			return c.api.GetConversationHistoryContext(ctx, params)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get history of DM channel %s: %w", channelID, err)
		}

		for _, msg := range history.Messages {
			id, err := ParseTimestamp(msg.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("malformed message in DM channel %s: %w", channelID, err)
			}
			messages = append(messages, models.Message{
				ID:        id,
				SenderID:  msg.User,
				ChannelID: channelID,
				Text:      PlainText(msg.Text),
			})
		}

		if !paged || !history.HasMore || history.ResponseMetaData.NextCursor == "" {
			return messages, nil
		}
		log.Debug("Fetching next history page of DM channel %s", channelID)
		params.Cursor = history.ResponseMetaData.NextCursor
	}
}

func (c *SlackClient) PostDirectMessage(ctx context.Context, recipientID, text string) error {
	log.Info("📋 Starting to post direct message to %s", recipientID)
	channelID, err := c.dmChannel(ctx, recipientID)
	if err != nil {
		return err
	}

	_, err = withRateLimitWait(c, ctx, "chat.postMessage", func() (string, error) {
		_, timestamp, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
		return timestamp, err
	})
	if err != nil {
		log.Error("❌ Failed to post direct message to %s: %v", recipientID, err)
		return fmt.Errorf("failed to post direct message to %s: %w", recipientID, err)
	}

	log.Info("📋 Completed successfully - posted direct message to %s", recipientID)
	return nil
}

// dmChannel opens (or reuses) the bot's DM conversation with userID
func (c *SlackClient) dmChannel(ctx context.Context, userID string) (string, error) {
	if channelID, ok := c.dmChannels[userID]; ok {
		return channelID, nil
	}

	channel, err := withRateLimitWait(c, ctx, "conversations.open", func() (*slack.Channel, error) {
		channel, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
			Users: []string{userID},
		})
		return channel, err
	})
	if err != nil {
		return "", fmt.Errorf("failed to open DM channel with %s: %w", userID, err)
	}

	c.dmChannels[userID] = channel.ID
	return channel.ID, nil
}

// ParseTimestamp converts a Slack message ts ("1700000000.000200") into a
// MessageID counting microseconds
func ParseTimestamp(ts string) (models.MessageID, error) {
	secondsPart, fractionPart, _ := strings.Cut(ts, ".")
	seconds, err := strconv.ParseUint(secondsPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid slack timestamp %q: %w", ts, err)
	}

	if len(fractionPart) > 6 {
		return 0, fmt.Errorf("invalid slack timestamp %q: fraction too long", ts)
	}
	var micros uint64
	if fractionPart != "" {
		fractionPart += strings.Repeat("0", 6-len(fractionPart))
		micros, err = strconv.ParseUint(fractionPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid slack timestamp %q: %w", ts, err)
		}
	}

	return models.MessageID(seconds*1_000_000 + micros), nil
}

// FormatTimestamp is the inverse of ParseTimestamp
func FormatTimestamp(id models.MessageID) string {
	return fmt.Sprintf("%d.%06d", uint64(id)/1_000_000, uint64(id)%1_000_000)
}
