package services

import (
	"regexp"
	"strings"

	"github.com/samber/mo"

	"requestdepot/models"
)

// recipientPattern treats the third whitespace-delimited token as the recipient
var recipientPattern = regexp.MustCompile(`^\S+ \S+ (\S+)`)

// CommandRule is one entry of the classification table. Rules are tried in
// order and the first match wins.
type CommandRule struct {
	Name  string
	Match func(text string) bool
	Build func(text string) models.Command
}

// DefaultCommandRules is the command grammar the watcher understands
var DefaultCommandRules = []CommandRule{
	{
		Name: "capture",
		Match: func(text string) bool {
			return strings.HasPrefix(text, "take photo") || strings.HasPrefix(text, "take video")
		},
		Build: func(text string) models.Command {
			return models.Command{
				Kind:      models.CommandKindCapture,
				MediaKind: captureMediaKind(text),
				Recipient: captureRecipient(text),
			}
		},
	},
	{
		Name: "light",
		Match: func(text string) bool {
			return text == "light on" || text == "light off"
		},
		Build: func(text string) models.Command {
			return models.Command{
				Kind:    models.CommandKindLight,
				LightOn: strings.Contains(text, " on"),
			}
		},
	},
}

// captureMediaKind picks photo whenever "photo" appears anywhere in the text,
// so "take video ... photo" is a photo request
func captureMediaKind(text string) models.MediaKind {
	if strings.Contains(text, "photo") {
		return models.MediaKindPhoto
	}
	return models.MediaKindVideo
}

func captureRecipient(text string) mo.Option[string] {
	match := recipientPattern.FindStringSubmatch(text)
	if match == nil {
		return mo.None[string]()
	}
	return mo.Some(match[1])
}

// NormalizeCommandText trims and lowercases message text before classification
func NormalizeCommandText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

type CommandService struct {
	rules []CommandRule
}

func NewCommandService(rules []CommandRule) *CommandService {
	return &CommandService{
		rules: rules,
	}
}

// Classify normalizes text and returns the command of the first matching rule
func (s *CommandService) Classify(text string) models.Command {
	normalized := NormalizeCommandText(text)
	for _, rule := range s.rules {
		if rule.Match(normalized) {
			return rule.Build(normalized)
		}
	}
	return models.Command{Kind: models.CommandKindUnrecognized}
}
