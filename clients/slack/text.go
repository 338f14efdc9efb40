package slack

import (
	"regexp"
	"strings"
)

// linkRegex matches Slack's angle-bracket markup: <target> or <target|label>
var linkRegex = regexp.MustCompile(`<([^<>|]+)(?:\|([^<>]*))?>`)

var entityReplacer = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// PlainText turns the stored form of a Slack message back into what the
// sender typed. Links and auto-linked emails become their visible text and the
// three entities Slack escapes are decoded. Mentions (<@U1>, <#C1>, <!here>)
// are left as they are.
func PlainText(text string) string {
	unwrapped := linkRegex.ReplaceAllStringFunc(text, func(match string) string {
		submatches := linkRegex.FindStringSubmatch(match)
		target, label := submatches[1], submatches[2]

		switch target[0] {
		case '@', '#', '!':
			return match
		}
		if label != "" {
			return label
		}
		return strings.TrimPrefix(target, "mailto:")
	})

	return entityReplacer.Replace(unwrapped)
}
