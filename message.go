package replybot

import (
	"regexp"
	"strings"

	"github.com/nlopes/slack"
)

var directMentionRe = regexp.MustCompile(`^\s*<@[A-Za-z0-9]+(\|[^>]*)?>:?\s*`)

// StripDirectMention removes a leading user mention such as "<@U123>: " from text.
func StripDirectMention(text string) string {
	return directMentionRe.ReplaceAllString(text, "")
}

// IsDirectMessage reports whether evt was sent in a direct message channel.
func IsDirectMessage(evt *slack.MessageEvent) bool {
	return strings.HasPrefix(evt.Channel, "D")
}

// IsDirectMention reports whether evt starts by mentioning botUserID.
func IsDirectMention(evt *slack.MessageEvent, botUserID string) bool {
	if botUserID == "" {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(evt.Text), "<@"+botUserID)
}

// slackMessage adapts a Slack message event to Message.
type slackMessage struct {
	evt    *slack.MessageEvent
	text   string
	reply  func(channel, text string) error
	delete func(channel, timestamp string) error
}

func (m *slackMessage) Content() string {
	return m.text
}

func (m *slackMessage) ChannelID() string {
	return m.evt.Channel
}

func (m *slackMessage) Reply(text string) error {
	return m.reply(m.evt.Channel, text)
}

func (m *slackMessage) Delete() error {
	return m.delete(m.evt.Channel, m.evt.Timestamp)
}

// SlackEvent returns the Slack event behind msg, or nil if msg did not come from Slack.
func SlackEvent(msg Message) *slack.MessageEvent {
	if m, ok := msg.(*slackMessage); ok {
		return m.evt
	}
	return nil
}
