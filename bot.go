// Package replybot matches incoming chat messages against declarative rules
// and runs a reply or callback for every rule that matches.
//
// Rules are registered on a Registry with one call per match kind and
// configured by chaining:
//
//	reg := replybot.NewRegistry()
//	reg.OnWord("ping").Reply("pong")
//	reg.OnSubstring("good bot").Chance(50).ReplyOneOf("thanks!", ":blush:")
//	reg.OnStartsWith("hi").Aliases("hey", "yo").Reply("hello there")
//
// Commands receive their arguments, split on whitespace after the command word:
//
//	reg.OnCommand("!ban").
//		MinArgs(1).
//		AllowedChannels("C0MODS").
//		UsageError("usage: !ban <user> [reason]").
//		Do(func(ctx context.Context, args []string, rawArgs string, msg replybot.Message) {
//			msg.Reply("banned " + args[0])
//		})
//
// Every rule is evaluated for every message, in registration order, and every
// matching rule fires. A Registry is fed through HandleMessage by any host
// that implements Message. Bot connects a Registry to Slack RTM through the
// github.com/nlopes/slack package:
//
//	bot := replybot.New(os.Getenv("SLACK_TOKEN"))
//	bot.OnWord("ping").Reply("pong")
//	bot.Run(quitCh)
package replybot

import (
	"context"
	"fmt"
	"time"

	"github.com/nlopes/slack"
	log "github.com/sirupsen/logrus"
)

const maxTypingSleep = time.Millisecond * 2000

// New constructs a new Bot using the slackToken to authorize against the Slack service.
func New(slackToken string) *Bot {
	return &Bot{
		Registry:              NewRegistry(),
		Client:                slack.New(slackToken),
		TypingDelayMultiplier: 0,
	}
}

type Bot struct {
	*Registry
	botUserID             string        // Slack UserID of the bot UserID
	Client                *slack.Client // Slack API
	RTM                   *slack.RTM
	TypingDelayMultiplier float64 // Multiplier on typing delay.  Default 0 -> no delay.  1 -> 2ms per character, 5 -> 10ms per, 0.5 -> 1ms per. Max delay is 2000ms regardless.

	talkToSelf   bool          // if set, the bot's own messages are run through the rules
	messageTypes []MessageType // if set, only messages of these types are run through the rules
	debugging    bool
}

// Returns a copy of the bot with debugging enabled.  Intended to be daisychained with the New() constructor.
// The copy shares its rule list with the original.
func (b *Bot) WithDebugging() *Bot {
	newB := *b
	newB.Registry = b.Registry.WithDebugging()
	newB.debugging = true
	return &newB
}

// TalkToSelf lets the bot's own messages trigger rules.
func (b *Bot) TalkToSelf() *Bot {
	b.talkToSelf = true
	return b
}

// Messages restricts the bot to direct messages and/or messages that start by mentioning it.
// With no types, every message is handled.
func (b *Bot) Messages(types ...MessageType) *Bot {
	b.messageTypes = append([]MessageType(nil), types...)
	return b
}

// Run listens for incoming slack RTM events and hands every message to the rule registry. It will terminate when
// the provided channel is closed, or if it encounters an error during initial authentication.  Authentication is
// done synchronously, and a non-nil error will be returned if an authentication error is encounters.  Once
// authentication has succeeded, Run will create a new goroutine for the actual message handling, and thus does not
// need to be run in a goroutine itself.
func (b *Bot) Run(quitCh <-chan struct{}) error {
	b.RTM = b.Client.NewRTM()
	go b.RTM.ManageConnection()

auth:
	for {
		select {
		case msg := <-b.RTM.IncomingEvents:
			switch ev := msg.Data.(type) {
			case *slack.ConnectedEvent:
				b.debugf("[Replybot] Connected: %+v", ev.Info.User)
				b.botUserID = ev.Info.User.ID
				break auth

			case *slack.InvalidAuthEvent:
				return fmt.Errorf("authentication failed")

			default:
				// Ignore other events, including messages, until auth is successful
			}
		case <-quitCh:
			b.debugf("[Replybot] Quit event received during authentication.")
			return fmt.Errorf("quit event received during authentication")
		}
	}

	go func() {
		for {
			select {
			case msg := <-b.RTM.IncomingEvents:
				switch ev := msg.Data.(type) {
				case *slack.MessageEvent:
					b.handleEvent(ev)

				case *slack.RTMError:
					log.WithError(ev).Error("[Replybot] RTM Error.")

				default:
					// Ignore other events.
				}
			case <-quitCh:
				b.debugf("[Replybot] Quit event received.")
				if err := b.RTM.Disconnect(); err != nil {
					log.WithError(err).Warn("[Replybot] Disconnect failed.")
				}
				return
			}
		}
	}()

	return nil
}

func (b *Bot) handleEvent(ev *slack.MessageEvent) {
	if !b.talkToSelf && b.botUserID != "" && ev.User == b.botUserID {
		return
	}
	if !b.acceptsType(ev) {
		return
	}
	ctx := addBotToContext(context.Background(), b)
	n := b.HandleMessage(ctx, b.newMessage(ev))
	b.debugf("[Replybot] Message in %s matched %d rules.", ev.Channel, n)
}

func (b *Bot) newMessage(ev *slack.MessageEvent) *slackMessage {
	return &slackMessage{
		evt:  ev,
		text: StripDirectMention(ev.Text),
		reply: func(channel, text string) error {
			b.Reply(ev, text)
			return nil
		},
		delete: func(channel, timestamp string) error {
			_, _, err := b.Client.DeleteMessage(channel, timestamp)
			return err
		},
	}
}

func (b *Bot) acceptsType(ev *slack.MessageEvent) bool {
	if len(b.messageTypes) == 0 {
		return true
	}
	for _, t := range b.messageTypes {
		switch t {
		case DirectMessage:
			if IsDirectMessage(ev) {
				return true
			}
		case DirectMention:
			if IsDirectMention(ev, b.botUserID) {
				return true
			}
		}
	}
	return false
}

// Reply replies to a message event with a simple message.
func (b *Bot) Reply(evt *slack.MessageEvent, msg string) {
	if b.TypingDelayMultiplier > 0 {
		b.TypeByMessage(evt, msg)
	}
	b.RTM.SendMessage(b.RTM.NewOutgoingMessage(msg, evt.Channel))
}

// Type sends a typing event to indicate that the bot is "typing" or otherwise working.
func (b *Bot) Type(evt *slack.MessageEvent) {
	b.RTM.SendMessage(b.RTM.NewTypingMessage(evt.Channel))
}

// TypeByMessage sends a typing message and simulates delay (max 2000ms) based on message size.
func (b *Bot) TypeByMessage(evt *slack.MessageEvent, msg string) {
	b.Type(evt)
	time.Sleep(b.typingDelay(msg))
}

func (b *Bot) typingDelay(msg string) time.Duration {
	sleepDuration := time.Duration(float64(time.Minute*time.Duration(len(msg))/30000) * (b.TypingDelayMultiplier))
	if sleepDuration > maxTypingSleep {
		sleepDuration = maxTypingSleep
	}
	return sleepDuration
}

// Fetch the botUserID.
func (b *Bot) BotUserID() string {
	return b.botUserID
}

func (b *Bot) debugf(format string, args ...interface{}) {
	if b.debugging {
		log.Debugf(format, args...)
	}
}
