package replybot

import (
	"context"
)

// MatchKind selects the string comparison a rule applies to message content.
type MatchKind int

const (
	ContainsSubstring MatchKind = iota
	ContainsExactSubstring
	ContainsWord
	ContainsAnyOf
	StartsWith
	EndsWith
	Command
)

func (k MatchKind) String() string {
	switch k {
	case ContainsSubstring:
		return "ContainsSubstring"
	case ContainsExactSubstring:
		return "ContainsExactSubstring"
	case ContainsWord:
		return "ContainsWord"
	case ContainsAnyOf:
		return "ContainsAnyOf"
	case StartsWith:
		return "StartsWith"
	case EndsWith:
		return "EndsWith"
	case Command:
		return "Command"
	}
	return "Unknown"
}

// MessageType is a kind of Slack message a Bot can be restricted to.
type MessageType int

const (
	DirectMessage MessageType = iota
	DirectMention
)

// EventCancelled is the event kind reported when a matched rule fails its chance roll.
const EventCancelled = "Cancelled"

// Message is an incoming chat message as seen by the engine.
type Message interface {
	Content() string
	ChannelID() string
	Reply(text string) error
	Delete() error
}

type SimpleCallback func(ctx context.Context, msg Message)
type CommandCallback func(ctx context.Context, args []string, rawArgs string, msg Message)

// LogFunc receives the event kind (a MatchKind name or EventCancelled), the
// pattern or reason, and the triggering message.
type LogFunc func(event string, pattern string, msg Message)

// Observer is notified of matches and cancellations.
type Observer interface {
	Observe(event string, pattern string, msg Message)
}

// Observe calls f.
func (f LogFunc) Observe(event string, pattern string, msg Message) {
	f(event, pattern, msg)
}

type nopObserver struct{}

func (nopObserver) Observe(string, string, Message) {}

// Runner executes an action effect. Effects are submitted in rule registration order.
type Runner func(task func())

// AsyncRunner starts every effect on its own goroutine and does not wait for it.
func AsyncRunner(task func()) {
	go task()
}

// SyncRunner runs every effect inline.
func SyncRunner(task func()) {
	task()
}
