package replybot

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Rule is one registered match configuration plus its action. Rules are built
// through the Registry's On* methods and configured by chaining.
//
// A builder method that receives invalid input records a ConfigurationError
// on the rule. The first error sticks, is returned by Err and by every action
// setter, and keeps the rule from ever matching.
type Rule struct {
	kind     MatchKind
	pattern  string
	patterns []string // ContainsAnyOf set, or aliases followed by pattern for StartsWith and Command
	action   Action

	chance      int // 0 means always
	deleteAfter time.Duration
	hasDelete   bool

	minArgs         int
	allowedChannels map[string]struct{}
	usageError      string

	err error
}

func newRule(kind MatchKind, pattern string) *Rule {
	r := &Rule{kind: kind, pattern: pattern}
	switch {
	case pattern == "":
		r.fail("pattern must not be empty")
	case (kind == StartsWith || kind == Command) && strings.TrimSpace(pattern) == "":
		// word prefix patterns need at least one word
		r.fail("pattern must contain a word")
	}
	if kind == StartsWith || kind == Command {
		r.patterns = []string{pattern}
	}
	return r
}

func newAnyOfRule(patterns []string) *Rule {
	r := &Rule{
		kind:     ContainsAnyOf,
		pattern:  strings.Join(patterns, ","),
		patterns: append([]string(nil), patterns...),
	}
	if len(patterns) == 0 {
		r.fail("at least one pattern is required")
	}
	for _, p := range patterns {
		if p == "" {
			r.fail("patterns must not be empty")
		}
	}
	return r
}

func (r *Rule) fail(reason string) {
	if r.err != nil {
		return
	}
	r.err = errors.WithStack(&ConfigurationError{Kind: r.kind, Pattern: r.pattern, Reason: reason})
}

// Kind returns the rule's match kind.
func (r *Rule) Kind() MatchKind {
	return r.kind
}

// Pattern returns the primary pattern. For ContainsAnyOf rules it is the comma-joined set.
func (r *Rule) Pattern() string {
	return r.pattern
}

// Patterns returns a copy of the rule's pattern list: the ContainsAnyOf set, or
// the aliases followed by the primary pattern for StartsWith and Command rules.
func (r *Rule) Patterns() []string {
	return append([]string(nil), r.patterns...)
}

// Action returns the configured action, or nil.
func (r *Rule) Action() Action {
	return r.action
}

func (r *Rule) Err() error {
	return r.err
}

// Aliases adds alternate patterns for StartsWith and Command rules. The
// primary pattern is tried after the aliases.
func (r *Rule) Aliases(aliases ...string) *Rule {
	if r.kind != StartsWith && r.kind != Command {
		r.fail("aliases are only supported by StartsWith and Command rules")
		return r
	}
	for _, a := range aliases {
		if strings.TrimSpace(a) == "" {
			r.fail("aliases must not be empty")
			return r
		}
	}
	// patterns always ends with the primary pattern
	list := append([]string(nil), r.patterns[:len(r.patterns)-1]...)
	list = append(list, aliases...)
	r.patterns = append(list, r.pattern)
	return r
}

// Chance makes the rule fire only percent% of the times it matches.
func (r *Rule) Chance(percent int) *Rule {
	if percent < 1 || percent > 100 {
		r.fail("chance must be between 1 and 100")
		return r
	}
	r.chance = percent
	return r
}

// DeleteAfter deletes the triggering message d after the action fires.
func (r *Rule) DeleteAfter(d time.Duration) *Rule {
	if d < 0 {
		r.fail("delete delay must not be negative")
		return r
	}
	r.deleteAfter = d
	r.hasDelete = true
	return r
}

// MinArgs sets the minimum argument count for a command callback.
func (r *Rule) MinArgs(n int) *Rule {
	if n < 0 {
		r.fail("minimum argument count must not be negative")
		return r
	}
	r.minArgs = n
	return r
}

// AllowedChannels restricts a command callback to the given channel IDs.
func (r *Rule) AllowedChannels(ids ...string) *Rule {
	if r.allowedChannels == nil {
		r.allowedChannels = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		r.allowedChannels[id] = struct{}{}
	}
	return r
}

// UsageError is replied instead of running the command callback when its
// channel or argument requirements are not met.
func (r *Rule) UsageError(msg string) *Rule {
	r.usageError = msg
	return r
}

// Reply sets the action to reply with text.
func (r *Rule) Reply(text string) error {
	return r.setAction(replyAction{text: text})
}

// ReplySometimes replies with text percent% of the times the action runs.
// This roll is independent of Chance; both must pass.
func (r *Rule) ReplySometimes(text string, percent int) error {
	if percent < 1 || percent > 100 {
		r.fail("reply chance must be between 1 and 100")
	}
	return r.setAction(replySometimesAction{text: text, percent: percent})
}

// ReplyOneOf replies with one of texts chosen uniformly at random.
func (r *Rule) ReplyOneOf(texts ...string) error {
	if len(texts) == 0 {
		r.fail("at least one reply is required")
	}
	return r.setAction(replyOneOfAction{texts: append([]string(nil), texts...)})
}

// Then sets the action to invoke fn with the matched message.
func (r *Rule) Then(fn SimpleCallback) error {
	if fn == nil {
		r.fail("callback must not be nil")
	}
	return r.setAction(simpleAction{fn: fn})
}

// Do sets the action to invoke fn with the command's arguments. Only Command rules accept it.
func (r *Rule) Do(fn CommandCallback) error {
	if r.kind != Command {
		r.fail("command callbacks require a Command rule")
	}
	if fn == nil {
		r.fail("callback must not be nil")
	}
	return r.setAction(commandAction{fn: fn})
}

func (r *Rule) setAction(a Action) error {
	if r.err != nil {
		return r.err
	}
	r.action = a
	return nil
}

func (r *Rule) channelAllowed(id string) bool {
	if r.allowedChannels == nil {
		return true
	}
	_, ok := r.allowedChannels[id]
	return ok
}
