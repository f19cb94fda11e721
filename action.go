package replybot

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// ActionKind identifies the effect a rule performs when it fires.
type ActionKind int

const (
	ActionReply ActionKind = iota
	ActionReplySometimes
	ActionReplyOneOf
	ActionInvokeSimpleCallback
	ActionInvokeCommandCallback
)

func (k ActionKind) String() string {
	switch k {
	case ActionReply:
		return "Reply"
	case ActionReplySometimes:
		return "ReplySometimes"
	case ActionReplyOneOf:
		return "ReplyOneOf"
	case ActionInvokeSimpleCallback:
		return "InvokeSimpleCallback"
	case ActionInvokeCommandCallback:
		return "InvokeCommandCallback"
	}
	return "Unknown"
}

// Action is the effect of a rule. The set of actions is closed; rules get one
// through Reply, ReplySometimes, ReplyOneOf, Then or Do.
type Action interface {
	Kind() ActionKind
	run(ctx context.Context, c *call) error
}

// call carries one rule firing through its action.
type call struct {
	rule          *Rule
	msg           Message
	rand          *randSource
	caseSensitive bool
}

type replyAction struct {
	text string
}

func (replyAction) Kind() ActionKind { return ActionReply }

func (a replyAction) run(ctx context.Context, c *call) error {
	return c.msg.Reply(a.text)
}

type replySometimesAction struct {
	text    string
	percent int
}

func (replySometimesAction) Kind() ActionKind { return ActionReplySometimes }

func (a replySometimesAction) run(ctx context.Context, c *call) error {
	if !c.rand.passes(a.percent) {
		return nil
	}
	return c.msg.Reply(a.text)
}

type replyOneOfAction struct {
	texts []string
}

func (replyOneOfAction) Kind() ActionKind { return ActionReplyOneOf }

func (a replyOneOfAction) run(ctx context.Context, c *call) error {
	if len(a.texts) == 0 {
		return nil
	}
	return c.msg.Reply(a.texts[c.rand.intn(len(a.texts))])
}

type simpleAction struct {
	fn SimpleCallback
}

func (simpleAction) Kind() ActionKind { return ActionInvokeSimpleCallback }

func (a simpleAction) run(ctx context.Context, c *call) error {
	a.fn(ctx, c.msg)
	return nil
}

type commandAction struct {
	fn CommandCallback
}

func (commandAction) Kind() ActionKind { return ActionInvokeCommandCallback }

func (a commandAction) run(ctx context.Context, c *call) error {
	content := c.msg.Content()
	text := content
	fold := func(s string) string { return s }
	if !c.caseSensitive {
		text = strings.ToLower(content)
		fold = strings.ToLower
	}

	n, ok := c.rule.matchPrefix(text, fold)
	if !ok {
		return errors.Errorf("command prefix not found in %q", content)
	}
	args, rawArgs := splitArgs(content, n)

	if !c.rule.channelAllowed(c.msg.ChannelID()) || len(args) < c.rule.minArgs {
		if c.rule.usageError != "" {
			return c.msg.Reply(c.rule.usageError)
		}
		return nil
	}

	a.fn(ctx, args, rawArgs, c.msg)
	return nil
}
