package replybot

import (
	"context"
)

// key is unexported so other packages cannot access these keys directly or by mimicking their values.
// This ensures that registries, messages and rules can only be added to or retrieved from the context via these functions.
type key int

const (
	registry_context_key key = iota
	message_context_key
	rule_context_key
	bot_context_key
)

func RegistryFromContext(ctx context.Context) *Registry {
	if result, ok := ctx.Value(registry_context_key).(*Registry); ok {
		return result
	}
	return nil
}

func addRegistryToContext(ctx context.Context, reg *Registry) context.Context {
	return context.WithValue(ctx, registry_context_key, reg)
}

func MessageFromContext(ctx context.Context) Message {
	if result, ok := ctx.Value(message_context_key).(Message); ok {
		return result
	}
	return nil
}

func addMessageToContext(ctx context.Context, msg Message) context.Context {
	return context.WithValue(ctx, message_context_key, msg)
}

// RuleFromContext returns the rule whose action is running.
func RuleFromContext(ctx context.Context) *Rule {
	if result, ok := ctx.Value(rule_context_key).(*Rule); ok {
		return result
	}
	return nil
}

func addRuleToContext(ctx context.Context, r *Rule) context.Context {
	return context.WithValue(ctx, rule_context_key, r)
}

func BotFromContext(ctx context.Context) *Bot {
	if result, ok := ctx.Value(bot_context_key).(*Bot); ok {
		return result
	}
	return nil
}

func addBotToContext(ctx context.Context, bot *Bot) context.Context {
	return context.WithValue(ctx, bot_context_key, bot)
}
