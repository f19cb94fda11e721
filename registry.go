package replybot

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ruleList is the ordered rule storage. Derived registries share one ruleList.
type ruleList struct {
	mu    sync.RWMutex
	rules []*Rule
}

func (l *ruleList) add(r *Rule) *Rule {
	l.mu.Lock()
	l.rules = append(l.rules, r)
	l.mu.Unlock()
	return r
}

func (l *ruleList) snapshot() []*Rule {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Rule(nil), l.rules...)
}

// Registry holds rules in registration order and runs every matching rule for each message.
//
// Configuration setters are not synchronized with HandleMessage; configure a
// registry before messages start flowing.
type Registry struct {
	rules         *ruleList
	caseSensitive bool
	observer      Observer
	runner        Runner
	rand          *randSource
	afterFunc     func(d time.Duration, f func())

	debugging bool
}

// NewRegistry returns an empty, case-insensitive registry that dispatches asynchronously and logs nothing.
func NewRegistry() *Registry {
	return &Registry{
		rules:     &ruleList{},
		observer:  nopObserver{},
		runner:    AsyncRunner,
		rand:      defaultRand,
		afterFunc: scheduleAfter,
	}
}

func scheduleAfter(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Derive returns a new registry with the same flags, observer and runner that
// shares this registry's rule list. Rules registered on either registry are
// seen by both; configuration changes are not.
func (reg *Registry) Derive() *Registry {
	derived := *reg
	return &derived
}

// Returns a copy of the registry with debugging enabled. The copy shares the rule list, like Derive.
func (reg *Registry) WithDebugging() *Registry {
	derived := reg.Derive()
	derived.debugging = true
	return derived
}

func (reg *Registry) SetCaseSensitive(caseSensitive bool) {
	reg.caseSensitive = caseSensitive
}

func (reg *Registry) CaseSensitive() bool {
	return reg.caseSensitive
}

// EnableLogging reports every match and cancellation to fn.
func (reg *Registry) EnableLogging(fn LogFunc) {
	if fn == nil {
		reg.observer = nopObserver{}
		return
	}
	reg.observer = fn
}

// SetObserver replaces the event observer. A nil observer disables reporting.
func (reg *Registry) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	reg.observer = o
}

// SetRunner sets how action effects are executed. The default is AsyncRunner.
func (reg *Registry) SetRunner(r Runner) {
	if r == nil {
		r = AsyncRunner
	}
	reg.runner = r
}

// SetRandom replaces the random source used by chance gates and ReplyOneOf.
// fn must return a uniform integer in [0, n).
func (reg *Registry) SetRandom(fn func(n int) int) {
	reg.rand = newRandSource(fn)
}

// SetScheduler replaces the timer used for delayed message deletion.
func (reg *Registry) SetScheduler(afterFunc func(d time.Duration, f func())) {
	if afterFunc == nil {
		afterFunc = scheduleAfter
	}
	reg.afterFunc = afterFunc
}

// Rules returns the registered rules in evaluation order.
func (reg *Registry) Rules() []*Rule {
	return reg.rules.snapshot()
}

func (reg *Registry) OnSubstring(text string) *Rule {
	return reg.rules.add(newRule(ContainsSubstring, text))
}

func (reg *Registry) OnExactSubstring(text string) *Rule {
	return reg.rules.add(newRule(ContainsExactSubstring, text))
}

func (reg *Registry) OnWord(word string) *Rule {
	return reg.rules.add(newRule(ContainsWord, word))
}

func (reg *Registry) OnAnyOf(words ...string) *Rule {
	return reg.rules.add(newAnyOfRule(words))
}

func (reg *Registry) OnStartsWith(text string) *Rule {
	return reg.rules.add(newRule(StartsWith, text))
}

func (reg *Registry) OnEndsWith(text string) *Rule {
	return reg.rules.add(newRule(EndsWith, text))
}

func (reg *Registry) OnCommand(name string) *Rule {
	return reg.rules.add(newRule(Command, name))
}

// HandleMessage evaluates every rule in registration order against msg and
// dispatches each one that matches and passes its chance gate. It returns the
// number of matching rules. Action failures are logged and never stop later rules.
func (reg *Registry) HandleMessage(ctx context.Context, msg Message) int {
	if msg == nil {
		return 0
	}
	ctx = addRegistryToContext(ctx, reg)
	ctx = addMessageToContext(ctx, msg)

	content, ok := readContent(msg)
	if !ok {
		return 0
	}
	matched := 0
	for _, r := range reg.rules.snapshot() {
		if !reg.evaluate(r, content) {
			continue
		}
		matched++
		reg.observe(r.kind.String(), r.pattern, msg)

		if !reg.rand.passes(r.chance) {
			reg.debugf("[Replybot] %s %q cancelled by chance %d%%", r.kind, r.pattern, r.chance)
			reg.observe(EventCancelled, "Action failed the 'sometimes' chance.", msg)
			continue
		}

		reg.dispatch(addRuleToContext(ctx, r), r, msg)
	}
	return matched
}

// readContent returns msg's content. A message that panics, such as a typed nil, has none.
func readContent(msg Message) (content string, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			log.WithError(recovered(v)).Warn("[Replybot] Message content unavailable.")
			content, ok = "", false
		}
	}()
	return msg.Content(), true
}

func (reg *Registry) observe(event string, pattern string, msg Message) {
	defer func() {
		if v := recover(); v != nil {
			log.WithError(recovered(v)).
				WithFields(log.Fields{"event": event, "pattern": pattern}).
				Error("[Replybot] Observer panicked.")
		}
	}()
	reg.observer.Observe(event, pattern, msg)
}

func (reg *Registry) evaluate(r *Rule, content string) (matched bool) {
	defer func() {
		if v := recover(); v != nil {
			log.WithError(recovered(v)).WithField("pattern", r.pattern).Error("[Replybot] Rule evaluation panicked.")
			matched = false
		}
	}()
	matched = r.matches(content, reg.caseSensitive)
	reg.debugf("[Replybot] %s %q matched=%t", r.kind, r.pattern, matched)
	return matched
}

// dispatch submits the rule's action to the runner and schedules deletion of msg if requested.
func (reg *Registry) dispatch(ctx context.Context, r *Rule, msg Message) {
	if r.action != nil {
		c := &call{rule: r, msg: msg, rand: reg.rand, caseSensitive: reg.caseSensitive}
		action := r.action
		reg.runner(func() {
			defer func() {
				if v := recover(); v != nil {
					reg.dispatchFailed(action, r, recovered(v))
				}
			}()
			if err := action.run(ctx, c); err != nil {
				reg.dispatchFailed(action, r, err)
			}
		})
	}

	if r.hasDelete {
		reg.afterFunc(r.deleteAfter, func() {
			defer func() {
				if v := recover(); v != nil {
					reg.deletionFailed(r, recovered(v))
				}
			}()
			if err := msg.Delete(); err != nil {
				reg.deletionFailed(r, err)
			}
		})
	}
}

func (reg *Registry) dispatchFailed(a Action, r *Rule, err error) {
	log.WithError(&DispatchError{Action: a.Kind(), Pattern: r.pattern, Err: err}).
		WithFields(log.Fields{"action": a.Kind().String(), "pattern": r.pattern}).
		Warn("[Replybot] Action failed.")
}

func (reg *Registry) deletionFailed(r *Rule, err error) {
	log.WithError(&DeletionError{Pattern: r.pattern, Err: err}).
		WithField("pattern", r.pattern).
		Debug("[Replybot] Scheduled deletion failed.")
}

func (reg *Registry) debugf(format string, args ...interface{}) {
	if reg.debugging {
		log.Debugf(format, args...)
	}
}
