package replybot

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

type fakeMessage struct {
	mu       sync.Mutex
	content  string
	channel  string
	replies  []string
	deletes  int
	replyErr error
}

func newFakeMessage(content string) *fakeMessage {
	return &fakeMessage{content: content, channel: "C1"}
}

func (m *fakeMessage) Content() string   { return m.content }
func (m *fakeMessage) ChannelID() string { return m.channel }

func (m *fakeMessage) Reply(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replyErr != nil {
		return m.replyErr
	}
	m.replies = append(m.replies, text)
	return nil
}

func (m *fakeMessage) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.deletes > 1 {
		return errors.New("message already deleted")
	}
	return nil
}

func (m *fakeMessage) Replies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.replies...)
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

// fakeScheduler records delayed tasks instead of starting timers.
type fakeScheduler struct {
	tasks []scheduled
}

func (s *fakeScheduler) afterFunc(d time.Duration, f func()) {
	s.tasks = append(s.tasks, scheduled{delay: d, fn: f})
}

func (s *fakeScheduler) fire() {
	for _, t := range s.tasks {
		t.fn()
	}
}

// fixedRand returns the given values in order, then repeats the last one.
func fixedRand(values ...int) func(n int) int {
	i := 0
	return func(n int) int {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v % n
	}
}

// newTestRegistry returns a registry that runs actions inline and never starts timers.
func newTestRegistry() (*Registry, *fakeScheduler) {
	reg := NewRegistry()
	reg.SetRunner(SyncRunner)
	sched := &fakeScheduler{}
	reg.SetScheduler(sched.afterFunc)
	return reg, sched
}
