package replybot

import (
	"math/rand"
	"sync"
	"time"
)

// randSource draws integers for the chance gates and ReplyOneOf.
type randSource struct {
	mu sync.Mutex
	fn func(n int) int
}

func newRandSource(fn func(n int) int) *randSource {
	return &randSource{fn: fn}
}

func seededSource(seed int64) *randSource {
	return newRandSource(rand.New(rand.NewSource(seed)).Intn)
}

var defaultRand = seededSource(time.Now().UnixNano())

// intn returns a uniform integer in [0, n).
func (s *randSource) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn(n)
}

// roll returns a uniform integer in [1, 100].
func (s *randSource) roll() int {
	return s.intn(100) + 1
}

// passes reports whether a gate with the given percentage fires. Zero means always.
func (s *randSource) passes(percent int) bool {
	if percent <= 0 {
		return true
	}
	return s.roll() <= percent
}
