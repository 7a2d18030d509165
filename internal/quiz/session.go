package quiz

import (
	"errors"
	"math"
)

// ErrIllegalTransition is returned when a session operation is not allowed in its current state.
var ErrIllegalTransition = errors.New("illegal quiz transition")

// Phase is the coarse session state.
type Phase string

const (
	PhasePresenting Phase = "presenting"
	PhaseFinished   Phase = "finished"
)

// State is a snapshot of a session.
type State struct {
	Phase    Phase `json:"phase"`
	Index    int   `json:"index"`
	Total    int   `json:"total"`
	Revealed bool  `json:"revealed"`
	Score    int   `json:"score"`
}

// Result is the outcome of a finished session.
type Result struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Percent is the rounded share of correct answers; an empty quiz counts as 100.
func (r Result) Percent() int {
	if r.Total == 0 {
		return 100
	}
	return int(math.Round(float64(r.Score) / float64(r.Total) * 100))
}

// Option configures a Session.
type Option func(*Session)

// WithShuffler replaces the permutation used on start and restart.
func WithShuffler(shuffle func([]Item) []Item) Option {
	return func(s *Session) { s.shuffle = shuffle }
}

// WithoutShuffle keeps items in compile order.
func WithoutShuffle() Option {
	return WithShuffler(func(items []Item) []Item {
		out := make([]Item, len(items))
		copy(out, items)
		return out
	})
}

// Session walks a shuffled item sequence: reveal the answer, grade it, move on.
// It is not safe for concurrent use.
type Session struct {
	items    []Item
	order    []Item
	shuffle  func([]Item) []Item
	index    int
	revealed bool
	score    int
	finished bool
}

// NewSession starts a session over items. An empty item list starts finished.
func NewSession(items []Item, opts ...Option) *Session {
	s := &Session{
		items:   append([]Item(nil), items...),
		shuffle: Shuffle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.order = s.shuffle(s.items)
	s.index = 0
	s.revealed = false
	s.score = 0
	s.finished = len(s.order) == 0
}

// Current returns the item being presented.
func (s *Session) Current() (Item, bool) {
	if s.finished {
		return Item{}, false
	}
	return s.order[s.index], true
}

// Items returns the items in presentation order.
func (s *Session) Items() []Item {
	return append([]Item(nil), s.order...)
}

// Reveal shows the answer of the current item.
func (s *Session) Reveal() error {
	if s.finished || s.revealed {
		return ErrIllegalTransition
	}
	s.revealed = true
	return nil
}

// Grade records the self-assessment of a revealed item and advances.
func (s *Session) Grade(correct bool) error {
	if s.finished || !s.revealed {
		return ErrIllegalTransition
	}
	if correct {
		s.score++
	}
	s.revealed = false
	if s.index+1 < len(s.order) {
		s.index++
		return nil
	}
	s.finished = true
	return nil
}

// Restart reshuffles the same items and starts over.
func (s *Session) Restart() error {
	if !s.finished {
		return ErrIllegalTransition
	}
	s.reset()
	return nil
}

// Finished reports whether every item has been graded.
func (s *Session) Finished() bool { return s.finished }

// State returns a snapshot of the session.
func (s *Session) State() State {
	if s.finished {
		return State{Phase: PhaseFinished, Index: len(s.order), Total: len(s.order), Score: s.score}
	}
	return State{Phase: PhasePresenting, Index: s.index, Total: len(s.order), Revealed: s.revealed, Score: s.score}
}

// Result returns the outcome once the session is finished.
func (s *Session) Result() (Result, bool) {
	if !s.finished {
		return Result{}, false
	}
	return Result{Score: s.score, Total: len(s.order)}, true
}
