// Package mood keeps the history of detected emotions and derives the
// dashboard statistics from it.
package mood

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hearmony/backend/internal/model/emotion"
)

var (
	ErrEmotionRequired = errors.New("emotion is required")
	ErrEntryNotFound   = errors.New("entry not found")
)

// Service encapsulates the in-memory mood log.
type Service struct {
	mu      sync.RWMutex
	entries []emotion.Entry
	limit   int
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a mood log bounded to limit entries.
func NewService(limit int, opts ...Option) *Service {
	if limit < 1 {
		limit = 1
	}
	s := &Service{
		entries: make([]emotion.Entry, 0, 64),
		limit:   limit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends an entry, dropping the oldest when the log is full.
func (s *Service) Record(_ context.Context, entry emotion.Entry) (emotion.Entry, error) {
	entry.Emotion = emotion.Label(strings.TrimSpace(string(entry.Emotion)))
	if entry.Emotion == "" {
		return emotion.Entry{}, ErrEmotionRequired
	}

	entry.ID = uuid.NewString()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if overflow := len(s.entries) - s.limit; overflow > 0 {
		s.entries = append(s.entries[:0:0], s.entries[overflow:]...)
	}
	return entry, nil
}

// Get retrieves an entry by identifier.
func (s *Service) Get(_ context.Context, id string) (emotion.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return emotion.Entry{}, ErrEntryNotFound
}

// List returns entries from the last days days, oldest first.
// days <= 0 returns the whole log.
func (s *Service) List(_ context.Context, days int) []emotion.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if days <= 0 {
		out := make([]emotion.Entry, len(s.entries))
		copy(out, s.entries)
		sortByTime(out)
		return out
	}

	since := startOfDay(s.now().UTC()).AddDate(0, 0, -days)
	out := make([]emotion.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	sortByTime(out)
	return out
}

// Summary computes totals, distribution and streaks over the whole log.
func (s *Service) Summary(ctx context.Context) emotion.Summary {
	entries := s.List(ctx, 0)

	summary := emotion.Summary{
		TotalEntries: len(entries),
		Distribution: make(map[emotion.Label]int),
	}
	for _, e := range entries {
		summary.Distribution[e.Emotion]++
	}
	summary.MostCommon = mostCommon(summary.Distribution)
	summary.LongestStreak, summary.CurrentStreak = streaks(entries, s.now().UTC())
	return summary
}

func mostCommon(dist map[emotion.Label]int) emotion.Label {
	var (
		best  emotion.Label
		count int
	)
	for label, n := range dist {
		if n > count || (n == count && label < best) {
			best, count = label, n
		}
	}
	return best
}

// streaks counts consecutive calendar days (UTC) with at least one entry.
// The current streak is zero unless the latest entry is from today.
func streaks(entries []emotion.Entry, now time.Time) (longest, current int) {
	if len(entries) == 0 {
		return 0, 0
	}

	days := make([]time.Time, 0, len(entries))
	seen := make(map[time.Time]struct{}, len(entries))
	for _, e := range entries {
		d := startOfDay(e.CreatedAt.UTC())
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if consecutive(days[i-1], days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := days[len(days)-1]
	if !last.Equal(startOfDay(now)) {
		return longest, 0
	}
	current = 1
	for i := len(days) - 1; i > 0; i-- {
		if !consecutive(days[i-1], days[i]) {
			break
		}
		current++
	}
	return longest, current
}

func consecutive(a, b time.Time) bool {
	return a.AddDate(0, 0, 1).Equal(b)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sortByTime(entries []emotion.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}
