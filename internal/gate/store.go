package gate

import (
	"time"

	"cryptoVolumeAlert/internal/domain"
)

// alertKey identifies one independent cooldown lane.
type alertKey struct {
	Symbol    string
	Interval  string
	Direction domain.Direction
}

// keyStore tracks last-alert timestamps per key and the per-day emission
// counters. Callers synchronize access; the store itself is not safe for
// concurrent use. State lives in memory only and resets on restart.
type keyStore struct {
	lastAlert map[alertKey]time.Time
	dayCounts map[alertKey]int
	day       string // calendar date the counters belong to
}

func newKeyStore() *keyStore {
	return &keyStore{
		lastAlert: make(map[alertKey]time.Time),
		dayCounts: make(map[alertKey]int),
	}
}

// inCooldown reports whether an alert for the key fired within the window
// ending at now.
func (s *keyStore) inCooldown(key alertKey, now time.Time, window time.Duration) bool {
	last, ok := s.lastAlert[key]
	if !ok {
		return false
	}
	return now.Sub(last) < window
}

// recordAlert starts the key's cooldown and returns its alert ordinal for
// the current calendar day. Counters reset lazily when the date advances.
func (s *keyStore) recordAlert(key alertKey, now time.Time) int {
	day := now.Format("2006-01-02")
	if day != s.day {
		s.dayCounts = make(map[alertKey]int)
		s.day = day
	}

	s.lastAlert[key] = now
	s.dayCounts[key]++
	return s.dayCounts[key]
}
