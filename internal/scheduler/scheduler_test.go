package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cryptoVolumeAlert/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func TestNextRun(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		interval time.Duration
		offset   time.Duration
		want     time.Time
	}{
		{
			name:     "mid-interval advances to the next boundary",
			now:      time.Date(2024, 3, 1, 10, 7, 41, 0, time.UTC),
			interval: 5 * time.Minute,
			offset:   3 * time.Second,
			want:     time.Date(2024, 3, 1, 10, 10, 3, 0, time.UTC),
		},
		{
			name:     "exactly on the scheduled instant advances a full interval",
			now:      time.Date(2024, 3, 1, 10, 10, 3, 0, time.UTC),
			interval: 5 * time.Minute,
			offset:   3 * time.Second,
			want:     time.Date(2024, 3, 1, 10, 15, 3, 0, time.UTC),
		},
		{
			name:     "just past the boundary but before the offset stays in this interval",
			now:      time.Date(2024, 3, 1, 10, 10, 1, 0, time.UTC),
			interval: 5 * time.Minute,
			offset:   3 * time.Second,
			want:     time.Date(2024, 3, 1, 10, 10, 3, 0, time.UTC),
		},
		{
			name:     "hourly boundary",
			now:      time.Date(2024, 3, 1, 10, 7, 41, 0, time.UTC),
			interval: time.Hour,
			offset:   30 * time.Second,
			want:     time.Date(2024, 3, 1, 11, 0, 30, 0, time.UTC),
		},
		{
			name:     "zero offset",
			now:      time.Date(2024, 3, 1, 10, 7, 41, 0, time.UTC),
			interval: 15 * time.Minute,
			offset:   0,
			want:     time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.now, tt.interval, tt.offset)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.now))
		})
	}
}

func TestTick_SkipsOverlappingRuns(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	runs := 0

	s := New(domain.TimeframeConfig{Interval: "5m"}, func(ctx context.Context, tf domain.TimeframeConfig) {
		mu.Lock()
		runs++
		mu.Unlock()
		close(started)
		<-release
	}, nopLogger{})

	s.tick(context.Background())
	<-started

	// The first run is still blocked: further ticks are dropped.
	s.tick(context.Background())
	s.tick(context.Background())
	close(release)

	assert.Eventually(t, func() bool {
		return !s.running.Load()
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, runs)
}

func TestStop_IsIdempotent(t *testing.T) {
	s := New(domain.TimeframeConfig{Interval: "5m", ScheduleOffset: 3 * time.Second},
		func(ctx context.Context, tf domain.TimeframeConfig) {}, nopLogger{})

	s.Start(context.Background())
	s.Stop()
	s.Stop()
}
