package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RegisterRejectsBadSpec(t *testing.T) {
	s := NewScheduler(discardLogger(), time.Minute)

	err := s.Register("broken", "61 * * * *", func(context.Context) error { return nil })
	assert.Error(t, err)

	require.NoError(t, s.Register("daily", "0 9 * * *", func(context.Context) error { return nil }))
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_RunAppliesSoftTimeLimit(t *testing.T) {
	s := NewScheduler(discardLogger(), 20*time.Millisecond)

	var deadline time.Time
	err := s.run("slow", func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		<-ctx.Done()
		return ErrTimeLimitExceeded
	})

	assert.ErrorIs(t, err, ErrTimeLimitExceeded)
	assert.False(t, deadline.IsZero())
}

func TestScheduler_RunReturnsJobError(t *testing.T) {
	s := NewScheduler(discardLogger(), time.Minute)
	boom := errors.New("boom")

	assert.ErrorIs(t, s.run("failing", func(context.Context) error { return boom }), boom)
	assert.NoError(t, s.run("fine", func(context.Context) error { return nil }))
}

func TestScheduler_StopCancelsRunningJobs(t *testing.T) {
	s := NewScheduler(discardLogger(), time.Hour)

	done := make(chan error, 1)
	started := make(chan struct{})
	go func() {
		done <- s.run("long", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started

	s.Start()
	<-s.Stop().Done()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("job was not cancelled")
	}
}
