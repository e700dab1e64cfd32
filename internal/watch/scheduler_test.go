package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
)

func TestScheduler_RunsPeriodically(t *testing.T) {
	defer goleak.VerifyNone(t)
	runner := &fakeRunner{}
	s, err := NewScheduler(runner, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	id, err := s.SchedulePeriodicRun(ctx, 30*time.Millisecond)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	s.Start()
	require.Eventually(t, func() bool {
		runs, _, _ := runner.snapshot()
		return len(runs) >= 2
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())

	runs, _, _ := runner.snapshot()
	for _, trig := range runs {
		assert.Equal(t, pipeline.TriggerSchedule, trig)
	}
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	defer goleak.VerifyNone(t)
	s, err := NewScheduler(&fakeRunner{}, nil)
	require.NoError(t, err)
	_, err = s.SchedulePeriodicRun(context.Background(), 0)
	require.Error(t, err)
	require.NoError(t, s.Stop())
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	s, err := NewScheduler(&fakeRunner{}, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
