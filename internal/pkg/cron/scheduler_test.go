package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	started := make(chan struct{}, 1)
	s.AddJob("counter", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	s.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_ParentCancelStopsJobs(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	s.AddJob("noop", 10*time.Millisecond, func(ctx context.Context) error { return nil })
	s.Start(ctx)
	cancel()
	s.Stop()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	NewScheduler().Stop()
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()

	var order []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		order = append(order, "second")
		return assert.AnError
	})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"first", "second"}, order)
}
