package widget

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librahub/internal/domain"
)

type countingSink struct {
	calls atomic.Int32
}

func (c *countingSink) UpdateWidgets(context.Context, []byte) error {
	c.calls.Add(1)
	return nil
}

func TestPublisherRunsImmediately(t *testing.T) {
	sink := &countingSink{}
	agg := NewAggregator(mapReader{}, nil, Options{Sink: sink})
	pub := NewPublisher(agg, time.Hour, zap.NewNop())

	pub.Start(context.Background())
	require.Eventually(t, func() bool { return sink.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, pub.StopWithTimeout(time.Second))
	assert.False(t, pub.Running())
}

func TestPublisherTicks(t *testing.T) {
	sink := &countingSink{}
	agg := NewAggregator(mapReader{}, nil, Options{Sink: sink})
	pub := NewPublisher(agg, 10*time.Millisecond, zap.NewNop())

	published := make(chan struct{}, 16)
	pub.OnPublish(func(time.Time, domain.WidgetSnapshot, error) {
		select {
		case published <- struct{}{}:
		default:
		}
	})

	pub.Start(context.Background())
	for i := 0; i < 3; i++ {
		select {
		case <-published:
		case <-time.After(time.Second):
			t.Fatal("publisher did not tick")
		}
	}
	pub.Stop()

	calls := sink.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, sink.calls.Load())
}

func TestPublisherStopsOnContextCancel(t *testing.T) {
	agg := NewAggregator(mapReader{}, nil, Options{})
	pub := NewPublisher(agg, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	pub.Start(ctx)
	cancel()

	require.Eventually(t, func() bool { return !pub.Running() }, time.Second, 5*time.Millisecond)
	require.NoError(t, pub.StopWithTimeout(10*time.Millisecond))

	pub.Start(context.Background())
	assert.True(t, pub.Running())
	pub.Stop()
}

func TestPublisherStopWithTimeoutNotStarted(t *testing.T) {
	pub := NewPublisher(NewAggregator(mapReader{}, nil, Options{}), 0, nil)

	require.NoError(t, pub.StopWithTimeout(10*time.Millisecond))
	assert.Equal(t, domain.DefaultWidgetInterval, pub.Interval())
}

func TestPublisherStopWithTimeoutExpires(t *testing.T) {
	pub := NewPublisher(NewAggregator(mapReader{}, nil, Options{}), time.Hour, nil)
	done := make(chan struct{})
	pub.mu.Lock()
	pub.ticker = time.NewTicker(time.Hour)
	pub.cancel = func() {}
	pub.done = done
	pub.mu.Unlock()

	err := pub.StopWithTimeout(10 * time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	close(done)
}
