package widget

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"librahub/internal/domain"
)

// PublishFunc receives the outcome of every publish cycle.
type PublishFunc func(at time.Time, snapshot domain.WidgetSnapshot, err error)

// Publisher runs Aggregator.Publish once on start and then on every interval.
type Publisher struct {
	mu sync.Mutex

	aggregator *Aggregator
	interval   time.Duration
	logger     *zap.Logger
	onPublish  PublishFunc

	ticker *time.Ticker
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPublisher(aggregator *Aggregator, interval time.Duration, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = domain.DefaultWidgetInterval
	}
	return &Publisher{
		aggregator: aggregator,
		interval:   interval,
		logger:     logger.Named("widget-publisher"),
	}
}

// OnPublish registers a callback invoked after each cycle.
func (p *Publisher) OnPublish(fn PublishFunc) {
	p.mu.Lock()
	p.onPublish = fn
	p.mu.Unlock()
}

func (p *Publisher) Interval() time.Duration {
	return p.interval
}

// Start begins the publish loop. Cancelling ctx stops it as Stop would.
func (p *Publisher) Start(ctx context.Context) {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	ticker := time.NewTicker(p.interval)
	done := make(chan struct{})
	p.ticker = ticker
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	p.logger.Info("widget publisher started", zap.Duration("interval", p.interval))
	go p.run(loopCtx, ticker, done)
}

// Running reports whether the loop is active.
func (p *Publisher) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticker != nil
}

func (p *Publisher) run(ctx context.Context, ticker *time.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	defer p.release(done)

	p.publishOnce(ctx)
	for {
		select {
		case <-ticker.C:
			p.publishOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// release clears the loop state when the loop ends through its context.
func (p *Publisher) release(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != done {
		return
	}
	p.cancel()
	p.ticker = nil
	p.cancel = nil
	p.done = nil
}

func (p *Publisher) publishOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	snapshot, err := p.aggregator.Publish(ctx)
	if err != nil && ctx.Err() == nil {
		p.logger.Warn("widget publish failed", zap.Error(err))
	}

	p.mu.Lock()
	fn := p.onPublish
	p.mu.Unlock()
	if fn != nil {
		fn(time.Now(), snapshot, err)
	}
}

// Stop halts the loop and waits for the in-flight cycle to finish.
func (p *Publisher) Stop() {
	done := p.detach()
	if done != nil {
		<-done
	}
}

// StopWithTimeout is Stop bounded by timeout.
func (p *Publisher) StopWithTimeout(timeout time.Duration) error {
	done := p.detach()
	if done == nil {
		return nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
		return context.DeadlineExceeded
	}
}

func (p *Publisher) detach() chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker == nil {
		return nil
	}
	cancel := p.cancel
	done := p.done
	p.ticker = nil
	p.cancel = nil
	p.done = nil
	cancel()
	return done
}
