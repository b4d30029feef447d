// Package worker consumes the work queue and processes job videos.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"plumberf/internal/app/queue"
)

// Pool runs a fixed number of queue consumers.
type Pool struct {
	size    int
	queue   queue.Queue
	handler queue.Handler
	logger  *zap.Logger

	wg      sync.WaitGroup
	running atomic.Int32
	busy    atomic.Int32
}

// NewPool creates a pool of size consumers passing messages to handler.
func NewPool(size int, q queue.Queue, handler queue.Handler, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{size: size, queue: q, handler: handler, logger: logger}
}

// Run starts the consumers and blocks until ctx is done and every in-flight
// message has been handled.
func (p *Pool) Run(ctx context.Context) {
	p.logger.Info("worker pool starting", zap.Int("workers", p.size))
	for i := 1; i <= p.size; i++ {
		p.wg.Add(1)
		go p.consume(ctx, i)
	}
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *Pool) consume(ctx context.Context, id int) {
	defer p.wg.Done()
	p.running.Add(1)
	defer p.running.Add(-1)

	log := p.logger.With(zap.Int("worker", id))
	log.Debug("worker started")

	err := p.queue.Consume(ctx, func(ctx context.Context, msg queue.Message) error {
		p.busy.Add(1)
		defer p.busy.Add(-1)
		log.Debug("message received", zap.Int64("job_video_id", msg.JobVideoID), zap.String("reason", msg.Reason))
		return p.handler(ctx, msg)
	})
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, queue.ErrClosed):
		log.Debug("worker stopping")
	default:
		log.Error("worker stopped", zap.Error(err))
	}
}

// Running is the number of live consumers.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// Busy is the number of consumers handling a message.
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

// Size is the configured number of consumers.
func (p *Pool) Size() int {
	return p.size
}
