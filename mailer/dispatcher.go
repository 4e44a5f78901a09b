package mailer

import (
	"context"
	"sync"
	"sync/atomic"
)

// DispatcherConfig tunes the async delivery worker.
type DispatcherConfig struct {
	BufferSize int
	// DropIfFull drops messages instead of blocking the caller when the
	// buffer is saturated. This is the only mode the login engine uses.
	DropIfFull bool
}

// Dispatcher decouples message producers from the (potentially slow) mail
// transport. A single worker goroutine drains the buffer; Close drains what
// remains before returning.
type Dispatcher struct {
	cfg       DispatcherConfig
	mailer    Mailer
	ch        chan Message
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewDispatcher starts the worker. A nil mailer falls back to [NoOp], so a
// Dispatcher is always safe to send through.
func NewDispatcher(cfg DispatcherConfig, m Mailer) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if m == nil {
		m = NoOp{}
	}

	d := &Dispatcher{
		cfg:    cfg,
		mailer: m,
		ch:     make(chan Message, cfg.BufferSize),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case msg := <-d.ch:
			_ = d.mailer.Send(context.Background(), msg)
		case <-d.done:
			for {
				select {
				case msg := <-d.ch:
					_ = d.mailer.Send(context.Background(), msg)
				default:
					return
				}
			}
		}
	}
}

// Enqueue hands a message to the worker without waiting for delivery.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- msg:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- msg:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close stops the worker after draining buffered messages.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped reports how many messages were discarded because the buffer was
// full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
