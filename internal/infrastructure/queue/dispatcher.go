package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/auth-service/internal/core/domain"
	"github.com/taskflow/auth-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// ErrQueueFull is returned when the owning worker's buffer is full. The login
// itself already succeeded; only the bookkeeping write is dropped.
var ErrQueueFull = errors.New("login queue full")

var errClosed = errors.New("login queue closed")

type loginEvent struct {
	account domain.Account
	at      time.Time
}

// Dispatcher moves last-login writes off the request path. Events are routed
// by account id so writes for one account are applied in order.
type Dispatcher struct {
	workers []chan loginEvent
	target  ports.LoginRecorder
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers writing
// to target. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, target ports.LoginRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan loginEvent, numWorkers),
		target:  target,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan loginEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. ctx bounds the store writes, not the worker
// lifetime; call Close to drain and stop.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// RecordLogin stamps account locally and queues the persistent write.
func (d *Dispatcher) RecordLogin(_ context.Context, account *domain.Account, at time.Time) error {
	at = at.UTC().Truncate(time.Millisecond)
	account.LastLogin = &at

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return errClosed
	}

	select {
	case d.workers[d.shardIndex(account.ID)] <- loginEvent{account: *account, at: at}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps an account id deterministically to a worker index.
func (d *Dispatcher) shardIndex(accountID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan loginEvent) {
	defer d.wg.Done()
	for event := range ch {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := d.target.RecordLogin(writeCtx, &event.account, event.at)
		cancel()
		if err != nil {
			d.log.Error().Err(err).
				Str("account_id", event.account.ID).
				Int("worker_id", id).
				Msg("last login write failed")
		}
	}
}
