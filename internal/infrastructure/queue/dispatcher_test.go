package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/auth-service/internal/core/domain"
)

type recordedLogin struct {
	accountID string
	at        time.Time
}

type stubRecorder struct {
	mu      sync.Mutex
	calls   []recordedLogin
	block   chan struct{}
	failFor string
}

func (r *stubRecorder) RecordLogin(_ context.Context, account *domain.Account, at time.Time) error {
	if r.block != nil {
		<-r.block
	}
	if account.ID == r.failFor {
		return errors.New("store down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedLogin{accountID: account.ID, at: at})
	return nil
}

func TestDispatcher_WritesAllEventsBeforeClose(t *testing.T) {
	rec := &stubRecorder{}
	d := NewDispatcher(3, rec, zerolog.Nop())
	d.Start(context.Background())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		account := &domain.Account{ID: "acc-" + strconv.Itoa(i%5)}
		if err := d.RecordLogin(context.Background(), account, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("RecordLogin returned error: %v", err)
		}
		if account.LastLogin == nil {
			t.Fatal("expected last login to be stamped on the caller's account")
		}
	}
	d.Close()

	if len(rec.calls) != 50 {
		t.Fatalf("expected 50 writes, got %d", len(rec.calls))
	}

	last := map[string]time.Time{}
	for _, c := range rec.calls {
		if prev, ok := last[c.accountID]; ok && c.at.Before(prev) {
			t.Fatalf("writes for %s out of order: %s after %s", c.accountID, c.at, prev)
		}
		last[c.accountID] = c.at
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &stubRecorder{}, zerolog.Nop())
	for _, id := range []string{"a", "acc-1", "0f6c1a52-7d1e-4c3b-9d55-2e8f7f0b6a11"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("shard %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard for %q changed", id)
		}
	}
}

func TestDispatcher_FullQueue(t *testing.T) {
	rec := &stubRecorder{block: make(chan struct{})}
	d := NewDispatcher(1, rec, zerolog.Nop())
	d.Start(context.Background())

	account := &domain.Account{ID: "acc-1"}
	var err error
	// One event is held by the blocked worker, the rest fill the buffer.
	for i := 0; i < channelBuffer+2; i++ {
		if err = d.RecordLogin(context.Background(), account, time.Now()); err != nil {
			break
		}
	}
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	close(rec.block)
	d.Close()
}

func TestDispatcher_FailedWriteDoesNotStopWorker(t *testing.T) {
	rec := &stubRecorder{failFor: "bad"}
	d := NewDispatcher(1, rec, zerolog.Nop())
	d.Start(context.Background())

	_ = d.RecordLogin(context.Background(), &domain.Account{ID: "bad"}, time.Now())
	_ = d.RecordLogin(context.Background(), &domain.Account{ID: "good"}, time.Now())
	d.Close()

	if len(rec.calls) != 1 || rec.calls[0].accountID != "good" {
		t.Fatalf("expected only the good write, got %+v", rec.calls)
	}
}

func TestDispatcher_RejectsAfterClose(t *testing.T) {
	d := NewDispatcher(1, &stubRecorder{}, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	if err := d.RecordLogin(context.Background(), &domain.Account{ID: "acc-1"}, time.Now()); err == nil {
		t.Fatal("expected error after Close")
	}
}
