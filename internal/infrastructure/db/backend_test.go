package db

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taskflow/auth-service/internal/infrastructure/config"
	"github.com/taskflow/auth-service/internal/infrastructure/db/memory"
)

func TestOpen_Memory(t *testing.T) {
	b, err := Open(context.Background(), &config.Config{StoreDriver: config.DriverMemory}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer b.Close(context.Background())

	if _, ok := b.Accounts.(*memory.AccountRepository); !ok {
		t.Fatalf("expected memory repository, got %T", b.Accounts)
	}
	if _, ok := b.Revocations.(*memory.Revocations); !ok {
		t.Fatalf("expected memory revocations, got %T", b.Revocations)
	}
	if len(b.Checks) != 0 {
		t.Fatalf("memory driver has no dependencies to check, got %v", b.Checks)
	}
}

func TestBackend_CloseRunsInReverseOrder(t *testing.T) {
	var order []int
	b := &Backend{closers: []func(context.Context) error{
		func(context.Context) error { order = append(order, 1); return nil },
		func(context.Context) error { order = append(order, 2); return errors.New("boom") },
	}}

	err := b.Close(context.Background())
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected joined close error, got %v", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("expected reverse order, got %v", order)
	}
	if err := b.Close(context.Background()); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}
