package memory

import (
	"context"
	"sync"
	"testing"

	domain "github.com/corpz/marketplace/internal/domain/order"
)

func seedOrder(t *testing.T, r *OrderRepository, id string) *domain.Order {
	t.Helper()
	o, err := domain.New(id, "item-1", "buyer-1", "seller-1", 2, 500_00, domain.Shipping{})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Insert(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestUpdateStatusIfConditional(t *testing.T) {
	r := NewOrderRepository()
	seedOrder(t, r, "o-1")
	ctx := context.Background()

	ok, err := r.UpdateStatusIf(ctx, "o-1", domain.StatusPending, domain.StatusConfirmed)
	if err != nil || !ok {
		t.Fatalf("pending -> confirmed: ok=%v err=%v", ok, err)
	}

	// stale from-status must not commit
	ok, err = r.UpdateStatusIf(ctx, "o-1", domain.StatusPending, domain.StatusCancelled)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("cancel against a confirmed order must not commit")
	}

	stored, err := r.Get(ctx, "o-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domain.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", stored.Status)
	}

	ok, err = r.UpdateStatusIf(ctx, "missing", domain.StatusPending, domain.StatusCancelled)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("missing order must not commit")
	}
}

func TestUpdateStatusIfConcurrentSingleWinner(t *testing.T) {
	r := NewOrderRepository()
	seedOrder(t, r, "o-1")

	// a buyer cancellation racing a seller confirmation: exactly one wins
	targets := []domain.Status{domain.StatusCancelled, domain.StatusConfirmed}
	results := make([]bool, len(targets))

	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func(i int, to domain.Status) {
			defer wg.Done()
			ok, err := r.UpdateStatusIf(context.Background(), "o-1", domain.StatusPending, to)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = ok
		}(i, to)
	}
	wg.Wait()

	wins := 0
	for _, ok := range results {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("commits = %d, want exactly 1", wins)
	}

	stored, err := r.Get(context.Background(), "o-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status == domain.StatusPending {
		t.Error("order left pending after a committed transition")
	}
}
