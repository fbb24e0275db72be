package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	domain "github.com/corpz/marketplace/internal/domain/item"
)

func seedItem(t *testing.T, r *ItemRepository, stock int) *domain.Item {
	t.Helper()
	item, err := domain.New("item-1", "seller-1", "Mechanical keyboard", "Cherry MX switches, barely used", 250_00, stock, "Electronics")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Create(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	return item
}

func TestDecrementStockConditional(t *testing.T) {
	r := NewItemRepository()
	seedItem(t, r, 3)
	ctx := context.Background()

	ok, err := r.DecrementStock(ctx, "item-1", 2)
	if err != nil || !ok {
		t.Fatalf("decrement 2 of 3: ok=%v err=%v", ok, err)
	}
	ok, err = r.DecrementStock(ctx, "item-1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("decrement 2 of 1 must not commit")
	}

	item, err := r.Get(ctx, "item-1")
	if err != nil {
		t.Fatal(err)
	}
	if item.Stock != 1 {
		t.Errorf("stock = %d, want 1", item.Stock)
	}
}

func TestDecrementStockErrors(t *testing.T) {
	r := NewItemRepository()
	seedItem(t, r, 3)
	ctx := context.Background()

	if _, err := r.DecrementStock(ctx, "missing", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing item: got %v, want ErrNotFound", err)
	}
	if _, err := r.DecrementStock(ctx, "item-1", 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("quantity 0: got %v, want ErrInvalidQuantity", err)
	}
}

func TestDecrementStockConcurrentNeverNegative(t *testing.T) {
	r := NewItemRepository()
	const initial = 10
	seedItem(t, r, initial)
	ctx := context.Background()

	var wg sync.WaitGroup
	var committed atomic.Int64
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := r.DecrementStock(ctx, "item-1", 1)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				committed.Add(1)
			}
		}()
	}
	wg.Wait()

	item, err := r.Get(ctx, "item-1")
	if err != nil {
		t.Fatal(err)
	}
	if item.Stock < 0 {
		t.Fatalf("stock went negative: %d", item.Stock)
	}
	if committed.Load() != initial {
		t.Errorf("committed = %d, want %d", committed.Load(), initial)
	}
	if item.Stock != 0 {
		t.Errorf("stock = %d, want 0", item.Stock)
	}
}

func TestIncrementStockRestores(t *testing.T) {
	r := NewItemRepository()
	seedItem(t, r, 5)
	ctx := context.Background()

	if ok, _ := r.DecrementStock(ctx, "item-1", 2); !ok {
		t.Fatal("decrement must commit")
	}
	if err := r.IncrementStock(ctx, "item-1", 2); err != nil {
		t.Fatal(err)
	}

	item, _ := r.Get(ctx, "item-1")
	if item.Stock != 5 {
		t.Errorf("stock = %d, want 5", item.Stock)
	}
}
