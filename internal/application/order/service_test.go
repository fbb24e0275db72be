package order

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domorder "github.com/corpz/marketplace/internal/domain/order"
	"github.com/corpz/marketplace/internal/infrastructure/memory"
)

func seedOrder(t *testing.T, repo *memory.OrderRepository, id string, status domorder.Status, amount int64) *domorder.Order {
	t.Helper()
	o, err := domorder.New(id, "item-1", "buyer", "seller", 1, amount, domorder.Shipping{})
	if err != nil {
		t.Fatal(err)
	}
	for o.Status != status {
		var next domorder.Status
		switch o.Status {
		case domorder.StatusPending:
			if status == domorder.StatusCancelled {
				next = domorder.StatusCancelled
			} else {
				next = domorder.StatusConfirmed
			}
		case domorder.StatusConfirmed:
			next = domorder.StatusShipped
		case domorder.StatusShipped:
			next = domorder.StatusDelivered
		default:
			t.Fatalf("cannot reach %s from %s", status, o.Status)
		}
		if err := o.TransitionTo(next); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Insert(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestUpdateStatusPermissions(t *testing.T) {
	cases := []struct {
		name    string
		from    domorder.Status
		to      domorder.Status
		caller  string
		wantErr error
	}{
		{"seller confirms", domorder.StatusPending, domorder.StatusConfirmed, "seller", nil},
		{"seller ships", domorder.StatusConfirmed, domorder.StatusShipped, "seller", nil},
		{"buyer acknowledges delivery", domorder.StatusShipped, domorder.StatusDelivered, "buyer", nil},

		{"buyer cannot confirm", domorder.StatusPending, domorder.StatusConfirmed, "buyer", domorder.ErrNotParty},
		{"seller cannot deliver", domorder.StatusShipped, domorder.StatusDelivered, "seller", domorder.ErrNotParty},
		{"stranger rejected", domorder.StatusPending, domorder.StatusConfirmed, "stranger", domorder.ErrNotParty},
		{"cancel not reachable here", domorder.StatusPending, domorder.StatusCancelled, "buyer", domorder.ErrInvalidTransition},
		{"skipping a step", domorder.StatusPending, domorder.StatusShipped, "seller", domorder.ErrInvalidTransition},
	}

	for i, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo := memory.NewOrderRepository()
			svc := NewService(repo, nil, nil)
			id := fmt.Sprintf("o-%d", i)
			seedOrder(t, repo, id, c.from, 100)

			got, err := svc.UpdateStatus(context.Background(), c.caller, id, c.to)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("got %v, want %v", err, c.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateStatus: %v", err)
			}
			if got.Status != c.to {
				t.Errorf("status = %s, want %s", got.Status, c.to)
			}
		})
	}
}

// staleReads hands out the clone and then cancels the stored order, modelling
// a buyer cancellation landing between the read and the status write.
type staleReads struct {
	*memory.OrderRepository
}

func (r staleReads) Get(ctx context.Context, id string) (*domorder.Order, error) {
	o, err := r.OrderRepository.Get(ctx, id)
	if err == nil && o.Status == domorder.StatusPending {
		if _, casErr := r.OrderRepository.UpdateStatusIf(ctx, id, domorder.StatusPending, domorder.StatusCancelled); casErr != nil {
			return nil, casErr
		}
	}
	return o, err
}

func TestUpdateStatusLosesToConcurrentCancel(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := NewService(staleReads{repo}, nil, nil)
	seedOrder(t, repo, "o-1", domorder.StatusPending, 100)

	if _, err := svc.UpdateStatus(context.Background(), "seller", "o-1", domorder.StatusConfirmed); !errors.Is(err, domorder.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}

	stored, err := repo.Get(context.Background(), "o-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domorder.StatusCancelled {
		t.Errorf("stored status = %s, want cancelled (confirm must not overwrite)", stored.Status)
	}
}

func TestGetRequiresParty(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := NewService(repo, nil, nil)
	seedOrder(t, repo, "o-1", domorder.StatusPending, 100)

	if _, err := svc.Get(context.Background(), "buyer", "o-1"); err != nil {
		t.Errorf("buyer read: %v", err)
	}
	if _, err := svc.Get(context.Background(), "stranger", "o-1"); !errors.Is(err, domorder.ErrNotParty) {
		t.Errorf("stranger read: got %v, want ErrNotParty", err)
	}
}

func TestSellerStats(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := NewService(repo, nil, nil)

	seedOrder(t, repo, "o-1", domorder.StatusPending, 100)
	seedOrder(t, repo, "o-2", domorder.StatusDelivered, 250)
	seedOrder(t, repo, "o-3", domorder.StatusConfirmed, 400)
	seedOrder(t, repo, "o-4", domorder.StatusCancelled, 999)

	stats, err := svc.SellerStats(context.Background(), "seller")
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSales != 3 {
		t.Errorf("TotalSales = %d, want 3 (cancelled excluded)", stats.TotalSales)
	}
	if stats.TotalRevenue != 750 {
		t.Errorf("TotalRevenue = %d, want 750", stats.TotalRevenue)
	}
	if stats.PendingCount != 1 || stats.DeliveredCount != 1 {
		t.Errorf("pending/delivered = %d/%d, want 1/1", stats.PendingCount, stats.DeliveredCount)
	}
}
