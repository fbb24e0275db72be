package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	domitem "github.com/corpz/marketplace/internal/domain/item"
	domorder "github.com/corpz/marketplace/internal/domain/order"
	domoutbox "github.com/corpz/marketplace/internal/domain/outbox"
	dompayment "github.com/corpz/marketplace/internal/domain/payment"
	"github.com/corpz/marketplace/internal/infrastructure/memory"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   int
	decline bool
	fail    error
}

func (g *fakeGateway) Charge(_ context.Context, req dompayment.ChargeRequest) (*dompayment.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.fail != nil {
		return nil, g.fail
	}
	if g.decline {
		return nil, &dompayment.DeclinedError{Method: req.Method, Reason: "insufficient funds"}
	}
	return &dompayment.ChargeResult{TransactionID: fmt.Sprintf("TX_%d", g.calls)}, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type recordingBus struct {
	mu     sync.Mutex
	events []domoutbox.Event
}

func (b *recordingBus) Publish(_ context.Context, e domoutbox.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) countOf(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.EventName() == name {
			n++
		}
	}
	return n
}

type seqIDGen struct{ n atomic.Int64 }

func (g *seqIDGen) NewID() string {
	return fmt.Sprintf("id-%d", g.n.Add(1))
}

// raceLosingItems makes the conditional decrement fail even though the
// upfront stock read succeeded, reproducing a lost race deterministically.
type raceLosingItems struct {
	*memory.ItemRepository
}

func (r raceLosingItems) DecrementStock(_ context.Context, _ string, _ int) (bool, error) {
	return false, nil
}

// stallingOrders releases Get only after every expected reader holds its
// clone, so concurrent callers validate against the same stale snapshot.
type stallingOrders struct {
	*memory.OrderRepository
	gate *sync.WaitGroup
}

func (s stallingOrders) Get(ctx context.Context, id string) (*domorder.Order, error) {
	o, err := s.OrderRepository.Get(ctx, id)
	s.gate.Done()
	s.gate.Wait()
	return o, err
}

type harness struct {
	items    *memory.ItemRepository
	orders   *memory.OrderRepository
	payments *memory.PaymentRepository
	gateway  *fakeGateway
	bus      *recordingBus
	place    *PlaceOrderUseCase
	cancel   *CancelOrderUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		items:    memory.NewItemRepository(),
		orders:   memory.NewOrderRepository(),
		payments: memory.NewPaymentRepository(),
		gateway:  &fakeGateway{},
		bus:      &recordingBus{},
	}
	idGen := &seqIDGen{}
	h.place = NewPlaceOrderUseCase(h.items, h.orders, h.payments, h.gateway, idGen, h.bus, nil)
	h.cancel = NewCancelOrderUseCase(h.items, h.orders, h.payments, h.bus, nil)
	return h
}

func (h *harness) seedItem(t *testing.T, stock int) *domitem.Item {
	t.Helper()
	item, err := domitem.New("item-1", "seller-1", "Mechanical keyboard", "Cherry MX switches, barely used", 250_00, stock, "Electronics")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.items.Create(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	return item
}

func (h *harness) stock(t *testing.T, itemID string) int {
	t.Helper()
	item, err := h.items.Get(context.Background(), itemID)
	if err != nil {
		t.Fatal(err)
	}
	return item.Stock
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		BuyerID:  "buyer-1",
		ItemID:   "item-1",
		Quantity: 2,
		Method:   dompayment.MethodGCash,
		Shipping: domorder.Shipping{FullName: "A B", Address: "1 St", City: "X", PostalCode: "1000", Phone: "555"},
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)

	result, err := h.place.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Order.Status != domorder.StatusPending {
		t.Errorf("order status = %s, want pending", result.Order.Status)
	}
	if result.Order.Amount != 2*250_00 {
		t.Errorf("amount = %d, want %d", result.Order.Amount, 2*250_00)
	}
	if got := h.stock(t, "item-1"); got != 3 {
		t.Errorf("stock = %d, want 3", got)
	}
	if result.Payment == nil || result.Payment.Status != dompayment.StatusCompleted {
		t.Errorf("payment = %+v, want completed record", result.Payment)
	}
	if h.gateway.callCount() != 1 {
		t.Errorf("gateway calls = %d, want 1", h.gateway.callCount())
	}
	if h.bus.countOf("order.created") != 1 {
		t.Errorf("order.created events = %d, want 1", h.bus.countOf("order.created"))
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)

	cases := []struct {
		name   string
		mutate func(*PlaceOrderInput)
	}{
		{"missing buyer", func(in *PlaceOrderInput) { in.BuyerID = "" }},
		{"missing item", func(in *PlaceOrderInput) { in.ItemID = "" }},
		{"zero quantity", func(in *PlaceOrderInput) { in.Quantity = 0 }},
		{"negative quantity", func(in *PlaceOrderInput) { in.Quantity = -3 }},
		{"bad method", func(in *PlaceOrderInput) { in.Method = "cheque" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := validInput()
			c.mutate(&in)
			if _, err := h.place.Execute(context.Background(), in); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
	if h.gateway.callCount() != 0 {
		t.Errorf("gateway must not be called for invalid input, calls = %d", h.gateway.callCount())
	}
}

func TestPlaceOrderItemNotFound(t *testing.T) {
	h := newHarness(t)
	in := validInput()
	if _, err := h.place.Execute(context.Background(), in); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("got %v, want ErrItemNotFound", err)
	}
}

func TestPlaceOrderOwnItem(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)
	in := validInput()
	in.BuyerID = "seller-1"
	if _, err := h.place.Execute(context.Background(), in); !errors.Is(err, ErrOwnItem) {
		t.Errorf("got %v, want ErrOwnItem", err)
	}
	if h.gateway.callCount() != 0 {
		t.Error("gateway must not be called when buying your own item")
	}
}

func TestPlaceOrderOutOfStockUpfront(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 1)

	in := validInput() // quantity 2
	if _, err := h.place.Execute(context.Background(), in); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("got %v, want ErrOutOfStock", err)
	}

	if h.gateway.callCount() != 0 {
		t.Error("gateway must not be charged on an upfront stock miss")
	}
	if got := h.stock(t, "item-1"); got != 1 {
		t.Errorf("stock = %d, want 1 (untouched)", got)
	}
	if orders, _ := h.orders.ListByBuyer(context.Background(), "buyer-1"); len(orders) != 0 {
		t.Errorf("orders created = %d, want 0", len(orders))
	}
}

func TestPlaceOrderDeclinedLeavesNoState(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)
	h.gateway.decline = true

	_, err := h.place.Execute(context.Background(), validInput())
	if !errors.Is(err, ErrPaymentDeclined) {
		t.Fatalf("got %v, want ErrPaymentDeclined", err)
	}

	if h.gateway.callCount() != 1 {
		t.Errorf("gateway calls = %d, want exactly 1", h.gateway.callCount())
	}
	if got := h.stock(t, "item-1"); got != 5 {
		t.Errorf("stock = %d, want 5 (untouched)", got)
	}
	if orders, _ := h.orders.ListByBuyer(context.Background(), "buyer-1"); len(orders) != 0 {
		t.Errorf("orders created = %d, want 0", len(orders))
	}
	if records, _ := h.payments.ListByUser(context.Background(), "buyer-1"); len(records) != 0 {
		t.Errorf("payment records = %d, want 0", len(records))
	}
}

func TestPlaceOrderRaceLost(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)
	idGen := &seqIDGen{}
	place := NewPlaceOrderUseCase(raceLosingItems{h.items}, h.orders, h.payments, h.gateway, idGen, h.bus, nil)

	_, err := place.Execute(context.Background(), validInput())
	if !errors.Is(err, ErrInventoryRaceLost) {
		t.Fatalf("got %v, want ErrInventoryRaceLost", err)
	}
	if errors.Is(err, ErrOutOfStock) {
		t.Error("race-lost must be distinct from OutOfStock")
	}

	// order was auto-cancelled, not left pending
	orders, _ := h.orders.ListByBuyer(context.Background(), "buyer-1")
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if orders[0].Status != domorder.StatusCancelled {
		t.Errorf("order status = %s, want cancelled", orders[0].Status)
	}

	// charge stays on the books as refund_required
	record, err := h.payments.GetByOrder(context.Background(), orders[0].ID)
	if err != nil {
		t.Fatalf("GetByOrder: %v", err)
	}
	if record.Status != dompayment.StatusRefundRequired {
		t.Errorf("payment status = %s, want refund_required", record.Status)
	}

	if h.bus.countOf("order.refund_required") != 1 {
		t.Errorf("refund events = %d, want 1", h.bus.countOf("order.refund_required"))
	}
	if h.bus.countOf("order.cancelled") != 1 {
		t.Errorf("cancel events = %d, want 1", h.bus.countOf("order.cancelled"))
	}
	if h.gateway.callCount() != 1 {
		t.Errorf("gateway calls = %d, want exactly 1", h.gateway.callCount())
	}
}

// ledgerFailingPayments rejects completed-record inserts, leaving a captured
// charge with no row on the books.
type ledgerFailingPayments struct {
	*memory.PaymentRepository
}

func (p ledgerFailingPayments) Insert(ctx context.Context, rec *dompayment.Record) error {
	if rec.Status == dompayment.StatusCompleted {
		return errors.New("ledger unavailable")
	}
	return p.PaymentRepository.Insert(ctx, rec)
}

func TestPlaceOrderPaymentRecordFailureReachesOperator(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)
	place := NewPlaceOrderUseCase(h.items, h.orders, ledgerFailingPayments{h.payments}, h.gateway, &seqIDGen{}, h.bus, nil)

	result, err := place.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Order.Status != domorder.StatusPending {
		t.Errorf("order status = %s, want pending", result.Order.Status)
	}
	if got := h.stock(t, "item-1"); got != 3 {
		t.Errorf("stock = %d, want 3", got)
	}
	// the charge is real and unrecorded; it must surface beyond the log line
	if h.bus.countOf("order.refund_required") != 1 {
		t.Errorf("refund events = %d, want 1 (unbooked charge must reach the operator queue)", h.bus.countOf("order.refund_required"))
	}
	if h.bus.countOf("order.created") != 1 {
		t.Errorf("order.created events = %d, want 1", h.bus.countOf("order.created"))
	}
}

func TestPlaceOrderConcurrentStockOne(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 1)

	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < 2; i++ {
		wg.Add(1)
		buyer := fmt.Sprintf("buyer-%d", i+1)
		go func() {
			defer wg.Done()
			in := validInput()
			in.BuyerID = buyer
			in.Quantity = 1
			if _, err := h.place.Execute(context.Background(), in); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("successes = %d, want exactly 1", successes.Load())
	}
	if got := h.stock(t, "item-1"); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestPlaceOrderConservation(t *testing.T) {
	h := newHarness(t)
	const initial = 5
	h.seedItem(t, initial)

	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < 12; i++ {
		wg.Add(1)
		buyer := fmt.Sprintf("buyer-%d", i)
		go func() {
			defer wg.Done()
			in := validInput()
			in.BuyerID = buyer
			in.Quantity = 1
			if _, err := h.place.Execute(context.Background(), in); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	final := h.stock(t, "item-1")
	if int(successes.Load())+final != initial {
		t.Errorf("conservation violated: successes %d + stock %d != %d", successes.Load(), final, initial)
	}
	if final < 0 {
		t.Errorf("stock went negative: %d", final)
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)

	result, err := h.place.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatal(err)
	}
	if got := h.stock(t, "item-1"); got != 3 {
		t.Fatalf("stock after checkout = %d, want 3", got)
	}

	cancelled, err := h.cancel.Execute(context.Background(), CancelOrderInput{OrderID: result.Order.ID, BuyerID: "buyer-1"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domorder.StatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if got := h.stock(t, "item-1"); got != 5 {
		t.Errorf("stock after cancel = %d, want 5", got)
	}
	// paid pending order: cancellation must raise the refund flag
	if h.bus.countOf("order.refund_required") != 1 {
		t.Errorf("refund events = %d, want 1", h.bus.countOf("order.refund_required"))
	}
}

func TestCancelOrderConcurrentRestoresOnce(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)
	result, err := h.place.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatal(err)
	}

	var gate sync.WaitGroup
	gate.Add(2)
	cancel := NewCancelOrderUseCase(h.items, stallingOrders{h.orders, &gate}, h.payments, h.bus, nil)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := cancel.Execute(context.Background(), CancelOrderInput{OrderID: result.Order.ID, BuyerID: "buyer-1"})
			errs <- err
		}()
	}

	var wins, losses int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			wins++
		case errors.Is(err, domorder.ErrInvalidTransition):
			losses++
		default:
			t.Fatalf("unexpected cancel error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("outcomes = %d wins, %d losses, want exactly one of each", wins, losses)
	}
	if got := h.stock(t, "item-1"); got != 5 {
		t.Errorf("stock = %d, want 5 (restored exactly once)", got)
	}
	if h.bus.countOf("order.cancelled") != 1 {
		t.Errorf("cancel events = %d, want 1", h.bus.countOf("order.cancelled"))
	}
	if h.bus.countOf("order.refund_required") != 1 {
		t.Errorf("refund events = %d, want 1", h.bus.countOf("order.refund_required"))
	}
}

func TestCancelOrderOnlyBuyer(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)
	result, err := h.place.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := h.cancel.Execute(context.Background(), CancelOrderInput{OrderID: result.Order.ID, BuyerID: "seller-1"}); !errors.Is(err, ErrNotBuyer) {
		t.Errorf("got %v, want ErrNotBuyer", err)
	}
	if got := h.stock(t, "item-1"); got != 3 {
		t.Errorf("stock = %d, want 3 (unchanged)", got)
	}
}

func TestCancelOrderNonPending(t *testing.T) {
	h := newHarness(t)
	h.seedItem(t, 5)
	result, err := h.place.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatal(err)
	}

	committed, err := h.orders.UpdateStatusIf(context.Background(), result.Order.ID, domorder.StatusPending, domorder.StatusConfirmed)
	if err != nil || !committed {
		t.Fatalf("confirm order: committed=%v err=%v", committed, err)
	}

	if _, err := h.cancel.Execute(context.Background(), CancelOrderInput{OrderID: result.Order.ID, BuyerID: "buyer-1"}); !errors.Is(err, domorder.ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
	if got := h.stock(t, "item-1"); got != 3 {
		t.Errorf("stock = %d, want 3 (unchanged)", got)
	}
}

func TestCancelOrderNotFound(t *testing.T) {
	h := newHarness(t)
	if _, err := h.cancel.Execute(context.Background(), CancelOrderInput{OrderID: "missing", BuyerID: "buyer-1"}); !errors.Is(err, domorder.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
