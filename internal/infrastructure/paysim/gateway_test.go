package paysim

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	dompayment "github.com/corpz/marketplace/internal/domain/payment"
)

func TestChargeValidation(t *testing.T) {
	g := New(WithSuccessRate(1.0))
	ctx := context.Background()

	if _, err := g.Charge(ctx, dompayment.ChargeRequest{PayerID: "u1", Amount: 0, Method: dompayment.MethodGCash}); !errors.Is(err, dompayment.ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := g.Charge(ctx, dompayment.ChargeRequest{PayerID: "u1", Amount: 100, Method: "cheque"}); !errors.Is(err, dompayment.ErrUnsupportedMethod) {
		t.Errorf("bad method: got %v, want ErrUnsupportedMethod", err)
	}
}

func TestChargeReferenceShape(t *testing.T) {
	g := New(WithSuccessRate(1.0))
	result, err := g.Charge(context.Background(), dompayment.ChargeRequest{PayerID: "u1", Amount: 100, Method: dompayment.MethodGCash})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.TransactionID, "GCASH_") {
		t.Errorf("transaction id %q, want GCASH_ prefix", result.TransactionID)
	}
	if parts := strings.Split(result.TransactionID, "_"); len(parts) != 3 {
		t.Errorf("transaction id %q, want three underscore-separated parts", result.TransactionID)
	}
}

func TestChargeAlwaysDeclinesAtRateZero(t *testing.T) {
	g := New(WithSuccessRate(0))
	for i := 0; i < 10; i++ {
		_, err := g.Charge(context.Background(), dompayment.ChargeRequest{PayerID: "u1", Amount: 100, Method: dompayment.MethodCard})
		var declined *dompayment.DeclinedError
		if !errors.As(err, &declined) {
			t.Fatalf("got %v, want DeclinedError", err)
		}
		if declined.Method != dompayment.MethodCard {
			t.Errorf("declined method = %s, want card", declined.Method)
		}
	}
}

func TestChargeBankTransferNeverDeclines(t *testing.T) {
	g := New(WithRand(rand.New(rand.NewSource(7))))
	for i := 0; i < 50; i++ {
		if _, err := g.Charge(context.Background(), dompayment.ChargeRequest{PayerID: "u1", Amount: 100, Method: dompayment.MethodBankTransfer}); err != nil {
			t.Fatalf("bank_transfer declined on attempt %d: %v", i, err)
		}
	}
}

func TestChargeDeterministicWithSeed(t *testing.T) {
	outcomes := func(seed int64) []bool {
		g := New(WithRand(rand.New(rand.NewSource(seed))))
		out := make([]bool, 0, 20)
		for i := 0; i < 20; i++ {
			_, err := g.Charge(context.Background(), dompayment.ChargeRequest{PayerID: "u1", Amount: 100, Method: dompayment.MethodGCash})
			out = append(out, err == nil)
		}
		return out
	}

	a, b := outcomes(42), outcomes(42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at attempt %d", i)
		}
	}
}

func TestChargeRespectsContext(t *testing.T) {
	g := New(WithSuccessRate(1.0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Charge(ctx, dompayment.ChargeRequest{PayerID: "u1", Amount: 100, Method: dompayment.MethodGCash}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
