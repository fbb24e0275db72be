// Package paysim is a stand-in payment gateway. It approves or declines
// charges by per-method rates and mints references shaped like the real
// acquirer's, so everything downstream of the Gateway port behaves as it
// would in production.
package paysim

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	dompayment "github.com/corpz/marketplace/internal/domain/payment"
)

var defaultRates = map[dompayment.Method]float64{
	dompayment.MethodGCash:        0.90,
	dompayment.MethodPayMaya:      0.95,
	dompayment.MethodCard:         0.92,
	dompayment.MethodBankTransfer: 1.00,
}

// Gateway simulates an external acquirer. Safe for concurrent use.
type Gateway struct {
	mu    sync.Mutex
	rng   *rand.Rand
	rates map[dompayment.Method]float64
}

type Option func(*Gateway)

// WithRand fixes the random source. Tests use this for deterministic runs.
func WithRand(rng *rand.Rand) Option {
	return func(g *Gateway) { g.rng = rng }
}

// WithSuccessRate overrides the approval rate for every method.
func WithSuccessRate(rate float64) Option {
	return func(g *Gateway) {
		for m := range g.rates {
			g.rates[m] = rate
		}
	}
}

func New(opts ...Option) *Gateway {
	g := &Gateway{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		rates: make(map[dompayment.Method]float64, len(defaultRates)),
	}
	for m, r := range defaultRates {
		g.rates[m] = r
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Charge attempts to capture the amount. It is called at most once per
// checkout attempt; a decline is final for that attempt.
func (g *Gateway) Charge(ctx context.Context, req dompayment.ChargeRequest) (*dompayment.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, dompayment.ErrInvalidAmount
	}
	if !req.Method.Valid() {
		return nil, dompayment.ErrUnsupportedMethod
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	suffix := g.rng.Intn(1_000_000)
	g.mu.Unlock()

	if roll >= g.rates[req.Method] {
		return nil, &dompayment.DeclinedError{
			Method: req.Method,
			Reason: "issuer declined the charge",
		}
	}

	ref := fmt.Sprintf("%s_%d_%06d",
		strings.ToUpper(string(req.Method)), time.Now().UnixMilli(), suffix)
	return &dompayment.ChargeResult{TransactionID: ref}, nil
}
