// Package httppresentation exposes the application services over HTTP.
// Handlers decode, delegate, and encode; every rule lives below them.
package httppresentation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appauth "github.com/corpz/marketplace/internal/application/auth"
	appcart "github.com/corpz/marketplace/internal/application/cart"
	appcatalog "github.com/corpz/marketplace/internal/application/catalog"
	appcheckout "github.com/corpz/marketplace/internal/application/checkout"
	apporder "github.com/corpz/marketplace/internal/application/order"
	apppayment "github.com/corpz/marketplace/internal/application/payment"
	appsocial "github.com/corpz/marketplace/internal/application/social"
	"github.com/corpz/marketplace/internal/observability"
)

const componentHTTPHandler = "http_server"

// IdempotencyGuard claims checkout idempotency keys at the HTTP boundary.
type IdempotencyGuard interface {
	Begin(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type Handler struct {
	auth     *appauth.Service
	place    *appcheckout.PlaceOrderUseCase
	cancel   *appcheckout.CancelOrderUseCase
	catalog  *appcatalog.Service
	orders   *apporder.Service
	payments *apppayment.Service
	cart     *appcart.Service
	social   *appsocial.Service

	idem IdempotencyGuard
	log  observability.Logger
	tel  observability.Observability
}

type Config struct {
	Auth     *appauth.Service
	Place    *appcheckout.PlaceOrderUseCase
	Cancel   *appcheckout.CancelOrderUseCase
	Catalog  *appcatalog.Service
	Orders   *apporder.Service
	Payments *apppayment.Service
	Cart     *appcart.Service
	Social   *appsocial.Service

	Idempotency IdempotencyGuard
	Telemetry   observability.Observability
}

func NewHandler(cfg Config) *Handler {
	tel := cfg.Telemetry
	if tel == nil {
		tel = observability.Nop()
	}
	return &Handler{
		auth:     cfg.Auth,
		place:    cfg.Place,
		cancel:   cfg.Cancel,
		catalog:  cfg.Catalog,
		orders:   cfg.Orders,
		payments: cfg.Payments,
		cart:     cfg.Cart,
		social:   cfg.Social,
		idem:     cfg.Idempotency,
		log:      tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:      tel,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(observabilityMiddleware(h.log, h.tel))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)

	r.Get("/items", h.handleListItems)
	r.Get("/items/{id}", h.handleGetItem)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(h.auth))

		r.Post("/checkout", h.handleCheckout)

		r.Get("/orders/purchases", h.handleListPurchases)
		r.Get("/orders/sales", h.handleListSales)
		r.Get("/orders/stats", h.handleSellerStats)
		r.Get("/orders/{id}", h.handleGetOrder)
		r.Post("/orders/{id}/cancel", h.handleCancelOrder)
		r.Post("/orders/{id}/status", h.handleUpdateOrderStatus)

		r.Post("/items", h.handleCreateItem)
		r.Put("/items/{id}", h.handleUpdateItem)
		r.Delete("/items/{id}", h.handleDeleteItem)

		r.Get("/cart", h.handleListCart)
		r.Post("/cart", h.handleAddToCart)
		r.Put("/cart/{itemID}", h.handleSetCartQuantity)
		r.Delete("/cart/{itemID}", h.handleRemoveFromCart)
		r.Delete("/cart", h.handleClearCart)

		r.Get("/favorites", h.handleListFavorites)
		r.Post("/favorites/{itemID}", h.handleFavorite)
		r.Delete("/favorites/{itemID}", h.handleUnfavorite)

		r.Get("/follows/following", h.handleListFollowing)
		r.Get("/follows/followers", h.handleListFollowers)
		r.Post("/follows/{userID}", h.handleFollow)
		r.Delete("/follows/{userID}", h.handleUnfollow)

		r.Get("/payments", h.handlePaymentHistory)
		r.Get("/payments/methods", h.handlePaymentMethods)
		r.Get("/orders/{id}/payment", h.handleOrderPayment)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
