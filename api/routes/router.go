package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-bff/api/controllers"
	"github.com/angelmondragon/storefront-bff/api/middleware"
	"github.com/angelmondragon/storefront-bff/internal/addresses"
	"github.com/angelmondragon/storefront-bff/internal/auth"
	"github.com/angelmondragon/storefront-bff/internal/buynow"
	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/internal/consultations"
	"github.com/angelmondragon/storefront-bff/internal/orders"
	"github.com/angelmondragon/storefront-bff/internal/products"
	"github.com/angelmondragon/storefront-bff/internal/reviews"
	"github.com/angelmondragon/storefront-bff/internal/wishlist"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront-bff/pkg/redis"
)

type tokenReader interface {
	Token(ctx context.Context, sessionID string) (string, error)
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Services bundles the domain services the HTTP surface dispatches to.
type Services struct {
	Auth          auth.Service
	Addresses     addresses.Service
	Products      products.Service
	Reviews       reviews.Service
	Cart          cart.Service
	Wishlist      wishlist.Service
	BuyNow        buynow.Service
	Orders        orders.Service
	Consultations consultations.Service
	Checkout      checkout.Service
}

// Infra carries the shared plumbing. Redis is optional; without it rate
// limiting and idempotent replay are disabled.
type Infra struct {
	Tokens   tokenReader
	Redis    *pkgredis.Client
	Ready    map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	var (
		limiter     rateLimiter
		idempotency pkgredis.IdempotencyStore
	)
	if infra.Redis != nil {
		limiter = infra.Redis
		idempotency = infra.Redis
	}
	loginPolicy := middleware.NewAuthRateLimitPolicy("login", cfg.RateLimit.LoginWindow, cfg.RateLimit.LoginLimit)
	otpPolicy := middleware.NewAuthRateLimitPolicy("otp", cfg.RateLimit.OTPWindow, cfg.RateLimit.OTPLimit)
	requireAuth := middleware.RequireAuth(infra.Tokens, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.Ready))
	})

	gatherer := infra.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, infra.Tokens, logg))
		r.Use(middleware.Idempotency(idempotency, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionStatus(svc.Auth, logg))
			r.Post("/visited", controllers.SessionVisited(svc.Auth, logg))
			r.Put("/redirect", controllers.SessionRedirect(svc.Auth, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			r.Post("/register/start", controllers.AuthRegisterStart(svc.Auth, logg))
			r.Post("/register/verify", controllers.AuthRegisterVerify(svc.Auth, logg))
			r.Post("/register/complete", controllers.AuthRegisterComplete(svc.Auth, logg))
			r.With(middleware.AuthRateLimit(otpPolicy, limiter, logg)).Post("/otp/send", controllers.AuthSendOTP(svc.Auth, logg))
			r.Post("/otp/verify", controllers.AuthVerifyOTP(svc.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(svc.Auth, logg))
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/profile", controllers.AuthProfile(svc.Auth, logg))
				r.Put("/profile", controllers.AuthUpdateProfile(svc.Auth, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svc.Products, logg))
			r.Get("/search", controllers.ProductSearch(svc.Products, logg))
			r.Get("/collections", controllers.ProductCollections(svc.Products, logg))
			r.Get("/tags/{slug}", controllers.ProductsByTag(svc.Products, logg))
			r.Get("/{id}/reviews", controllers.ReviewList(svc.Reviews, logg))
			r.Get("/{id}/reviews/summary", controllers.ReviewSummary(svc.Reviews, logg))
			r.Get("/{slug}", controllers.ProductDetail(svc.Products, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svc.Cart, logg))
			r.Delete("/", controllers.CartClear(svc.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svc.Cart, logg))
			r.Put("/items/{itemId}", controllers.CartUpdateItem(svc.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(svc.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(svc.Wishlist, logg))
			r.Delete("/", controllers.WishlistClear(svc.Wishlist, logg))
			r.Post("/toggle", controllers.WishlistToggle(svc.Wishlist, logg))
			r.Post("/items", controllers.WishlistAdd(svc.Wishlist, logg))
			r.Delete("/items/{itemId}", controllers.WishlistRemove(svc.Wishlist, logg))
		})

		r.Route("/buy-now", func(r chi.Router) {
			r.Get("/", controllers.BuyNowPeek(svc.BuyNow, logg))
			r.Post("/", controllers.BuyNowStart(svc.BuyNow, logg))
			r.Delete("/", controllers.BuyNowCancel(svc.BuyNow, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/reviews", controllers.ReviewCreate(svc.Reviews, logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(svc.Addresses, logg))
				r.Post("/", controllers.AddressCreate(svc.Addresses, logg))
				r.Put("/{id}", controllers.AddressUpdate(svc.Addresses, logg))
				r.Delete("/{id}", controllers.AddressDelete(svc.Addresses, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(svc.Orders, logg))
				r.Get("/{id}", controllers.OrderDetail(svc.Orders, logg))
				r.Post("/{id}/cancel", controllers.OrderCancel(svc.Orders, logg))
			})

			r.Route("/consultations", func(r chi.Router) {
				r.Get("/", controllers.ConsultationList(svc.Consultations, logg))
				r.Post("/", controllers.ConsultationBook(svc.Consultations, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutCurrent(svc.Checkout, logg))
				r.Delete("/", controllers.CheckoutReset(svc.Checkout, logg))
				r.Get("/quote", controllers.CheckoutQuote(svc.Checkout, logg))
				r.Post("/begin", controllers.CheckoutBegin(svc.Checkout, logg))
				r.Post("/address", controllers.CheckoutSelectAddress(svc.Checkout, logg))
				r.Post("/place", controllers.CheckoutPlace(svc.Checkout, logg))
				r.Post("/card", controllers.CheckoutSubmitCard(svc.Checkout, logg))
				r.Post("/otp", controllers.CheckoutVerifyOTP(svc.Checkout, logg))
				r.Post("/back", controllers.CheckoutBack(svc.Checkout, logg))
			})
		})
	})

	return r
}
