package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/izzah/storefront/api/controllers"
	"github.com/izzah/storefront/api/middleware"
	checkoutsvc "github.com/izzah/storefront/internal/checkout"
	products "github.com/izzah/storefront/internal/products"
	"github.com/izzah/storefront/pkg/config"
	"github.com/izzah/storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	checks []controllers.ReadinessCheck,
	gatherer prometheus.Gatherer,
	productService products.Service,
	cartStore controllers.CartStore,
	checkoutService checkoutsvc.Service,
	idempotencyStore middleware.IdempotencyStore,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ClientID(logg))

		r.Get("/categories", controllers.ListCategories(productService))
		r.Get("/categories/{category}/products", controllers.ListCategoryProducts(productService, logg))

		r.Route("/products/{productId}", func(r chi.Router) {
			r.Get("/", controllers.GetProduct(productService, logg))
			r.Post("/availability", controllers.CheckAvailability(productService, logg))
			r.Post("/cart", controllers.AddToCart(productService, logg))
			r.Post("/buy-now", controllers.BuyNow(productService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartStore, logg))
			r.Delete("/items/{itemKey}", controllers.RemoveCartItem(cartStore, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.StartCheckout(checkoutService, logg))
			r.Get("/", controllers.GetCheckout(checkoutService, logg))
			r.Patch("/form", controllers.UpdateCheckoutForm(checkoutService, logg))
			r.Post("/promo", controllers.ApplyPromo(checkoutService, logg))
			r.Delete("/promo", controllers.RemovePromo(checkoutService, logg))
			r.Post("/proof", controllers.UploadProof(checkoutService, cfg.Checkout.MaxProofBytes(), logg))
			// the pattern is only complete once the route matched, so this has to be route-level
			r.With(middleware.Idempotency(idempotencyStore, cfg.Checkout.IdempotencyTTL, logg)).
				Post("/orders", controllers.PlaceOrder(checkoutService, logg))
			r.Get("/confirmation", controllers.GetConfirmation(checkoutService, logg))
		})
	})

	return r
}
