package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adityawarsita/gudangpos-backend/api/controllers"
	"github.com/adityawarsita/gudangpos-backend/api/middleware"
	"github.com/adityawarsita/gudangpos-backend/internal/catalog"
	"github.com/adityawarsita/gudangpos-backend/internal/orders"
	"github.com/adityawarsita/gudangpos-backend/internal/purchases"
	"github.com/adityawarsita/gudangpos-backend/internal/stock"
	"github.com/adityawarsita/gudangpos-backend/internal/stocklosses"
	"github.com/adityawarsita/gudangpos-backend/pkg/config"
	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
	"github.com/adityawarsita/gudangpos-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	stockService stock.Service,
	lossService stocklosses.Service,
	ordersService orders.Service,
	purchasesService purchases.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		var redisP redis.Pinger
		if redisClient != nil {
			redisP = redisClient
		}
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", controllers.CreateOrder(ordersService, logg))
		r.Get("/", controllers.ListOrders(ordersService, logg))
		r.Get("/{id}", controllers.GetOrder(ordersService, logg))
		r.Patch("/{id}/customer-name", controllers.UpdateOrderCustomerName(ordersService, logg))
	})

	r.Route("/api/v1/purchases", func(r chi.Router) {
		r.Post("/", controllers.CreatePurchase(purchasesService, stockService, catalogService, logg))
		r.Get("/", controllers.ListPurchases(purchasesService, logg))
		r.Get("/{id}", controllers.GetPurchase(purchasesService, logg))
	})

	r.Route("/api/v1/stock", func(r chi.Router) {
		r.Post("/repack", controllers.RepackStock(stockService, logg))
		r.Get("/{sku}", controllers.GetStock(stockService, logg))
		r.Post("/{sku}/set", controllers.SetStock(stockService, lossService, ordersService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", controllers.CreateProduct(catalogService, logg))
		r.Get("/", controllers.ListProducts(catalogService, logg))
		r.Get("/{sku}", controllers.GetProduct(catalogService, logg))
		r.Put("/{sku}", controllers.UpdateProduct(catalogService, logg))
		r.Delete("/{sku}", controllers.DeleteProduct(catalogService, logg))
		r.Post("/{sku}/rename", controllers.RenameProduct(catalogService, logg))
	})

	r.Get("/api/v1/stock-losses", controllers.ListStockLosses(lossService, logg))

	return r
}
