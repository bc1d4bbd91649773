package http

import (
	_ "github.com/ecomarket-tech/inventory-backend/docs" // Импорт сгенерированных файлов
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(
	catalogUC usecase.CatalogUC,
	salesUC usecase.SalesUC,
	syncUC usecase.SyncUC,
	inventoryUC usecase.InventoryUC,
	notificationUC usecase.NotificationUC,
	exporter ReportExporter,
) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	syncHandler := NewSyncHandler(syncUC, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerCatalogRoutes(v1, NewCatalogHandler(catalogUC, r.logger))
		registerLocationRoutes(v1,
			NewSalesHandler(salesUC, r.logger),
			NewInventoryHandler(inventoryUC, r.logger),
			syncHandler,
		)
		registerSyncRoutes(v1, syncHandler)
		registerNotificationRoutes(v1, NewNotificationHandler(notificationUC, r.logger))
		registerReportRoutes(v1, NewReportHandler(exporter, r.logger))
	})
}

func registerCatalogRoutes(router chi.Router, handler *CatalogHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", handler.registerProduct)
		pr.Get("/", handler.listProducts)
		pr.Put("/{id}", handler.updateProduct)
		pr.Delete("/{id}", handler.archiveProduct)
	})
}

func registerLocationRoutes(router chi.Router, sales *SalesHandler,
	inventory *InventoryHandler, sync *SyncHandler) {

	router.Route("/locations/{locationID}", func(loc chi.Router) {
		loc.Get("/inventory", inventory.listing)
		loc.Post("/sales", sales.recordSale)
		loc.Get("/sales/stats", sales.salesStats)
		loc.Post("/snapshot", sync.reconcileSnapshot)
	})
}

func registerSyncRoutes(router chi.Router, handler *SyncHandler) {
	router.Route("/sync/{branchID}", func(sn chi.Router) {
		sn.Post("/", handler.reconcile)
		sn.Get("/records", handler.history)
	})
}

func registerNotificationRoutes(router chi.Router, handler *NotificationHandler) {
	router.Get("/notifications", handler.list)
}

func registerReportRoutes(router chi.Router, handler *ReportHandler) {
	router.Post("/reports/export", handler.export)
}
