package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sourcedesk/sourcedesk-backend/api/controllers"
	"github.com/sourcedesk/sourcedesk-backend/api/middleware"
	"github.com/sourcedesk/sourcedesk-backend/internal/catalog"
	"github.com/sourcedesk/sourcedesk-backend/internal/compare"
	"github.com/sourcedesk/sourcedesk-backend/internal/contracts"
	"github.com/sourcedesk/sourcedesk-backend/internal/factories"
	"github.com/sourcedesk/sourcedesk-backend/internal/skus"
	"github.com/sourcedesk/sourcedesk-backend/internal/sourcing"
	"github.com/sourcedesk/sourcedesk-backend/pkg/config"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db"
	"github.com/sourcedesk/sourcedesk-backend/pkg/logger"
	"github.com/sourcedesk/sourcedesk-backend/pkg/metrics"
	pkgredis "github.com/sourcedesk/sourcedesk-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	factoriesService factories.Service,
	catalogService catalog.Service,
	skusService skus.Service,
	sourcingService sourcing.Service,
	compareService compare.Service,
	contractsService contracts.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(),
	)

	// the generate/send endpoints are the only ones worth replay protection
	var idemStore pkgredis.IdempotencyStore
	if cfg.FeatureFlags.Idempotency && redisClient != nil {
		idemStore = redisClient
	}
	r.Use(middleware.Idempotency(idemStore, cfg.FeatureFlags.IdemTTL, logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, dbP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/factories", func(r chi.Router) {
		r.Get("/", controllers.FactoryList(factoriesService, logg))
		r.Post("/", controllers.FactoryCreate(factoriesService, logg))
		r.Get("/{factoryId}", controllers.FactoryGet(factoriesService, logg))
		r.Put("/{factoryId}", controllers.FactoryUpdate(factoriesService, logg))
		r.Delete("/{factoryId}", controllers.FactoryDelete(factoriesService, logg))
	})

	r.Route("/product-nodes", func(r chi.Router) {
		r.Get("/", controllers.ProductNodeList(catalogService, logg))
		r.Post("/", controllers.ProductNodeCreate(catalogService, logg))
		r.Get("/{productNodeId}", controllers.ProductNodeGet(catalogService, logg))
		r.Put("/{productNodeId}", controllers.ProductNodeUpdate(catalogService, logg))
		r.Delete("/{productNodeId}", controllers.ProductNodeDelete(catalogService, logg))
		r.Get("/{productNodeId}/effective-params", controllers.ProductNodeEffectiveParams(catalogService, logg))
		r.Get("/{productNodeId}/effective-methods", controllers.ProductNodeEffectiveMethods(catalogService, logg))
	})

	r.Route("/params", func(r chi.Router) {
		r.Get("/", controllers.ParamList(catalogService, logg))
		r.Post("/", controllers.ParamCreate(catalogService, logg))
		r.Put("/{paramId}", controllers.ParamUpdate(catalogService, logg))
		r.Delete("/{paramId}", controllers.ParamDelete(catalogService, logg))
	})

	r.Route("/params-product-nodes", func(r chi.Router) {
		r.Get("/", controllers.ParamLinkList(catalogService, logg))
		r.Post("/", controllers.ParamLinkCreate(catalogService, logg))
		r.Put("/{paramProductNodeId}", controllers.ParamLinkUpdate(catalogService, logg))
		r.Delete("/{paramProductNodeId}", controllers.ParamLinkDelete(catalogService, logg))
	})

	r.Route("/tolerances", func(r chi.Router) {
		r.Get("/", controllers.ToleranceList(catalogService, logg))
		r.Post("/", controllers.ToleranceCreate(catalogService, logg))
		r.Put("/{toleranceId}", controllers.ToleranceUpdate(catalogService, logg))
	})

	r.Route("/test-methods", func(r chi.Router) {
		r.Get("/", controllers.TestMethodList(catalogService, logg))
		r.Post("/", controllers.TestMethodCreate(catalogService, logg))
		r.Put("/{testMethodId}", controllers.TestMethodUpdate(catalogService, logg))
	})

	r.Route("/accessories", func(r chi.Router) {
		r.Get("/", controllers.AccessoryList(skusService, logg))
		r.Post("/", controllers.AccessoryCreate(skusService, logg))
		r.Put("/{accessoryId}", controllers.AccessoryUpdate(skusService, logg))
		r.Delete("/{accessoryId}", controllers.AccessoryDelete(skusService, logg))
	})

	r.Route("/customer-models", func(r chi.Router) {
		r.Get("/", controllers.CustomerModelList(skusService, logg))
		r.Post("/", controllers.CustomerModelCreate(skusService, logg))
		r.Put("/{customerModelId}", controllers.CustomerModelUpdate(skusService, logg))
		r.Delete("/{customerModelId}", controllers.CustomerModelDelete(skusService, logg))
	})

	r.Route("/customer-model-accessories", func(r chi.Router) {
		r.Get("/", controllers.AttachmentList(skusService, logg))
		r.Post("/", controllers.AttachmentCreate(skusService, logg))
		r.Put("/{customerAccessoryId}", controllers.AttachmentUpdate(skusService, logg))
		r.Delete("/{customerAccessoryId}", controllers.AttachmentDelete(skusService, logg))
	})

	r.Route("/supplier-models", func(r chi.Router) {
		r.Get("/", controllers.SupplierModelList(sourcingService, logg))
		r.Post("/", controllers.SupplierModelCreate(sourcingService, logg))
		r.Put("/{supplierModelId}", controllers.SupplierModelUpdate(sourcingService, logg))
		r.Delete("/{supplierModelId}", controllers.SupplierModelDelete(sourcingService, logg))
	})

	r.Route("/measurements", func(r chi.Router) {
		r.Get("/", controllers.MeasurementList(sourcingService, logg))
		r.Post("/", controllers.MeasurementCreate(sourcingService, logg))
		r.Put("/{measurementId}", controllers.MeasurementUpdate(sourcingService, logg))
		r.Delete("/{measurementId}", controllers.MeasurementDelete(sourcingService, logg))
	})

	r.Route("/links", func(r chi.Router) {
		r.Get("/", controllers.LinkList(sourcingService, logg))
		r.Post("/", controllers.LinkCreate(sourcingService, logg))
		r.Put("/{linkId}", controllers.LinkUpdate(sourcingService, logg))
		r.Delete("/{linkId}", controllers.LinkDelete(sourcingService, logg))
	})

	r.Route("/compare-tables", func(r chi.Router) {
		r.Get("/", controllers.CompareTableList(compareService, logg))
		r.Post("/", controllers.CompareTableCreate(compareService, logg))
		r.Put("/{compareTableId}", controllers.CompareTableUpdate(compareService, logg))
		r.Get("/{compareTableId}/matrix", controllers.CompareTableMatrix(compareService, logg))
		r.Post("/{compareTableId}/send", controllers.CompareTableSend(compareService, logg))
	})

	r.Route("/compare-table-lines", func(r chi.Router) {
		r.Get("/", controllers.CompareLineList(compareService, logg))
		r.Post("/", controllers.CompareLineCreate(compareService, logg))
		r.Put("/{compareLineId}", controllers.CompareLineUpdate(compareService, logg))
	})

	r.Route("/contracts", func(r chi.Router) {
		r.Get("/", controllers.ContractList(contractsService, logg))
		r.Post("/", controllers.ContractCreate(contractsService, logg))
		r.Put("/{contractId}", controllers.ContractUpdate(contractsService, logg))
		r.Post("/{contractId}/generate-tech-task", controllers.ContractGenerateTechTask(contractsService, logg))
	})

	r.Route("/contract-lines", func(r chi.Router) {
		r.Get("/", controllers.ContractLineList(contractsService, logg))
		r.Post("/", controllers.ContractLineCreate(contractsService, logg))
		r.Put("/{contractLineId}", controllers.ContractLineUpdate(contractsService, logg))
	})

	r.Get("/tech-tasks", controllers.TechTaskList(contractsService, logg))

	return r
}
