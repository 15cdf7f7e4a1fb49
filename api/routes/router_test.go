package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sourcedesk/sourcedesk-backend/internal/catalog"
	"github.com/sourcedesk/sourcedesk-backend/internal/compare"
	"github.com/sourcedesk/sourcedesk-backend/internal/contracts"
	"github.com/sourcedesk/sourcedesk-backend/internal/factories"
	"github.com/sourcedesk/sourcedesk-backend/internal/skus"
	"github.com/sourcedesk/sourcedesk-backend/internal/sourcing"
	"github.com/sourcedesk/sourcedesk-backend/pkg/config"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	"github.com/sourcedesk/sourcedesk-backend/pkg/logger"
	"github.com/sourcedesk/sourcedesk-backend/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

// newTestRouter wires the full route surface against an in-memory database,
// no redis, no stubbed services.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:routes_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Factory{},
		&models.ProductNode{},
		&models.ParamCatalog{},
		&models.ParamProductNode{},
		&models.Tolerance{},
		&models.TestMethod{},
		&models.Accessory{},
		&models.CustomerModel{},
		&models.CustomerModelAccessory{},
		&models.SupplierModel{},
		&models.Measurement{},
		&models.Link{},
		&models.CompareTable{},
		&models.CompareTableLine{},
		&models.Contract{},
		&models.ContractLine{},
		&models.TechTask{},
	))

	factoriesRepo := factories.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	skusRepo := skus.NewRepository(conn)
	sourcingRepo := sourcing.NewRepository(conn)
	compareRepo := compare.NewRepository(conn)
	contractsRepo := contracts.NewRepository(conn)

	factoriesService, err := factories.NewService(factoriesRepo)
	require.NoError(t, err)
	catalogService, err := catalog.NewService(catalogRepo)
	require.NoError(t, err)
	skusService, err := skus.NewService(skusRepo)
	require.NoError(t, err)
	sourcingService, err := sourcing.NewService(sourcingRepo)
	require.NoError(t, err)
	compareService, err := compare.NewService(compareRepo, skusRepo, catalogRepo, sourcingRepo)
	require.NoError(t, err)
	contractsService, err := contracts.NewService(contractsRepo, sourcingRepo, skusRepo, sourcingRepo, factoriesRepo, catalogRepo)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()

	return NewRouter(
		&config.Config{},
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		stubPinger{},
		nil,
		metrics.NewHTTPMetrics(registry),
		registry,
		factoriesService,
		catalogService,
		skusService,
		sourcingService,
		compareService,
		contractsService,
	)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestFactoryLifecycleOverHTTP(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/factories", `{"factory_code":"F-001","name":"Plant A"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		FactoryID   int64  `json:"factory_id"`
		FactoryCode string `json:"factory_code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.FactoryID)
	require.Equal(t, "F-001", created.FactoryCode)

	// success bodies are bare rows, not wrapped in an envelope
	require.NotContains(t, rec.Body.String(), `"data"`)

	rec = doJSON(t, h, http.MethodPost, "/factories", `{"factory_code":"F-001","name":"Plant B"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), `"CONFLICT"`)
	require.Contains(t, rec.Body.String(), "factory_code already exists")

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/factories/%d", created.FactoryID), `{"name":"Plant A2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Plant A2")

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/factories/%d", created.FactoryID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"deleted"}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/factories/%d", created.FactoryID), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "factory not found")
}

func TestInvalidPathIDRejected(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/factories/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"VALIDATION_ERROR"`)
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/factories", `{"factory_code":"F-002","name":"Plant","bogus":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid request body")
}

func TestValidationDetailsUseJSONNames(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/factories", `{"name":"Plant"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"factory_code"`)
	require.Contains(t, rec.Body.String(), "is required")
}

func TestSendMissingCompareTable(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/compare-tables/42/send", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "compare table not found")
}

func TestGenerateTechTaskNoLines(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/contracts", `{"contract_code":"C-1","factory_id":7}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var contract struct {
		ContractID int64 `json:"contract_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contract))

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/contracts/%d/generate-tech-task", contract.ContractID), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "contract has no lines")
}

func TestEffectiveParamsUnknownNodeEmpty(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/product-nodes/99/effective-params", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	h := newTestRouter(t)

	// drive one request through the stack so the counters exist
	doJSON(t, h, http.MethodGet, "/health", "")

	rec := doJSON(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "http_requests_total")
}
