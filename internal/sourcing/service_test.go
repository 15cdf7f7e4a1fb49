package sourcing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:sourcing_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.SupplierModel{},
		&models.Measurement{},
		&models.Link{},
	))
	return NewRepository(conn)
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := newTestRepo(t)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateSupplierModel_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSupplierModel(ctx, CreateSupplierModelInput{FactoryModelName: "DX-100", ProductNodeID: 1})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateSupplierModel(ctx, CreateSupplierModelInput{FactoryID: 1, ProductNodeID: 1})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	created, err := svc.CreateSupplierModel(ctx, CreateSupplierModelInput{FactoryID: 1, FactoryModelName: "DX-100", ProductNodeID: 1})
	require.NoError(t, err)
	require.NotZero(t, created.SupplierModelID)
}

func TestLatestMeasurement_PicksMostRecent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	older := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

	_, err := svc.CreateMeasurement(ctx, CreateMeasurementInput{SupplierModelID: 1, ParamID: 1, Value: "11.8", MeasuredAt: &older})
	require.NoError(t, err)
	_, err = svc.CreateMeasurement(ctx, CreateMeasurementInput{SupplierModelID: 1, ParamID: 1, Value: "12.1", MeasuredAt: &newer})
	require.NoError(t, err)

	latest, err := repo.LatestMeasurement(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "12.1", latest.Value)
}

func TestLatestMeasurement_TieBrokenByID(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first, err := svc.CreateMeasurement(ctx, CreateMeasurementInput{SupplierModelID: 1, ParamID: 1, Value: "first", MeasuredAt: &at})
	require.NoError(t, err)
	second, err := svc.CreateMeasurement(ctx, CreateMeasurementInput{SupplierModelID: 1, ParamID: 1, Value: "second", MeasuredAt: &at})
	require.NoError(t, err)
	require.Greater(t, second.MeasurementID, first.MeasurementID)

	latest, err := repo.LatestMeasurement(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "second", latest.Value)
}

func TestLatestMeasurement_NoHistory(t *testing.T) {
	_, repo := newTestService(t)

	_, err := repo.LatestMeasurement(context.Background(), 9, 9)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateLink_StoresDecimalPrice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	price := decimal.RequireFromString("12.3456")
	currency := "USD"
	created, err := svc.CreateLink(ctx, CreateLinkInput{
		CustomerModelID: 1,
		SupplierModelID: 2,
		LastPriceFOB:    &price,
		Currency:        &currency,
	})
	require.NoError(t, err)
	require.True(t, created.LastPriceFOB.Valid)
	require.True(t, created.LastPriceFOB.Decimal.Equal(price))
}

func TestUpdateLink_Partial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateLink(ctx, CreateLinkInput{CustomerModelID: 1, SupplierModelID: 2})
	require.NoError(t, err)
	require.False(t, created.LastPriceFOB.Valid)

	price := decimal.RequireFromString("9.99")
	updated, err := svc.UpdateLink(ctx, created.LinkID, UpdateLinkInput{LastPriceFOB: &price})
	require.NoError(t, err)
	require.True(t, updated.LastPriceFOB.Valid)
	require.Equal(t, int64(1), updated.CustomerModelID)
}

func TestDeleteLink_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteLink(context.Background(), 404)
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	require.Equal(t, "link not found", appErr.Message())
}

func TestUpdateMeasurement_KeepsHistoryOrdering(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	at := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	created, err := svc.CreateMeasurement(ctx, CreateMeasurementInput{SupplierModelID: 3, ParamID: 2, Value: "0.95", MeasuredAt: &at})
	require.NoError(t, err)

	value := "0.97"
	updated, err := svc.UpdateMeasurement(ctx, created.MeasurementID, UpdateMeasurementInput{Value: &value})
	require.NoError(t, err)
	require.Equal(t, "0.97", updated.Value)

	latest, err := repo.LatestMeasurement(ctx, 3, 2)
	require.NoError(t, err)
	require.Equal(t, "0.97", latest.Value)
}
