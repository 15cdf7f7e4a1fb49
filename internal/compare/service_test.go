package compare

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/sourcedesk/sourcedesk-backend/internal/catalog"
	"github.com/sourcedesk/sourcedesk-backend/internal/skus"
	"github.com/sourcedesk/sourcedesk-backend/internal/sourcing"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	svc      Service
	conn     *gorm.DB
	catalog  *catalog.Repository
	skus     *skus.Repository
	sourcing *sourcing.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:compare_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Factory{},
		&models.ProductNode{},
		&models.ParamCatalog{},
		&models.ParamProductNode{},
		&models.CustomerModel{},
		&models.SupplierModel{},
		&models.Measurement{},
		&models.Link{},
		&models.CompareTable{},
		&models.CompareTableLine{},
	))

	catalogRepo := catalog.NewRepository(conn)
	skusRepo := skus.NewRepository(conn)
	sourcingRepo := sourcing.NewRepository(conn)

	svc, err := NewService(NewRepository(conn), skusRepo, catalogRepo, sourcingRepo)
	require.NoError(t, err)
	return &fixture{svc: svc, conn: conn, catalog: catalogRepo, skus: skusRepo, sourcing: sourcingRepo}
}

func (f *fixture) seedMatrixScenario(t *testing.T) (tableID int64, paramIDs []int64) {
	t.Helper()
	ctx := context.Background()

	factory := &models.Factory{FactoryCode: "F-001", Name: "Plant A"}
	require.NoError(t, f.conn.Create(factory).Error)

	node := &models.ProductNode{NodeCode: "LED", NodeName: "LED drivers"}
	require.NoError(t, f.conn.Create(node).Error)

	voltage := &models.ParamCatalog{ParamCode: "VOLTAGE", ParamName: "Voltage", ValueType: "number"}
	pf := &models.ParamCatalog{ParamCode: "PF", ParamName: "Power factor", ValueType: "number"}
	require.NoError(t, f.conn.Create(voltage).Error)
	require.NoError(t, f.conn.Create(pf).Error)
	for _, p := range []*models.ParamCatalog{voltage, pf} {
		require.NoError(t, f.conn.Create(&models.ParamProductNode{ProductNodeID: node.ProductNodeID, ParamID: p.ParamID}).Error)
	}

	customerModel := &models.CustomerModel{CustomerSKU: "SKU-100", Name: "Driver 100W", ProductNodeID: node.ProductNodeID}
	require.NoError(t, f.conn.Create(customerModel).Error)

	supplierA := &models.SupplierModel{FactoryID: factory.FactoryID, FactoryModelName: "DX-100", ProductNodeID: node.ProductNodeID}
	supplierB := &models.SupplierModel{FactoryID: factory.FactoryID, FactoryModelName: "DX-200", ProductNodeID: node.ProductNodeID}
	require.NoError(t, f.conn.Create(supplierA).Error)
	require.NoError(t, f.conn.Create(supplierB).Error)

	// supplier A has both measurements, supplier B has none
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, f.conn.Create(&models.Measurement{SupplierModelID: supplierA.SupplierModelID, ParamID: voltage.ParamID, Value: "12.1", MeasuredAt: at}).Error)
	require.NoError(t, f.conn.Create(&models.Measurement{SupplierModelID: supplierA.SupplierModelID, ParamID: pf.ParamID, Value: "0.95", MeasuredAt: at}).Error)

	linkA := &models.Link{CustomerModelID: customerModel.CustomerModelID, SupplierModelID: supplierA.SupplierModelID}
	linkB := &models.Link{CustomerModelID: customerModel.CustomerModelID, SupplierModelID: supplierB.SupplierModelID}
	require.NoError(t, f.conn.Create(linkA).Error)
	require.NoError(t, f.conn.Create(linkB).Error)

	table, err := f.svc.CreateTable(ctx, CreateTableInput{CustomerModelID: customerModel.CustomerModelID})
	require.NoError(t, err)
	_, err = f.svc.CreateLine(ctx, CreateLineInput{CompareTableID: table.CompareTableID, LinkID: linkA.LinkID})
	require.NoError(t, err)
	_, err = f.svc.CreateLine(ctx, CreateLineInput{CompareTableID: table.CompareTableID, LinkID: linkB.LinkID})
	require.NoError(t, err)

	return table.CompareTableID, []int64{voltage.ParamID, pf.ParamID}
}

func TestBuildMatrix(t *testing.T) {
	f := newFixture(t)
	tableID, paramIDs := f.seedMatrixScenario(t)

	matrix, err := f.svc.BuildMatrix(context.Background(), tableID)
	require.NoError(t, err)
	require.Len(t, matrix.Params, 2)
	require.Equal(t, "VOLTAGE", matrix.Params[0].ParamCode)
	require.Len(t, matrix.Rows, 2)

	voltageKey := strconv.FormatInt(paramIDs[0], 10)
	pfKey := strconv.FormatInt(paramIDs[1], 10)

	rowA := matrix.Rows[0]
	require.Equal(t, "Plant A", rowA.FactoryName)
	require.NotNil(t, rowA.Values[voltageKey])
	require.Equal(t, "12.1", *rowA.Values[voltageKey])
	require.NotNil(t, rowA.Values[pfKey])

	// supplier B has no measurements: keys present, values nil
	rowB := matrix.Rows[1]
	require.Contains(t, rowB.Values, voltageKey)
	require.Nil(t, rowB.Values[voltageKey])
	require.Contains(t, rowB.Values, pfKey)
	require.Nil(t, rowB.Values[pfKey])
}

func TestBuildMatrix_LatestMeasurementWins(t *testing.T) {
	f := newFixture(t)
	tableID, paramIDs := f.seedMatrixScenario(t)

	// append a newer voltage reading for supplier A
	var supplier models.SupplierModel
	require.NoError(t, f.conn.First(&supplier, "factory_model_name = ?", "DX-100").Error)
	newer := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, f.conn.Create(&models.Measurement{SupplierModelID: supplier.SupplierModelID, ParamID: paramIDs[0], Value: "11.7", MeasuredAt: newer}).Error)

	matrix, err := f.svc.BuildMatrix(context.Background(), tableID)
	require.NoError(t, err)
	voltageKey := strconv.FormatInt(paramIDs[0], 10)
	require.Equal(t, "11.7", *matrix.Rows[0].Values[voltageKey])
}

func TestBuildMatrix_TableNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BuildMatrix(context.Background(), 321)
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	require.Equal(t, "compare table not found", appErr.Message())
}

func TestBuildMatrix_NoParamsNoLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	node := &models.ProductNode{NodeCode: "BARE", NodeName: "Bare node"}
	require.NoError(t, f.conn.Create(node).Error)
	customerModel := &models.CustomerModel{CustomerSKU: "SKU-0", Name: "Nothing", ProductNodeID: node.ProductNodeID}
	require.NoError(t, f.conn.Create(customerModel).Error)

	table, err := f.svc.CreateTable(ctx, CreateTableInput{CustomerModelID: customerModel.CustomerModelID})
	require.NoError(t, err)

	matrix, err := f.svc.BuildMatrix(ctx, table.CompareTableID)
	require.NoError(t, err)
	require.Empty(t, matrix.Params)
	require.Empty(t, matrix.Rows)
}

func TestSendToEngineer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	table, err := f.svc.CreateTable(ctx, CreateTableInput{CustomerModelID: 1})
	require.NoError(t, err)

	require.NoError(t, f.svc.SendToEngineer(ctx, table.CompareTableID))

	var stored models.CompareTable
	require.NoError(t, f.conn.First(&stored, "compare_table_id = ?", table.CompareTableID).Error)
	require.NotNil(t, stored.Status)
	require.Equal(t, "sent", *stored.Status)
	require.NotNil(t, stored.SentToEngineerAt)
	firstSend := *stored.SentToEngineerAt

	// re-send overwrites the timestamp
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, f.svc.SendToEngineer(ctx, table.CompareTableID))
	require.NoError(t, f.conn.First(&stored, "compare_table_id = ?", table.CompareTableID).Error)
	require.NotNil(t, stored.SentToEngineerAt)
	require.True(t, stored.SentToEngineerAt.After(firstSend))
}

func TestSendToEngineer_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.SendToEngineer(context.Background(), 77)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
