package skus

import (
	"context"
	"fmt"
	"testing"

	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:skus_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.CustomerModel{},
		&models.Accessory{},
		&models.CustomerModelAccessory{},
	))

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestCreateCustomerModel_DuplicateSKUConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCustomerModel(ctx, CreateCustomerModelInput{CustomerSKU: "SKU-100", Name: "Driver 100W", ProductNodeID: 1})
	require.NoError(t, err)

	_, err = svc.CreateCustomerModel(ctx, CreateCustomerModelInput{CustomerSKU: "SKU-100", Name: "Driver 150W", ProductNodeID: 1})
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestUpdateCustomerModel_PartialKeepsOtherFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	reqs := "IP67 housing"
	created, err := svc.CreateCustomerModel(ctx, CreateCustomerModelInput{
		CustomerSKU:        "SKU-100",
		Name:               "Driver 100W",
		ProductNodeID:      1,
		BMRequirementsText: &reqs,
	})
	require.NoError(t, err)

	status := "active"
	updated, err := svc.UpdateCustomerModel(ctx, created.CustomerModelID, UpdateCustomerModelInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "SKU-100", updated.CustomerSKU)
	require.NotNil(t, updated.BMRequirementsText)
	require.Equal(t, "IP67 housing", *updated.BMRequirementsText)
	require.NotNil(t, updated.Status)
	require.Equal(t, "active", *updated.Status)
}

func TestAccessoryCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAccessory(ctx, CreateAccessoryInput{PartNumber: "PN-77", AccessoryName: "Mounting bracket"})
	require.NoError(t, err)

	rows, err := svc.ListAccessories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	spec := "steel, powder coated"
	updated, err := svc.UpdateAccessory(ctx, created.AccessoryID, UpdateAccessoryInput{AccessorySpec: &spec})
	require.NoError(t, err)
	require.NotNil(t, updated.AccessorySpec)

	require.NoError(t, svc.DeleteAccessory(ctx, created.AccessoryID))
	err = svc.DeleteAccessory(ctx, created.AccessoryID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateAttachment_DefaultsQtyToOne(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAttachment(ctx, CreateAttachmentInput{CustomerModelID: 1, AccessoryID: 2})
	require.NoError(t, err)
	require.Equal(t, 1, created.Qty)
}

func TestUpdateAttachment_RejectsNonPositiveQty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAttachment(ctx, CreateAttachmentInput{CustomerModelID: 1, AccessoryID: 2, Qty: 3})
	require.NoError(t, err)

	zero := 0
	_, err = svc.UpdateAttachment(ctx, created.CustomerAccessoryID, UpdateAttachmentInput{Qty: &zero})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateAttachment_NotFound(t *testing.T) {
	svc := newTestService(t)

	qty := 2
	_, err := svc.UpdateAttachment(context.Background(), 55, UpdateAttachmentInput{Qty: &qty})
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	require.Equal(t, "customer model accessory not found", appErr.Message())
}
