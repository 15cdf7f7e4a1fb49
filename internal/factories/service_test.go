package factories

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
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Factory{}))

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestCreateFactory_RequiresCodeAndName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFactory(ctx, CreateFactoryInput{Name: "Shenzhen Plant"})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateFactory(ctx, CreateFactoryInput{FactoryCode: "F-001"})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateFactory_DuplicateCodeConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFactory(ctx, CreateFactoryInput{FactoryCode: "F-001", Name: "Plant A"})
	require.NoError(t, err)

	_, err = svc.CreateFactory(ctx, CreateFactoryInput{FactoryCode: "F-001", Name: "Plant B"})
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestListFactories_OrderedByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, code := range []string{"F-003", "F-001", "F-002"} {
		_, err := svc.CreateFactory(ctx, CreateFactoryInput{FactoryCode: code, Name: "Plant " + code})
		require.NoError(t, err)
	}

	rows, err := svc.ListFactories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "F-003", rows[0].FactoryCode)
	require.Equal(t, "F-002", rows[2].FactoryCode)
	require.Less(t, rows[0].FactoryID, rows[1].FactoryID)
}

func TestGetFactory_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetFactory(context.Background(), 42)
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	require.Equal(t, "factory not found", appErr.Message())
}

func TestUpdateFactory_PartialFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateFactory(ctx, CreateFactoryInput{FactoryCode: "F-001", Name: "Plant A"})
	require.NoError(t, err)

	audit := 85
	updated, err := svc.UpdateFactory(ctx, created.FactoryID, UpdateFactoryInput{AuditScore: &audit})
	require.NoError(t, err)
	require.Equal(t, "F-001", updated.FactoryCode)
	require.Equal(t, "Plant A", updated.Name)
	require.NotNil(t, updated.AuditScore)
	require.Equal(t, 85, *updated.AuditScore)

	name := "Plant A2"
	updated, err = svc.UpdateFactory(ctx, created.FactoryID, UpdateFactoryInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Plant A2", updated.Name)
	require.NotNil(t, updated.AuditScore)
}

func TestUpdateFactory_NotFound(t *testing.T) {
	svc := newTestService(t)

	name := "anything"
	_, err := svc.UpdateFactory(context.Background(), 99, UpdateFactoryInput{Name: &name})
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteFactory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateFactory(ctx, CreateFactoryInput{FactoryCode: "F-001", Name: "Plant A"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFactory(ctx, created.FactoryID))

	_, err = svc.GetFactory(ctx, created.FactoryID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.DeleteFactory(ctx, created.FactoryID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
