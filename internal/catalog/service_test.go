package catalog

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
	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.ProductNode{},
		&models.ParamCatalog{},
		&models.ParamProductNode{},
		&models.Tolerance{},
		&models.TestMethod{},
	))

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestCreateProductNode_DuplicateCodeConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "LED", NodeName: "LED drivers"})
	require.NoError(t, err)

	_, err = svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "LED", NodeName: "duplicate"})
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestProductNodeParentReference(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent, err := svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "PSU", NodeName: "Power supplies"})
	require.NoError(t, err)

	child, err := svc.CreateProductNode(ctx, CreateProductNodeInput{
		ParentProductNodeID: &parent.ProductNodeID,
		NodeCode:            "PSU-DC",
		NodeName:            "DC power supplies",
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentProductNodeID)
	require.Equal(t, parent.ProductNodeID, *child.ParentProductNodeID)
}

func TestEffectiveParams_FlatResolution(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent, err := svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "PSU", NodeName: "Power supplies"})
	require.NoError(t, err)
	child, err := svc.CreateProductNode(ctx, CreateProductNodeInput{
		ParentProductNodeID: &parent.ProductNodeID,
		NodeCode:            "PSU-DC",
		NodeName:            "DC power supplies",
	})
	require.NoError(t, err)

	uom := "V"
	voltage, err := svc.CreateParam(ctx, CreateParamInput{ParamCode: "VOLTAGE", ParamName: "Voltage", ValueType: "number", UOMDefault: &uom})
	require.NoError(t, err)
	current, err := svc.CreateParam(ctx, CreateParamInput{ParamCode: "CURRENT", ParamName: "Current", ValueType: "number"})
	require.NoError(t, err)

	// attach voltage to the parent, current to the child
	_, err = svc.CreateParamLink(ctx, CreateParamLinkInput{ProductNodeID: parent.ProductNodeID, ParamID: voltage.ParamID, IsRequired: true})
	require.NoError(t, err)
	_, err = svc.CreateParamLink(ctx, CreateParamLinkInput{ProductNodeID: child.ProductNodeID, ParamID: current.ParamID})
	require.NoError(t, err)

	// child resolution does not walk the parent chain
	params, err := svc.EffectiveParams(ctx, child.ProductNodeID)
	require.NoError(t, err)
	require.Len(t, params, 1)
	require.Equal(t, "CURRENT", params[0].ParamCode)
	require.False(t, params[0].IsRequired)

	parentParams, err := svc.EffectiveParams(ctx, parent.ProductNodeID)
	require.NoError(t, err)
	require.Len(t, parentParams, 1)
	require.Equal(t, "VOLTAGE", parentParams[0].ParamCode)
	require.True(t, parentParams[0].IsRequired)
	require.NotNil(t, parentParams[0].UOMDefault)
	require.Equal(t, "V", *parentParams[0].UOMDefault)
}

func TestEffectiveParams_UnknownNodeEmpty(t *testing.T) {
	svc := newTestService(t)

	params, err := svc.EffectiveParams(context.Background(), 999)
	require.NoError(t, err)
	require.NotNil(t, params)
	require.Empty(t, params)
}

func TestEffectiveParams_DuplicateLinksProduceDuplicateRows(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	node, err := svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "LED", NodeName: "LED drivers"})
	require.NoError(t, err)
	param, err := svc.CreateParam(ctx, CreateParamInput{ParamCode: "PF", ParamName: "Power factor", ValueType: "number"})
	require.NoError(t, err)

	_, err = svc.CreateParamLink(ctx, CreateParamLinkInput{ProductNodeID: node.ProductNodeID, ParamID: param.ParamID})
	require.NoError(t, err)
	_, err = svc.CreateParamLink(ctx, CreateParamLinkInput{ProductNodeID: node.ProductNodeID, ParamID: param.ParamID, IsRequired: true})
	require.NoError(t, err)

	params, err := svc.EffectiveParams(ctx, node.ProductNodeID)
	require.NoError(t, err)
	require.Len(t, params, 2)
}

func TestEffectiveParams_OrderedByParamID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	node, err := svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "LED", NodeName: "LED drivers"})
	require.NoError(t, err)

	var paramIDs []int64
	for _, code := range []string{"DUTY", "VOLTAGE", "CURRENT"} {
		param, err := svc.CreateParam(ctx, CreateParamInput{ParamCode: code, ParamName: code, ValueType: "number"})
		require.NoError(t, err)
		paramIDs = append(paramIDs, param.ParamID)
	}
	// attach in reverse creation order
	for i := len(paramIDs) - 1; i >= 0; i-- {
		_, err := svc.CreateParamLink(ctx, CreateParamLinkInput{ProductNodeID: node.ProductNodeID, ParamID: paramIDs[i]})
		require.NoError(t, err)
	}

	params, err := svc.EffectiveParams(ctx, node.ProductNodeID)
	require.NoError(t, err)
	require.Len(t, params, 3)
	for i := 1; i < len(params); i++ {
		require.Less(t, params[i-1].ParamID, params[i].ParamID)
	}
}

func TestEffectiveMethods(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	node, err := svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "LED", NodeName: "LED drivers"})
	require.NoError(t, err)
	other, err := svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "PSU", NodeName: "Power supplies"})
	require.NoError(t, err)

	_, err = svc.CreateTestMethod(ctx, CreateTestMethodInput{ProductNodeID: node.ProductNodeID, MethodTitle: "Burn-in", MethodText: "48h at full load"})
	require.NoError(t, err)
	_, err = svc.CreateTestMethod(ctx, CreateTestMethodInput{ProductNodeID: other.ProductNodeID, MethodTitle: "Hipot", MethodText: "3kV for 60s"})
	require.NoError(t, err)

	methods, err := svc.EffectiveMethods(ctx, node.ProductNodeID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	require.Equal(t, "Burn-in", methods[0].MethodTitle)

	empty, err := svc.EffectiveMethods(ctx, 999)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestUpdateParamLink_Partial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	node, err := svc.CreateProductNode(ctx, CreateProductNodeInput{NodeCode: "LED", NodeName: "LED drivers"})
	require.NoError(t, err)
	param, err := svc.CreateParam(ctx, CreateParamInput{ParamCode: "VOLTAGE", ParamName: "Voltage", ValueType: "number"})
	require.NoError(t, err)

	link, err := svc.CreateParamLink(ctx, CreateParamLinkInput{ProductNodeID: node.ProductNodeID, ParamID: param.ParamID})
	require.NoError(t, err)
	require.False(t, link.IsRequired)

	required := true
	updated, err := svc.UpdateParamLink(ctx, link.ID, UpdateParamLinkInput{IsRequired: &required})
	require.NoError(t, err)
	require.True(t, updated.IsRequired)
	require.Equal(t, node.ProductNodeID, updated.ProductNodeID)
}

func TestUpdateTolerance_NotFound(t *testing.T) {
	svc := newTestService(t)

	rule := "±1%"
	_, err := svc.UpdateTolerance(context.Background(), 7, UpdateToleranceInput{ToleranceRule: &rule})
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	require.Equal(t, "tolerance not found", appErr.Message())
}
