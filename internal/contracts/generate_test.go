package contracts

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestGenerateTechTask_ContractNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GenerateTechTask(context.Background(), 123)
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	require.Equal(t, "contract not found", appErr.Message())
}

func TestGenerateTechTask_NoLinesPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	contract, err := f.svc.CreateContract(ctx, CreateContractInput{ContractCode: "C-EMPTY", FactoryID: 1})
	require.NoError(t, err)

	_, err = f.svc.GenerateTechTask(ctx, contract.ContractID)
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	require.Equal(t, "contract has no lines", appErr.Message())

	var count int64
	require.NoError(t, f.conn.Model(&models.TechTask{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGenerateTechTask_RendersDocument(t *testing.T) {
	f := newFixture(t)
	contract := f.seedContract(t)

	result, err := f.svc.GenerateTechTask(context.Background(), contract.ContractID)
	require.NoError(t, err)
	require.Equal(t, 1, result.Version)
	require.NotZero(t, result.TechTaskID)

	content := result.Content
	require.True(t, strings.HasPrefix(content, "# Tech Task: C-2026-01\n"))
	require.Contains(t, content, "Factory ID: "+strconv.FormatInt(contract.FactoryID, 10))
	require.Contains(t, content, "| Version 1")
	require.Contains(t, content, "SKU: SKU-100 — Driver 100W | Qty: 500 | Region: EU")
	require.Contains(t, content, "Supplier model: DX-100 (Factory: Plant A)")
	require.Contains(t, content, "**BM Requirements**\nIP67 housing")
	require.Contains(t, content, "**Accessories**\n- Mounting bracket (PN PN-77) x2")
	require.Contains(t, content, "| Parameter | Value | UOM | Tolerance | Condition |")
	// voltage: measured value, measured uom, explicit tolerance, condition tag
	require.Contains(t, content, "| Voltage | 12.1 | V | ±2% | cold start |")
	// duty: no measurement, no uom default, default tolerance table
	require.Contains(t, content, "| Duty cycle | - | - | >= measured - 5% abs | - |")
	require.Contains(t, content, "**Test Methods**\n- Burn-in: 48h at full load")
}

func TestGenerateTechTask_VersionsAreMonotonic(t *testing.T) {
	f := newFixture(t)
	contract := f.seedContract(t)
	ctx := context.Background()

	first, err := f.svc.GenerateTechTask(ctx, contract.ContractID)
	require.NoError(t, err)
	require.Equal(t, 1, first.Version)

	second, err := f.svc.GenerateTechTask(ctx, contract.ContractID)
	require.NoError(t, err)
	require.Equal(t, 2, second.Version)
	require.Contains(t, second.Content, "| Version 2")

	// stored documents are immutable rows, one per version
	tasks, err := f.svc.ListTechTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, 1, tasks[0].Version)
	require.Equal(t, 2, tasks[1].Version)
	require.NotNil(t, tasks[0].Status)
	require.Equal(t, "generated", *tasks[0].Status)
}

func TestGenerateTechTask_MissingUOMRendersDash(t *testing.T) {
	f := newFixture(t)
	contract := f.seedContract(t)

	// strip the uom from the stored measurement
	require.NoError(t, f.conn.Model(&models.Measurement{}).Where("1 = 1").Update("uom", nil).Error)

	result, err := f.svc.GenerateTechTask(context.Background(), contract.ContractID)
	require.NoError(t, err)
	require.Contains(t, result.Content, "| Voltage | 12.1 | - | ±2% | cold start |")
}

func TestDefaultTolerance(t *testing.T) {
	cases := map[string]string{
		"VOLTAGE":  "±5%",
		"CURRENT":  "±5%",
		"PF":       "±0.02",
		"DUTY":     ">= measured - 5% abs",
		"RIPPLE":   "default",
		"":         "default",
		"voltage":  "default",
		"PF_RATIO": "default",
	}
	for code, want := range cases {
		require.Equal(t, want, defaultTolerance(code), "code %q", code)
	}
}
