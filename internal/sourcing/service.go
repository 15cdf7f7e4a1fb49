package sourcing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"gorm.io/gorm"
)

type sourcingRepository interface {
	CreateSupplierModel(ctx context.Context, model *models.SupplierModel) (*models.SupplierModel, error)
	ListSupplierModels(ctx context.Context) ([]models.SupplierModel, error)
	FindSupplierModelByID(ctx context.Context, id int64) (*models.SupplierModel, error)
	UpdateSupplierModel(ctx context.Context, model *models.SupplierModel) error
	DeleteSupplierModel(ctx context.Context, id int64) error

	CreateMeasurement(ctx context.Context, measurement *models.Measurement) (*models.Measurement, error)
	ListMeasurements(ctx context.Context) ([]models.Measurement, error)
	FindMeasurementByID(ctx context.Context, id int64) (*models.Measurement, error)
	UpdateMeasurement(ctx context.Context, measurement *models.Measurement) error
	DeleteMeasurement(ctx context.Context, id int64) error
	LatestMeasurement(ctx context.Context, supplierModelID, paramID int64) (*models.Measurement, error)

	CreateLink(ctx context.Context, link *models.Link) (*models.Link, error)
	ListLinks(ctx context.Context) ([]models.Link, error)
	FindLinkByID(ctx context.Context, id int64) (*models.Link, error)
	UpdateLink(ctx context.Context, link *models.Link) error
	DeleteLink(ctx context.Context, id int64) error
}

// CreateSupplierModelInput holds the fields accepted when registering a
// factory model.
type CreateSupplierModelInput struct {
	FactoryID        int64   `json:"factory_id" validate:"required,gt=0"`
	FactoryModelName string  `json:"factory_model_name" validate:"required"`
	ProductNodeID    int64   `json:"product_node_id" validate:"required,gt=0"`
	ModelStatus      *string `json:"model_status"`
	Notes            *string `json:"notes"`
}

// UpdateSupplierModelInput carries optional fields for a partial update.
type UpdateSupplierModelInput struct {
	FactoryID        *int64  `json:"factory_id"`
	FactoryModelName *string `json:"factory_model_name"`
	ProductNodeID    *int64  `json:"product_node_id"`
	ModelStatus      *string `json:"model_status"`
	Notes            *string `json:"notes"`
}

// CreateMeasurementInput appends one value to a supplier model's history.
// MeasuredAt defaults to now when omitted.
type CreateMeasurementInput struct {
	SupplierModelID int64      `json:"supplier_model_id" validate:"required,gt=0"`
	ParamID         int64      `json:"param_id" validate:"required,gt=0"`
	Value           string     `json:"value" validate:"required"`
	UOM             *string    `json:"uom"`
	ConditionTag    *string    `json:"condition_tag"`
	MeasuredAt      *time.Time `json:"measured_at"`
}

// UpdateMeasurementInput carries optional fields for a partial update.
type UpdateMeasurementInput struct {
	SupplierModelID *int64  `json:"supplier_model_id"`
	ParamID         *int64  `json:"param_id"`
	Value           *string `json:"value"`
	UOM             *string `json:"uom"`
	ConditionTag    *string `json:"condition_tag"`
}

// CreateLinkInput pairs a customer model with a supplier model.
type CreateLinkInput struct {
	CustomerModelID int64            `json:"customer_model_id" validate:"required,gt=0"`
	SupplierModelID int64            `json:"supplier_model_id" validate:"required,gt=0"`
	Status          *string          `json:"status"`
	LastPriceFOB    *decimal.Decimal `json:"last_price_fob"`
	Currency        *string          `json:"currency"`
	Notes           *string          `json:"notes"`
}

// UpdateLinkInput carries optional fields for a partial link update.
type UpdateLinkInput struct {
	CustomerModelID *int64           `json:"customer_model_id"`
	SupplierModelID *int64           `json:"supplier_model_id"`
	Status          *string          `json:"status"`
	LastPriceFOB    *decimal.Decimal `json:"last_price_fob"`
	Currency        *string          `json:"currency"`
	Notes           *string          `json:"notes"`
}

// Service exposes supplier model, measurement and link semantics.
type Service interface {
	CreateSupplierModel(ctx context.Context, input CreateSupplierModelInput) (*models.SupplierModel, error)
	ListSupplierModels(ctx context.Context) ([]models.SupplierModel, error)
	UpdateSupplierModel(ctx context.Context, id int64, input UpdateSupplierModelInput) (*models.SupplierModel, error)
	DeleteSupplierModel(ctx context.Context, id int64) error

	CreateMeasurement(ctx context.Context, input CreateMeasurementInput) (*models.Measurement, error)
	ListMeasurements(ctx context.Context) ([]models.Measurement, error)
	UpdateMeasurement(ctx context.Context, id int64, input UpdateMeasurementInput) (*models.Measurement, error)
	DeleteMeasurement(ctx context.Context, id int64) error

	CreateLink(ctx context.Context, input CreateLinkInput) (*models.Link, error)
	ListLinks(ctx context.Context) ([]models.Link, error)
	UpdateLink(ctx context.Context, id int64, input UpdateLinkInput) (*models.Link, error)
	DeleteLink(ctx context.Context, id int64) error
}

type service struct {
	repo sourcingRepository
}

// NewService builds a sourcing service backed by the provided repository.
func NewService(repo sourcingRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sourcing repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateSupplierModel(ctx context.Context, input CreateSupplierModelInput) (*models.SupplierModel, error) {
	if input.FactoryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "factory_id is required")
	}
	if strings.TrimSpace(input.FactoryModelName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "factory_model_name is required")
	}
	if input.ProductNodeID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_node_id is required")
	}

	model := &models.SupplierModel{
		FactoryID:        input.FactoryID,
		FactoryModelName: strings.TrimSpace(input.FactoryModelName),
		ProductNodeID:    input.ProductNodeID,
		ModelStatus:      input.ModelStatus,
		Notes:            input.Notes,
	}
	created, err := s.repo.CreateSupplierModel(ctx, model)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier model")
	}
	return created, nil
}

func (s *service) ListSupplierModels(ctx context.Context) ([]models.SupplierModel, error) {
	rows, err := s.repo.ListSupplierModels(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier models")
	}
	if rows == nil {
		rows = []models.SupplierModel{}
	}
	return rows, nil
}

func (s *service) UpdateSupplierModel(ctx context.Context, id int64, input UpdateSupplierModelInput) (*models.SupplierModel, error) {
	row, err := s.repo.FindSupplierModelByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier model not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup supplier model")
	}

	if input.FactoryID != nil {
		row.FactoryID = *input.FactoryID
	}
	if input.FactoryModelName != nil {
		if strings.TrimSpace(*input.FactoryModelName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "factory_model_name cannot be empty")
		}
		row.FactoryModelName = strings.TrimSpace(*input.FactoryModelName)
	}
	if input.ProductNodeID != nil {
		row.ProductNodeID = *input.ProductNodeID
	}
	if input.ModelStatus != nil {
		row.ModelStatus = input.ModelStatus
	}
	if input.Notes != nil {
		row.Notes = input.Notes
	}

	if err := s.repo.UpdateSupplierModel(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier model")
	}
	return row, nil
}

func (s *service) DeleteSupplierModel(ctx context.Context, id int64) error {
	if _, err := s.repo.FindSupplierModelByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier model not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup supplier model")
	}
	if err := s.repo.DeleteSupplierModel(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supplier model")
	}
	return nil
}

func (s *service) CreateMeasurement(ctx context.Context, input CreateMeasurementInput) (*models.Measurement, error) {
	if input.SupplierModelID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_model_id is required")
	}
	if input.ParamID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "param_id is required")
	}
	if strings.TrimSpace(input.Value) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value is required")
	}

	measurement := &models.Measurement{
		SupplierModelID: input.SupplierModelID,
		ParamID:         input.ParamID,
		Value:           strings.TrimSpace(input.Value),
		UOM:             input.UOM,
		ConditionTag:    input.ConditionTag,
	}
	if input.MeasuredAt != nil {
		measurement.MeasuredAt = *input.MeasuredAt
	}
	created, err := s.repo.CreateMeasurement(ctx, measurement)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create measurement")
	}
	return created, nil
}

func (s *service) ListMeasurements(ctx context.Context) ([]models.Measurement, error) {
	rows, err := s.repo.ListMeasurements(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list measurements")
	}
	if rows == nil {
		rows = []models.Measurement{}
	}
	return rows, nil
}

func (s *service) UpdateMeasurement(ctx context.Context, id int64, input UpdateMeasurementInput) (*models.Measurement, error) {
	row, err := s.repo.FindMeasurementByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "measurement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup measurement")
	}

	if input.SupplierModelID != nil {
		row.SupplierModelID = *input.SupplierModelID
	}
	if input.ParamID != nil {
		row.ParamID = *input.ParamID
	}
	if input.Value != nil {
		if strings.TrimSpace(*input.Value) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "value cannot be empty")
		}
		row.Value = strings.TrimSpace(*input.Value)
	}
	if input.UOM != nil {
		row.UOM = input.UOM
	}
	if input.ConditionTag != nil {
		row.ConditionTag = input.ConditionTag
	}

	if err := s.repo.UpdateMeasurement(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update measurement")
	}
	return row, nil
}

func (s *service) DeleteMeasurement(ctx context.Context, id int64) error {
	if _, err := s.repo.FindMeasurementByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "measurement not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup measurement")
	}
	if err := s.repo.DeleteMeasurement(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete measurement")
	}
	return nil
}

func (s *service) CreateLink(ctx context.Context, input CreateLinkInput) (*models.Link, error) {
	if input.CustomerModelID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_model_id is required")
	}
	if input.SupplierModelID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_model_id is required")
	}

	link := &models.Link{
		CustomerModelID: input.CustomerModelID,
		SupplierModelID: input.SupplierModelID,
		Status:          input.Status,
		Currency:        input.Currency,
		Notes:           input.Notes,
	}
	if input.LastPriceFOB != nil {
		link.LastPriceFOB = decimal.NullDecimal{Decimal: *input.LastPriceFOB, Valid: true}
	}
	created, err := s.repo.CreateLink(ctx, link)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create link")
	}
	return created, nil
}

func (s *service) ListLinks(ctx context.Context) ([]models.Link, error) {
	rows, err := s.repo.ListLinks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list links")
	}
	if rows == nil {
		rows = []models.Link{}
	}
	return rows, nil
}

func (s *service) UpdateLink(ctx context.Context, id int64, input UpdateLinkInput) (*models.Link, error) {
	row, err := s.repo.FindLinkByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup link")
	}

	if input.CustomerModelID != nil {
		row.CustomerModelID = *input.CustomerModelID
	}
	if input.SupplierModelID != nil {
		row.SupplierModelID = *input.SupplierModelID
	}
	if input.Status != nil {
		row.Status = input.Status
	}
	if input.LastPriceFOB != nil {
		row.LastPriceFOB = decimal.NullDecimal{Decimal: *input.LastPriceFOB, Valid: true}
	}
	if input.Currency != nil {
		row.Currency = input.Currency
	}
	if input.Notes != nil {
		row.Notes = input.Notes
	}

	if err := s.repo.UpdateLink(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update link")
	}
	return row, nil
}

func (s *service) DeleteLink(ctx context.Context, id int64) error {
	if _, err := s.repo.FindLinkByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup link")
	}
	if err := s.repo.DeleteLink(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete link")
	}
	return nil
}
