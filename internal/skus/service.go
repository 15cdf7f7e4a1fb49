package skus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sourcedesk/sourcedesk-backend/pkg/db"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"gorm.io/gorm"
)

type skusRepository interface {
	CreateCustomerModel(ctx context.Context, model *models.CustomerModel) (*models.CustomerModel, error)
	ListCustomerModels(ctx context.Context) ([]models.CustomerModel, error)
	FindCustomerModelByID(ctx context.Context, id int64) (*models.CustomerModel, error)
	UpdateCustomerModel(ctx context.Context, model *models.CustomerModel) error
	DeleteCustomerModel(ctx context.Context, id int64) error

	CreateAccessory(ctx context.Context, accessory *models.Accessory) (*models.Accessory, error)
	ListAccessories(ctx context.Context) ([]models.Accessory, error)
	FindAccessoryByID(ctx context.Context, id int64) (*models.Accessory, error)
	UpdateAccessory(ctx context.Context, accessory *models.Accessory) error
	DeleteAccessory(ctx context.Context, id int64) error

	CreateAttachment(ctx context.Context, attachment *models.CustomerModelAccessory) (*models.CustomerModelAccessory, error)
	ListAttachments(ctx context.Context) ([]models.CustomerModelAccessory, error)
	FindAttachmentByID(ctx context.Context, id int64) (*models.CustomerModelAccessory, error)
	UpdateAttachment(ctx context.Context, attachment *models.CustomerModelAccessory) error
	DeleteAttachment(ctx context.Context, id int64) error
}

// CreateCustomerModelInput holds the fields accepted when creating a SKU.
type CreateCustomerModelInput struct {
	CustomerSKU        string  `json:"customer_sku" validate:"required"`
	Name               string  `json:"name" validate:"required"`
	ProductNodeID      int64   `json:"product_node_id" validate:"required,gt=0"`
	BMRequirementsText *string `json:"bm_requirements_text"`
	Status             *string `json:"status"`
}

// UpdateCustomerModelInput carries optional fields for a partial SKU update.
type UpdateCustomerModelInput struct {
	CustomerSKU        *string `json:"customer_sku"`
	Name               *string `json:"name"`
	ProductNodeID      *int64  `json:"product_node_id"`
	BMRequirementsText *string `json:"bm_requirements_text"`
	Status             *string `json:"status"`
}

// CreateAccessoryInput holds the fields accepted when creating an accessory.
type CreateAccessoryInput struct {
	PartNumber    string  `json:"part_number" validate:"required"`
	AccessoryName string  `json:"accessory_name" validate:"required"`
	AccessorySpec *string `json:"accessory_spec"`
	FactoryID     *int64  `json:"factory_id"`
	Status        *string `json:"status"`
}

// UpdateAccessoryInput carries optional fields for a partial accessory update.
type UpdateAccessoryInput struct {
	PartNumber    *string `json:"part_number"`
	AccessoryName *string `json:"accessory_name"`
	AccessorySpec *string `json:"accessory_spec"`
	FactoryID     *int64  `json:"factory_id"`
	Status        *string `json:"status"`
}

// CreateAttachmentInput attaches an accessory to a customer model.
type CreateAttachmentInput struct {
	CustomerModelID int64   `json:"customer_model_id" validate:"required,gt=0"`
	AccessoryID     int64   `json:"accessory_id" validate:"required,gt=0"`
	Qty             int     `json:"qty"`
	Notes           *string `json:"notes"`
}

// UpdateAttachmentInput carries optional fields for a partial attachment update.
type UpdateAttachmentInput struct {
	CustomerModelID *int64  `json:"customer_model_id"`
	AccessoryID     *int64  `json:"accessory_id"`
	Qty             *int    `json:"qty"`
	Notes           *string `json:"notes"`
}

// Service exposes customer model, accessory and attachment semantics.
type Service interface {
	CreateCustomerModel(ctx context.Context, input CreateCustomerModelInput) (*models.CustomerModel, error)
	ListCustomerModels(ctx context.Context) ([]models.CustomerModel, error)
	UpdateCustomerModel(ctx context.Context, id int64, input UpdateCustomerModelInput) (*models.CustomerModel, error)
	DeleteCustomerModel(ctx context.Context, id int64) error

	CreateAccessory(ctx context.Context, input CreateAccessoryInput) (*models.Accessory, error)
	ListAccessories(ctx context.Context) ([]models.Accessory, error)
	UpdateAccessory(ctx context.Context, id int64, input UpdateAccessoryInput) (*models.Accessory, error)
	DeleteAccessory(ctx context.Context, id int64) error

	CreateAttachment(ctx context.Context, input CreateAttachmentInput) (*models.CustomerModelAccessory, error)
	ListAttachments(ctx context.Context) ([]models.CustomerModelAccessory, error)
	UpdateAttachment(ctx context.Context, id int64, input UpdateAttachmentInput) (*models.CustomerModelAccessory, error)
	DeleteAttachment(ctx context.Context, id int64) error
}

type service struct {
	repo skusRepository
}

// NewService builds a SKU service backed by the provided repository.
func NewService(repo skusRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sku repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCustomerModel(ctx context.Context, input CreateCustomerModelInput) (*models.CustomerModel, error) {
	if strings.TrimSpace(input.CustomerSKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.ProductNodeID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_node_id is required")
	}

	model := &models.CustomerModel{
		CustomerSKU:        strings.TrimSpace(input.CustomerSKU),
		Name:               strings.TrimSpace(input.Name),
		ProductNodeID:      input.ProductNodeID,
		BMRequirementsText: input.BMRequirementsText,
		Status:             input.Status,
	}
	created, err := s.repo.CreateCustomerModel(ctx, model)
	if err != nil {
		if db.IsUniqueViolation(err, "customer_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer_sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer model")
	}
	return created, nil
}

func (s *service) ListCustomerModels(ctx context.Context) ([]models.CustomerModel, error) {
	rows, err := s.repo.ListCustomerModels(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer models")
	}
	if rows == nil {
		rows = []models.CustomerModel{}
	}
	return rows, nil
}

func (s *service) UpdateCustomerModel(ctx context.Context, id int64, input UpdateCustomerModelInput) (*models.CustomerModel, error) {
	row, err := s.repo.FindCustomerModelByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer model not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer model")
	}

	if input.CustomerSKU != nil {
		if strings.TrimSpace(*input.CustomerSKU) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_sku cannot be empty")
		}
		row.CustomerSKU = strings.TrimSpace(*input.CustomerSKU)
	}
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.ProductNodeID != nil {
		row.ProductNodeID = *input.ProductNodeID
	}
	if input.BMRequirementsText != nil {
		row.BMRequirementsText = input.BMRequirementsText
	}
	if input.Status != nil {
		row.Status = input.Status
	}

	if err := s.repo.UpdateCustomerModel(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "customer_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer_sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer model")
	}
	return row, nil
}

func (s *service) DeleteCustomerModel(ctx context.Context, id int64) error {
	if _, err := s.repo.FindCustomerModelByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer model not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer model")
	}
	if err := s.repo.DeleteCustomerModel(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer model")
	}
	return nil
}

func (s *service) CreateAccessory(ctx context.Context, input CreateAccessoryInput) (*models.Accessory, error) {
	if strings.TrimSpace(input.PartNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part_number is required")
	}
	if strings.TrimSpace(input.AccessoryName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "accessory_name is required")
	}

	accessory := &models.Accessory{
		PartNumber:    strings.TrimSpace(input.PartNumber),
		AccessoryName: strings.TrimSpace(input.AccessoryName),
		AccessorySpec: input.AccessorySpec,
		FactoryID:     input.FactoryID,
		Status:        input.Status,
	}
	created, err := s.repo.CreateAccessory(ctx, accessory)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create accessory")
	}
	return created, nil
}

func (s *service) ListAccessories(ctx context.Context) ([]models.Accessory, error) {
	rows, err := s.repo.ListAccessories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accessories")
	}
	if rows == nil {
		rows = []models.Accessory{}
	}
	return rows, nil
}

func (s *service) UpdateAccessory(ctx context.Context, id int64, input UpdateAccessoryInput) (*models.Accessory, error) {
	row, err := s.repo.FindAccessoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "accessory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup accessory")
	}

	if input.PartNumber != nil {
		if strings.TrimSpace(*input.PartNumber) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "part_number cannot be empty")
		}
		row.PartNumber = strings.TrimSpace(*input.PartNumber)
	}
	if input.AccessoryName != nil {
		row.AccessoryName = strings.TrimSpace(*input.AccessoryName)
	}
	if input.AccessorySpec != nil {
		row.AccessorySpec = input.AccessorySpec
	}
	if input.FactoryID != nil {
		row.FactoryID = input.FactoryID
	}
	if input.Status != nil {
		row.Status = input.Status
	}

	if err := s.repo.UpdateAccessory(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update accessory")
	}
	return row, nil
}

func (s *service) DeleteAccessory(ctx context.Context, id int64) error {
	if _, err := s.repo.FindAccessoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "accessory not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup accessory")
	}
	if err := s.repo.DeleteAccessory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete accessory")
	}
	return nil
}

func (s *service) CreateAttachment(ctx context.Context, input CreateAttachmentInput) (*models.CustomerModelAccessory, error) {
	if input.CustomerModelID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_model_id is required")
	}
	if input.AccessoryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "accessory_id is required")
	}
	qty := input.Qty
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}

	attachment := &models.CustomerModelAccessory{
		CustomerModelID: input.CustomerModelID,
		AccessoryID:     input.AccessoryID,
		Qty:             qty,
		Notes:           input.Notes,
	}
	created, err := s.repo.CreateAttachment(ctx, attachment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer model accessory")
	}
	return created, nil
}

func (s *service) ListAttachments(ctx context.Context) ([]models.CustomerModelAccessory, error) {
	rows, err := s.repo.ListAttachments(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer model accessories")
	}
	if rows == nil {
		rows = []models.CustomerModelAccessory{}
	}
	return rows, nil
}

func (s *service) UpdateAttachment(ctx context.Context, id int64, input UpdateAttachmentInput) (*models.CustomerModelAccessory, error) {
	row, err := s.repo.FindAttachmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer model accessory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer model accessory")
	}

	if input.CustomerModelID != nil {
		row.CustomerModelID = *input.CustomerModelID
	}
	if input.AccessoryID != nil {
		row.AccessoryID = *input.AccessoryID
	}
	if input.Qty != nil {
		if *input.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
		}
		row.Qty = *input.Qty
	}
	if input.Notes != nil {
		row.Notes = input.Notes
	}

	if err := s.repo.UpdateAttachment(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer model accessory")
	}
	return row, nil
}

func (s *service) DeleteAttachment(ctx context.Context, id int64) error {
	if _, err := s.repo.FindAttachmentByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer model accessory not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer model accessory")
	}
	if err := s.repo.DeleteAttachment(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer model accessory")
	}
	return nil
}
