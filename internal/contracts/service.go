package contracts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sourcedesk/sourcedesk-backend/internal/catalog"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"gorm.io/gorm"
)

type contractsRepository interface {
	CreateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error)
	ListContracts(ctx context.Context) ([]models.Contract, error)
	FindContractByID(ctx context.Context, id int64) (*models.Contract, error)
	UpdateContract(ctx context.Context, contract *models.Contract) error

	CreateContractLine(ctx context.Context, line *models.ContractLine) (*models.ContractLine, error)
	ListContractLines(ctx context.Context) ([]models.ContractLine, error)
	ListContractLinesByContract(ctx context.Context, contractID int64) ([]models.ContractLine, error)
	FindContractLineByID(ctx context.Context, id int64) (*models.ContractLine, error)
	UpdateContractLine(ctx context.Context, line *models.ContractLine) error

	ListTechTasks(ctx context.Context) ([]models.TechTask, error)
	CreateTechTaskVersioned(ctx context.Context, contractID int64, render func(version int) string) (*models.TechTask, error)
}

type linksRepository interface {
	FindLinkByID(ctx context.Context, id int64) (*models.Link, error)
}

type customerModelsRepository interface {
	FindCustomerModelByID(ctx context.Context, id int64) (*models.CustomerModel, error)
	ListAttachmentsByCustomerModel(ctx context.Context, customerModelID int64) ([]models.CustomerModelAccessory, error)
	FindAccessoryByID(ctx context.Context, id int64) (*models.Accessory, error)
}

type supplierModelsRepository interface {
	FindSupplierModelByID(ctx context.Context, id int64) (*models.SupplierModel, error)
	LatestMeasurement(ctx context.Context, supplierModelID, paramID int64) (*models.Measurement, error)
}

type factoriesRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Factory, error)
}

type catalogResolver interface {
	EffectiveParams(ctx context.Context, productNodeID int64) ([]catalog.EffectiveParam, error)
	EffectiveMethods(ctx context.Context, productNodeID int64) ([]models.TestMethod, error)
	FirstToleranceForParam(ctx context.Context, paramID int64) (*models.Tolerance, error)
}

// CreateContractInput holds the fields accepted when opening a contract.
type CreateContractInput struct {
	ContractCode       string  `json:"contract_code" validate:"required"`
	FactoryID          int64   `json:"factory_id" validate:"required,gt=0"`
	Status             *string `json:"status"`
	PaymentData        *string `json:"payment_data"`
	BankData           *string `json:"bank_data"`
	SignedContractFile *string `json:"signed_contract_file"`
}

// UpdateContractInput carries optional fields for a partial contract update.
type UpdateContractInput struct {
	ContractCode       *string `json:"contract_code"`
	FactoryID          *int64  `json:"factory_id"`
	Status             *string `json:"status"`
	PaymentData        *string `json:"payment_data"`
	BankData           *string `json:"bank_data"`
	SignedContractFile *string `json:"signed_contract_file"`
}

// CreateContractLineInput holds the fields accepted when adding a position.
type CreateContractLineInput struct {
	ContractID   int64            `json:"contract_id" validate:"required,gt=0"`
	LinkID       int64            `json:"link_id" validate:"required,gt=0"`
	Qty          int              `json:"qty" validate:"required,gt=0"`
	Region       *string          `json:"region"`
	DeliveryDate *time.Time       `json:"delivery_date"`
	Price        *decimal.Decimal `json:"price"`
	Currency     *string          `json:"currency"`
}

// UpdateContractLineInput carries optional fields for a partial line update.
type UpdateContractLineInput struct {
	ContractID   *int64           `json:"contract_id"`
	LinkID       *int64           `json:"link_id"`
	Qty          *int             `json:"qty"`
	Region       *string          `json:"region"`
	DeliveryDate *time.Time       `json:"delivery_date"`
	Price        *decimal.Decimal `json:"price"`
	Currency     *string          `json:"currency"`
}

// TechTaskResult is the payload returned by document generation.
type TechTaskResult struct {
	TechTaskID int64  `json:"tech_task_id"`
	Version    int    `json:"version"`
	Content    string `json:"content"`
}

// Service exposes contract CRUD and the tech-task document operations.
type Service interface {
	CreateContract(ctx context.Context, input CreateContractInput) (*models.Contract, error)
	ListContracts(ctx context.Context) ([]models.Contract, error)
	UpdateContract(ctx context.Context, id int64, input UpdateContractInput) (*models.Contract, error)

	CreateContractLine(ctx context.Context, input CreateContractLineInput) (*models.ContractLine, error)
	ListContractLines(ctx context.Context) ([]models.ContractLine, error)
	UpdateContractLine(ctx context.Context, id int64, input UpdateContractLineInput) (*models.ContractLine, error)

	ListTechTasks(ctx context.Context) ([]models.TechTask, error)
	GenerateTechTask(ctx context.Context, contractID int64) (*TechTaskResult, error)
}

type service struct {
	repo           contractsRepository
	links          linksRepository
	customerModels customerModelsRepository
	supplierModels supplierModelsRepository
	factories      factoriesRepository
	catalog        catalogResolver
	now            func() time.Time
}

// NewService builds a contract service backed by the provided repositories.
func NewService(repo contractsRepository, links linksRepository, customerModels customerModelsRepository, supplierModels supplierModelsRepository, factories factoriesRepository, resolver catalogResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contract repository required")
	}
	if links == nil {
		return nil, fmt.Errorf("link repository required")
	}
	if customerModels == nil {
		return nil, fmt.Errorf("customer model repository required")
	}
	if supplierModels == nil {
		return nil, fmt.Errorf("supplier model repository required")
	}
	if factories == nil {
		return nil, fmt.Errorf("factory repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	return &service{
		repo:           repo,
		links:          links,
		customerModels: customerModels,
		supplierModels: supplierModels,
		factories:      factories,
		catalog:        resolver,
		now:            func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) CreateContract(ctx context.Context, input CreateContractInput) (*models.Contract, error) {
	if strings.TrimSpace(input.ContractCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract_code is required")
	}
	if input.FactoryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "factory_id is required")
	}

	contract := &models.Contract{
		ContractCode:       strings.TrimSpace(input.ContractCode),
		FactoryID:          input.FactoryID,
		Status:             input.Status,
		PaymentData:        input.PaymentData,
		BankData:           input.BankData,
		SignedContractFile: input.SignedContractFile,
	}
	created, err := s.repo.CreateContract(ctx, contract)
	if err != nil {
		if db.IsUniqueViolation(err, "contract_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "contract_code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contract")
	}
	return created, nil
}

func (s *service) ListContracts(ctx context.Context) ([]models.Contract, error) {
	rows, err := s.repo.ListContracts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contracts")
	}
	if rows == nil {
		rows = []models.Contract{}
	}
	return rows, nil
}

func (s *service) UpdateContract(ctx context.Context, id int64, input UpdateContractInput) (*models.Contract, error) {
	row, err := s.findContract(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ContractCode != nil {
		if strings.TrimSpace(*input.ContractCode) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract_code cannot be empty")
		}
		row.ContractCode = strings.TrimSpace(*input.ContractCode)
	}
	if input.FactoryID != nil {
		row.FactoryID = *input.FactoryID
	}
	if input.Status != nil {
		row.Status = input.Status
	}
	if input.PaymentData != nil {
		row.PaymentData = input.PaymentData
	}
	if input.BankData != nil {
		row.BankData = input.BankData
	}
	if input.SignedContractFile != nil {
		row.SignedContractFile = input.SignedContractFile
	}

	if err := s.repo.UpdateContract(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "contract_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "contract_code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contract")
	}
	return row, nil
}

func (s *service) CreateContractLine(ctx context.Context, input CreateContractLineInput) (*models.ContractLine, error) {
	if input.ContractID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract_id is required")
	}
	if input.LinkID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "link_id is required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}

	line := &models.ContractLine{
		ContractID:   input.ContractID,
		LinkID:       input.LinkID,
		Qty:          input.Qty,
		Region:       input.Region,
		DeliveryDate: input.DeliveryDate,
		Currency:     input.Currency,
	}
	if input.Price != nil {
		line.Price = decimal.NullDecimal{Decimal: *input.Price, Valid: true}
	}
	created, err := s.repo.CreateContractLine(ctx, line)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contract line")
	}
	return created, nil
}

func (s *service) ListContractLines(ctx context.Context) ([]models.ContractLine, error) {
	rows, err := s.repo.ListContractLines(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contract lines")
	}
	if rows == nil {
		rows = []models.ContractLine{}
	}
	return rows, nil
}

func (s *service) UpdateContractLine(ctx context.Context, id int64, input UpdateContractLineInput) (*models.ContractLine, error) {
	row, err := s.repo.FindContractLineByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup contract line")
	}

	if input.ContractID != nil {
		row.ContractID = *input.ContractID
	}
	if input.LinkID != nil {
		row.LinkID = *input.LinkID
	}
	if input.Qty != nil {
		if *input.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
		}
		row.Qty = *input.Qty
	}
	if input.Region != nil {
		row.Region = input.Region
	}
	if input.DeliveryDate != nil {
		row.DeliveryDate = input.DeliveryDate
	}
	if input.Price != nil {
		row.Price = decimal.NullDecimal{Decimal: *input.Price, Valid: true}
	}
	if input.Currency != nil {
		row.Currency = input.Currency
	}

	if err := s.repo.UpdateContractLine(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contract line")
	}
	return row, nil
}

func (s *service) ListTechTasks(ctx context.Context) ([]models.TechTask, error) {
	rows, err := s.repo.ListTechTasks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tech tasks")
	}
	if rows == nil {
		rows = []models.TechTask{}
	}
	return rows, nil
}

func (s *service) findContract(ctx context.Context, id int64) (*models.Contract, error) {
	row, err := s.repo.FindContractByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup contract")
	}
	return row, nil
}
