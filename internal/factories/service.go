package factories

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

type factoriesRepository interface {
	Create(ctx context.Context, factory *models.Factory) (*models.Factory, error)
	List(ctx context.Context) ([]models.Factory, error)
	FindByID(ctx context.Context, id int64) (*models.Factory, error)
	Update(ctx context.Context, factory *models.Factory) error
	Delete(ctx context.Context, id int64) error
}

// CreateFactoryInput holds the fields accepted when registering a factory.
type CreateFactoryInput struct {
	FactoryCode string `json:"factory_code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	AuditScore  *int   `json:"audit_score"`
	RiskScore   *int   `json:"risk_score"`
}

// UpdateFactoryInput carries optional fields for a partial factory update.
// Nil fields are left untouched.
type UpdateFactoryInput struct {
	FactoryCode *string `json:"factory_code"`
	Name        *string `json:"name"`
	AuditScore  *int    `json:"audit_score"`
	RiskScore   *int    `json:"risk_score"`
}

// Service exposes factory CRUD semantics.
type Service interface {
	CreateFactory(ctx context.Context, input CreateFactoryInput) (*models.Factory, error)
	ListFactories(ctx context.Context) ([]models.Factory, error)
	GetFactory(ctx context.Context, id int64) (*models.Factory, error)
	UpdateFactory(ctx context.Context, id int64, input UpdateFactoryInput) (*models.Factory, error)
	DeleteFactory(ctx context.Context, id int64) error
}

type service struct {
	repo factoriesRepository
}

// NewService builds a factory service backed by the provided repository.
func NewService(repo factoriesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("factory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateFactory(ctx context.Context, input CreateFactoryInput) (*models.Factory, error) {
	if strings.TrimSpace(input.FactoryCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "factory_code is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	factory := &models.Factory{
		FactoryCode: strings.TrimSpace(input.FactoryCode),
		Name:        strings.TrimSpace(input.Name),
		AuditScore:  input.AuditScore,
		RiskScore:   input.RiskScore,
	}
	created, err := s.repo.Create(ctx, factory)
	if err != nil {
		if db.IsUniqueViolation(err, "factory_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "factory_code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create factory")
	}
	return created, nil
}

func (s *service) ListFactories(ctx context.Context) ([]models.Factory, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list factories")
	}
	if rows == nil {
		rows = []models.Factory{}
	}
	return rows, nil
}

func (s *service) GetFactory(ctx context.Context, id int64) (*models.Factory, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "factory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup factory")
	}
	return row, nil
}

func (s *service) UpdateFactory(ctx context.Context, id int64, input UpdateFactoryInput) (*models.Factory, error) {
	row, err := s.GetFactory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FactoryCode != nil {
		if strings.TrimSpace(*input.FactoryCode) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "factory_code cannot be empty")
		}
		row.FactoryCode = strings.TrimSpace(*input.FactoryCode)
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.AuditScore != nil {
		row.AuditScore = input.AuditScore
	}
	if input.RiskScore != nil {
		row.RiskScore = input.RiskScore
	}

	if err := s.repo.Update(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "factory_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "factory_code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update factory")
	}
	return row, nil
}

func (s *service) DeleteFactory(ctx context.Context, id int64) error {
	if _, err := s.GetFactory(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete factory")
	}
	return nil
}
