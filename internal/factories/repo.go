package factories

import (
	"context"

	"github.com/sourcedesk/sourcedesk-backend/internal/repo"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes factory persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a factory repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new factory row.
func (r *Repository) Create(ctx context.Context, factory *models.Factory) (*models.Factory, error) {
	if err := r.DB(ctx).Create(factory).Error; err != nil {
		return nil, err
	}
	return factory, nil
}

// List returns all factories ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Factory, error) {
	var rows []models.Factory
	if err := r.DB(ctx).Order("factory_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns the factory with the given id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Factory, error) {
	var row models.Factory
	if err := r.DB(ctx).First(&row, "factory_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists all columns of the provided factory row.
func (r *Repository) Update(ctx context.Context, factory *models.Factory) error {
	return r.DB(ctx).Save(factory).Error
}

// Delete removes the factory row with the given id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.Factory{}, "factory_id = ?", id).Error
}
