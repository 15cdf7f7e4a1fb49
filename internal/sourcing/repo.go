package sourcing

import (
	"context"

	"github.com/sourcedesk/sourcedesk-backend/internal/repo"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence for supplier models, their measurement
// history and customer-supplier links.
type Repository struct {
	repo.Base
}

// NewRepository constructs a sourcing repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// --- supplier models ---

func (r *Repository) CreateSupplierModel(ctx context.Context, model *models.SupplierModel) (*models.SupplierModel, error) {
	if err := r.DB(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return model, nil
}

func (r *Repository) ListSupplierModels(ctx context.Context) ([]models.SupplierModel, error) {
	var rows []models.SupplierModel
	if err := r.DB(ctx).Order("supplier_model_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindSupplierModelByID(ctx context.Context, id int64) (*models.SupplierModel, error) {
	var row models.SupplierModel
	if err := r.DB(ctx).First(&row, "supplier_model_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateSupplierModel(ctx context.Context, model *models.SupplierModel) error {
	return r.DB(ctx).Save(model).Error
}

func (r *Repository) DeleteSupplierModel(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.SupplierModel{}, "supplier_model_id = ?", id).Error
}

// --- measurements ---

func (r *Repository) CreateMeasurement(ctx context.Context, measurement *models.Measurement) (*models.Measurement, error) {
	if err := r.DB(ctx).Create(measurement).Error; err != nil {
		return nil, err
	}
	return measurement, nil
}

func (r *Repository) ListMeasurements(ctx context.Context) ([]models.Measurement, error) {
	var rows []models.Measurement
	if err := r.DB(ctx).Order("measurement_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindMeasurementByID(ctx context.Context, id int64) (*models.Measurement, error) {
	var row models.Measurement
	if err := r.DB(ctx).First(&row, "measurement_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateMeasurement(ctx context.Context, measurement *models.Measurement) error {
	return r.DB(ctx).Save(measurement).Error
}

func (r *Repository) DeleteMeasurement(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.Measurement{}, "measurement_id = ?", id).Error
}

// LatestMeasurement returns the most recent measurement for a supplier model
// and parameter, ties broken by measurement id. gorm.ErrRecordNotFound when
// the pair has no history.
func (r *Repository) LatestMeasurement(ctx context.Context, supplierModelID, paramID int64) (*models.Measurement, error) {
	var row models.Measurement
	err := r.DB(ctx).
		Where("supplier_model_id = ? AND param_id = ?", supplierModelID, paramID).
		Order("measured_at DESC").
		Order("measurement_id DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// --- links ---

func (r *Repository) CreateLink(ctx context.Context, link *models.Link) (*models.Link, error) {
	if err := r.DB(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *Repository) ListLinks(ctx context.Context) ([]models.Link, error) {
	var rows []models.Link
	if err := r.DB(ctx).Order("link_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindLinkByID(ctx context.Context, id int64) (*models.Link, error) {
	var row models.Link
	if err := r.DB(ctx).First(&row, "link_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateLink(ctx context.Context, link *models.Link) error {
	return r.DB(ctx).Save(link).Error
}

func (r *Repository) DeleteLink(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.Link{}, "link_id = ?", id).Error
}
