package skus

import (
	"context"

	"github.com/sourcedesk/sourcedesk-backend/internal/repo"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence for customer models, accessories and the
// model-accessory attachments.
type Repository struct {
	repo.Base
}

// NewRepository constructs a SKU repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// --- customer models ---

func (r *Repository) CreateCustomerModel(ctx context.Context, model *models.CustomerModel) (*models.CustomerModel, error) {
	if err := r.DB(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return model, nil
}

func (r *Repository) ListCustomerModels(ctx context.Context) ([]models.CustomerModel, error) {
	var rows []models.CustomerModel
	if err := r.DB(ctx).Order("customer_model_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindCustomerModelByID(ctx context.Context, id int64) (*models.CustomerModel, error) {
	var row models.CustomerModel
	if err := r.DB(ctx).First(&row, "customer_model_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateCustomerModel(ctx context.Context, model *models.CustomerModel) error {
	return r.DB(ctx).Save(model).Error
}

func (r *Repository) DeleteCustomerModel(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.CustomerModel{}, "customer_model_id = ?", id).Error
}

// --- accessories ---

func (r *Repository) CreateAccessory(ctx context.Context, accessory *models.Accessory) (*models.Accessory, error) {
	if err := r.DB(ctx).Create(accessory).Error; err != nil {
		return nil, err
	}
	return accessory, nil
}

func (r *Repository) ListAccessories(ctx context.Context) ([]models.Accessory, error) {
	var rows []models.Accessory
	if err := r.DB(ctx).Order("accessory_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindAccessoryByID(ctx context.Context, id int64) (*models.Accessory, error) {
	var row models.Accessory
	if err := r.DB(ctx).First(&row, "accessory_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateAccessory(ctx context.Context, accessory *models.Accessory) error {
	return r.DB(ctx).Save(accessory).Error
}

func (r *Repository) DeleteAccessory(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.Accessory{}, "accessory_id = ?", id).Error
}

// --- model-accessory attachments ---

func (r *Repository) CreateAttachment(ctx context.Context, attachment *models.CustomerModelAccessory) (*models.CustomerModelAccessory, error) {
	if err := r.DB(ctx).Create(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

func (r *Repository) ListAttachments(ctx context.Context) ([]models.CustomerModelAccessory, error) {
	var rows []models.CustomerModelAccessory
	if err := r.DB(ctx).Order("customer_accessory_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAttachmentsByCustomerModel returns the accessories attached to one
// customer model in stored order.
func (r *Repository) ListAttachmentsByCustomerModel(ctx context.Context, customerModelID int64) ([]models.CustomerModelAccessory, error) {
	var rows []models.CustomerModelAccessory
	err := r.DB(ctx).
		Where("customer_model_id = ?", customerModelID).
		Order("customer_accessory_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindAttachmentByID(ctx context.Context, id int64) (*models.CustomerModelAccessory, error) {
	var row models.CustomerModelAccessory
	if err := r.DB(ctx).First(&row, "customer_accessory_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateAttachment(ctx context.Context, attachment *models.CustomerModelAccessory) error {
	return r.DB(ctx).Save(attachment).Error
}

func (r *Repository) DeleteAttachment(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.CustomerModelAccessory{}, "customer_accessory_id = ?", id).Error
}
