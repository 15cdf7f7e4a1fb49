package compare

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sourcedesk/sourcedesk-backend/internal/repo"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence for comparison tables and their lines.
type Repository struct {
	repo.Base
}

// NewRepository constructs a compare repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// --- compare tables ---

func (r *Repository) CreateTable(ctx context.Context, table *models.CompareTable) (*models.CompareTable, error) {
	if err := r.DB(ctx).Create(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}

func (r *Repository) ListTables(ctx context.Context) ([]models.CompareTable, error) {
	var rows []models.CompareTable
	if err := r.DB(ctx).Order("compare_table_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindTableByID(ctx context.Context, id int64) (*models.CompareTable, error) {
	var row models.CompareTable
	if err := r.DB(ctx).First(&row, "compare_table_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateTable(ctx context.Context, table *models.CompareTable) error {
	return r.DB(ctx).Save(table).Error
}

// --- compare table lines ---

func (r *Repository) CreateLine(ctx context.Context, line *models.CompareTableLine) (*models.CompareTableLine, error) {
	if err := r.DB(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

func (r *Repository) ListLines(ctx context.Context) ([]models.CompareTableLine, error) {
	var rows []models.CompareTableLine
	if err := r.DB(ctx).Order("compare_line_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindLineByID(ctx context.Context, id int64) (*models.CompareTableLine, error) {
	var row models.CompareTableLine
	if err := r.DB(ctx).First(&row, "compare_line_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateLine(ctx context.Context, line *models.CompareTableLine) error {
	return r.DB(ctx).Save(line).Error
}

// CandidateRow is one resolved comparison candidate: the line's link joined
// through to its supplier model and factory.
type CandidateRow struct {
	LinkID          int64               `gorm:"column:link_id" json:"link_id"`
	SupplierModelID int64               `gorm:"column:supplier_model_id" json:"supplier_model_id"`
	FactoryName     string              `gorm:"column:factory_name" json:"factory_name"`
	Status          *string             `gorm:"column:status" json:"status"`
	LastPriceFOB    decimal.NullDecimal `gorm:"column:last_price_fob" json:"last_price_fob"`
	Currency        *string             `gorm:"column:currency" json:"currency"`
}

// CandidateRows resolves the table's lines in stored line order.
func (r *Repository) CandidateRows(ctx context.Context, compareTableID int64) ([]CandidateRow, error) {
	var rows []CandidateRow
	err := r.DB(ctx).
		Table("compare_table_lines AS ctl").
		Select("l.link_id, l.supplier_model_id, f.name AS factory_name, l.status, l.last_price_fob, l.currency").
		Joins("JOIN links l ON l.link_id = ctl.link_id").
		Joins("JOIN supplier_models sm ON sm.supplier_model_id = l.supplier_model_id").
		Joins("JOIN factories f ON f.factory_id = sm.factory_id").
		Where("ctl.compare_table_id = ?", compareTableID).
		Order("ctl.compare_line_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
