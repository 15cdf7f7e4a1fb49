package contracts

import (
	"context"
	"database/sql"

	"github.com/sourcedesk/sourcedesk-backend/internal/repo"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence for contracts, contract lines and generated
// tech tasks.
type Repository struct {
	repo.Base
}

// NewRepository constructs a contract repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// --- contracts ---

func (r *Repository) CreateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	if err := r.DB(ctx).Create(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

func (r *Repository) ListContracts(ctx context.Context) ([]models.Contract, error) {
	var rows []models.Contract
	if err := r.DB(ctx).Order("contract_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindContractByID(ctx context.Context, id int64) (*models.Contract, error) {
	var row models.Contract
	if err := r.DB(ctx).First(&row, "contract_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateContract(ctx context.Context, contract *models.Contract) error {
	return r.DB(ctx).Save(contract).Error
}

// --- contract lines ---

func (r *Repository) CreateContractLine(ctx context.Context, line *models.ContractLine) (*models.ContractLine, error) {
	if err := r.DB(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

func (r *Repository) ListContractLines(ctx context.Context) ([]models.ContractLine, error) {
	var rows []models.ContractLine
	if err := r.DB(ctx).Order("contract_line_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListContractLinesByContract(ctx context.Context, contractID int64) ([]models.ContractLine, error) {
	var rows []models.ContractLine
	err := r.DB(ctx).
		Where("contract_id = ?", contractID).
		Order("contract_line_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindContractLineByID(ctx context.Context, id int64) (*models.ContractLine, error) {
	var row models.ContractLine
	if err := r.DB(ctx).First(&row, "contract_line_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateContractLine(ctx context.Context, line *models.ContractLine) error {
	return r.DB(ctx).Save(line).Error
}

// --- tech tasks ---

func (r *Repository) ListTechTasks(ctx context.Context) ([]models.TechTask, error) {
	var rows []models.TechTask
	if err := r.DB(ctx).Order("tech_task_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateTechTaskVersioned assigns the next per-contract version and inserts
// the rendered document in one transaction. The unique index on
// (contract_id, version) surfaces concurrent generations as an insert error
// for the caller to retry.
func (r *Repository) CreateTechTaskVersioned(ctx context.Context, contractID int64, render func(version int) string) (*models.TechTask, error) {
	var task *models.TechTask
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		var max sql.NullInt64
		err := tx.Model(&models.TechTask{}).
			Where("contract_id = ?", contractID).
			Select("MAX(version)").
			Scan(&max).Error
		if err != nil {
			return err
		}

		version := int(max.Int64) + 1
		status := "generated"
		task = &models.TechTask{
			ContractID: contractID,
			Version:    version,
			Status:     &status,
			Content:    render(version),
		}
		return tx.Create(task).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
