package compare

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sourcedesk/sourcedesk-backend/internal/catalog"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"gorm.io/gorm"
)

type compareRepository interface {
	CreateTable(ctx context.Context, table *models.CompareTable) (*models.CompareTable, error)
	ListTables(ctx context.Context) ([]models.CompareTable, error)
	FindTableByID(ctx context.Context, id int64) (*models.CompareTable, error)
	UpdateTable(ctx context.Context, table *models.CompareTable) error

	CreateLine(ctx context.Context, line *models.CompareTableLine) (*models.CompareTableLine, error)
	ListLines(ctx context.Context) ([]models.CompareTableLine, error)
	FindLineByID(ctx context.Context, id int64) (*models.CompareTableLine, error)
	UpdateLine(ctx context.Context, line *models.CompareTableLine) error

	CandidateRows(ctx context.Context, compareTableID int64) ([]CandidateRow, error)
}

type customerModelsRepository interface {
	FindCustomerModelByID(ctx context.Context, id int64) (*models.CustomerModel, error)
}

type paramsResolver interface {
	EffectiveParams(ctx context.Context, productNodeID int64) ([]catalog.EffectiveParam, error)
}

type measurementsRepository interface {
	LatestMeasurement(ctx context.Context, supplierModelID, paramID int64) (*models.Measurement, error)
}

// CreateTableInput holds the fields accepted when opening a comparison.
type CreateTableInput struct {
	CustomerModelID int64   `json:"customer_model_id" validate:"required,gt=0"`
	Status          *string `json:"status"`
}

// UpdateTableInput carries optional fields for a partial table update.
type UpdateTableInput struct {
	CustomerModelID *int64  `json:"customer_model_id"`
	Status          *string `json:"status"`
}

// CreateLineInput adds a candidate link to a comparison.
type CreateLineInput struct {
	CompareTableID   int64   `json:"compare_table_id" validate:"required,gt=0"`
	LinkID           int64   `json:"link_id" validate:"required,gt=0"`
	EngineerPriority *int    `json:"engineer_priority"`
	EngineerComments *string `json:"engineer_comments"`
}

// UpdateLineInput carries optional fields for a partial line update.
type UpdateLineInput struct {
	CompareTableID   *int64  `json:"compare_table_id"`
	LinkID           *int64  `json:"link_id"`
	EngineerPriority *int    `json:"engineer_priority"`
	EngineerComments *string `json:"engineer_comments"`
}

// MatrixRow is one candidate of the comparison matrix. Values is keyed by the
// decimal string form of the param id; a nil value means no measurement.
type MatrixRow struct {
	CandidateRow
	Values map[string]*string `json:"values"`
}

// Matrix pairs the effective params of the table's customer model with the
// measured values of every candidate.
type Matrix struct {
	Params []catalog.EffectiveParam `json:"params"`
	Rows   []MatrixRow              `json:"rows"`
}

// Service exposes comparison table semantics: CRUD, the matrix build and the
// send-to-engineer transition.
type Service interface {
	CreateTable(ctx context.Context, input CreateTableInput) (*models.CompareTable, error)
	ListTables(ctx context.Context) ([]models.CompareTable, error)
	UpdateTable(ctx context.Context, id int64, input UpdateTableInput) (*models.CompareTable, error)

	CreateLine(ctx context.Context, input CreateLineInput) (*models.CompareTableLine, error)
	ListLines(ctx context.Context) ([]models.CompareTableLine, error)
	UpdateLine(ctx context.Context, id int64, input UpdateLineInput) (*models.CompareTableLine, error)

	BuildMatrix(ctx context.Context, compareTableID int64) (*Matrix, error)
	SendToEngineer(ctx context.Context, compareTableID int64) error
}

type service struct {
	repo           compareRepository
	customerModels customerModelsRepository
	params         paramsResolver
	measurements   measurementsRepository
	now            func() time.Time
}

// NewService builds a compare service backed by the provided repositories.
func NewService(repo compareRepository, customerModels customerModelsRepository, params paramsResolver, measurements measurementsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("compare repository required")
	}
	if customerModels == nil {
		return nil, fmt.Errorf("customer model repository required")
	}
	if params == nil {
		return nil, fmt.Errorf("params resolver required")
	}
	if measurements == nil {
		return nil, fmt.Errorf("measurements repository required")
	}
	return &service{
		repo:           repo,
		customerModels: customerModels,
		params:         params,
		measurements:   measurements,
		now:            func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) CreateTable(ctx context.Context, input CreateTableInput) (*models.CompareTable, error) {
	if input.CustomerModelID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_model_id is required")
	}

	table := &models.CompareTable{
		CustomerModelID: input.CustomerModelID,
		Status:          input.Status,
	}
	created, err := s.repo.CreateTable(ctx, table)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create compare table")
	}
	return created, nil
}

func (s *service) ListTables(ctx context.Context) ([]models.CompareTable, error) {
	rows, err := s.repo.ListTables(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list compare tables")
	}
	if rows == nil {
		rows = []models.CompareTable{}
	}
	return rows, nil
}

func (s *service) UpdateTable(ctx context.Context, id int64, input UpdateTableInput) (*models.CompareTable, error) {
	row, err := s.findTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CustomerModelID != nil {
		row.CustomerModelID = *input.CustomerModelID
	}
	if input.Status != nil {
		row.Status = input.Status
	}

	if err := s.repo.UpdateTable(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update compare table")
	}
	return row, nil
}

func (s *service) CreateLine(ctx context.Context, input CreateLineInput) (*models.CompareTableLine, error) {
	if input.CompareTableID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare_table_id is required")
	}
	if input.LinkID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "link_id is required")
	}

	line := &models.CompareTableLine{
		CompareTableID:   input.CompareTableID,
		LinkID:           input.LinkID,
		EngineerPriority: input.EngineerPriority,
		EngineerComments: input.EngineerComments,
	}
	created, err := s.repo.CreateLine(ctx, line)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create compare line")
	}
	return created, nil
}

func (s *service) ListLines(ctx context.Context) ([]models.CompareTableLine, error) {
	rows, err := s.repo.ListLines(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list compare lines")
	}
	if rows == nil {
		rows = []models.CompareTableLine{}
	}
	return rows, nil
}

func (s *service) UpdateLine(ctx context.Context, id int64, input UpdateLineInput) (*models.CompareTableLine, error) {
	row, err := s.repo.FindLineByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "compare line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup compare line")
	}

	if input.CompareTableID != nil {
		row.CompareTableID = *input.CompareTableID
	}
	if input.LinkID != nil {
		row.LinkID = *input.LinkID
	}
	if input.EngineerPriority != nil {
		row.EngineerPriority = input.EngineerPriority
	}
	if input.EngineerComments != nil {
		row.EngineerComments = input.EngineerComments
	}

	if err := s.repo.UpdateLine(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update compare line")
	}
	return row, nil
}

// BuildMatrix assembles the comparison matrix for a table: the effective
// params of its customer model's node crossed with each candidate's latest
// measured values.
func (s *service) BuildMatrix(ctx context.Context, compareTableID int64) (*Matrix, error) {
	table, err := s.findTable(ctx, compareTableID)
	if err != nil {
		return nil, err
	}

	customerModel, err := s.customerModels.FindCustomerModelByID(ctx, table.CustomerModelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer model not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer model")
	}

	params, err := s.params.EffectiveParams(ctx, customerModel.ProductNodeID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.CandidateRows(ctx, compareTableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve compare candidates")
	}

	rows := make([]MatrixRow, 0, len(candidates))
	for _, candidate := range candidates {
		values := make(map[string]*string, len(params))
		for _, param := range params {
			key := strconv.FormatInt(param.ParamID, 10)
			measurement, err := s.measurements.LatestMeasurement(ctx, candidate.SupplierModelID, param.ParamID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					values[key] = nil
					continue
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup latest measurement")
			}
			value := measurement.Value
			values[key] = &value
		}
		rows = append(rows, MatrixRow{CandidateRow: candidate, Values: values})
	}

	return &Matrix{Params: params, Rows: rows}, nil
}

// SendToEngineer marks the table sent and stamps the send time. Re-sending
// overwrites the previous timestamp.
func (s *service) SendToEngineer(ctx context.Context, compareTableID int64) error {
	table, err := s.findTable(ctx, compareTableID)
	if err != nil {
		return err
	}

	status := "sent"
	sentAt := s.now()
	table.Status = &status
	table.SentToEngineerAt = &sentAt

	if err := s.repo.UpdateTable(ctx, table); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update compare table")
	}
	return nil
}

func (s *service) findTable(ctx context.Context, id int64) (*models.CompareTable, error) {
	row, err := s.repo.FindTableByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "compare table not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup compare table")
	}
	return row, nil
}
