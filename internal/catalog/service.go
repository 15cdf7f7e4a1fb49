package catalog

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

type catalogRepository interface {
	CreateProductNode(ctx context.Context, node *models.ProductNode) (*models.ProductNode, error)
	ListProductNodes(ctx context.Context) ([]models.ProductNode, error)
	FindProductNodeByID(ctx context.Context, id int64) (*models.ProductNode, error)
	UpdateProductNode(ctx context.Context, node *models.ProductNode) error
	DeleteProductNode(ctx context.Context, id int64) error

	CreateParam(ctx context.Context, param *models.ParamCatalog) (*models.ParamCatalog, error)
	ListParams(ctx context.Context) ([]models.ParamCatalog, error)
	FindParamByID(ctx context.Context, id int64) (*models.ParamCatalog, error)
	UpdateParam(ctx context.Context, param *models.ParamCatalog) error
	DeleteParam(ctx context.Context, id int64) error

	CreateParamLink(ctx context.Context, link *models.ParamProductNode) (*models.ParamProductNode, error)
	ListParamLinks(ctx context.Context) ([]models.ParamProductNode, error)
	FindParamLinkByID(ctx context.Context, id int64) (*models.ParamProductNode, error)
	UpdateParamLink(ctx context.Context, link *models.ParamProductNode) error
	DeleteParamLink(ctx context.Context, id int64) error

	CreateTolerance(ctx context.Context, tolerance *models.Tolerance) (*models.Tolerance, error)
	ListTolerances(ctx context.Context) ([]models.Tolerance, error)
	FindToleranceByID(ctx context.Context, id int64) (*models.Tolerance, error)
	UpdateTolerance(ctx context.Context, tolerance *models.Tolerance) error

	CreateTestMethod(ctx context.Context, method *models.TestMethod) (*models.TestMethod, error)
	ListTestMethods(ctx context.Context) ([]models.TestMethod, error)
	FindTestMethodByID(ctx context.Context, id int64) (*models.TestMethod, error)
	UpdateTestMethod(ctx context.Context, method *models.TestMethod) error

	EffectiveParams(ctx context.Context, productNodeID int64) ([]EffectiveParam, error)
	EffectiveMethods(ctx context.Context, productNodeID int64) ([]models.TestMethod, error)
}

// EffectiveParam is a resolved parameter requirement for a product node.
type EffectiveParam struct {
	ProductNodeID int64   `gorm:"column:product_node_id" json:"product_node_id"`
	ParamID       int64   `gorm:"column:param_id" json:"param_id"`
	IsRequired    bool    `gorm:"column:is_required" json:"is_required"`
	ParamCode     string  `gorm:"column:param_code" json:"param_code"`
	ParamName     string  `gorm:"column:param_name" json:"param_name"`
	UOMDefault    *string `gorm:"column:uom_default" json:"uom_default"`
}

// CreateProductNodeInput holds the fields accepted when creating a node.
type CreateProductNodeInput struct {
	ParentProductNodeID *int64 `json:"parent_product_node_id"`
	NodeCode            string `json:"node_code" validate:"required"`
	NodeName            string `json:"node_name" validate:"required"`
}

// UpdateProductNodeInput carries optional fields for a partial node update.
type UpdateProductNodeInput struct {
	ParentProductNodeID *int64  `json:"parent_product_node_id"`
	NodeCode            *string `json:"node_code"`
	NodeName            *string `json:"node_name"`
}

// CreateParamInput holds the fields accepted when creating a catalog param.
type CreateParamInput struct {
	ParamCode  string  `json:"param_code" validate:"required"`
	ParamName  string  `json:"param_name" validate:"required"`
	ValueType  string  `json:"value_type" validate:"required"`
	UOMDefault *string `json:"uom_default"`
}

// UpdateParamInput carries optional fields for a partial param update.
type UpdateParamInput struct {
	ParamCode  *string `json:"param_code"`
	ParamName  *string `json:"param_name"`
	ValueType  *string `json:"value_type"`
	UOMDefault *string `json:"uom_default"`
}

// CreateParamLinkInput attaches a catalog param to a product node.
type CreateParamLinkInput struct {
	ProductNodeID int64 `json:"product_node_id" validate:"required,gt=0"`
	ParamID       int64 `json:"param_id" validate:"required,gt=0"`
	IsRequired    bool  `json:"is_required"`
}

// UpdateParamLinkInput carries optional fields for a partial association update.
type UpdateParamLinkInput struct {
	ProductNodeID *int64 `json:"product_node_id"`
	ParamID       *int64 `json:"param_id"`
	IsRequired    *bool  `json:"is_required"`
}

// CreateToleranceInput holds the fields accepted when creating a tolerance.
type CreateToleranceInput struct {
	ParamID       int64  `json:"param_id" validate:"required,gt=0"`
	ToleranceRule string `json:"tolerance_rule" validate:"required"`
}

// UpdateToleranceInput carries optional fields for a partial tolerance update.
type UpdateToleranceInput struct {
	ParamID       *int64  `json:"param_id"`
	ToleranceRule *string `json:"tolerance_rule"`
}

// CreateTestMethodInput holds the fields accepted when creating a test method.
type CreateTestMethodInput struct {
	ProductNodeID int64  `json:"product_node_id" validate:"required,gt=0"`
	MethodTitle   string `json:"method_title" validate:"required"`
	MethodText    string `json:"method_text" validate:"required"`
}

// UpdateTestMethodInput carries optional fields for a partial method update.
type UpdateTestMethodInput struct {
	ProductNodeID *int64  `json:"product_node_id"`
	MethodTitle   *string `json:"method_title"`
	MethodText    *string `json:"method_text"`
}

// Service exposes the taxonomy and catalog operations, including the
// effective-params and effective-methods resolvers.
type Service interface {
	CreateProductNode(ctx context.Context, input CreateProductNodeInput) (*models.ProductNode, error)
	ListProductNodes(ctx context.Context) ([]models.ProductNode, error)
	GetProductNode(ctx context.Context, id int64) (*models.ProductNode, error)
	UpdateProductNode(ctx context.Context, id int64, input UpdateProductNodeInput) (*models.ProductNode, error)
	DeleteProductNode(ctx context.Context, id int64) error

	CreateParam(ctx context.Context, input CreateParamInput) (*models.ParamCatalog, error)
	ListParams(ctx context.Context) ([]models.ParamCatalog, error)
	UpdateParam(ctx context.Context, id int64, input UpdateParamInput) (*models.ParamCatalog, error)
	DeleteParam(ctx context.Context, id int64) error

	CreateParamLink(ctx context.Context, input CreateParamLinkInput) (*models.ParamProductNode, error)
	ListParamLinks(ctx context.Context) ([]models.ParamProductNode, error)
	UpdateParamLink(ctx context.Context, id int64, input UpdateParamLinkInput) (*models.ParamProductNode, error)
	DeleteParamLink(ctx context.Context, id int64) error

	CreateTolerance(ctx context.Context, input CreateToleranceInput) (*models.Tolerance, error)
	ListTolerances(ctx context.Context) ([]models.Tolerance, error)
	UpdateTolerance(ctx context.Context, id int64, input UpdateToleranceInput) (*models.Tolerance, error)

	CreateTestMethod(ctx context.Context, input CreateTestMethodInput) (*models.TestMethod, error)
	ListTestMethods(ctx context.Context) ([]models.TestMethod, error)
	UpdateTestMethod(ctx context.Context, id int64, input UpdateTestMethodInput) (*models.TestMethod, error)

	EffectiveParams(ctx context.Context, productNodeID int64) ([]EffectiveParam, error)
	EffectiveMethods(ctx context.Context, productNodeID int64) ([]models.TestMethod, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProductNode(ctx context.Context, input CreateProductNodeInput) (*models.ProductNode, error) {
	if strings.TrimSpace(input.NodeCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "node_code is required")
	}
	if strings.TrimSpace(input.NodeName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "node_name is required")
	}

	node := &models.ProductNode{
		ParentProductNodeID: input.ParentProductNodeID,
		NodeCode:            strings.TrimSpace(input.NodeCode),
		NodeName:            strings.TrimSpace(input.NodeName),
	}
	created, err := s.repo.CreateProductNode(ctx, node)
	if err != nil {
		if db.IsUniqueViolation(err, "node_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "node_code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product node")
	}
	return created, nil
}

func (s *service) ListProductNodes(ctx context.Context) ([]models.ProductNode, error) {
	rows, err := s.repo.ListProductNodes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product nodes")
	}
	if rows == nil {
		rows = []models.ProductNode{}
	}
	return rows, nil
}

func (s *service) GetProductNode(ctx context.Context, id int64) (*models.ProductNode, error) {
	row, err := s.repo.FindProductNodeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product node not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product node")
	}
	return row, nil
}

func (s *service) UpdateProductNode(ctx context.Context, id int64, input UpdateProductNodeInput) (*models.ProductNode, error) {
	row, err := s.GetProductNode(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ParentProductNodeID != nil {
		row.ParentProductNodeID = input.ParentProductNodeID
	}
	if input.NodeCode != nil {
		if strings.TrimSpace(*input.NodeCode) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "node_code cannot be empty")
		}
		row.NodeCode = strings.TrimSpace(*input.NodeCode)
	}
	if input.NodeName != nil {
		if strings.TrimSpace(*input.NodeName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "node_name cannot be empty")
		}
		row.NodeName = strings.TrimSpace(*input.NodeName)
	}

	if err := s.repo.UpdateProductNode(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "node_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "node_code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product node")
	}
	return row, nil
}

func (s *service) DeleteProductNode(ctx context.Context, id int64) error {
	if _, err := s.GetProductNode(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProductNode(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product node")
	}
	return nil
}

func (s *service) CreateParam(ctx context.Context, input CreateParamInput) (*models.ParamCatalog, error) {
	if strings.TrimSpace(input.ParamCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "param_code is required")
	}
	if strings.TrimSpace(input.ParamName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "param_name is required")
	}
	if strings.TrimSpace(input.ValueType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value_type is required")
	}

	param := &models.ParamCatalog{
		ParamCode:  strings.TrimSpace(input.ParamCode),
		ParamName:  strings.TrimSpace(input.ParamName),
		ValueType:  strings.TrimSpace(input.ValueType),
		UOMDefault: input.UOMDefault,
	}
	created, err := s.repo.CreateParam(ctx, param)
	if err != nil {
		if db.IsUniqueViolation(err, "param_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "param_code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create param")
	}
	return created, nil
}

func (s *service) ListParams(ctx context.Context) ([]models.ParamCatalog, error) {
	rows, err := s.repo.ListParams(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list params")
	}
	if rows == nil {
		rows = []models.ParamCatalog{}
	}
	return rows, nil
}

func (s *service) UpdateParam(ctx context.Context, id int64, input UpdateParamInput) (*models.ParamCatalog, error) {
	row, err := s.repo.FindParamByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "param not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup param")
	}

	if input.ParamCode != nil {
		if strings.TrimSpace(*input.ParamCode) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "param_code cannot be empty")
		}
		row.ParamCode = strings.TrimSpace(*input.ParamCode)
	}
	if input.ParamName != nil {
		row.ParamName = strings.TrimSpace(*input.ParamName)
	}
	if input.ValueType != nil {
		row.ValueType = strings.TrimSpace(*input.ValueType)
	}
	if input.UOMDefault != nil {
		row.UOMDefault = input.UOMDefault
	}

	if err := s.repo.UpdateParam(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "param_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "param_code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update param")
	}
	return row, nil
}

func (s *service) DeleteParam(ctx context.Context, id int64) error {
	if _, err := s.repo.FindParamByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "param not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup param")
	}
	if err := s.repo.DeleteParam(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete param")
	}
	return nil
}

func (s *service) CreateParamLink(ctx context.Context, input CreateParamLinkInput) (*models.ParamProductNode, error) {
	if input.ProductNodeID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_node_id is required")
	}
	if input.ParamID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "param_id is required")
	}

	link := &models.ParamProductNode{
		ProductNodeID: input.ProductNodeID,
		ParamID:       input.ParamID,
		IsRequired:    input.IsRequired,
	}
	created, err := s.repo.CreateParamLink(ctx, link)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create param-product node")
	}
	return created, nil
}

func (s *service) ListParamLinks(ctx context.Context) ([]models.ParamProductNode, error) {
	rows, err := s.repo.ListParamLinks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list param-product nodes")
	}
	if rows == nil {
		rows = []models.ParamProductNode{}
	}
	return rows, nil
}

func (s *service) UpdateParamLink(ctx context.Context, id int64, input UpdateParamLinkInput) (*models.ParamProductNode, error) {
	row, err := s.repo.FindParamLinkByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "param-product node not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup param-product node")
	}

	if input.ProductNodeID != nil {
		row.ProductNodeID = *input.ProductNodeID
	}
	if input.ParamID != nil {
		row.ParamID = *input.ParamID
	}
	if input.IsRequired != nil {
		row.IsRequired = *input.IsRequired
	}

	if err := s.repo.UpdateParamLink(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update param-product node")
	}
	return row, nil
}

func (s *service) DeleteParamLink(ctx context.Context, id int64) error {
	if _, err := s.repo.FindParamLinkByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "param-product node not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup param-product node")
	}
	if err := s.repo.DeleteParamLink(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete param-product node")
	}
	return nil
}

func (s *service) CreateTolerance(ctx context.Context, input CreateToleranceInput) (*models.Tolerance, error) {
	if input.ParamID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "param_id is required")
	}
	if strings.TrimSpace(input.ToleranceRule) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tolerance_rule is required")
	}

	tolerance := &models.Tolerance{
		ParamID:       input.ParamID,
		ToleranceRule: strings.TrimSpace(input.ToleranceRule),
	}
	created, err := s.repo.CreateTolerance(ctx, tolerance)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tolerance")
	}
	return created, nil
}

func (s *service) ListTolerances(ctx context.Context) ([]models.Tolerance, error) {
	rows, err := s.repo.ListTolerances(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tolerances")
	}
	if rows == nil {
		rows = []models.Tolerance{}
	}
	return rows, nil
}

func (s *service) UpdateTolerance(ctx context.Context, id int64, input UpdateToleranceInput) (*models.Tolerance, error) {
	row, err := s.repo.FindToleranceByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tolerance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup tolerance")
	}

	if input.ParamID != nil {
		row.ParamID = *input.ParamID
	}
	if input.ToleranceRule != nil {
		if strings.TrimSpace(*input.ToleranceRule) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tolerance_rule cannot be empty")
		}
		row.ToleranceRule = strings.TrimSpace(*input.ToleranceRule)
	}

	if err := s.repo.UpdateTolerance(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tolerance")
	}
	return row, nil
}

func (s *service) CreateTestMethod(ctx context.Context, input CreateTestMethodInput) (*models.TestMethod, error) {
	if input.ProductNodeID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_node_id is required")
	}
	if strings.TrimSpace(input.MethodTitle) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "method_title is required")
	}
	if strings.TrimSpace(input.MethodText) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "method_text is required")
	}

	method := &models.TestMethod{
		ProductNodeID: input.ProductNodeID,
		MethodTitle:   strings.TrimSpace(input.MethodTitle),
		MethodText:    input.MethodText,
	}
	created, err := s.repo.CreateTestMethod(ctx, method)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create test method")
	}
	return created, nil
}

func (s *service) ListTestMethods(ctx context.Context) ([]models.TestMethod, error) {
	rows, err := s.repo.ListTestMethods(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list test methods")
	}
	if rows == nil {
		rows = []models.TestMethod{}
	}
	return rows, nil
}

func (s *service) UpdateTestMethod(ctx context.Context, id int64, input UpdateTestMethodInput) (*models.TestMethod, error) {
	row, err := s.repo.FindTestMethodByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "test method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup test method")
	}

	if input.ProductNodeID != nil {
		row.ProductNodeID = *input.ProductNodeID
	}
	if input.MethodTitle != nil {
		if strings.TrimSpace(*input.MethodTitle) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "method_title cannot be empty")
		}
		row.MethodTitle = strings.TrimSpace(*input.MethodTitle)
	}
	if input.MethodText != nil {
		row.MethodText = *input.MethodText
	}

	if err := s.repo.UpdateTestMethod(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update test method")
	}
	return row, nil
}

// EffectiveParams resolves the parameters attached to the exact node id.
// Unknown ids resolve to an empty list rather than an error.
func (s *service) EffectiveParams(ctx context.Context, productNodeID int64) ([]EffectiveParam, error) {
	rows, err := s.repo.EffectiveParams(ctx, productNodeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve effective params")
	}
	if rows == nil {
		rows = []EffectiveParam{}
	}
	return rows, nil
}

// EffectiveMethods resolves the test methods attached to the exact node id.
func (s *service) EffectiveMethods(ctx context.Context, productNodeID int64) ([]models.TestMethod, error) {
	rows, err := s.repo.EffectiveMethods(ctx, productNodeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve effective methods")
	}
	if rows == nil {
		rows = []models.TestMethod{}
	}
	return rows, nil
}
