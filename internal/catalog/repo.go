package catalog

import (
	"context"

	"github.com/sourcedesk/sourcedesk-backend/internal/repo"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence for the product taxonomy and parameter
// catalog: product nodes, catalog params, node-param associations,
// tolerances and test methods.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// --- product nodes ---

func (r *Repository) CreateProductNode(ctx context.Context, node *models.ProductNode) (*models.ProductNode, error) {
	if err := r.DB(ctx).Create(node).Error; err != nil {
		return nil, err
	}
	return node, nil
}

func (r *Repository) ListProductNodes(ctx context.Context) ([]models.ProductNode, error) {
	var rows []models.ProductNode
	if err := r.DB(ctx).Order("product_node_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindProductNodeByID(ctx context.Context, id int64) (*models.ProductNode, error) {
	var row models.ProductNode
	if err := r.DB(ctx).First(&row, "product_node_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateProductNode(ctx context.Context, node *models.ProductNode) error {
	return r.DB(ctx).Save(node).Error
}

func (r *Repository) DeleteProductNode(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.ProductNode{}, "product_node_id = ?", id).Error
}

// --- params catalog ---

func (r *Repository) CreateParam(ctx context.Context, param *models.ParamCatalog) (*models.ParamCatalog, error) {
	if err := r.DB(ctx).Create(param).Error; err != nil {
		return nil, err
	}
	return param, nil
}

func (r *Repository) ListParams(ctx context.Context) ([]models.ParamCatalog, error) {
	var rows []models.ParamCatalog
	if err := r.DB(ctx).Order("param_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindParamByID(ctx context.Context, id int64) (*models.ParamCatalog, error) {
	var row models.ParamCatalog
	if err := r.DB(ctx).First(&row, "param_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateParam(ctx context.Context, param *models.ParamCatalog) error {
	return r.DB(ctx).Save(param).Error
}

func (r *Repository) DeleteParam(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.ParamCatalog{}, "param_id = ?", id).Error
}

// --- node-param associations ---

func (r *Repository) CreateParamLink(ctx context.Context, link *models.ParamProductNode) (*models.ParamProductNode, error) {
	if err := r.DB(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *Repository) ListParamLinks(ctx context.Context) ([]models.ParamProductNode, error) {
	var rows []models.ParamProductNode
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindParamLinkByID(ctx context.Context, id int64) (*models.ParamProductNode, error) {
	var row models.ParamProductNode
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateParamLink(ctx context.Context, link *models.ParamProductNode) error {
	return r.DB(ctx).Save(link).Error
}

func (r *Repository) DeleteParamLink(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.ParamProductNode{}, "id = ?", id).Error
}

// --- tolerances ---

func (r *Repository) CreateTolerance(ctx context.Context, tolerance *models.Tolerance) (*models.Tolerance, error) {
	if err := r.DB(ctx).Create(tolerance).Error; err != nil {
		return nil, err
	}
	return tolerance, nil
}

func (r *Repository) ListTolerances(ctx context.Context) ([]models.Tolerance, error) {
	var rows []models.Tolerance
	if err := r.DB(ctx).Order("tolerance_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindToleranceByID(ctx context.Context, id int64) (*models.Tolerance, error) {
	var row models.Tolerance
	if err := r.DB(ctx).First(&row, "tolerance_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateTolerance(ctx context.Context, tolerance *models.Tolerance) error {
	return r.DB(ctx).Save(tolerance).Error
}

// FirstToleranceForParam returns the lowest-id tolerance row for a param.
// gorm.ErrRecordNotFound when the param has no explicit rule.
func (r *Repository) FirstToleranceForParam(ctx context.Context, paramID int64) (*models.Tolerance, error) {
	var row models.Tolerance
	err := r.DB(ctx).
		Where("param_id = ?", paramID).
		Order("tolerance_id ASC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// --- test methods ---

func (r *Repository) CreateTestMethod(ctx context.Context, method *models.TestMethod) (*models.TestMethod, error) {
	if err := r.DB(ctx).Create(method).Error; err != nil {
		return nil, err
	}
	return method, nil
}

func (r *Repository) ListTestMethods(ctx context.Context) ([]models.TestMethod, error) {
	var rows []models.TestMethod
	if err := r.DB(ctx).Order("method_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindTestMethodByID(ctx context.Context, id int64) (*models.TestMethod, error) {
	var row models.TestMethod
	if err := r.DB(ctx).First(&row, "method_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateTestMethod(ctx context.Context, method *models.TestMethod) error {
	return r.DB(ctx).Save(method).Error
}

// --- resolvers ---

// EffectiveParams joins node-param associations with the catalog for one
// exact node id. The parent chain is intentionally not walked.
func (r *Repository) EffectiveParams(ctx context.Context, productNodeID int64) ([]EffectiveParam, error) {
	var rows []EffectiveParam
	err := r.DB(ctx).
		Table("params_product_node AS ppn").
		Select("ppn.product_node_id, ppn.param_id, ppn.is_required, pc.param_code, pc.param_name, pc.uom_default").
		Joins("JOIN params_catalog pc ON pc.param_id = ppn.param_id").
		Where("ppn.product_node_id = ?", productNodeID).
		Order("pc.param_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// EffectiveMethods returns the test methods attached to one exact node id.
func (r *Repository) EffectiveMethods(ctx context.Context, productNodeID int64) ([]models.TestMethod, error) {
	var rows []models.TestMethod
	err := r.DB(ctx).
		Where("product_node_id = ?", productNodeID).
		Order("method_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
