package contracts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcedesk/sourcedesk-backend/pkg/db"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db/models"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"gorm.io/gorm"
)

// techTaskDoc is the fully resolved source material for one document render.
// All lookups happen before the versioning transaction so the render callback
// stays pure.
type techTaskDoc struct {
	contract    *models.Contract
	generatedAt time.Time
	lines       []techTaskLine
}

type techTaskLine struct {
	line          models.ContractLine
	customerModel *models.CustomerModel
	supplierModel *models.SupplierModel
	factory       *models.Factory
	accessories   []techTaskAccessory
	params        []techTaskParam
	methods       []models.TestMethod
}

type techTaskAccessory struct {
	name       string
	partNumber string
	qty        int
}

type techTaskParam struct {
	name      string
	value     string
	uom       string
	tolerance string
	condition string
}

// GenerateTechTask renders a versioned specification document for a contract.
// The version is assigned inside one transaction; a concurrent generation
// that wins the unique index triggers one full retry before failing with a
// conflict.
func (s *service) GenerateTechTask(ctx context.Context, contractID int64) (*TechTaskResult, error) {
	contract, err := s.findContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.ListContractLinesByContract(ctx, contractID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contract lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract has no lines")
	}

	doc, err := s.buildDoc(ctx, contract, lines)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.CreateTechTaskVersioned(ctx, contractID, doc.render)
	if err != nil && db.IsUniqueViolation(err, "tech_task_contract_version_key") {
		task, err = s.repo.CreateTechTaskVersioned(ctx, contractID, doc.render)
		if err != nil && db.IsUniqueViolation(err, "tech_task_contract_version_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "tech task version conflict")
		}
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist tech task")
	}

	return &TechTaskResult{
		TechTaskID: task.TechTaskID,
		Version:    task.Version,
		Content:    task.Content,
	}, nil
}

func (s *service) buildDoc(ctx context.Context, contract *models.Contract, lines []models.ContractLine) (*techTaskDoc, error) {
	doc := &techTaskDoc{
		contract:    contract,
		generatedAt: s.now(),
		lines:       make([]techTaskLine, 0, len(lines)),
	}

	for _, line := range lines {
		link, err := s.links.FindLinkByID(ctx, line.LinkID)
		if err != nil {
			return nil, wrapLookup(err, "link")
		}
		customerModel, err := s.customerModels.FindCustomerModelByID(ctx, link.CustomerModelID)
		if err != nil {
			return nil, wrapLookup(err, "customer model")
		}
		supplierModel, err := s.supplierModels.FindSupplierModelByID(ctx, link.SupplierModelID)
		if err != nil {
			return nil, wrapLookup(err, "supplier model")
		}
		factory, err := s.factories.FindByID(ctx, supplierModel.FactoryID)
		if err != nil {
			return nil, wrapLookup(err, "factory")
		}

		accessories, err := s.resolveAccessories(ctx, customerModel.CustomerModelID)
		if err != nil {
			return nil, err
		}
		params, err := s.resolveParams(ctx, customerModel.ProductNodeID, supplierModel.SupplierModelID)
		if err != nil {
			return nil, err
		}
		methods, err := s.catalog.EffectiveMethods(ctx, customerModel.ProductNodeID)
		if err != nil {
			return nil, err
		}

		doc.lines = append(doc.lines, techTaskLine{
			line:          line,
			customerModel: customerModel,
			supplierModel: supplierModel,
			factory:       factory,
			accessories:   accessories,
			params:        params,
			methods:       methods,
		})
	}

	return doc, nil
}

func (s *service) resolveAccessories(ctx context.Context, customerModelID int64) ([]techTaskAccessory, error) {
	attachments, err := s.customerModels.ListAttachmentsByCustomerModel(ctx, customerModelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer model accessories")
	}

	accessories := make([]techTaskAccessory, 0, len(attachments))
	for _, attachment := range attachments {
		item, err := s.customerModels.FindAccessoryByID(ctx, attachment.AccessoryID)
		if err != nil {
			return nil, wrapLookup(err, "accessory")
		}
		accessories = append(accessories, techTaskAccessory{
			name:       item.AccessoryName,
			partNumber: item.PartNumber,
			qty:        attachment.Qty,
		})
	}
	return accessories, nil
}

func (s *service) resolveParams(ctx context.Context, productNodeID, supplierModelID int64) ([]techTaskParam, error) {
	effective, err := s.catalog.EffectiveParams(ctx, productNodeID)
	if err != nil {
		return nil, err
	}

	params := make([]techTaskParam, 0, len(effective))
	for _, param := range effective {
		row := techTaskParam{
			name:      param.ParamName,
			value:     "-",
			uom:       derefOrDash(param.UOMDefault),
			condition: "-",
		}

		measurement, err := s.supplierModels.LatestMeasurement(ctx, supplierModelID, param.ParamID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup latest measurement")
		}
		if measurement != nil {
			row.value = measurement.Value
			row.uom = derefOrDash(measurement.UOM)
			row.condition = derefOrDash(measurement.ConditionTag)
		}

		tolerance, err := s.catalog.FirstToleranceForParam(ctx, param.ParamID)
		switch {
		case err == nil:
			row.tolerance = tolerance.ToleranceRule
		case errors.Is(err, gorm.ErrRecordNotFound):
			row.tolerance = defaultTolerance(param.ParamCode)
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup tolerance")
		}

		params = append(params, row)
	}
	return params, nil
}

func (d *techTaskDoc) render(version int) string {
	blocks := []string{
		fmt.Sprintf("# Tech Task: %s", d.contract.ContractCode),
		fmt.Sprintf("Factory ID: %d", d.contract.FactoryID),
		fmt.Sprintf("Generated at: %s | Version %d", d.generatedAt.Format(time.RFC3339), version),
		"",
	}

	for _, line := range d.lines {
		blocks = append(blocks,
			fmt.Sprintf("## Line %d", line.line.ContractLineID),
			fmt.Sprintf("SKU: %s — %s | Qty: %d | Region: %s",
				line.customerModel.CustomerSKU, line.customerModel.Name, line.line.Qty, derefOrDash(line.line.Region)),
			fmt.Sprintf("Supplier model: %s (Factory: %s)", line.supplierModel.FactoryModelName, line.factory.Name),
			"",
			"**BM Requirements**",
			derefOrDash(line.customerModel.BMRequirementsText),
			"",
		)

		if len(line.accessories) > 0 {
			blocks = append(blocks, "**Accessories**")
			for _, accessory := range line.accessories {
				blocks = append(blocks, fmt.Sprintf("- %s (PN %s) x%d", accessory.name, accessory.partNumber, accessory.qty))
			}
			blocks = append(blocks, "")
		}

		blocks = append(blocks,
			"**Parameters**",
			"| Parameter | Value | UOM | Tolerance | Condition |",
			"| --- | --- | --- | --- | --- |",
		)
		for _, param := range line.params {
			blocks = append(blocks, fmt.Sprintf("| %s | %s | %s | %s | %s |",
				param.name, param.value, param.uom, param.tolerance, param.condition))
		}
		blocks = append(blocks, "")

		if len(line.methods) > 0 {
			blocks = append(blocks, "**Test Methods**")
			for _, method := range line.methods {
				blocks = append(blocks, fmt.Sprintf("- %s: %s", method.MethodTitle, method.MethodText))
			}
			blocks = append(blocks, "")
		}
	}

	return strings.Join(blocks, "\n")
}

// defaultTolerance is the fallback rule applied when a param carries no
// explicit tolerance row. Total over every param code.
func defaultTolerance(paramCode string) string {
	switch paramCode {
	case "VOLTAGE", "CURRENT":
		return "±5%"
	case "PF":
		return "±0.02"
	case "DUTY":
		return ">= measured - 5% abs"
	default:
		return "default"
	}
}

func derefOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func wrapLookup(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeDependency, entity+" referenced by contract line not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup "+entity)
}
