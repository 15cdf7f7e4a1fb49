package models

// ParamProductNode associates a catalog parameter with a product node.
// Duplicate associations are allowed (no uniqueness on the pair).
type ParamProductNode struct {
	ID            int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductNodeID int64 `gorm:"column:product_node_id;not null" json:"product_node_id"`
	ParamID       int64 `gorm:"column:param_id;not null" json:"param_id"`
	IsRequired    bool  `gorm:"column:is_required;not null;default:false" json:"is_required"`
}

func (ParamProductNode) TableName() string { return "params_product_node" }
