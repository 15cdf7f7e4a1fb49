package models

// ProductNode is a node in the product taxonomy tree. The parent reference is
// stored but resolvers intentionally do not walk it (flat lookups only).
type ProductNode struct {
	ProductNodeID       int64  `gorm:"column:product_node_id;primaryKey;autoIncrement" json:"product_node_id"`
	ParentProductNodeID *int64 `gorm:"column:parent_product_node_id" json:"parent_product_node_id"`
	NodeCode            string `gorm:"column:node_code;not null;unique" json:"node_code"`
	NodeName            string `gorm:"column:node_name;not null" json:"node_name"`
}
