package models

// SupplierModel is a factory's concrete model for a product node.
type SupplierModel struct {
	SupplierModelID  int64   `gorm:"column:supplier_model_id;primaryKey;autoIncrement" json:"supplier_model_id"`
	FactoryID        int64   `gorm:"column:factory_id;not null" json:"factory_id"`
	FactoryModelName string  `gorm:"column:factory_model_name;not null" json:"factory_model_name"`
	ProductNodeID    int64   `gorm:"column:product_node_id;not null" json:"product_node_id"`
	ModelStatus      *string `gorm:"column:model_status" json:"model_status"`
	Notes            *string `gorm:"column:notes" json:"notes"`
}
