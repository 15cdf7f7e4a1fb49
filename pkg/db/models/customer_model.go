package models

// CustomerModel is a customer-facing SKU anchored to a product node.
type CustomerModel struct {
	CustomerModelID    int64   `gorm:"column:customer_model_id;primaryKey;autoIncrement" json:"customer_model_id"`
	CustomerSKU        string  `gorm:"column:customer_sku;not null;unique" json:"customer_sku"`
	Name               string  `gorm:"column:name;not null" json:"name"`
	ProductNodeID      int64   `gorm:"column:product_node_id;not null" json:"product_node_id"`
	BMRequirementsText *string `gorm:"column:bm_requirements_text" json:"bm_requirements_text"`
	Status             *string `gorm:"column:status" json:"status"`
}
