package models

// TestMethod is a test procedure attached directly to a product node.
type TestMethod struct {
	MethodID      int64  `gorm:"column:method_id;primaryKey;autoIncrement" json:"method_id"`
	ProductNodeID int64  `gorm:"column:product_node_id;not null" json:"product_node_id"`
	MethodTitle   string `gorm:"column:method_title;not null" json:"method_title"`
	MethodText    string `gorm:"column:method_text;not null" json:"method_text"`
}
