package models

// CustomerModelAccessory attaches an accessory (with quantity) to a SKU.
type CustomerModelAccessory struct {
	CustomerAccessoryID int64   `gorm:"column:customer_accessory_id;primaryKey;autoIncrement" json:"customer_accessory_id"`
	CustomerModelID     int64   `gorm:"column:customer_model_id;not null" json:"customer_model_id"`
	AccessoryID         int64   `gorm:"column:accessory_id;not null" json:"accessory_id"`
	Qty                 int     `gorm:"column:qty;not null;default:1" json:"qty"`
	Notes               *string `gorm:"column:notes" json:"notes"`
}
