package models

import "github.com/shopspring/decimal"

// Link pairs a customer model with a supplier model and carries the
// commercial terms of the proposed pairing.
type Link struct {
	LinkID          int64               `gorm:"column:link_id;primaryKey;autoIncrement" json:"link_id"`
	CustomerModelID int64               `gorm:"column:customer_model_id;not null" json:"customer_model_id"`
	SupplierModelID int64               `gorm:"column:supplier_model_id;not null" json:"supplier_model_id"`
	Status          *string             `gorm:"column:status" json:"status"`
	LastPriceFOB    decimal.NullDecimal `gorm:"column:last_price_fob;type:numeric" json:"last_price_fob"`
	Currency        *string             `gorm:"column:currency" json:"currency"`
	Notes           *string             `gorm:"column:notes" json:"notes"`
}
