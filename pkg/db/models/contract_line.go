package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractLine is one ordered position of a contract, referencing a link.
type ContractLine struct {
	ContractLineID int64               `gorm:"column:contract_line_id;primaryKey;autoIncrement" json:"contract_line_id"`
	ContractID     int64               `gorm:"column:contract_id;not null" json:"contract_id"`
	LinkID         int64               `gorm:"column:link_id;not null" json:"link_id"`
	Qty            int                 `gorm:"column:qty;not null" json:"qty"`
	Region         *string             `gorm:"column:region" json:"region"`
	DeliveryDate   *time.Time          `gorm:"column:delivery_date;type:date" json:"delivery_date"`
	Price          decimal.NullDecimal `gorm:"column:price;type:numeric" json:"price"`
	Currency       *string             `gorm:"column:currency" json:"currency"`
}
