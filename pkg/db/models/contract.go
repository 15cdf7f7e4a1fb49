package models

import "time"

// Contract is a commercial agreement with one factory.
type Contract struct {
	ContractID         int64     `gorm:"column:contract_id;primaryKey;autoIncrement" json:"contract_id"`
	ContractCode       string    `gorm:"column:contract_code;not null;unique" json:"contract_code"`
	FactoryID          int64     `gorm:"column:factory_id;not null" json:"factory_id"`
	Status             *string   `gorm:"column:status" json:"status"`
	PaymentData        *string   `gorm:"column:payment_data" json:"payment_data"`
	BankData           *string   `gorm:"column:bank_data" json:"bank_data"`
	SignedContractFile *string   `gorm:"column:signed_contract_file" json:"signed_contract_file"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
}
