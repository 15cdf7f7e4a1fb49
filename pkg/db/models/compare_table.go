package models

import "time"

// CompareTable is a comparison sheet scoped to one customer model.
type CompareTable struct {
	CompareTableID   int64      `gorm:"column:compare_table_id;primaryKey;autoIncrement" json:"compare_table_id"`
	CustomerModelID  int64      `gorm:"column:customer_model_id;not null" json:"customer_model_id"`
	Status           *string    `gorm:"column:status" json:"status"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	SentToEngineerAt *time.Time `gorm:"column:sent_to_engineer_at" json:"sent_to_engineer_at"`
}
