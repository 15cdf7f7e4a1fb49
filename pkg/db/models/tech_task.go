package models

import "time"

// TechTask is an immutable generated specification document. Versions are a
// per-contract monotonic counter guarded by a unique index on
// (contract_id, version).
type TechTask struct {
	TechTaskID  int64     `gorm:"column:tech_task_id;primaryKey;autoIncrement" json:"tech_task_id"`
	ContractID  int64     `gorm:"column:contract_id;not null;uniqueIndex:tech_task_contract_version_key" json:"contract_id"`
	Version     int       `gorm:"column:version;not null;uniqueIndex:tech_task_contract_version_key" json:"version"`
	GeneratedAt time.Time `gorm:"column:generated_at;not null;autoCreateTime" json:"generated_at"`
	Status      *string   `gorm:"column:status" json:"status"`
	Content     string    `gorm:"column:content;not null" json:"content"`
}

func (TechTask) TableName() string { return "tech_task" }
