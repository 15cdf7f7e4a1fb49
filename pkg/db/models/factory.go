package models

// Factory is a supplier production site.
type Factory struct {
	FactoryID   int64   `gorm:"column:factory_id;primaryKey;autoIncrement" json:"factory_id"`
	FactoryCode string  `gorm:"column:factory_code;not null;unique" json:"factory_code"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	AuditScore  *int    `gorm:"column:audit_score" json:"audit_score"`
	RiskScore   *int    `gorm:"column:risk_score" json:"risk_score"`
}
