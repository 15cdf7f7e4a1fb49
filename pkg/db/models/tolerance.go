package models

// Tolerance is an acceptable-deviation rule for a parameter. Duplicates are
// possible; the lowest id wins when resolving.
type Tolerance struct {
	ToleranceID   int64  `gorm:"column:tolerance_id;primaryKey;autoIncrement" json:"tolerance_id"`
	ParamID       int64  `gorm:"column:param_id;not null" json:"param_id"`
	ToleranceRule string `gorm:"column:tolerance_rule;not null" json:"tolerance_rule"`
}
