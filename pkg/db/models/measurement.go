package models

import "time"

// Measurement is one observed value of a parameter on a supplier model.
// History is append-only; the "current" value is the most recent row,
// ties broken by measurement id.
type Measurement struct {
	MeasurementID   int64     `gorm:"column:measurement_id;primaryKey;autoIncrement" json:"measurement_id"`
	SupplierModelID int64     `gorm:"column:supplier_model_id;not null" json:"supplier_model_id"`
	ParamID         int64     `gorm:"column:param_id;not null" json:"param_id"`
	Value           string    `gorm:"column:value;not null" json:"value"`
	UOM             *string   `gorm:"column:uom" json:"uom"`
	ConditionTag    *string   `gorm:"column:condition_tag" json:"condition_tag"`
	MeasuredAt      time.Time `gorm:"column:measured_at;not null;autoCreateTime" json:"measured_at"`
}
