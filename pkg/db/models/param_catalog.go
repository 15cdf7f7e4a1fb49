package models

// ParamCatalog is a catalog entry describing one measurable parameter.
type ParamCatalog struct {
	ParamID    int64   `gorm:"column:param_id;primaryKey;autoIncrement" json:"param_id"`
	ParamCode  string  `gorm:"column:param_code;not null;unique" json:"param_code"`
	ParamName  string  `gorm:"column:param_name;not null" json:"param_name"`
	ValueType  string  `gorm:"column:value_type;not null" json:"value_type"`
	UOMDefault *string `gorm:"column:uom_default" json:"uom_default"`
}

func (ParamCatalog) TableName() string { return "params_catalog" }
