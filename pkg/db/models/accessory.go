package models

// Accessory is a purchasable add-on part, optionally tied to a factory.
type Accessory struct {
	AccessoryID   int64   `gorm:"column:accessory_id;primaryKey;autoIncrement" json:"accessory_id"`
	PartNumber    string  `gorm:"column:part_number;not null" json:"part_number"`
	AccessoryName string  `gorm:"column:accessory_name;not null" json:"accessory_name"`
	AccessorySpec *string `gorm:"column:accessory_spec" json:"accessory_spec"`
	FactoryID     *int64  `gorm:"column:factory_id" json:"factory_id"`
	Status        *string `gorm:"column:status" json:"status"`
}
