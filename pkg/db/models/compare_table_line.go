package models

// CompareTableLine is one candidate row in a comparison sheet. Lines point at
// links, not directly at supplier models.
type CompareTableLine struct {
	CompareLineID    int64   `gorm:"column:compare_line_id;primaryKey;autoIncrement" json:"compare_line_id"`
	CompareTableID   int64   `gorm:"column:compare_table_id;not null" json:"compare_table_id"`
	LinkID           int64   `gorm:"column:link_id;not null" json:"link_id"`
	EngineerPriority *int    `gorm:"column:engineer_priority" json:"engineer_priority"`
	EngineerComments *string `gorm:"column:engineer_comments" json:"engineer_comments"`
}
