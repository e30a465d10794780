package models

// Counter backs the gapless daily document sequences. The key is the
// composed "{documentType}_{YYYY-MM-DD}" string, so each day starts a fresh
// sequence without any reset job. Counts only ever grow.
type Counter struct {
	ID    string `gorm:"column:id;primaryKey" json:"id"`
	Count int    `gorm:"column:count;not null;default:0" json:"count"`
}
