package models

import "time"

// Model is the common primary key and timestamp block. Rows are hard-deleted
// so unique slugs and SKUs can be reused.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
