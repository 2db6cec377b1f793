package models

import "time"

type Post struct {
	Model
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:191;not null;uniqueIndex" json:"slug"`
	Excerpt     string     `gorm:"size:500" json:"excerpt"`
	Body        string     `gorm:"type:text" json:"body"`
	CoverImage  string     `gorm:"size:500" json:"cover_image"`
	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at"`
}

// ServiceOffering is a service the business sells besides products
// (inspection, certification, hire).
type ServiceOffering struct {
	Model
	Title     string `gorm:"size:255;not null" json:"title"`
	Slug      string `gorm:"size:191;not null;uniqueIndex" json:"slug"`
	Summary   string `gorm:"size:500" json:"summary"`
	Body      string `gorm:"type:text" json:"body"`
	Icon      string `gorm:"size:100" json:"icon"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
	Published bool   `gorm:"not null;default:false;index" json:"published"`
}

func (ServiceOffering) TableName() string { return "services" }
