package models

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User is a back-office account. Customers never log in; they only appear on
// orders.
type User struct {
	Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:20;not null;default:editor" json:"role"`
}
