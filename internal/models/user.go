package models

// User describes an account that can author ideas and receive notifications.
type User struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Name     string `gorm:"not null" json:"name"`
	Role     Role   `gorm:"type:varchar(32);not null;default:'EMPLOYEE';index" json:"role"`
	Password string `gorm:"not null" json:"-"`

	Ideas         []Idea         `gorm:"foreignKey:AuthorID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
}
