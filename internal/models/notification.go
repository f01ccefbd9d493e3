package models

import "time"

// NotificationTypeStatusChange marks notifications produced by the status workflow.
const NotificationTypeStatusChange = "STATUS_CHANGE"

// Notification represents an in-app message addressed to a single user.
type Notification struct {
	BaseModel

	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    string `gorm:"type:varchar(64);not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Link    string `gorm:"type:text" json:"link,omitempty"`

	IdeaID *string `gorm:"type:uuid;index" json:"idea_id,omitempty"`
	Idea   *Idea   `gorm:"foreignKey:IdeaID;constraint:OnDelete:SET NULL" json:"idea,omitempty"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}
