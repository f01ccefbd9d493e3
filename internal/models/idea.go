package models

import "gorm.io/datatypes"

// Idea is a user-submitted proposal tracked through the review workflow.
type Idea struct {
	BaseModel

	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"type:varchar(64)" json:"category"`
	Status      IdeaStatus `gorm:"type:varchar(32);not null;default:'DRAFT';index" json:"status"`

	// Tags keeps submission order, so it is stored as a JSON array rather
	// than a join table.
	Tags datatypes.JSONSlice[string] `json:"tags"`

	AuthorID string `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	AssignedToID *string `gorm:"type:uuid" json:"assigned_to_id"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	Attachments []Attachment `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"attachments"`
}
