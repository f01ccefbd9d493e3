package models

// Attachment stores metadata for a file uploaded alongside an idea.
// The binary itself lives in the attachment store; rows are immutable and
// removed with their parent idea.
type Attachment struct {
	BaseModel

	IdeaID string `gorm:"type:uuid;not null;index" json:"idea_id"`
	Name   string `gorm:"not null" json:"name"`
	URL    string `gorm:"not null" json:"url"`
	Type   string `gorm:"type:varchar(128)" json:"type"`
	Size   int64  `json:"size"`
}
