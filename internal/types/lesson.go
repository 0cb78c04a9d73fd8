package types

import (
	"time"

	"github.com/google/uuid"
)

type ContentType string

const (
	ContentVideo ContentType = "VIDEO"
	ContentText  ContentType = "TEXT"
)

func (t ContentType) Valid() bool {
	return t == ContentVideo || t == ContentText
}

// Lesson positions are 1-based and contiguous within a course; rows are
// only ever created or removed through the lesson service so the shifts
// and the row change commit together.
type Lesson struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string      `gorm:"column:title;not null" json:"title"`
	ContentType ContentType `gorm:"column:content_type;not null" json:"content_type"`
	ContentURL  string      `gorm:"column:content_url" json:"content_url,omitempty"`
	ContentText string      `gorm:"column:content_text" json:"content_text,omitempty"`
	Duration    *int        `gorm:"column:duration" json:"duration,omitempty"`
	Position    int         `gorm:"column:position;not null;index" json:"position"`
	IsPreview   bool        `gorm:"column:is_preview;not null;default:false" json:"is_preview"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
