package types

import (
	"time"

	"github.com/google/uuid"
)

// LessonCompletion marks student progress; rows are removed when their
// lesson is deleted so no orphan references survive.
type LessonCompletion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completion_student_lesson" json:"student_id"`
	LessonID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completion_student_lesson" json:"lesson_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (LessonCompletion) TableName() string { return "lesson_completion" }
