// internal/model/quiz.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt はクイズの受験記録を表します
type QuizAttempt struct {
	AttemptID uuid.UUID `gorm:"type:uuid;primaryKey" json:"attempt_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	LessonID  uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Score     int       `gorm:"not null" json:"score"`
	Total     int       `gorm:"not null" json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// クイズ受験記録リクエストDTO
type SubmitQuizAttemptRequest struct {
	LessonID uuid.UUID `json:"lesson_id" validate:"required"`
	Score    *int      `json:"score" validate:"required,min=0"`
	Total    int       `json:"total" validate:"required,min=1"`
}
