// internal/model/lesson.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson は教材（レッスン）を表します
type Lesson struct {
	LessonID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"lesson_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除用

	// 関連 (Preload用)
	Flashcards []Flashcard `gorm:"foreignKey:LessonID;references:LessonID" json:"flashcards,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Flashcard は暗記カードを表します
type Flashcard struct {
	FlashcardID uuid.UUID      `gorm:"type:uuid;primaryKey" json:"flashcard_id"`
	LessonID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Front       string         `gorm:"not null" json:"front"` // 表面 (問題)
	Back        string         `gorm:"not null" json:"back"`  // 裏面 (答え)
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// レッスン作成リクエストDTO
// Flashcards を同時に渡すと1トランザクションでカードも作成される
type CreateLessonRequest struct {
	Title       string                   `json:"title" validate:"required,min=1,max=200"`
	Description string                   `json:"description" validate:"max=2000"`
	Flashcards  []CreateFlashcardRequest `json:"flashcards" validate:"omitempty,dive"`
}

// 暗記カード作成リクエストDTO
type CreateFlashcardRequest struct {
	Front string `json:"front" validate:"required,min=1"`
	Back  string `json:"back" validate:"required,min=1"`
}
