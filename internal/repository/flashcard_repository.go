//go:generate mockery --name FlashcardRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_quizcraft/internal/middleware"
	"go_quizcraft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FlashcardRepository interface {
	Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	FindByID(ctx context.Context, db *gorm.DB, userID, flashcardID uuid.UUID) (*model.Flashcard, error)
	FindByLesson(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) ([]*model.Flashcard, error)
	DeleteByLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) error
}

type gormFlashcardRepository struct{}

func NewGormFlashcardRepository() FlashcardRepository {
	return &gormFlashcardRepository{}
}

func (r *gormFlashcardRepository) Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(card)
	if result.Error != nil {
		logger.Error("Error creating flashcard in DB",
			"error", result.Error,
			"lesson_id", card.LessonID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormFlashcardRepository) FindByID(ctx context.Context, db *gorm.DB, userID, flashcardID uuid.UUID) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	var card model.Flashcard
	// GORMのFirstはデフォルトで deleted_at IS NULL を考慮する
	result := db.WithContext(ctx).Where("user_id = ? AND flashcard_id = ?", userID, flashcardID).First(&card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding flashcard by ID in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"flashcard_id", flashcardID.String(),
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByID: %w", result.Error)
	}
	return &card, nil
}

func (r *gormFlashcardRepository) FindByLesson(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) ([]*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	var cards []*model.Flashcard
	result := db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Order("created_at ASC").
		Find(&cards)
	if result.Error != nil {
		logger.Error("Error finding flashcards by lesson in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByLesson: %w", result.Error)
	}
	return cards, nil
}

func (r *gormFlashcardRepository) DeleteByLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	// 論理削除。追跡レコードは物理的には残るが、カードの論理削除に追従して
	// 復習対象の列挙から外れる (FindByLesson が削除済みを返さないため)。
	result := tx.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&model.Flashcard{})
	if result.Error != nil {
		logger.Error("Error deleting flashcards by lesson in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"lesson_id", lessonID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.DeleteByLesson: %w", result.Error)
	}
	return nil
}
