//go:generate mockery --name LessonRepository --output ./mocks --outpkg mocks --case=underscore
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

type LessonRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error
	FindByID(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) (*model.Lesson, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.Lesson, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) error
}

type gormLessonRepository struct{}

func NewGormLessonRepository() LessonRepository {
	return &gormLessonRepository{}
}

func (r *gormLessonRepository) Create(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(lesson)
	if result.Error != nil {
		logger.Error("Error creating lesson in DB",
			"error", result.Error,
			"user_id", lesson.UserID.String(),
			"title", lesson.Title,
		)
		return fmt.Errorf("gormLessonRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormLessonRepository) FindByID(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	var lesson model.Lesson
	// Preloadで関連するカードも取得する (削除済みカードは除外される)
	result := db.WithContext(ctx).
		Preload("Flashcards").
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&lesson)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding lesson by ID in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormLessonRepository.FindByID: %w", result.Error)
	}
	return &lesson, nil
}

func (r *gormLessonRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	var lessons []*model.Lesson
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lessons)
	if result.Error != nil {
		logger.Error("Error finding lessons by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormLessonRepository.FindByUser: %w", result.Error)
	}
	return lessons, nil
}

func (r *gormLessonRepository) Delete(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&model.Lesson{})
	if result.Error != nil {
		logger.Error("Error deleting lesson in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"lesson_id", lessonID.String(),
		)
		return fmt.Errorf("gormLessonRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
