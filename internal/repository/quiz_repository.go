//go:generate mockery --name QuizRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"go_quizcraft/internal/middleware"
	"go_quizcraft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository interface {
	CreateAttempt(ctx context.Context, tx *gorm.DB, attempt *model.QuizAttempt) error
	FindAttemptsByLesson(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) ([]*model.QuizAttempt, error)
}

type gormQuizRepository struct{}

func NewGormQuizRepository() QuizRepository {
	return &gormQuizRepository{}
}

func (r *gormQuizRepository) CreateAttempt(ctx context.Context, tx *gorm.DB, attempt *model.QuizAttempt) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(attempt)
	if result.Error != nil {
		logger.Error("Error creating quiz attempt in DB",
			"error", result.Error,
			"user_id", attempt.UserID.String(),
			"lesson_id", attempt.LessonID.String(),
		)
		return fmt.Errorf("gormQuizRepository.CreateAttempt: %w", result.Error)
	}
	return nil
}

func (r *gormQuizRepository) FindAttemptsByLesson(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) ([]*model.QuizAttempt, error) {
	logger := middleware.GetLogger(ctx)
	var attempts []*model.QuizAttempt
	result := db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Order("created_at DESC").
		Find(&attempts)
	if result.Error != nil {
		logger.Error("Error finding quiz attempts in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormQuizRepository.FindAttemptsByLesson: %w", result.Error)
	}
	return attempts, nil
}
