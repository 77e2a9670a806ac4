//go:generate mockery --name QuizService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"go_quizcraft/internal/middleware"
	"go_quizcraft/internal/model"
	"go_quizcraft/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizService interface {
	SubmitAttempt(ctx context.Context, userID uuid.UUID, req *model.SubmitQuizAttemptRequest) (*model.QuizAttempt, error)
	ListAttempts(ctx context.Context, userID, lessonID uuid.UUID) ([]*model.QuizAttempt, error)
}

type quizService struct {
	db         *gorm.DB
	quizRepo   repository.QuizRepository
	lessonRepo repository.LessonRepository
}

func NewQuizService(db *gorm.DB, quizRepo repository.QuizRepository, lessonRepo repository.LessonRepository) QuizService {
	return &quizService{
		db:         db,
		quizRepo:   quizRepo,
		lessonRepo: lessonRepo,
	}
}

func (s *quizService) SubmitAttempt(ctx context.Context, userID uuid.UUID, req *model.SubmitQuizAttemptRequest) (*model.QuizAttempt, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "lesson_id", req.LessonID)

	if req.Score == nil || *req.Score > req.Total {
		return nil, model.NewAppError("INVALID_SCORE", "得点は0以上かつ満点以下で指定してください。", "score", model.ErrInvalidInput)
	}

	var created *model.QuizAttempt

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// レッスンの存在確認
		if _, err := s.lessonRepo.FindByID(ctx, tx, userID, req.LessonID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "指定されたレッスンが見つかりません。", "lesson_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの確認中にエラーが発生しました。", "", err)
		}

		attempt := &model.QuizAttempt{
			AttemptID: uuid.New(),
			UserID:    userID,
			LessonID:  req.LessonID,
			Score:     *req.Score,
			Total:     req.Total,
		}
		if err := s.quizRepo.CreateAttempt(ctx, tx, attempt); err != nil {
			logger.Error("Error creating quiz attempt in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "受験記録の保存に失敗しました。", "", err)
		}

		created = attempt
		return nil // コミット
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Quiz attempt recorded", "attempt_id", created.AttemptID, "score", created.Score, "total", created.Total)
	return created, nil
}

func (s *quizService) ListAttempts(ctx context.Context, userID, lessonID uuid.UUID) ([]*model.QuizAttempt, error) {
	attempts, err := s.quizRepo.FindAttemptsByLesson(ctx, s.db, userID, lessonID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "受験記録の取得に失敗しました。", "", err)
	}
	return attempts, nil
}
