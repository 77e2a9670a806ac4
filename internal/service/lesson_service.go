//go:generate mockery --name LessonService --output ./mocks --outpkg mocks --case=underscore
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

type LessonService interface {
	CreateLesson(ctx context.Context, userID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error)
	GetLesson(ctx context.Context, userID, lessonID uuid.UUID) (*model.Lesson, error)
	ListLessons(ctx context.Context, userID uuid.UUID) ([]*model.Lesson, error)
	DeleteLesson(ctx context.Context, userID, lessonID uuid.UUID) error
	AddFlashcard(ctx context.Context, userID, lessonID uuid.UUID, req *model.CreateFlashcardRequest) (*model.Flashcard, error)
	ListFlashcards(ctx context.Context, userID, lessonID uuid.UUID) ([]*model.Flashcard, error)
}

type lessonService struct {
	db         *gorm.DB // トランザクション用にDB接続を持つ
	lessonRepo repository.LessonRepository
	cardRepo   repository.FlashcardRepository
}

func NewLessonService(db *gorm.DB, lessonRepo repository.LessonRepository, cardRepo repository.FlashcardRepository) LessonService {
	return &lessonService{
		db:         db,
		lessonRepo: lessonRepo,
		cardRepo:   cardRepo,
	}
}

// CreateLesson はレッスンを作成します。
// リクエストにカードが含まれる場合は同一トランザクションでまとめて作成します。
func (s *lessonService) CreateLesson(ctx context.Context, userID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	var created *model.Lesson

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson := &model.Lesson{
			LessonID:    uuid.New(),
			UserID:      userID,
			Title:       req.Title,
			Description: req.Description,
		}
		if err := s.lessonRepo.Create(ctx, tx, lesson); err != nil {
			logger.Error("Error creating lesson in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの作成に失敗しました。", "", err)
		}

		for _, fc := range req.Flashcards {
			card := &model.Flashcard{
				FlashcardID: uuid.New(),
				LessonID:    lesson.LessonID,
				UserID:      userID,
				Front:       fc.Front,
				Back:        fc.Back,
			}
			if err := s.cardRepo.Create(ctx, tx, card); err != nil {
				logger.Error("Error creating flashcard in transaction", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "カードの作成に失敗しました。", "", err)
			}
			lesson.Flashcards = append(lesson.Flashcards, *card)
		}

		created = lesson
		return nil // コミット
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Lesson created", "lesson_id", created.LessonID, "flashcards", len(created.Flashcards))
	return created, nil
}

func (s *lessonService) GetLesson(ctx context.Context, userID, lessonID uuid.UUID) (*model.Lesson, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, s.db, userID, lessonID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "指定されたレッスンが見つかりません。", "lesson_id", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの取得に失敗しました。", "", err)
	}
	return lesson, nil
}

func (s *lessonService) ListLessons(ctx context.Context, userID uuid.UUID) ([]*model.Lesson, error) {
	lessons, err := s.lessonRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "レッスン一覧の取得に失敗しました。", "", err)
	}
	return lessons, nil
}

// DeleteLesson はレッスンと所属カードをまとめて論理削除します
func (s *lessonService) DeleteLesson(ctx context.Context, userID, lessonID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "lesson_id", lessonID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lessonRepo.Delete(ctx, tx, userID, lessonID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "指定されたレッスンが見つかりません。", "lesson_id", model.ErrNotFound)
			}
			logger.Error("Error deleting lesson in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの削除に失敗しました。", "", err)
		}
		if err := s.cardRepo.DeleteByLesson(ctx, tx, userID, lessonID); err != nil {
			logger.Error("Error deleting flashcards in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "カードの削除に失敗しました。", "", err)
		}
		return nil // コミット
	})
	if err != nil {
		return err
	}

	logger.Info("Lesson deleted")
	return nil
}

func (s *lessonService) AddFlashcard(ctx context.Context, userID, lessonID uuid.UUID, req *model.CreateFlashcardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "lesson_id", lessonID)

	var created *model.Flashcard

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. レッスンの存在確認
		if _, err := s.lessonRepo.FindByID(ctx, tx, userID, lessonID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "指定されたレッスンが見つかりません。", "lesson_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの確認中にエラーが発生しました。", "", err)
		}

		// 2. カードを作成
		card := &model.Flashcard{
			FlashcardID: uuid.New(),
			LessonID:    lessonID,
			UserID:      userID,
			Front:       req.Front,
			Back:        req.Back,
		}
		if err := s.cardRepo.Create(ctx, tx, card); err != nil {
			logger.Error("Error creating flashcard in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "カードの作成に失敗しました。", "", err)
		}

		created = card
		return nil // コミット
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Flashcard added", "flashcard_id", created.FlashcardID)
	return created, nil
}

func (s *lessonService) ListFlashcards(ctx context.Context, userID, lessonID uuid.UUID) ([]*model.Flashcard, error) {
	cards, err := s.cardRepo.FindByLesson(ctx, s.db, userID, lessonID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "カード一覧の取得に失敗しました。", "", err)
	}
	return cards, nil
}
