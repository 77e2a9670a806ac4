//go:generate mockery --name ReviewService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"go_quizcraft/internal/config"
	"go_quizcraft/internal/middleware"
	"go_quizcraft/internal/model"
	"go_quizcraft/internal/repository"
	"go_quizcraft/internal/sm2"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewService は復習結果の受付と復習対象カードの列挙を担います
type ReviewService interface {
	SubmitReview(ctx context.Context, userID, flashcardID uuid.UUID, quality int) (*model.ReviewTracking, error)
	GetDueCards(ctx context.Context, userID, lessonID uuid.UUID) ([]*model.DueCardResponse, error)
}

type reviewService struct {
	db        *gorm.DB
	trackRepo repository.TrackingRepository
	cardRepo  repository.FlashcardRepository
	cfg       *config.Config
}

func NewReviewService(db *gorm.DB, trackRepo repository.TrackingRepository, cardRepo repository.FlashcardRepository, cfg *config.Config) ReviewService {
	return &reviewService{
		db:        db,
		trackRepo: trackRepo,
		cardRepo:  cardRepo,
		cfg:       cfg,
	}
}

// SubmitReview は quality 評価を受けてSM-2で次の状態を計算し、永続化します。
// load → compute → persist をトランザクションで囲み、同一カードへの
// 同時送信はリポジトリの楽観ロックで model.ErrConflict になります。
func (s *reviewService) SubmitReview(ctx context.Context, userID, flashcardID uuid.UUID, quality int) (*model.ReviewTracking, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "flashcard_id", flashcardID)

	// quality の検証はストアに触れる前に行う (範囲外では追跡レコードを作らない)
	if err := sm2.ValidateQuality(quality); err != nil {
		logger.Warn("Invalid quality rating submitted", "quality", quality)
		return nil, model.NewAppError("INVALID_QUALITY", "理解度評価は0から5の間で指定してください。", "quality", model.ErrInvalidInput)
	}

	// カードの存在確認 (存在しないカードに追跡レコードを作らない)
	if _, err := s.cardRepo.FindByID(ctx, s.db, userID, flashcardID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Flashcard not found for review")
			return nil, model.NewAppError("NOT_FOUND", "指定されたカードが見つかりません。", "flashcard_id", model.ErrNotFound)
		}
		logger.Error("Error finding flashcard for review", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "カードの確認中にエラーが発生しました。", "", err)
	}

	var updated *model.ReviewTracking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracking, err := s.trackRepo.GetOrCreate(ctx, tx, userID, flashcardID)
		if err != nil {
			logger.Error("Error loading review tracking in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "学習状態の取得に失敗しました。", "", err)
		}
		loadedAt := tracking.UpdatedAt

		state := sm2.State{
			EaseFactor:     tracking.EaseFactor,
			Repetitions:    tracking.Repetitions,
			Interval:       tracking.Interval,
			NextReviewDate: tracking.NextReviewDate,
		}
		next, err := sm2.Review(state, quality, time.Now())
		if err != nil {
			// 冒頭で検証済みのため通常経路では到達しない
			return model.NewAppError("INVALID_QUALITY", "理解度評価は0から5の間で指定してください。", "quality", model.ErrInvalidInput)
		}

		tracking.EaseFactor = next.EaseFactor
		tracking.Repetitions = next.Repetitions
		tracking.Interval = next.Interval
		tracking.NextReviewDate = next.NextReviewDate

		if err := s.trackRepo.Update(ctx, tx, tracking, loadedAt); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Concurrent review update detected", "tracking_id", tracking.TrackingID)
				return model.NewAppError("CONFLICT", "他のリクエストにより学習状態が更新されました。再取得してやり直してください。", "", model.ErrConflict)
			}
			logger.Error("Error persisting review tracking", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "学習状態の更新に失敗しました。", "", err)
		}

		updated = tracking
		return nil // コミット
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Review submitted",
		"quality", quality,
		"repetitions", updated.Repetitions,
		"interval", updated.Interval,
		"next_review_date", updated.NextReviewDate,
	)
	return updated, nil
}

// GetDueCards はレッスン内のカードのうち現在復習対象のものを返します。
// 追跡レコードが無いカードはデフォルト状態で作成してから判定するため、
// 未学習カードが落ちることはありません。途中でストアがエラーを返した場合は
// 「対象外」として握り潰さず、そのままエラーを返します。
func (s *reviewService) GetDueCards(ctx context.Context, userID, lessonID uuid.UUID) ([]*model.DueCardResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "lesson_id", lessonID)

	cards, err := s.cardRepo.FindByLesson(ctx, s.db, userID, lessonID)
	if err != nil {
		logger.Error("Failed to list flashcards for due check", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "カード一覧の取得に失敗しました。", "", err)
	}

	// 既存の追跡レコードを一括で取得し、無いカードだけ個別に作成する
	cardIDs := make([]uuid.UUID, len(cards))
	for i, card := range cards {
		cardIDs[i] = card.FlashcardID
	}
	trackings, err := s.trackRepo.ListByUserAndCards(ctx, s.db, userID, cardIDs)
	if err != nil {
		logger.Error("Failed to list review trackings", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "学習状態の取得に失敗しました。", "", err)
	}
	byCard := make(map[uuid.UUID]*model.ReviewTracking, len(trackings))
	for _, tracking := range trackings {
		byCard[tracking.FlashcardID] = tracking
	}

	now := time.Now().UTC()
	responses := make([]*model.DueCardResponse, 0, len(cards))

	for _, card := range cards {
		tracking, ok := byCard[card.FlashcardID]
		if !ok {
			tracking, err = s.trackRepo.GetOrCreate(ctx, s.db, userID, card.FlashcardID)
			if err != nil {
				logger.Error("Failed to create default review tracking", "error", err, "flashcard_id", card.FlashcardID)
				return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "学習状態の作成に失敗しました。", "", err)
			}
		}

		state := sm2.State{
			EaseFactor:     tracking.EaseFactor,
			Repetitions:    tracking.Repetitions,
			Interval:       tracking.Interval,
			NextReviewDate: tracking.NextReviewDate,
		}
		if !sm2.IsDue(state, now) {
			continue
		}

		responses = append(responses, &model.DueCardResponse{
			FlashcardID: card.FlashcardID,
			LessonID:    card.LessonID,
			Front:       card.Front,
			Back:        card.Back,
			Tracking:    tracking,
		})
		if s.cfg.App.ReviewLimit > 0 && len(responses) >= s.cfg.App.ReviewLimit {
			break
		}
	}

	logger.Info("Successfully retrieved due cards", "candidates", len(cards), "due", len(responses))
	return responses, nil
}
