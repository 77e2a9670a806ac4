//go:generate mockery --name TrackingRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_quizcraft/internal/middleware"
	"go_quizcraft/internal/model"
	"go_quizcraft/internal/sm2"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackingRepository は復習スケジュール状態 (ReviewTracking) の永続化を担います。
// この層が (user, flashcard) ペアごとの状態の唯一の管理者です。
type TrackingRepository interface {
	// GetOrCreate は既存の追跡レコードを返すか、無ければデフォルト値で作成して返します。
	// 同一ペアへの同時初回アクセスでも行が重複しないこと (アトミックなupsert)。
	GetOrCreate(ctx context.Context, db *gorm.DB, userID, flashcardID uuid.UUID) (*model.ReviewTracking, error)
	// Update は loadedAt (読み込み時点の updated_at) が一致する場合のみ更新します。
	// 一致しない場合は model.ErrConflict を返します (楽観ロック)。
	Update(ctx context.Context, tx *gorm.DB, tracking *model.ReviewTracking, loadedAt time.Time) error
	// ListByUserAndCards は指定カード群の追跡レコードを一括取得します (存在するもののみ)。
	ListByUserAndCards(ctx context.Context, db *gorm.DB, userID uuid.UUID, flashcardIDs []uuid.UUID) ([]*model.ReviewTracking, error)
}

type gormTrackingRepository struct{}

func NewGormTrackingRepository() TrackingRepository {
	return &gormTrackingRepository{}
}

func (r *gormTrackingRepository) GetOrCreate(ctx context.Context, db *gorm.DB, userID, flashcardID uuid.UUID) (*model.ReviewTracking, error) {
	logger := middleware.GetLogger(ctx)

	var tracking model.ReviewTracking
	result := db.WithContext(ctx).
		Where("user_id = ? AND flashcard_id = ?", userID, flashcardID).
		First(&tracking)
	if result.Error == nil {
		return &tracking, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		logger.Error("Error finding review tracking in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"flashcard_id", flashcardID.String(),
		)
		return nil, fmt.Errorf("gormTrackingRepository.GetOrCreate: %w", result.Error)
	}

	// 無ければデフォルト状態で作成する。
	// read-then-insert の競合に備え ON CONFLICT DO NOTHING で挿入し、
	// 負けた場合は勝者の行を読み直す。
	state := sm2.NewState(time.Now())
	fresh := &model.ReviewTracking{
		TrackingID:     uuid.New(),
		UserID:         userID,
		FlashcardID:    flashcardID,
		EaseFactor:     state.EaseFactor,
		Repetitions:    state.Repetitions,
		Interval:       state.Interval,
		NextReviewDate: state.NextReviewDate,
	}
	createResult := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "flashcard_id"}},
			DoNothing: true,
		}).
		Create(fresh)
	if createResult.Error != nil {
		logger.Error("Error creating review tracking in DB",
			"error", createResult.Error,
			"user_id", userID.String(),
			"flashcard_id", flashcardID.String(),
		)
		return nil, fmt.Errorf("gormTrackingRepository.GetOrCreate: %w", createResult.Error)
	}
	if createResult.RowsAffected > 0 {
		return fresh, nil
	}

	// 競合に負けた場合
	result = db.WithContext(ctx).
		Where("user_id = ? AND flashcard_id = ?", userID, flashcardID).
		First(&tracking)
	if result.Error != nil {
		logger.Error("Error re-reading review tracking after upsert race",
			"error", result.Error,
			"user_id", userID.String(),
			"flashcard_id", flashcardID.String(),
		)
		return nil, fmt.Errorf("gormTrackingRepository.GetOrCreate: %w", result.Error)
	}
	return &tracking, nil
}

func (r *gormTrackingRepository) Update(ctx context.Context, tx *gorm.DB, tracking *model.ReviewTracking, loadedAt time.Time) error {
	logger := middleware.GetLogger(ctx)

	now := time.Now().UTC()
	result := tx.WithContext(ctx).
		Model(&model.ReviewTracking{}).
		Where("tracking_id = ? AND updated_at = ?", tracking.TrackingID, loadedAt).
		Updates(map[string]interface{}{
			"ease_factor":      tracking.EaseFactor,
			"repetitions":      tracking.Repetitions,
			"interval":         tracking.Interval,
			"next_review_date": tracking.NextReviewDate,
			"updated_at":       now,
		})
	if result.Error != nil {
		logger.Error("Error updating review tracking in DB",
			"error", result.Error,
			"tracking_id", tracking.TrackingID.String(),
		)
		return fmt.Errorf("gormTrackingRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// 読み込みから更新までの間に他のリクエストが書き換えた
		return model.ErrConflict
	}
	tracking.UpdatedAt = now
	return nil
}

func (r *gormTrackingRepository) ListByUserAndCards(ctx context.Context, db *gorm.DB, userID uuid.UUID, flashcardIDs []uuid.UUID) ([]*model.ReviewTracking, error) {
	logger := middleware.GetLogger(ctx)

	if len(flashcardIDs) == 0 {
		return []*model.ReviewTracking{}, nil
	}

	var trackings []*model.ReviewTracking
	result := db.WithContext(ctx).
		Where("user_id = ? AND flashcard_id IN ?", userID, flashcardIDs).
		Find(&trackings)
	if result.Error != nil {
		logger.Error("Error listing review trackings in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormTrackingRepository.ListByUserAndCards: %w", result.Error)
	}
	return trackings, nil
}
