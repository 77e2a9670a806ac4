// internal/model/review.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewTracking は (ユーザー, 暗記カード) ごとの復習スケジュール状態を表します。
// 1ペアにつき必ず1行。初回アクセス時にデフォルト値で遅延作成されます。
type ReviewTracking struct {
	TrackingID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"tracking_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_user_flashcard,unique" json:"-"`
	FlashcardID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_flashcard,unique" json:"flashcard_id"`
	EaseFactor     float64   `gorm:"not null;default:2.5" json:"ease_factor"`    // 1.3が下限
	Repetitions    int       `gorm:"not null;default:0" json:"repetitions"`      // 連続正解数 (失敗でリセット)
	Interval       int       `gorm:"not null;default:1" json:"interval"`         // 次回復習までの日数
	NextReviewDate time.Time `gorm:"not null;index" json:"next_review_date"`     // UTC
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// 関連 (Preload用)
	Flashcard *Flashcard `gorm:"foreignKey:FlashcardID;references:FlashcardID" json:"-"`
}

func (ReviewTracking) TableName() string {
	return "review_tracking"
}

// SubmitReviewRequest は復習結果送信リクエストのDTO。
// Quality は 0 (完全に忘れた) 〜 5 (完璧) の自己評価。
// 0 が有効値のためポインタで required を判定する。
type SubmitReviewRequest struct {
	FlashcardID uuid.UUID `json:"flashcard_id" validate:"required"`
	Quality     *int      `json:"quality" validate:"required,min=0,max=5"`
}

// DueCardResponse は復習対象カードのレスポンスDTO (カード内容 + 追跡状態)
type DueCardResponse struct {
	FlashcardID uuid.UUID       `json:"flashcard_id"`
	LessonID    uuid.UUID       `json:"lesson_id"`
	Front       string          `json:"front"`
	Back        string          `json:"back"` // 正解表示用に含める
	Tracking    *ReviewTracking `json:"tracking"`
}
