// internal/repository/tracking_repository_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"go_quizcraft/internal/model"
	"go_quizcraft/internal/sm2"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTrackingDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ReviewTracking{}))
	return db
}

func Test_gormTrackingRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	db := setupTrackingDB(t)
	repo := NewGormTrackingRepository()

	userID := uuid.New()
	flashcardID := uuid.New()

	t.Run("正常系: 初回アクセスでデフォルト状態のレコードが作られる", func(t *testing.T) {
		tracking, err := repo.GetOrCreate(ctx, db, userID, flashcardID)

		require.NoError(t, err)
		require.NotNil(t, tracking)
		assert.Equal(t, userID, tracking.UserID)
		assert.Equal(t, flashcardID, tracking.FlashcardID)
		assert.InDelta(t, sm2.DefaultEaseFactor, tracking.EaseFactor, 1e-9)
		assert.Equal(t, 0, tracking.Repetitions)
		assert.Equal(t, sm2.InitialInterval, tracking.Interval)
		// 作成直後から復習対象になるよう期日は過去
		assert.True(t, tracking.NextReviewDate.Before(time.Now()))
	})

	t.Run("正常系: 2回目以降は同じレコードが返る", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, db, userID, flashcardID)
		require.NoError(t, err)

		second, err := repo.GetOrCreate(ctx, db, userID, flashcardID)
		require.NoError(t, err)

		assert.Equal(t, first.TrackingID, second.TrackingID)

		var count int64
		require.NoError(t, db.Model(&model.ReviewTracking{}).
			Where("user_id = ? AND flashcard_id = ?", userID, flashcardID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("正常系: 別カードは別レコード", func(t *testing.T) {
		otherCardID := uuid.New()

		tracking, err := repo.GetOrCreate(ctx, db, userID, otherCardID)

		require.NoError(t, err)
		assert.Equal(t, otherCardID, tracking.FlashcardID)
	})
}

func Test_gormTrackingRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := setupTrackingDB(t)
	repo := NewGormTrackingRepository()

	userID := uuid.New()
	flashcardID := uuid.New()

	t.Run("正常系: 読み込み時点のupdated_atが一致すれば更新できる", func(t *testing.T) {
		tracking, err := repo.GetOrCreate(ctx, db, userID, flashcardID)
		require.NoError(t, err)
		loadedAt := tracking.UpdatedAt

		tracking.EaseFactor = 2.6
		tracking.Repetitions = 1
		tracking.Interval = 1
		tracking.NextReviewDate = time.Now().AddDate(0, 0, 1)

		err = repo.Update(ctx, db, tracking, loadedAt)
		require.NoError(t, err)

		var stored model.ReviewTracking
		require.NoError(t, db.Where("tracking_id = ?", tracking.TrackingID).First(&stored).Error)
		assert.InDelta(t, 2.6, stored.EaseFactor, 1e-9)
		assert.Equal(t, 1, stored.Repetitions)
	})

	t.Run("異常系: 古いupdated_atでの更新はErrConflict", func(t *testing.T) {
		tracking, err := repo.GetOrCreate(ctx, db, userID, flashcardID)
		require.NoError(t, err)
		staleLoadedAt := tracking.UpdatedAt

		// 先に別のリクエストが更新した状況を作る
		winner := *tracking
		winner.Repetitions = 2
		require.NoError(t, repo.Update(ctx, db, &winner, staleLoadedAt))

		// 古い読み込み時刻でのCASは失敗する
		loser := *tracking
		loser.Repetitions = 1
		err = repo.Update(ctx, db, &loser, staleLoadedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)

		// 勝者の値が残っている
		var stored model.ReviewTracking
		require.NoError(t, db.Where("tracking_id = ?", tracking.TrackingID).First(&stored).Error)
		assert.Equal(t, 2, stored.Repetitions)
	})
}

func Test_gormTrackingRepository_ListByUserAndCards(t *testing.T) {
	ctx := context.Background()
	db := setupTrackingDB(t)
	repo := NewGormTrackingRepository()

	userID := uuid.New()
	cardID1 := uuid.New()
	cardID2 := uuid.New()
	cardID3 := uuid.New() // 追跡レコードなし

	_, err := repo.GetOrCreate(ctx, db, userID, cardID1)
	require.NoError(t, err)
	_, err = repo.GetOrCreate(ctx, db, userID, cardID2)
	require.NoError(t, err)
	// 別ユーザーの同一カードは混ざらない
	_, err = repo.GetOrCreate(ctx, db, uuid.New(), cardID1)
	require.NoError(t, err)

	t.Run("正常系: 指定カードのうち存在するものだけ返る", func(t *testing.T) {
		trackings, err := repo.ListByUserAndCards(ctx, db, userID, []uuid.UUID{cardID1, cardID2, cardID3})

		require.NoError(t, err)
		assert.Len(t, trackings, 2)
		for _, tracking := range trackings {
			assert.Equal(t, userID, tracking.UserID)
		}
	})

	t.Run("正常系: 空のID指定は空リスト", func(t *testing.T) {
		trackings, err := repo.ListByUserAndCards(ctx, db, userID, []uuid.UUID{})

		require.NoError(t, err)
		assert.Empty(t, trackings)
	})
}
