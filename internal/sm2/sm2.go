// internal/sm2/sm2.go
// SM-2系の間隔反復アルゴリズムの純粋な実装です。
// I/Oや永続化は一切持たず、状態の変換だけを行います。
package sm2

import (
	"errors"
	"time"
)

const (
	// DefaultEaseFactor は新規カードの易しさ係数
	DefaultEaseFactor = 2.5
	// MinEaseFactor は易しさ係数の下限。
	// interval * easeFactor の成長がこの下限に依存するため、
	// この値を下回らせてはならない。
	MinEaseFactor = 1.3
	// InitialInterval は新規カードの復習間隔 (日)
	InitialInterval = 1

	// Quality の有効範囲 (0=完全に忘れた 〜 5=完璧)
	MinQuality = 0
	MaxQuality = 5
)

// ErrQualityOutOfRange は quality が [0,5] の範囲外の場合のエラー
var ErrQualityOutOfRange = errors.New("quality must be between 0 and 5")

// State は1枚のカードの復習スケジュール状態です。
// Review は State を値として受け取り、新しい State を返します
// (呼び出し間で参照を保持しない)。
type State struct {
	EaseFactor     float64
	Repetitions    int
	Interval       int
	NextReviewDate time.Time
}

// NewState は初回アクセス時のデフォルト状態を返します。
// NextReviewDate を少し過去にして、必ず復習対象に含まれるようにする。
func NewState(now time.Time) State {
	return State{
		EaseFactor:     DefaultEaseFactor,
		Repetitions:    0,
		Interval:       InitialInterval,
		NextReviewDate: now.UTC().Add(-time.Minute),
	}
}

// ValidateQuality は quality が有効範囲内か検証します
func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return ErrQualityOutOfRange
	}
	return nil
}

// Review は現在の状態と quality 評価から次の状態を計算します。
//
//  1. quality >= 3 を正解として分類
//  2. 正解: 間隔は 1日 → 6日 → floor(interval * easeFactor) の3段階。
//     不正解: repetitions を0に戻し、間隔も1日に戻す
//  3. 易しさ係数は正誤に関わらず元の quality で更新し、1.3 でクランプ
//  4. 次回復習日は now + 新しい間隔 (日)
//
// 間隔の計算には更新前の EaseFactor を使う点に注意
// (repetitions==2, interval=6, ef=2.5 で正解 → floor(6*2.5)=15)。
func Review(s State, quality int, now time.Time) (State, error) {
	if err := ValidateQuality(quality); err != nil {
		return State{}, err
	}

	now = now.UTC()
	next := s

	if quality >= 3 {
		// 正解
		switch s.Repetitions {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			// 整数への切り捨て (ゼロ方向)
			next.Interval = int(float64(s.Interval) * s.EaseFactor)
		}
		next.Repetitions = s.Repetitions + 1
	} else {
		// 不正解: 進捗をリセット
		next.Repetitions = 0
		next.Interval = 1
	}

	// 易しさ係数の更新。(5-q) の2次項により、低評価ほど大きく下がる
	q := float64(quality)
	ef := s.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	next.EaseFactor = ef

	next.NextReviewDate = now.AddDate(0, 0, next.Interval)

	return next, nil
}

// IsDue はカードが現在復習対象かどうかを判定します。
// repetitions == 0 のカード (未学習 / 直前に失敗) は無条件で対象。
func IsDue(s State, now time.Time) bool {
	if s.Repetitions == 0 {
		return true
	}
	return !s.NextReviewDate.After(now)
}
