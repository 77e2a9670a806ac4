// internal/handlers/quiz_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_quizcraft/internal/middleware"
	"go_quizcraft/internal/model"
	"go_quizcraft/internal/service"
	"go_quizcraft/internal/webutil"
)

type QuizHandler struct {
	service service.QuizService
	logger  *slog.Logger
}

func NewQuizHandler(s service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		service: s,
		logger:  logger,
	}
}

// PostAttempt はクイズの受験結果を記録するハンドラ
func (h *QuizHandler) PostAttempt(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAttempt"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.SubmitQuizAttemptRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if !validateStruct(w, logger, req) {
		return
	}

	attempt, err := h.service.SubmitAttempt(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error submitting quiz attempt in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Quiz attempt created successfully", slog.String("attempt_id", attempt.AttemptID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, attempt, logger)
}

// GetAttempts は指定レッスンの受験履歴を取得するハンドラ
func (h *QuizHandler) GetAttempts(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetAttempts"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	lessonID, ok := parseLessonID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("lesson_id", lessonID.String()))

	attempts, err := h.service.ListAttempts(r.Context(), userID, lessonID)
	if err != nil {
		logger.Error("Error listing quiz attempts in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if attempts == nil {
		attempts = []*model.QuizAttempt{}
	}
	logger.Info("Quiz attempts listed successfully", slog.Int("count", len(attempts)))
	webutil.RespondWithJSON(w, http.StatusOK, attempts, logger)
}
