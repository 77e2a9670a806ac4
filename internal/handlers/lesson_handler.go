// internal/handlers/lesson_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_quizcraft/internal/middleware"
	"go_quizcraft/internal/model"
	"go_quizcraft/internal/service"
	"go_quizcraft/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type LessonHandler struct {
	service service.LessonService
	logger  *slog.Logger
}

func NewLessonHandler(s service.LessonService, logger *slog.Logger) *LessonHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LessonHandler{
		service: s,
		logger:  logger,
	}
}

// validateStruct はリクエストDTOを検証し、失敗時はAppErrorを書き込んで false を返す
func validateStruct(w http.ResponseWriter, logger *slog.Logger, req interface{}) bool {
	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))

			firstErr := validationErrors[0]
			translatedMsg := firstErr.Translate(webutil.Trans)

			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				translatedMsg,
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return false
	}
	return true
}

// parseLessonID はURLパラメータからlesson_idを取り出す
func parseLessonID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	lessonIDStr := chi.URLParam(r, "lesson_id")
	lessonID, err := uuid.Parse(lessonIDStr)
	if err != nil {
		logger.Warn("Invalid lesson ID format in URL", slog.String("lesson_id_str", lessonIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "lesson_idの形式が正しくありません。", "lesson_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return lessonID, true
}

// PostLesson は新しいレッスンを作成するハンドラ (カード同時登録も可)
func (h *LessonHandler) PostLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostLesson"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.CreateLessonRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if !validateStruct(w, logger, req) {
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating lesson in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lesson created successfully", slog.String("lesson_id", lesson.LessonID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, lesson, logger)
}

// GetLessons はレッスン一覧を取得するハンドラ
func (h *LessonHandler) GetLessons(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetLessons"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	lessons, err := h.service.ListLessons(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing lessons in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if lessons == nil {
		lessons = []*model.Lesson{}
	}
	logger.Info("Lessons listed successfully", slog.Int("count", len(lessons)))
	webutil.RespondWithJSON(w, http.StatusOK, lessons, logger)
}

// GetLesson は特定のレッスンをカード付きで取得するハンドラ
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetLesson"))

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

	lesson, err := h.service.GetLesson(r.Context(), userID, lessonID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Lesson not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting lesson from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lesson retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, lesson, logger)
}

// DeleteLesson はレッスンと配下のカードを削除するハンドラ
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteLesson"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt for DeleteLesson", slog.String("error", err.Error()))
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

	err = h.service.DeleteLesson(r.Context(), userID, lessonID)
	if err != nil {
		logger.Error("Error deleting lesson in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lesson deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// PostFlashcard は既存レッスンにカードを追加するハンドラ
func (h *LessonHandler) PostFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostFlashcard"))

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

	var req model.CreateFlashcardRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if !validateStruct(w, logger, req) {
		return
	}

	card, err := h.service.AddFlashcard(r.Context(), userID, lessonID, &req)
	if err != nil {
		logger.Error("Error adding flashcard in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard created successfully", slog.String("flashcard_id", card.FlashcardID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, card, logger)
}

// GetFlashcards はレッスン内のカード一覧を取得するハンドラ
func (h *LessonHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetFlashcards"))

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

	cards, err := h.service.ListFlashcards(r.Context(), userID, lessonID)
	if err != nil {
		logger.Error("Error listing flashcards in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if cards == nil {
		cards = []*model.Flashcard{}
	}
	logger.Info("Flashcards listed successfully", slog.Int("count", len(cards)))
	webutil.RespondWithJSON(w, http.StatusOK, cards, logger)
}
