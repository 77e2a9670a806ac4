package handlers_test // テスト対象とは別のパッケージ名

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"go_quizcraft/internal/handlers"
	"go_quizcraft/internal/model"

	svc_mocks "go_quizcraft/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTestLessonHandler(mockService *svc_mocks.LessonService) *handlers.LessonHandler {
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil)) // ログ出力を抑制
	return handlers.NewLessonHandler(mockService, testLogger)
}

// --- Test PostLesson ---
func TestLessonHandler_PostLesson(t *testing.T) {
	mockService := new(svc_mocks.LessonService)
	handler := setupTestLessonHandler(mockService)

	testUserID := uuid.New()
	ctxWithUser := context.WithValue(context.Background(), model.UserIDKey, testUserID)

	createdLesson := &model.Lesson{
		LessonID: uuid.New(),
		UserID:   testUserID,
		Title:    "英単語レッスン",
	}

	tests := []struct {
		name           string
		reqBody        interface{}
		setupContext   func() context.Context
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:         "正常系: レッスンを作成",
			reqBody:      &model.CreateLessonRequest{Title: "英単語レッスン"},
			setupContext: func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("CreateLesson", mock.Anything, testUserID, mock.AnythingOfType("*model.CreateLessonRequest")).
					Return(createdLesson, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"title":"英単語レッスン"`,
		},
		{
			name: "正常系: カード同時登録",
			reqBody: &model.CreateLessonRequest{
				Title: "英単語レッスン",
				Flashcards: []model.CreateFlashcardRequest{
					{Front: "apple", Back: "りんご"},
				},
			},
			setupContext: func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("CreateLesson", mock.Anything, testUserID, mock.AnythingOfType("*model.CreateLessonRequest")).
					Return(createdLesson, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"lesson_id"`,
		},
		{
			name:           "異常系: 認証エラー",
			reqBody:        &model.CreateLessonRequest{Title: "英単語レッスン"},
			setupContext:   func() context.Context { return context.Background() },
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "UNAUTHORIZED",
		},
		{
			name:           "異常系: 不正なJSON",
			reqBody:        `{"title":`,
			setupContext:   func() context.Context { return ctxWithUser },
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "INVALID_REQUEST_BODY",
		},
		{
			name:           "異常系: title未指定はバリデーションエラー",
			reqBody:        &model.CreateLessonRequest{Description: "説明のみ"},
			setupContext:   func() context.Context { return ctxWithUser },
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "VALIDATION_ERROR",
		},
		{
			name: "異常系: カードのfrontが空はバリデーションエラー",
			reqBody: &model.CreateLessonRequest{
				Title: "英単語レッスン",
				Flashcards: []model.CreateFlashcardRequest{
					{Front: "", Back: "りんご"},
				},
			},
			setupContext:   func() context.Context { return ctxWithUser },
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "VALIDATION_ERROR",
		},
		{
			name:         "異常系: サービス内部エラー",
			reqBody:      &model.CreateLessonRequest{Title: "英単語レッスン"},
			setupContext: func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("CreateLesson", mock.Anything, testUserID, mock.AnythingOfType("*model.CreateLessonRequest")).
					Return(nil, errors.New("internal service error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService.Mock = mock.Mock{}
			tt.setupMock()

			req := newJSONRequest(t, http.MethodPost, "/api/v1/lessons", tt.reqBody)
			req = req.WithContext(tt.setupContext())

			rr := httptest.NewRecorder()
			handler.PostLesson(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// --- Test GetLessons ---
func TestLessonHandler_GetLessons(t *testing.T) {
	mockService := new(svc_mocks.LessonService)
	handler := setupTestLessonHandler(mockService)

	testUserID := uuid.New()
	ctxWithUser := context.WithValue(context.Background(), model.UserIDKey, testUserID)

	lessons := []*model.Lesson{
		{LessonID: uuid.New(), UserID: testUserID, Title: "レッスン1"},
		{LessonID: uuid.New(), UserID: testUserID, Title: "レッスン2"},
	}

	tests := []struct {
		name           string
		setupContext   func() context.Context
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:         "正常系: 複数件取得",
			setupContext: func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("ListLessons", mock.Anything, testUserID).
					Return(lessons, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"レッスン1"`,
		},
		{
			name:         "正常系: サービスがnilを返しても空配列",
			setupContext: func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("ListLessons", mock.Anything, testUserID).
					Return(nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "異常系: 認証エラー",
			setupContext:   func() context.Context { return context.Background() },
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "UNAUTHORIZED",
		},
		{
			name:         "異常系: サービスエラー",
			setupContext: func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("ListLessons", mock.Anything, testUserID).
					Return(nil, errors.New("internal service error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService.Mock = mock.Mock{}
			tt.setupMock()

			req := newJSONRequest(t, http.MethodGet, "/api/v1/lessons", nil)
			req = req.WithContext(tt.setupContext())

			rr := httptest.NewRecorder()
			handler.GetLessons(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// --- Test GetLesson ---
func TestLessonHandler_GetLesson(t *testing.T) {
	mockService := new(svc_mocks.LessonService)
	handler := setupTestLessonHandler(mockService)

	testUserID := uuid.New()
	testLessonID := uuid.New()
	ctxWithUser := context.WithValue(context.Background(), model.UserIDKey, testUserID)

	lessonWithCards := &model.Lesson{
		LessonID: testLessonID,
		UserID:   testUserID,
		Title:    "英単語レッスン",
		Flashcards: []model.Flashcard{
			{FlashcardID: uuid.New(), LessonID: testLessonID, Front: "apple", Back: "りんご"},
		},
	}

	tests := []struct {
		name           string
		lessonIDParam  string
		setupContext   func() context.Context
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "正常系: カード付きで取得",
			lessonIDParam: testLessonID.String(),
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("GetLesson", mock.Anything, testUserID, testLessonID).
					Return(lessonWithCards, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"front":"apple"`,
		},
		{
			name:           "異常系: 認証エラー",
			lessonIDParam:  testLessonID.String(),
			setupContext:   func() context.Context { return context.Background() },
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "UNAUTHORIZED",
		},
		{
			name:           "異常系: 不正なlesson_id形式",
			lessonIDParam:  "invalid-uuid",
			setupContext:   func() context.Context { return ctxWithUser },
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "INVALID_URL_PARAM",
		},
		{
			name:          "異常系: レッスンが存在しない",
			lessonIDParam: testLessonID.String(),
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("GetLesson", mock.Anything, testUserID, testLessonID).
					Return(nil, model.NewAppError("NOT_FOUND", "指定されたレッスンが見つかりません。", "lesson_id", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "NOT_FOUND",
		},
		{
			name:          "異常系: サービスエラー",
			lessonIDParam: testLessonID.String(),
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("GetLesson", mock.Anything, testUserID, testLessonID).
					Return(nil, errors.New("internal service error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService.Mock = mock.Mock{}
			tt.setupMock()

			req := newJSONRequest(t, http.MethodGet, "/api/v1/lessons/"+tt.lessonIDParam, nil)
			ctx := contextWithChiURLParam(tt.setupContext(), "lesson_id", tt.lessonIDParam)
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.GetLesson(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// --- Test DeleteLesson ---
func TestLessonHandler_DeleteLesson(t *testing.T) {
	mockService := new(svc_mocks.LessonService)
	handler := setupTestLessonHandler(mockService)

	testUserID := uuid.New()
	testLessonID := uuid.New()
	ctxWithUser := context.WithValue(context.Background(), model.UserIDKey, testUserID)

	tests := []struct {
		name           string
		lessonIDParam  string
		setupContext   func() context.Context
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "正常系: 削除成功",
			lessonIDParam: testLessonID.String(),
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("DeleteLesson", mock.Anything, testUserID, testLessonID).
					Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
			expectedBody:   "",
		},
		{
			name:           "異常系: 認証エラー",
			lessonIDParam:  testLessonID.String(),
			setupContext:   func() context.Context { return context.Background() },
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "UNAUTHORIZED",
		},
		{
			name:           "異常系: 不正なlesson_id形式",
			lessonIDParam:  "invalid-uuid",
			setupContext:   func() context.Context { return ctxWithUser },
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "INVALID_URL_PARAM",
		},
		{
			name:          "異常系: レッスンが存在しない",
			lessonIDParam: testLessonID.String(),
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("DeleteLesson", mock.Anything, testUserID, testLessonID).
					Return(model.NewAppError("NOT_FOUND", "指定されたレッスンが見つかりません。", "lesson_id", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService.Mock = mock.Mock{}
			tt.setupMock()

			req := newJSONRequest(t, http.MethodDelete, "/api/v1/lessons/"+tt.lessonIDParam, nil)
			ctx := contextWithChiURLParam(tt.setupContext(), "lesson_id", tt.lessonIDParam)
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.DeleteLesson(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// --- Test PostFlashcard ---
func TestLessonHandler_PostFlashcard(t *testing.T) {
	mockService := new(svc_mocks.LessonService)
	handler := setupTestLessonHandler(mockService)

	testUserID := uuid.New()
	testLessonID := uuid.New()
	ctxWithUser := context.WithValue(context.Background(), model.UserIDKey, testUserID)

	createdCard := &model.Flashcard{
		FlashcardID: uuid.New(),
		LessonID:    testLessonID,
		UserID:      testUserID,
		Front:       "apple",
		Back:        "りんご",
	}

	tests := []struct {
		name           string
		lessonIDParam  string
		reqBody        interface{}
		setupContext   func() context.Context
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "正常系: カードを追加",
			lessonIDParam: testLessonID.String(),
			reqBody:       &model.CreateFlashcardRequest{Front: "apple", Back: "りんご"},
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("AddFlashcard", mock.Anything, testUserID, testLessonID, mock.AnythingOfType("*model.CreateFlashcardRequest")).
					Return(createdCard, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"front":"apple"`,
		},
		{
			name:           "異常系: 認証エラー",
			lessonIDParam:  testLessonID.String(),
			reqBody:        &model.CreateFlashcardRequest{Front: "apple", Back: "りんご"},
			setupContext:   func() context.Context { return context.Background() },
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "UNAUTHORIZED",
		},
		{
			name:           "異常系: 不正なlesson_id形式",
			lessonIDParam:  "invalid-uuid",
			reqBody:        &model.CreateFlashcardRequest{Front: "apple", Back: "りんご"},
			setupContext:   func() context.Context { return ctxWithUser },
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "INVALID_URL_PARAM",
		},
		{
			name:           "異常系: back未指定はバリデーションエラー",
			lessonIDParam:  testLessonID.String(),
			reqBody:        &model.CreateFlashcardRequest{Front: "apple"},
			setupContext:   func() context.Context { return ctxWithUser },
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "VALIDATION_ERROR",
		},
		{
			name:          "異常系: レッスンが存在しない",
			lessonIDParam: testLessonID.String(),
			reqBody:       &model.CreateFlashcardRequest{Front: "apple", Back: "りんご"},
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("AddFlashcard", mock.Anything, testUserID, testLessonID, mock.AnythingOfType("*model.CreateFlashcardRequest")).
					Return(nil, model.NewAppError("NOT_FOUND", "指定されたレッスンが見つかりません。", "lesson_id", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService.Mock = mock.Mock{}
			tt.setupMock()

			req := newJSONRequest(t, http.MethodPost, "/api/v1/lessons/"+tt.lessonIDParam+"/flashcards", tt.reqBody)
			ctx := contextWithChiURLParam(tt.setupContext(), "lesson_id", tt.lessonIDParam)
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.PostFlashcard(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// --- Test GetFlashcards ---
func TestLessonHandler_GetFlashcards(t *testing.T) {
	mockService := new(svc_mocks.LessonService)
	handler := setupTestLessonHandler(mockService)

	testUserID := uuid.New()
	testLessonID := uuid.New()
	ctxWithUser := context.WithValue(context.Background(), model.UserIDKey, testUserID)

	cards := []*model.Flashcard{
		{FlashcardID: uuid.New(), LessonID: testLessonID, Front: "apple", Back: "りんご"},
		{FlashcardID: uuid.New(), LessonID: testLessonID, Front: "orange", Back: "みかん"},
	}

	tests := []struct {
		name           string
		lessonIDParam  string
		setupContext   func() context.Context
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "正常系: 複数件取得",
			lessonIDParam: testLessonID.String(),
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("ListFlashcards", mock.Anything, testUserID, testLessonID).
					Return(cards, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"front":"orange"`,
		},
		{
			name:          "正常系: サービスがnilを返しても空配列",
			lessonIDParam: testLessonID.String(),
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("ListFlashcards", mock.Anything, testUserID, testLessonID).
					Return(nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "異常系: 認証エラー",
			lessonIDParam:  testLessonID.String(),
			setupContext:   func() context.Context { return context.Background() },
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "UNAUTHORIZED",
		},
		{
			name:           "異常系: 不正なlesson_id形式",
			lessonIDParam:  "invalid-uuid",
			setupContext:   func() context.Context { return ctxWithUser },
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "INVALID_URL_PARAM",
		},
		{
			name:          "異常系: サービスエラー",
			lessonIDParam: testLessonID.String(),
			setupContext:  func() context.Context { return ctxWithUser },
			setupMock: func() {
				mockService.On("ListFlashcards", mock.Anything, testUserID, testLessonID).
					Return(nil, errors.New("internal service error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService.Mock = mock.Mock{}
			tt.setupMock()

			req := newJSONRequest(t, http.MethodGet, "/api/v1/lessons/"+tt.lessonIDParam+"/flashcards", nil)
			ctx := contextWithChiURLParam(tt.setupContext(), "lesson_id", tt.lessonIDParam)
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.GetFlashcards(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}
