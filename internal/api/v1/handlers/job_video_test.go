package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"plumberf/internal/api/middleware"
	"plumberf/internal/api/v1/dto"
	"plumberf/internal/api/v1/routes"
	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/lifecycle"
	"plumberf/internal/app/model"
	"plumberf/internal/app/testutil"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *testutil.MockServices) {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()

	mockServices := testutil.NewMockServices(t)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(zaptest.NewLogger(t)))
	routes.RegisterRoutes(router, &routes.ServiceContainer{
		JobVideoService: mockServices.JobVideoService,
		LessonService:   mockServices.LessonService,
		CatalogService:  mockServices.CatalogService,
	})
	return router, mockServices
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var responseBody map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responseBody), rec.Body.String())
	}
	return rec, responseBody
}

func doRaw(t *testing.T, router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func pendingJobVideo(id int64) *dto.JobVideoResponse {
	return &dto.JobVideoResponse{JobVideo: model.JobVideo{
		ID:         id,
		UploaderID: 1,
		TradeID:    1,
		Status:     model.StatusUploadPending,
	}}
}

func TestJobVideoHandler_Initiate(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		headers        map[string]string
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:    "successful initiation",
			body:    map[string]interface{}{"trade_id": 1, "file_extension": "mp4", "difficulty_level": 2},
			headers: map[string]string{"X-User-ID": "7"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.JobVideoService.On("InitiateUpload", mock.Anything, int64(7), mock.MatchedBy(func(r *dto.InitiateUploadRequest) bool {
					return r.TradeID == 1 && r.FileExtension == "mp4" && *r.DifficultyLevel == 2
				})).Return(&dto.InitiateUploadResponse{
					JobVideoID:   42,
					UploadURL:    "http://uploads.local/job_videos/42.mp4",
					UploadMethod: http.MethodPut,
					JobVideo:     pendingJobVideo(42),
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, float64(42), body["job_video_id"])
				assert.Equal(t, "http://uploads.local/job_videos/42.mp4", body["upload_url"])
				jv := body["job_video"].(map[string]interface{})
				assert.Equal(t, "upload_pending", jv["status"])
			},
		},
		{
			name: "uploader defaults to 1",
			body: map[string]interface{}{"trade_id": 1, "file_extension": "mov"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.JobVideoService.On("InitiateUpload", mock.Anything, int64(1), mock.Anything).
					Return(&dto.InitiateUploadResponse{JobVideoID: 1, JobVideo: pendingJobVideo(1)}, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, float64(1), body["job_video_id"])
			},
		},
		{
			name: "unknown trade is a bad request",
			body: map[string]interface{}{"trade_id": 99, "file_extension": "mp4"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.JobVideoService.On("InitiateUpload", mock.Anything, int64(1), mock.Anything).
					Return(nil, apperrors.InvalidField("trade_id", "trade 99 does not exist"))
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "bad_request", body["kind"])
				details := body["details"].(map[string]interface{})
				assert.Contains(t, details["trade_id"], "does not exist")
				assert.NotEmpty(t, body["request_id"])
			},
		},
		{
			name:           "malformed body",
			body:           `{"trade_id": "one"`,
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
			},
		},
		{
			name:           "bad user header",
			body:           map[string]interface{}{"trade_id": 1, "file_extension": "mp4"},
			headers:        map[string]string{"X-User-ID": "abc"},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				details := body["details"].(map[string]interface{})
				assert.Contains(t, details, "x-user-id")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			rec, body := doJSON(t, router, http.MethodPost, "/job-videos/initiate", tt.body, tt.headers)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validateBody(t, body)
			mockServices.AssertExpectations(t)
		})
	}
}

func TestJobVideoHandler_ConfirmUpload(t *testing.T) {
	fileURL := "s3://job-videos/job_videos/5.mp4"
	matchURL := mock.MatchedBy(func(r *dto.ConfirmUploadRequest) bool { return r.FileURL == fileURL })

	tests := []struct {
		name           string
		path           string
		err            error
		expectedStatus int
		expectedKind   string
	}{
		{"confirmed", "/job-videos/5/confirm-upload", nil, http.StatusOK, ""},
		{"unknown id", "/job-videos/5/confirm-upload", apperrors.NotFound("job video", 5), http.StatusNotFound, "not_found"},
		{"already confirmed", "/job-videos/5/confirm-upload",
			apperrors.InvalidState("job video", 5, model.StatusUploaded, model.StatusUploaded), http.StatusConflict, "conflict"},
		{"object missing", "/job-videos/5/confirm-upload",
			apperrors.InvalidField("file_url", "no uploaded object found"), http.StatusBadRequest, "bad_request"},
		{"queue down", "/job-videos/5/confirm-upload",
			fmt.Errorf("%w: job video 5: redis unavailable", lifecycle.ErrNotQueued), http.StatusInternalServerError, "internal"},
		{"bad id", "/job-videos/abc/confirm-upload", nil, http.StatusBadRequest, "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			if tt.path == "/job-videos/5/confirm-upload" {
				if tt.err != nil {
					mockServices.JobVideoService.On("ConfirmUpload", mock.Anything, int64(5), matchURL).Return(nil, tt.err)
				} else {
					jv := pendingJobVideo(5)
					jv.Status = model.StatusUploaded
					jv.FileURL = fileURL
					mockServices.JobVideoService.On("ConfirmUpload", mock.Anything, int64(5), matchURL).Return(jv, nil)
				}
			}

			rec, body := doJSON(t, router, http.MethodPost, tt.path, map[string]string{"file_url": fileURL}, nil)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, body["kind"])
			} else {
				assert.Equal(t, "uploaded", body["status"])
				assert.Equal(t, fileURL, body["file_url"])
			}
			mockServices.AssertExpectations(t)
		})
	}
}

func TestJobVideoHandler_GetIncludesLesson(t *testing.T) {
	router, mockServices := setupTestRouter(t)

	jv := pendingJobVideo(9)
	jv.Status = model.StatusProcessed
	jv.Lesson = &dto.LessonResponse{
		Lesson: model.Lesson{ID: 3, JobVideoID: 9, Title: "Replace a kitchen sink P-trap", Status: model.LessonStatusDraft},
		Steps: []dto.StepResponse{
			{StepNumber: 1, Title: "Shut off and drain", Tools: []string{"Bucket"}},
			{StepNumber: 2, Title: "Remove the old trap", Tools: []string{}},
			{StepNumber: 3, Title: "Fit the new trap", Materials: []string{"PTFE tape"}},
		},
	}
	mockServices.JobVideoService.On("GetJobVideo", mock.Anything, int64(9)).Return(jv, nil)
	mockServices.JobVideoService.On("GetJobVideo", mock.Anything, int64(10)).Return(nil, apperrors.NotFound("job video", 10))

	rec, body := doJSON(t, router, http.MethodGet, "/job-videos/9", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "processed", body["status"])
	lesson := body["lesson"].(map[string]interface{})
	steps := lesson["steps"].([]interface{})
	require.Len(t, steps, 3)
	for i, s := range steps {
		assert.Equal(t, float64(i+1), s.(map[string]interface{})["step_number"])
	}

	rec, body = doJSON(t, router, http.MethodGet, "/job-videos/10", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["kind"])
}

func TestJobVideoHandler_GetAlwaysReturnsRecordFields(t *testing.T) {
	router, mockServices := setupTestRouter(t)
	mockServices.JobVideoService.On("GetJobVideo", mock.Anything, int64(12)).Return(pendingJobVideo(12), nil)

	rec, body := doJSON(t, router, http.MethodGet, "/job-videos/12", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, key := range []string{"id", "trade_id", "job_type_free_text", "location_type", "difficulty_level", "file_url", "uploader_id", "status"} {
		assert.Contains(t, body, key)
	}
	assert.Nil(t, body["job_type_free_text"])
	assert.Nil(t, body["location_type"])
	assert.Nil(t, body["difficulty_level"])
}

func TestJobVideoHandler_Create(t *testing.T) {
	router, mockServices := setupTestRouter(t)

	uploaded := pendingJobVideo(11)
	uploaded.Status = model.StatusUploaded
	uploaded.FileURL = "s3://x/11.mp4"
	mockServices.JobVideoService.On("CreateJobVideo", mock.Anything, int64(1), mock.MatchedBy(func(r *dto.CreateJobVideoRequest) bool {
		return r.FileURL == "s3://x/11.mp4" && *r.JobTypeFreeText == "Replace P-trap"
	})).Return(uploaded, nil)

	rec, body := doJSON(t, router, http.MethodPost, "/job-videos",
		map[string]interface{}{"trade_id": 1, "file_url": "s3://x/11.mp4", "job_type_free_text": "Replace P-trap"}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "uploaded", body["status"])
	mockServices.AssertExpectations(t)
}

func TestJobVideoHandler_List(t *testing.T) {
	router, mockServices := setupTestRouter(t)

	mockServices.JobVideoService.On("ListJobVideos", mock.Anything, dto.ListJobVideosQuery{Status: "failed", Page: 1, Limit: 20}).
		Return(&dto.PaginatedJobVideosResponse{
			JobVideos:  []dto.JobVideoResponse{*pendingJobVideo(1)},
			Pagination: dto.NewPagination(1, 20, 1),
		}, nil)

	rec, body := doJSON(t, router, http.MethodGet, "/job-videos?status=failed", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	assert.Len(t, body["job_videos"], 1)

	rec, body = doJSON(t, router, http.MethodGet, "/job-videos?status=bogus", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["details"], "status")

	rec, _ = doJSON(t, router, http.MethodGet, "/job-videos?limit=500", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockServices.AssertExpectations(t)
}

func TestJobVideoHandler_DeleteAndRetry(t *testing.T) {
	router, mockServices := setupTestRouter(t)

	mockServices.JobVideoService.On("DeleteJobVideo", mock.Anything, int64(4)).Return(nil)
	mockServices.JobVideoService.On("DeleteJobVideo", mock.Anything, int64(5)).Return(apperrors.NotFound("job video", 5))
	mockServices.JobVideoService.On("RetryJobVideo", mock.Anything, int64(6)).
		Return(nil, apperrors.InvalidState("job video", 6, model.StatusProcessed, model.StatusUploaded))
	mockServices.JobVideoService.On("GetJobVideoLesson", mock.Anything, int64(7)).
		Return(nil, apperrors.NotFound("lesson for job video", 7))

	rec, _ := doJSON(t, router, http.MethodDelete, "/job-videos/4", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = doJSON(t, router, http.MethodDelete, "/job-videos/5", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := doJSON(t, router, http.MethodPost, "/job-videos/6/retry", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, body["message"], "processed")

	rec, _ = doJSON(t, router, http.MethodGet, "/job-videos/7/lesson", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockServices.AssertExpectations(t)
}
