package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"plumberf/internal/api/server"
	"plumberf/internal/api/v1/routes"
	"plumberf/internal/app/metrics"
	"plumberf/internal/app/model"
	"plumberf/internal/app/testutil"
)

func newTestServer(t *testing.T) (*server.Server, *testutil.MockServices) {
	gin.SetMode(gin.TestMode)
	mockServices := testutil.NewMockServices(t)
	srv := server.NewServer(server.Config{Addr: "127.0.0.1:0", Environment: "test"}, &routes.ServiceContainer{
		JobVideoService: mockServices.JobVideoService,
		LessonService:   mockServices.LessonService,
		CatalogService:  mockServices.CatalogService,
	}, metrics.New(), zaptest.NewLogger(t))
	return srv, mockServices
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(srv.Router(), "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	srv, mockServices := newTestServer(t)
	mockServices.CatalogService.On("ListTrades", mock.Anything).Return([]model.Trade{}, nil)

	require.Equal(t, http.StatusOK, get(srv.Router(), "/trades").Code)
	require.Equal(t, http.StatusNotFound, get(srv.Router(), "/nowhere").Code)

	rec := get(srv.Router(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "plumberf_http_requests_total")
	assert.Contains(t, body, `route="/trades"`)
	assert.Contains(t, body, `route="unmatched"`)
	mockServices.AssertExpectations(t)
}

func TestSwaggerDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(srv.Router(), "/swagger/doc.json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/job-videos/{id}/confirm-upload")
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
