package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tutorcrm-backend/controllers"
	"tutorcrm-backend/models"
	"tutorcrm-backend/services"
	"tutorcrm-backend/testutil"
	"tutorcrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type noLessons struct{}

func (noLessons) StartingSoonLessons(context.Context, []string) ([]models.Lesson, error) {
	return []models.Lesson{}, nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testutil.NewDB(t)
	return SetupRouter(Deps{
		Log:           log,
		JWTSecret:     secret,
		CORSOrigins:   []string{"http://localhost:3000"},
		Lessons:       &controllers.LessonController{Timeline: noLessons{}},
		Jobs:          &controllers.JobController{Notifier: services.NewInactivityNotifier(db, nil, log), Log: log},
		Notifications: &controllers.NotificationController{DB: db},
	})
}

func do(r http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_APIRequiresToken(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/lessons/starting-soon?type=paired", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/jobs/notify-inactive", "garbage").Code)
}

func TestRouter_AuthorizedRequests(t *testing.T) {
	r := newRouter(t)
	token, err := utils.GenerateToken(secret, "manager-1", "manager", time.Hour)
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/lessons/starting-soon?type=paired", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodGet, "/api/notifications", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	// no customers yet, so the run reports nothing and needs no mailer
	w = do(r, http.MethodPost, "/api/jobs/notify-inactive", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"candidates":0`)
}
