package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/ideaforge/ideaforge/internal/auth"
	"github.com/ideaforge/ideaforge/internal/database/testutil"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/notifications"
	"github.com/ideaforge/ideaforge/internal/services"
	"github.com/ideaforge/ideaforge/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *services.UserService, *iauth.JWTService) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "ideaforge-test",
		AccessTokenTTL: time.Minute,
	})
	require.NoError(t, err)

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	hub := notifications.NewHub()
	users, err := services.NewUserService(db)
	require.NoError(t, err)
	notificationSvc, err := services.NewNotificationService(db, hub)
	require.NoError(t, err)
	ideas, err := services.NewIdeaService(db, notificationSvc, store)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		DB:            db,
		JWT:           jwt,
		Hub:           hub,
		Store:         store,
		Users:         users,
		Ideas:         ideas,
		Notifications: notificationSvc,
		StrictTags:    true,
	})

	return router, users, jwt
}

func doJSON(t *testing.T, router *gin.Engine, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterLoginFlow(t *testing.T) {
	router, users, _ := newTestRouter(t)

	_, err := users.Register(context.Background(), services.RegisterUserInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "secret1",
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Data.Token)

	// The token opens the protected surface.
	w = doJSON(t, router, http.MethodGet, "/api/users/me", payload.Data.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/ideas", payload.Data.Token, map[string]string{
		"title": "Bike parking",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRouterRejectsMissingToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/ideas", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterAdminOnlyUserList(t *testing.T) {
	router, users, jwt := newTestRouter(t)

	employee, err := users.Register(context.Background(), services.RegisterUserInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "secret1",
	})
	require.NoError(t, err)
	admin, err := users.Register(context.Background(), services.RegisterUserInput{
		Email:    "admin@example.com",
		Name:     "Admin",
		Password: "secret1",
		Role:     string(models.RoleAdmin),
	})
	require.NoError(t, err)

	employeeToken, err := jwt.GenerateAccessToken(employee.ID)
	require.NoError(t, err)
	adminToken, err := jwt.GenerateAccessToken(admin.ID)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/users", employeeToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/nonsense", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
