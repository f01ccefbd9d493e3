package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ideaforge/ideaforge/internal/database/testutil"
	"github.com/ideaforge/ideaforge/internal/middleware"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/services"
	"github.com/ideaforge/ideaforge/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db            *gorm.DB
	users         *services.UserService
	ideas         *services.IdeaService
	notifications *services.NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	users, err := services.NewUserService(db)
	require.NoError(t, err)
	notifications, err := services.NewNotificationService(db, nil)
	require.NoError(t, err)
	ideas, err := services.NewIdeaService(db, notifications, nil)
	require.NoError(t, err)

	return &testEnv{db: db, users: users, ideas: ideas, notifications: notifications}
}

func (e *testEnv) createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Name:     "Test User",
		Role:     role,
		Password: "hashed-password",
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func newJSONContext(t *testing.T, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func newMultipartContext(t *testing.T, method, target string, fields map[string]string, files map[string][]byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("attachments", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
	return c, w
}

func asUser(c *gin.Context, user *models.User) {
	c.Set(middleware.CtxUserIDKey, user.ID)
	c.Set(middleware.CtxUserRoleKey, string(user.Role))
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func requireErrorStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()

	require.Equal(t, status, w.Code)
	body := decodeResponse(t, w)
	require.False(t, body.Success)
	require.NotNil(t, body.Error)
}
