package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/services"
	"github.com/ideaforge/ideaforge/internal/storage"
)

func newIdeaHandler(t *testing.T, env *testEnv, strictTags bool) *IdeaHandler {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ideas, err := services.NewIdeaService(env.db, env.notifications, store)
	require.NoError(t, err)

	return NewIdeaHandler(ideas, store, IdeaHandlerConfig{StrictTags: strictTags})
}

func TestIdeaHandlerCreateMultipart(t *testing.T) {
	env := newTestEnv(t)
	handler := newIdeaHandler(t, env, true)
	alice := env.createUser(t, "alice@example.com", models.RoleEmployee)

	c, w := newMultipartContext(t, http.MethodPost, "/api/ideas",
		map[string]string{
			"title":       "Bike parking",
			"description": "Covered racks",
			"category":    "facilities",
			"tags":        `["office","cycling"]`,
		},
		map[string][]byte{
			"sketch.png": []byte("png-bytes"),
		})
	asUser(c, alice)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeResponse(t, w)
	require.True(t, body.Success)

	var idea models.Idea
	require.NoError(t, env.db.Preload("Attachments").First(&idea, "author_id = ?", alice.ID).Error)
	require.Equal(t, "Bike parking", idea.Title)
	require.Equal(t, models.StatusDraft, idea.Status)
	require.Equal(t, []string{"office", "cycling"}, []string(idea.Tags))
	require.Len(t, idea.Attachments, 1)
	require.Equal(t, "sketch.png", idea.Attachments[0].Name)
}

func TestIdeaHandlerCreateJSON(t *testing.T) {
	env := newTestEnv(t)
	handler := newIdeaHandler(t, env, true)
	alice := env.createUser(t, "alice@example.com", models.RoleEmployee)

	c, w := newJSONContext(t, http.MethodPost, "/api/ideas", map[string]any{
		"title": "Bike parking",
		"tags":  []string{"office"},
	})
	asUser(c, alice)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestIdeaHandlerStrictTagsRejectsMalformedPayload(t *testing.T) {
	env := newTestEnv(t)
	handler := newIdeaHandler(t, env, true)
	alice := env.createUser(t, "alice@example.com", models.RoleEmployee)

	c, w := newMultipartContext(t, http.MethodPost, "/api/ideas",
		map[string]string{
			"title": "Bike parking",
			"tags":  "not-json",
		}, nil)
	asUser(c, alice)
	handler.Create(c)

	requireErrorStatus(t, w, http.StatusBadRequest)
}

func TestIdeaHandlerLenientTagsDropsMalformedPayload(t *testing.T) {
	env := newTestEnv(t)
	handler := newIdeaHandler(t, env, false)
	alice := env.createUser(t, "alice@example.com", models.RoleEmployee)

	c, w := newMultipartContext(t, http.MethodPost, "/api/ideas",
		map[string]string{
			"title": "Bike parking",
			"tags":  "not-json",
		}, nil)
	asUser(c, alice)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var idea models.Idea
	require.NoError(t, env.db.First(&idea, "author_id = ?", alice.ID).Error)
	require.Empty(t, []string(idea.Tags))
}

func TestIdeaHandlerTooManyAttachments(t *testing.T) {
	env := newTestEnv(t)
	handler := newIdeaHandler(t, env, true)
	alice := env.createUser(t, "alice@example.com", models.RoleEmployee)

	files := map[string][]byte{
		"a.txt": []byte("a"), "b.txt": []byte("b"), "c.txt": []byte("c"),
		"d.txt": []byte("d"), "e.txt": []byte("e"), "f.txt": []byte("f"),
	}
	c, w := newMultipartContext(t, http.MethodPost, "/api/ideas",
		map[string]string{"title": "Bike parking"}, files)
	asUser(c, alice)
	handler.Create(c)

	requireErrorStatus(t, w, http.StatusBadRequest)
}

func TestIdeaHandlerUpdateStatusSubmits(t *testing.T) {
	env := newTestEnv(t)
	handler := newIdeaHandler(t, env, true)
	alice := env.createUser(t, "alice@example.com", models.RoleEmployee)

	idea, err := env.ideas.Create(context.Background(), alice, services.CreateIdeaInput{Title: "Bike parking"})
	require.NoError(t, err)

	c, w := newJSONContext(t, http.MethodPut, "/api/ideas/"+idea.ID, map[string]string{
		"status": "SUBMITTED",
	})
	c.Params = gin.Params{{Key: "id", Value: idea.ID}}
	asUser(c, alice)
	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Idea
	require.NoError(t, env.db.First(&stored, "id = ?", idea.ID).Error)
	require.Equal(t, models.StatusSubmitted, stored.Status)
}

func TestIdeaHandlerGetForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	handler := newIdeaHandler(t, env, true)
	alice := env.createUser(t, "alice@example.com", models.RoleEmployee)
	bob := env.createUser(t, "bob@example.com", models.RoleEmployee)

	idea, err := env.ideas.Create(context.Background(), alice, services.CreateIdeaInput{Title: "Bike parking"})
	require.NoError(t, err)

	c, w := newJSONContext(t, http.MethodGet, "/api/ideas/"+idea.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: idea.ID}}
	asUser(c, bob)
	handler.Get(c)

	requireErrorStatus(t, w, http.StatusForbidden)
}

func TestIdeaHandlerDelete(t *testing.T) {
	env := newTestEnv(t)
	handler := newIdeaHandler(t, env, true)
	alice := env.createUser(t, "alice@example.com", models.RoleEmployee)

	idea, err := env.ideas.Create(context.Background(), alice, services.CreateIdeaInput{Title: "Bike parking"})
	require.NoError(t, err)

	c, w := newJSONContext(t, http.MethodDelete, "/api/ideas/"+idea.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: idea.ID}}
	asUser(c, alice)
	handler.Delete(c)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Idea{}).Where("id = ?", idea.ID).Count(&count).Error)
	require.Zero(t, count)
}
