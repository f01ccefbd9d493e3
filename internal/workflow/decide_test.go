package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge/internal/models"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
)

func draftIdea(authorID string) *models.Idea {
	return &models.Idea{
		BaseModel: models.BaseModel{ID: "idea-1"},
		Title:     "Faster onboarding",
		Status:    models.StatusDraft,
		AuthorID:  authorID,
	}
}

func TestDecideAdminSetsAnyStatus(t *testing.T) {
	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}

	for _, status := range models.IdeaStatuses() {
		decision, err := Decide(draftIdea("author-1"), admin, status)
		require.NoError(t, err)
		require.Equal(t, status, decision.Status)
		require.False(t, decision.AssignReviewer)
		require.Equal(t, status != models.StatusDraft, decision.Notify)
	}
}

func TestDecideAdminSkipsAheadFromDraft(t *testing.T) {
	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}

	decision, err := Decide(draftIdea("author-1"), admin, models.StatusImplemented)
	require.NoError(t, err)
	require.Equal(t, models.StatusImplemented, decision.Status)
	require.True(t, decision.Notify)
}

func TestDecideAuthorSubmitsDraft(t *testing.T) {
	author := Actor{ID: "author-1", Role: models.RoleEmployee}

	decision, err := Decide(draftIdea("author-1"), author, models.StatusSubmitted)
	require.NoError(t, err)
	require.Equal(t, models.StatusSubmitted, decision.Status)
	require.True(t, decision.AssignReviewer)
	require.True(t, decision.Notify)
}

func TestDecideAuthorCannotSkipWorkflow(t *testing.T) {
	author := Actor{ID: "author-1", Role: models.RoleEmployee}

	for _, requested := range []models.IdeaStatus{
		models.StatusDraft,
		models.StatusReviewing,
		models.StatusAccepted,
		models.StatusImplemented,
	} {
		_, err := Decide(draftIdea("author-1"), author, requested)
		require.ErrorIs(t, err, ErrSubmitOnly, "requested %s", requested)
	}
}

func TestDecideAuthorCannotResubmit(t *testing.T) {
	idea := draftIdea("author-1")
	idea.Status = models.StatusSubmitted

	_, err := Decide(idea, Actor{ID: "author-1", Role: models.RoleEmployee}, models.StatusSubmitted)
	require.ErrorIs(t, err, ErrSubmitOnly)
}

func TestDecideStrangerRejected(t *testing.T) {
	for _, role := range []models.Role{models.RoleEmployee, models.RoleHR, models.RoleApprover} {
		_, err := Decide(draftIdea("author-1"), Actor{ID: "other-9", Role: role}, models.StatusSubmitted)
		require.ErrorIs(t, err, ErrStatusForbidden, "role %s", role)
	}
}

func TestDecideRejectsUnknownStatus(t *testing.T) {
	_, err := Decide(draftIdea("author-1"), Actor{ID: "admin-1", Role: models.RoleAdmin}, models.IdeaStatus("ARCHIVED"))
	require.Error(t, err)

	appErr := apperrors.FromError(err)
	require.Equal(t, 400, appErr.StatusCode)
}

func TestDecideCanonicalizesStatusCase(t *testing.T) {
	author := Actor{ID: "author-1", Role: models.RoleEmployee}

	decision, err := Decide(draftIdea("author-1"), author, models.IdeaStatus("submitted"))
	require.NoError(t, err)
	require.Equal(t, models.StatusSubmitted, decision.Status)
	require.True(t, decision.AssignReviewer)
	require.True(t, decision.Notify)

	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}

	decision, err = Decide(draftIdea("author-1"), admin, models.IdeaStatus(" Accepted "))
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, decision.Status)
	require.True(t, decision.Notify)
}

func TestDecideLowercaseNoopDoesNotNotify(t *testing.T) {
	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}

	decision, err := Decide(draftIdea("author-1"), admin, models.IdeaStatus("draft"))
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, decision.Status)
	require.False(t, decision.Notify)
}

func TestDecideNoopStatusDoesNotNotify(t *testing.T) {
	idea := draftIdea("author-1")
	idea.Status = models.StatusReviewing

	decision, err := Decide(idea, Actor{ID: "admin-1", Role: models.RoleAdmin}, models.StatusReviewing)
	require.NoError(t, err)
	require.False(t, decision.Notify)
}
