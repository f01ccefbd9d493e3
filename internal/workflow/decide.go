// Package workflow contains the idea status-transition engine.
//
// Decide is a pure function: it inspects the idea, the requesting actor and
// the requested status, and reports what should happen. Persistence, reviewer
// lookup and notification writes are the caller's responsibility, which keeps
// the authorization rules directly unit-testable.
package workflow

import (
	"net/http"

	"github.com/ideaforge/ideaforge/internal/models"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
)

// Rejections surfaced to API consumers.
var (
	// ErrSubmitOnly rejects author transitions other than DRAFT -> SUBMITTED.
	ErrSubmitOnly = apperrors.New("IDEA_SUBMIT_ONLY_DRAFT", "you can only submit draft ideas", http.StatusForbidden)

	// ErrStatusForbidden rejects status changes by anyone who is neither
	// admin nor the idea's author.
	ErrStatusForbidden = apperrors.New("IDEA_STATUS_FORBIDDEN", "not authorized to change idea status", http.StatusForbidden)
)

// Actor identifies the requester for an operation.
type Actor struct {
	ID   string
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// Decision describes the outcome of a permitted status change request.
type Decision struct {
	// Status the idea must end up in.
	Status models.IdeaStatus

	// AssignReviewer is set on an author submission: the caller must pick an
	// ADMIN or HR reviewer and assign the idea to them (absence of a
	// candidate is not an error).
	AssignReviewer bool

	// Notify is set when the stored status actually changes; the caller must
	// then emit exactly one STATUS_CHANGE notification to the idea's author.
	Notify bool
}

// Decide applies the transition rules for a requested status change.
//
// Admins may set any recognised status at any time; the idea's author may
// only move a DRAFT to SUBMITTED; everyone else is rejected. The requested
// status must be a recognised value and is canonicalised before any
// comparison, so only canonical enum strings ever reach the store.
func Decide(idea *models.Idea, actor Actor, requested models.IdeaStatus) (Decision, error) {
	canonical, err := models.ParseIdeaStatus(string(requested))
	if err != nil {
		return Decision{}, apperrors.NewBadRequest(err.Error())
	}

	if actor.IsAdmin() {
		return Decision{
			Status: canonical,
			Notify: canonical != idea.Status,
		}, nil
	}

	if idea.AuthorID != actor.ID {
		return Decision{}, ErrStatusForbidden
	}

	if idea.Status != models.StatusDraft || canonical != models.StatusSubmitted {
		return Decision{}, ErrSubmitOnly
	}

	return Decision{
		Status:         models.StatusSubmitted,
		AssignReviewer: true,
		Notify:         true,
	}, nil
}
