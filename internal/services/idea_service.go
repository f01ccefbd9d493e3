package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/workflow"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
	"github.com/ideaforge/ideaforge/pkg/logger"
	"github.com/ideaforge/ideaforge/pkg/metrics"
)

// Authorization failures surfaced by idea operations.
var (
	ErrIdeaViewForbidden   = apperrors.NewForbidden("Not authorized to view this idea")
	ErrIdeaUpdateForbidden = apperrors.NewForbidden("Not authorized to update this idea")
	ErrIdeaDeleteForbidden = apperrors.NewForbidden("Not authorized to delete this idea")
)

// AttachmentRemover deletes a stored upload addressed by its public URL.
type AttachmentRemover interface {
	Remove(url string) error
}

// AttachmentInput describes an already-stored upload to link to an idea.
type AttachmentInput struct {
	Name string
	URL  string
	Type string
	Size int64
}

// CreateIdeaInput carries attributes for a new idea.
type CreateIdeaInput struct {
	Title       string
	Description string
	Category    string
	Status      string
	Tags        []string
	Attachments []AttachmentInput
}

// UpdateIdeaInput carries attributes for modifying an idea. Nil fields are
// untouched; Tags replaces the stored list only when non-nil.
type UpdateIdeaInput struct {
	Title       *string
	Description *string
	Category    *string
	Status      *string
	Tags        []string
	Attachments []AttachmentInput
}

// IdeaService manages ideas, their attachments and the status workflow.
type IdeaService struct {
	db            *gorm.DB
	notifications *NotificationService
	files         AttachmentRemover
}

// NewIdeaService constructs an IdeaService. The file remover is optional; when
// nil, deleting an idea leaves stored uploads on disk.
func NewIdeaService(db *gorm.DB, notifications *NotificationService, files AttachmentRemover) (*IdeaService, error) {
	if db == nil {
		return nil, errors.New("idea service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("idea service: notification service is required")
	}
	return &IdeaService{db: db, notifications: notifications, files: files}, nil
}

func (s *IdeaService) scope(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("AssignedTo").
		Preload("Attachments")
}

// List returns ideas visible to the actor, newest first. Admins see every
// idea; everyone else sees only their own.
func (s *IdeaService) List(ctx context.Context, actor *models.User) ([]models.Idea, error) {
	ctx = ensureContext(ctx)
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	query := s.scope(ctx).Order("created_at DESC")
	if !actor.Role.IsAdmin() {
		query = query.Where("author_id = ?", actor.ID)
	}

	var ideas []models.Idea
	if err := query.Find(&ideas).Error; err != nil {
		return nil, fmt.Errorf("idea service: list ideas: %w", err)
	}
	return ideas, nil
}

// Get loads one idea. Only admins and the author may view it.
func (s *IdeaService) Get(ctx context.Context, actor *models.User, id string) (*models.Idea, error) {
	ctx = ensureContext(ctx)
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	var idea models.Idea
	if err := s.scope(ctx).First(&idea, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("idea service: load idea: %w", err)
	}

	if !actor.Role.IsAdmin() && idea.AuthorID != actor.ID {
		return nil, ErrIdeaViewForbidden
	}

	return &idea, nil
}

// Create stores a new idea authored by the actor.
func (s *IdeaService) Create(ctx context.Context, actor *models.User, input CreateIdeaInput) (*models.Idea, error) {
	ctx = ensureContext(ctx)
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}

	status := models.StatusDraft
	if trimmed := strings.TrimSpace(input.Status); trimmed != "" {
		parsed, err := models.ParseIdeaStatus(trimmed)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		status = parsed
	}

	idea := models.Idea{
		Title:       title,
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Status:      status,
		Tags:        datatypes.NewJSONSlice(input.Tags),
		AuthorID:    actor.ID,
		Attachments: buildAttachments(input.Attachments),
	}

	if err := s.db.WithContext(ctx).Create(&idea).Error; err != nil {
		return nil, fmt.Errorf("idea service: create idea: %w", err)
	}

	return s.Get(ctx, actor, idea.ID)
}

// Update modifies an idea. Only admins and the author may change its fields;
// a status change additionally goes through the transition rules and, when it
// takes effect, notifies the author inside the same transaction.
func (s *IdeaService) Update(ctx context.Context, actor *models.User, id string, input UpdateIdeaInput) (*models.Idea, error) {
	ctx = ensureContext(ctx)
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	var idea models.Idea
	if err := s.db.WithContext(ctx).First(&idea, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("idea service: load idea: %w", err)
	}

	if !actor.Role.IsAdmin() && idea.AuthorID != actor.ID {
		return nil, ErrIdeaUpdateForbidden
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("title cannot be empty")
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(input.Tags)
	}

	decision := workflow.Decision{Status: idea.Status}
	statusRequested := input.Status != nil
	if statusRequested {
		var err error
		decision, err = workflow.Decide(&idea, workflow.Actor{ID: actor.ID, Role: actor.Role}, models.IdeaStatus(strings.TrimSpace(*input.Status)))
		if err != nil {
			metrics.StatusTransitions.WithLabelValues("rejected").Inc()
			return nil, err
		}
		updates["status"] = decision.Status
	}

	var assignedTo *models.User
	if decision.AssignReviewer {
		reviewer, err := s.findReviewer(ctx)
		if err != nil {
			return nil, err
		}
		if reviewer != nil {
			assignedTo = reviewer
			updates["assigned_to_id"] = reviewer.ID
		}
	}

	var created *models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&idea).Updates(updates).Error; err != nil {
				return fmt.Errorf("update idea: %w", err)
			}
		}

		if len(input.Attachments) > 0 {
			attachments := buildAttachments(input.Attachments)
			for i := range attachments {
				attachments[i].IdeaID = idea.ID
			}
			if err := tx.Create(&attachments).Error; err != nil {
				return fmt.Errorf("create attachments: %w", err)
			}
		}

		if decision.Notify {
			title := idea.Title
			if input.Title != nil {
				title = strings.TrimSpace(*input.Title)
			}
			ideaID := idea.ID
			notification := models.Notification{
				UserID:  idea.AuthorID,
				Type:    models.NotificationTypeStatusChange,
				Title:   "Idea Status Updated",
				Message: fmt.Sprintf("Your idea %q status has been changed to %s", title, decision.Status),
				Link:    "/ideas/" + idea.ID,
				IdeaID:  &ideaID,
			}
			if err := tx.Create(&notification).Error; err != nil {
				return fmt.Errorf("create notification: %w", err)
			}
			created = &notification
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("idea service: update idea: %w", err)
	}

	if statusRequested {
		if decision.Notify {
			metrics.StatusTransitions.WithLabelValues("applied").Inc()
		} else {
			metrics.StatusTransitions.WithLabelValues("noop").Inc()
		}
	}
	if created != nil {
		metrics.NotificationsEmitted.Inc()
		s.notifications.broadcast(created.UserID, "notification.created", created)
	}
	if assignedTo != nil {
		logger.Info("idea assigned for review",
			zap.String("idea_id", idea.ID),
			zap.String("reviewer_id", assignedTo.ID))
	}

	return s.Get(ctx, actor, idea.ID)
}

// Delete removes an idea along with its attachments and stored uploads.
// Only admins and the author may delete it.
func (s *IdeaService) Delete(ctx context.Context, actor *models.User, id string) error {
	ctx = ensureContext(ctx)
	if actor == nil {
		return apperrors.ErrUnauthorized
	}

	var idea models.Idea
	if err := s.db.WithContext(ctx).Preload("Attachments").First(&idea, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("idea service: load idea: %w", err)
	}

	if !actor.Role.IsAdmin() && idea.AuthorID != actor.ID {
		return ErrIdeaDeleteForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("idea_id = ?", idea.ID).Delete(&models.Attachment{}).Error; err != nil {
			return fmt.Errorf("delete attachments: %w", err)
		}
		if err := tx.Model(&models.Notification{}).
			Where("idea_id = ?", idea.ID).
			Update("idea_id", nil).Error; err != nil {
			return fmt.Errorf("detach notifications: %w", err)
		}
		if err := tx.Delete(&idea).Error; err != nil {
			return fmt.Errorf("delete idea: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("idea service: delete idea: %w", err)
	}

	if s.files != nil {
		var removeErr error
		for _, attachment := range idea.Attachments {
			removeErr = multierr.Append(removeErr, s.files.Remove(attachment.URL))
		}
		if removeErr != nil {
			logger.Warn("failed to remove stored uploads",
				zap.String("idea_id", idea.ID),
				zap.Error(removeErr))
		}
	}

	return nil
}

// findReviewer picks the earliest-created ADMIN or HR account. Ordering by
// creation time and ID keeps the pick deterministic across databases.
func (s *IdeaService) findReviewer(ctx context.Context) (*models.User, error) {
	var reviewer models.User
	err := s.db.WithContext(ctx).
		Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleHR}).
		Order("created_at ASC, id ASC").
		First(&reviewer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("idea service: find reviewer: %w", err)
	}
	return &reviewer, nil
}

func buildAttachments(inputs []AttachmentInput) []models.Attachment {
	if len(inputs) == 0 {
		return nil
	}
	attachments := make([]models.Attachment, 0, len(inputs))
	for _, in := range inputs {
		attachments = append(attachments, models.Attachment{
			Name: in.Name,
			URL:  in.URL,
			Type: in.Type,
			Size: in.Size,
		})
	}
	return attachments
}
