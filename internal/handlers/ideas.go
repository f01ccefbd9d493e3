package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ideaforge/ideaforge/internal/services"
	"github.com/ideaforge/ideaforge/internal/storage"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
	"github.com/ideaforge/ideaforge/pkg/logger"
	"github.com/ideaforge/ideaforge/pkg/response"
)

// DefaultMaxAttachments caps uploads per create/update request.
const DefaultMaxAttachments = 5

type ideaJSONRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Status      *string  `json:"status"`
	Tags        []string `json:"tags"`
}

// IdeaHandlerConfig tunes idea endpoint behaviour.
type IdeaHandlerConfig struct {
	// MaxAttachments limits files per request; zero applies the default.
	MaxAttachments int

	// StrictTags rejects malformed tag payloads with a 400 instead of
	// silently dropping them.
	StrictTags bool
}

// IdeaHandler serves idea CRUD and status endpoints.
type IdeaHandler struct {
	ideas          *services.IdeaService
	store          *storage.LocalStore
	maxAttachments int
	strictTags     bool
}

// NewIdeaHandler constructs an IdeaHandler.
func NewIdeaHandler(ideas *services.IdeaService, store *storage.LocalStore, cfg IdeaHandlerConfig) *IdeaHandler {
	maxAttachments := cfg.MaxAttachments
	if maxAttachments <= 0 {
		maxAttachments = DefaultMaxAttachments
	}
	return &IdeaHandler{
		ideas:          ideas,
		store:          store,
		maxAttachments: maxAttachments,
		strictTags:     cfg.StrictTags,
	}
}

// List returns ideas visible to the caller.
func (h *IdeaHandler) List(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ideas, err := h.ideas.List(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, ideas)
}

// Get returns a single idea.
func (h *IdeaHandler) Get(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	idea, err := h.ideas.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, idea)
}

// Create stores a new idea from a JSON or multipart payload.
func (h *IdeaHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	fields, saved, err := h.parsePayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input := services.CreateIdeaInput{
		Attachments: saved,
	}
	if fields.Title != nil {
		input.Title = *fields.Title
	}
	if fields.Description != nil {
		input.Description = *fields.Description
	}
	if fields.Category != nil {
		input.Category = *fields.Category
	}
	if fields.Status != nil {
		input.Status = *fields.Status
	}
	if fields.Tags != nil {
		input.Tags = fields.Tags
	}

	idea, err := h.ideas.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.discardSaved(saved)
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, idea)
}

// Update modifies an idea from a JSON or multipart payload.
func (h *IdeaHandler) Update(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	fields, saved, err := h.parsePayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	idea, err := h.ideas.Update(c.Request.Context(), actor, c.Param("id"), services.UpdateIdeaInput{
		Title:       fields.Title,
		Description: fields.Description,
		Category:    fields.Category,
		Status:      fields.Status,
		Tags:        fields.Tags,
		Attachments: saved,
	})
	if err != nil {
		h.discardSaved(saved)
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, idea)
}

// Delete removes an idea.
func (h *IdeaHandler) Delete(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.ideas.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Idea deleted successfully"})
}

// parsePayload reads idea fields from either a multipart form (with optional
// file uploads) or a plain JSON body.
func (h *IdeaHandler) parsePayload(c *gin.Context) (*ideaJSONRequest, []services.AttachmentInput, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		payload, err := bindAndValidate[ideaJSONRequest](c)
		if err != nil {
			return nil, nil, err
		}
		return payload, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, apperrors.NewBadRequest("invalid multipart form")
	}

	fields := &ideaJSONRequest{}
	fields.Title = formValue(form, "title")
	fields.Description = formValue(form, "description")
	fields.Category = formValue(form, "category")
	fields.Status = formValue(form, "status")

	if raw := formValue(form, "tags"); raw != nil {
		tags, err := h.parseTags(*raw)
		if err != nil {
			return nil, nil, err
		}
		fields.Tags = tags
	}

	files := form.File["attachments"]
	if len(files) > h.maxAttachments {
		return nil, nil, apperrors.NewBadRequest(fmt.Sprintf("at most %d attachments are allowed", h.maxAttachments))
	}

	saved, err := h.saveFiles(files)
	if err != nil {
		return nil, nil, err
	}

	return fields, saved, nil
}

// parseTags decodes the tags form field, which carries a JSON string array.
// Malformed payloads are a 400 in strict mode and an empty list otherwise.
func (h *IdeaHandler) parseTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		if h.strictTags {
			return nil, apperrors.NewBadRequest("tags must be a JSON array of strings")
		}
		return []string{}, nil
	}
	return tags, nil
}

func (h *IdeaHandler) saveFiles(files []*multipart.FileHeader) ([]services.AttachmentInput, error) {
	if len(files) == 0 || h.store == nil {
		return nil, nil
	}

	saved := make([]services.AttachmentInput, 0, len(files))
	for _, fh := range files {
		file, err := h.store.Save(fh)
		if err != nil {
			h.discardSaved(saved)
			return nil, apperrors.Wrap(err, "failed to store attachment")
		}
		saved = append(saved, services.AttachmentInput{
			Name: file.Name,
			URL:  file.URL,
			Type: file.Type,
			Size: file.Size,
		})
	}
	return saved, nil
}

// discardSaved removes uploads already written to disk when the request
// ultimately fails, so rejected requests leave no orphan files.
func (h *IdeaHandler) discardSaved(saved []services.AttachmentInput) {
	if h.store == nil {
		return
	}
	for _, file := range saved {
		if err := h.store.Remove(file.URL); err != nil {
			logger.Warn("failed to discard stored upload",
				zap.String("url", file.URL),
				zap.Error(err))
		}
	}
}

func formValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
