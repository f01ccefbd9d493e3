package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge/internal/middleware"
	"github.com/ideaforge/ideaforge/internal/models"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
	"github.com/ideaforge/ideaforge/pkg/validator"
)

// bindAndValidate binds the JSON body into T and runs struct validation,
// translating failures into client-friendly 400s.
func bindAndValidate[T any](c *gin.Context) (*T, error) {
	var payload T
	if err := c.ShouldBindJSON(&payload); err != nil {
		return nil, apperrors.NewBadRequest("invalid request body")
	}

	if err := validator.ValidateStruct(&payload); err != nil {
		return nil, formatValidationError(err)
	}

	return &payload, nil
}

func formatValidationError(err error) error {
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return apperrors.NewBadRequest("invalid request body")
	}

	messages := make([]string, 0, len(failures))
	for _, failure := range failures {
		switch failure.Tag {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", failure.Field))
		case "notblank":
			messages = append(messages, fmt.Sprintf("%s cannot be blank", failure.Field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", failure.Field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", failure.Field, failure.Param))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", failure.Field, failure.Param))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", failure.Field))
		}
	}

	return apperrors.NewBadRequest(strings.Join(messages, "; "))
}

// actorFromContext rebuilds the authenticated caller placed into the request
// context by the auth middleware.
func actorFromContext(c *gin.Context) (*models.User, error) {
	id := c.GetString(middleware.CtxUserIDKey)
	if id == "" {
		return nil, apperrors.ErrUnauthorized
	}

	role, err := models.ParseRole(c.GetString(middleware.CtxUserRoleKey))
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	actor := &models.User{Role: role}
	actor.ID = id
	return actor, nil
}
