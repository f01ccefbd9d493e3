package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/pkg/crypto"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
)

// ErrEmailTaken reports registration attempts with an email already on file.
var ErrEmailTaken = apperrors.NewBadRequest("User with this email already exists")

// RegisterUserInput carries attributes for creating an account.
type RegisterUserInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// UpdateUserInput carries attributes for modifying an account. Nil fields are untouched.
type UpdateUserInput struct {
	Name *string
	Role *string
}

// UserService manages account lifecycle and credential verification.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// Register creates a new account. The role defaults to EMPLOYEE when empty.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" || name == "" {
		return nil, apperrors.NewBadRequest("email and name are required")
	}
	if len(input.Password) < 6 {
		return nil, apperrors.NewBadRequest("password must be at least 6 characters")
	}

	role := models.RoleEmployee
	if trimmed := strings.TrimSpace(input.Role); trimmed != "" {
		parsed, err := models.ParseRole(trimmed)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		role = parsed
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := models.User{
		Email:    email,
		Name:     name,
		Role:     role,
		Password: hash,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	return &user, nil
}

// Authenticate verifies email and password, returning the matching account.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx = ensureContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// List returns all accounts ordered by creation time.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	ctx = ensureContext(ctx)

	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user service: list users: %w", err)
	}
	return users, nil
}

// GetByID loads one account.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

// Update modifies an account. Users may rename themselves; only admins may
// touch other accounts or change roles.
func (s *UserService) Update(ctx context.Context, actor *models.User, targetID string, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	if actor.ID != targetID && !actor.Role.IsAdmin() {
		return nil, apperrors.NewForbidden("Access denied")
	}

	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Role != nil {
		if !actor.Role.IsAdmin() {
			return nil, apperrors.NewForbidden("Only admin can update roles")
		}
		parsed, err := models.ParseRole(*input.Role)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		updates["role"] = parsed
	}

	if len(updates) == 0 {
		return target, nil
	}

	if err := s.db.WithContext(ctx).Model(target).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("user service: update user: %w", err)
	}

	return s.GetByID(ctx, targetID)
}

// Delete removes an account. Self-deletion is rejected.
func (s *UserService) Delete(ctx context.Context, actor *models.User, targetID string) error {
	ctx = ensureContext(ctx)
	if actor == nil {
		return apperrors.ErrUnauthorized
	}
	if actor.ID == targetID {
		return apperrors.NewBadRequest("Cannot delete your own account")
	}

	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(target).Error; err != nil {
		return fmt.Errorf("user service: delete user: %w", err)
	}
	return nil
}
