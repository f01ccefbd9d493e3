package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge/internal/database/testutil"
	"github.com/ideaforge/ideaforge/internal/models"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
)

func TestUserServiceRegister(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewUserService(db)
	require.NoError(t, err)

	user, err := svc.Register(context.Background(), RegisterUserInput{
		Email:    "Alice@Example.com",
		Name:     "Alice",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, models.RoleEmployee, user.Role)
	require.NotEqual(t, "secret1", user.Password)

	_, err = svc.Register(context.Background(), RegisterUserInput{
		Email:    "alice@example.com",
		Name:     "Alice Again",
		Password: "secret1",
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(context.Background(), RegisterUserInput{
		Email:    "short@example.com",
		Name:     "Short",
		Password: "12345",
	})
	require.Error(t, err)

	hr, err := svc.Register(context.Background(), RegisterUserInput{
		Email:    "hr@example.com",
		Name:     "HR Person",
		Password: "secret1",
		Role:     "hr",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleHR, hr.Role)

	_, err = svc.Register(context.Background(), RegisterUserInput{
		Email:    "odd@example.com",
		Name:     "Odd",
		Password: "secret1",
		Role:     "WIZARD",
	})
	require.Error(t, err)
}

func TestUserServiceAuthenticate(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewUserService(db)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterUserInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "secret1",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)

	_, err = svc.Authenticate(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "missing@example.com", "secret1")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserServiceUpdate(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewUserService(db)
	require.NoError(t, err)

	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createTestUser(t, db, "alice@example.com", models.RoleEmployee)
	bob := createTestUser(t, db, "bob@example.com", models.RoleEmployee)

	name := "Alice Renamed"
	updated, err := svc.Update(context.Background(), alice, alice.ID, UpdateUserInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Alice Renamed", updated.Name)

	// A non-admin cannot touch another account.
	_, err = svc.Update(context.Background(), alice, bob.ID, UpdateUserInput{Name: &name})
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	require.Equal(t, "Access denied", appErr.Message)

	// Role changes are admin only.
	role := string(models.RoleHR)
	_, err = svc.Update(context.Background(), alice, alice.ID, UpdateUserInput{Role: &role})
	require.Error(t, err)
	appErr = apperrors.FromError(err)
	require.Equal(t, "Only admin can update roles", appErr.Message)

	promoted, err := svc.Update(context.Background(), admin, bob.ID, UpdateUserInput{Role: &role})
	require.NoError(t, err)
	require.Equal(t, models.RoleHR, promoted.Role)
}

func TestUserServiceDelete(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewUserService(db)
	require.NoError(t, err)

	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createTestUser(t, db, "alice@example.com", models.RoleEmployee)

	err = svc.Delete(context.Background(), admin, admin.ID)
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	require.Equal(t, "Cannot delete your own account", appErr.Message)

	require.NoError(t, svc.Delete(context.Background(), admin, alice.ID))

	err = svc.Delete(context.Background(), admin, alice.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
