package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// UserUpdate carries the admin-editable fields of an account.
type UserUpdate struct {
	Name  string
	Email string
	Role  models.Role
}

// UserService is the back-office view of user accounts.
type UserService struct {
	store repositories.Store
}

// NewUserService creates a new UserService.
func NewUserService(store repositories.Store) *UserService {
	return &UserService{store: store}
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.Users().List(ctx)
}

// UpdateUser changes name, email and role. The email must stay unique.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UserUpdate) (*models.User, error) {
	if !in.Role.IsValid() {
		return nil, validationError("invalid role %q", in.Role)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var updated *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		other, err := tx.Users().GetByEmail(ctx, email)
		if err == nil && other.ID != id {
			return fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		user.Name = strings.TrimSpace(in.Name)
		user.Email = email
		user.Role = in.Role
		if err := tx.Users().Update(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrEmailTaken, email)
			}
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return validationError("you cannot delete your own account")
	}
	return s.store.Users().Delete(ctx, id)
}

// ResetPassword replaces the user's password.
func (s *UserService) ResetPassword(ctx context.Context, id, password string) error {
	if len(password) < 6 {
		return validationError("password must be at least 6 characters")
	}
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return err
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.store.Users().Update(ctx, user)
}
