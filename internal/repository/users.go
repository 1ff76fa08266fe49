package repository

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/stackit/backend/internal/access"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

func (s *Store) GetActor(ctx context.Context, id uint) (access.Actor, error) {
	var user models.User
	if err := s.conn(ctx).Select("id", "role", "is_active").First(&user, id).Error; err != nil {
		return access.Actor{}, notFound(err, "user %d", id)
	}
	return access.Actor{ID: user.ID, Role: access.Normalize(user.Role), IsActive: user.IsActive}, nil
}

// CreateUser inserts user. A taken username or email yields voting.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.conn(ctx).Create(user).Error; err != nil {
		return classify(fmt.Errorf("create user %q: %w", user.Username, err))
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user %d", id)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user %q", username)
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	offset, limit = page(offset, limit)
	var users []models.User
	if err := s.conn(ctx).Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
