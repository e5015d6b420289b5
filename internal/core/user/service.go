// Package user implements admin-side account management.
package user

import (
	"context"

	"github.com/google/uuid"

	"edumeet/internal/domain"
)

type service struct {
	repo domain.UserRepository
}

func NewService(repo domain.UserRepository) domain.UserService {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.repo.UpdateRole(ctx, userID, role)
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, userID)
}
