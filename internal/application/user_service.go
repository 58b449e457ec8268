package application

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// UserService is the admin-only account management surface.
type UserService struct {
	Users repo.UserRepository
}

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// UserPatch leaves Password nil to keep the current hash.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *entity.Role
}

func (s *UserService) List(ctx context.Context, spec query.Spec) (query.Result, error) {
	return s.Users.List(ctx, spec)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("User not found with id of %s", id)
	}
	return u, err
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*entity.User, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		return nil, apperror.Validation(map[string]string{"role": "must be one of: user, publisher, admin"})
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Role:     role,
		Password: hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, p UserPatch) (*entity.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Role != nil {
		if !p.Role.Valid() {
			return nil, apperror.Validation(map[string]string{"role": "must be one of: user, publisher, admin"})
		}
		u.Role = *p.Role
	}
	if p.Password != nil {
		hash, err := helpers.HashPassword(*p.Password)
		if err != nil {
			return nil, apperror.Internal("Server Error", err)
		}
		u.Password = hash
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("User not found with id of %s", id)
		}
		return err
	}
	return nil
}
