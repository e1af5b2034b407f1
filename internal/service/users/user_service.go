package users

import (
	"context"
	"fmt"

	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/repository"
)

type UserUseCase interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, userID int64, input UpdateUserInput) (*domain.User, error)
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type UserService struct {
	users repository.UserRepository
}

type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateUserInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrValidation)
	}

	taken, err := s.users.EmailTaken(ctx, input.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email %s is already in use: %w", input.Email, domain.ErrValidation)
	}

	user := &domain.User{Name: input.Name, Email: input.Email}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, userID int64, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.users.EmailTaken(ctx, *input.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("email %s is already in use: %w", *input.Email, domain.ErrValidation)
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

var _ UserUseCase = (*UserService)(nil)
