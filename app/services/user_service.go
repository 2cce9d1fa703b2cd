package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"myblog/app/models"
	"myblog/app/repositories"
)

// UserService handles registration and sign-in
type UserService struct {
	userRepo repositories.UserRepository
	hashCost int
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		hashCost: bcrypt.DefaultCost,
	}
}

// SetHashCost sets the bcrypt cost, lowered in tests
func (s *UserService) SetHashCost(cost int) {
	s.hashCost = cost
}

// SignUp validates the form and stores a new user with a hashed password
func (s *UserService) SignUp(ctx context.Context, form models.SignUpForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Name:     form.Name,
		Password: string(hash),
		Gender:   form.Gender,
		Bio:      form.Bio,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, models.NewValidationError("name", "That name is already taken!")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// SignIn checks a name and password pair
func (s *UserService) SignIn(ctx context.Context, name, password string) (*models.User, error) {
	if name == "" || password == "" {
		return nil, ErrBadCredentials
	}
	user, err := s.userRepo.GetByName(ctx, name)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}
