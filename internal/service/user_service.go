package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username, password, or role")
)

// UserService регистрация, вход и профиль. Пароль хранится только как
// bcrypt-хеш
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// RegisterInput все поля обязательны
type RegisterInput struct {
	Username string
	Fullname string
	Email    string
	Phone    string
	Address  string
	Password string
	Role     string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Fullname == "" || in.Email == "" ||
		in.Phone == "" || in.Address == "" || in.Password == "" || in.Role == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := domain.User{
		Username:     in.Username,
		Fullname:     in.Fullname,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &u, nil
}

// Login проверяет пароль и роль; по какому именно полю не совпало —
// не раскрывается
func (s *UserService) Login(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" || role == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.Role != role {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Profile(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, ErrInvalidInput
	}
	return s.users.GetByUsername(ctx, username)
}

// UpdateProfile обновляет контактные данные; username и роль не меняются
func (s *UserService) UpdateProfile(ctx context.Context, u domain.User) error {
	if u.Username == "" || u.Fullname == "" || u.Email == "" {
		return ErrInvalidInput
	}
	return s.users.UpdateProfile(ctx, &u)
}
