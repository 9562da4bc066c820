package service

import (
	"DreamInterpreter/internal/metrics"
	"DreamInterpreter/internal/model"
	"DreamInterpreter/internal/repo"
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateIdentity — username или email уже заняты.
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrUsernameTaken     = fmt.Errorf("%w: username already taken", ErrDuplicateIdentity)
	ErrEmailTaken        = fmt.Errorf("%w: email already registered", ErrDuplicateIdentity)

	// ErrInvalidCredentials одинакова для неизвестного логина и неверного пароля.
	ErrInvalidCredentials = errors.New("invalid username/password")

	ErrUserNotFound = errors.New("user not found")

	// ErrPasswordTooLong — пароль длиннее 72 байт, bcrypt его не примет.
	ErrPasswordTooLong = errors.New("password too long")
)

// UserService регистрация и проверка учётных данных.
type UserService struct {
	repo repo.UserRepository
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService создаёт сервис пользователей; cost — стоимость bcrypt.
func NewUserService(r repo.UserRepository, cost int) *UserService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserService{repo: r, cost: cost}
}

// Register создаёт пользователя с bcrypt-хешем пароля.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	taken, err := s.exists(s.repo.GetUserByUsername(ctx, username))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.exists(s.repo.GetUserByEmail(ctx, email))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	})
	if err != nil {
		// гонка между проверкой и вставкой — ловит уникальный индекс
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.UsersRegisteredTotal.Inc()
	return user, nil
}

// Authenticate возвращает пользователя, если пароль совпадает с хешем.
// Для неизвестного логина всё равно выполняется сравнение с фиктивным хешем.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}

// GetByID возвращает пользователя или ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user == nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) exists(u *model.User, err error) (bool, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}
	return u != nil, nil
}

// duplicateCause уточняет, какое поле заняли между проверкой и вставкой.
func (s *UserService) duplicateCause(ctx context.Context, username, email string) error {
	if taken, err := s.exists(s.repo.GetUserByUsername(ctx, username)); err == nil && taken {
		return ErrUsernameTaken
	}
	if taken, err := s.exists(s.repo.GetUserByEmail(ctx, email)); err == nil && taken {
		return ErrEmailTaken
	}
	return ErrDuplicateIdentity
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
