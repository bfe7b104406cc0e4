package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/models"
	"github.com/Rajangupta9/taskmanager/store"
	"github.com/Rajangupta9/taskmanager/validation"
)

// UserService implements registration, login and profile management.
type UserService struct {
	users   store.UserStore
	cost    int
	timeout time.Duration

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(users store.UserStore, bcryptCost int, timeout time.Duration) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, cost: bcryptCost, timeout: timeout}
}

func (s *UserService) hash(field, password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errors.NewValidationError([]errors.FieldIssue{
			{Path: field, Message: "String must contain at most 72 byte(s)"},
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// taken turns a unique-field lookup into "is the value in use".
func taken(u *models.User, err error) (bool, error) {
	if err == nil {
		return u != nil, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *UserService) Register(ctx context.Context, payload map[string]any) (*models.UserOutcome, error) {
	var req models.RegisterRequest
	if err := validation.Decode(validation.Register, payload, &req); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	rejected := errors.Rejected("Rejected to create a User", "User already exists")
	if dup, err := taken(s.users.FindUserByUsername(ctx, req.Username)); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if dup {
		return nil, rejected
	}
	if dup, err := taken(s.users.FindUserByEmail(ctx, req.Email)); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if dup {
		return nil, rejected
	}

	hashed, err := s.hash("password", req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: req.Username, Email: req.Email, PasswordHash: hashed}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, rejected
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return models.ToUserOutcome(user), nil
}

// comparePassword checks password against hash. An empty hash is compared
// against a throwaway hash so unknown accounts cost the same as known ones.
func (s *UserService) comparePassword(hash, password string) bool {
	if hash == "" {
		s.dummyOnce.Do(func() {
			s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused-password"), s.cost)
		})
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login returns the user matching the credentials. Unknown email and wrong
// password fail identically.
func (s *UserService) Login(ctx context.Context, payload map[string]any) (*models.User, error) {
	var req models.LoginRequest
	if err := validation.Decode(validation.Login, payload, &req); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	rejected := errors.Rejected("Rejected to a login user", "Email or password is wrong")

	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find login user: %w", err)
	}
	if user == nil {
		s.comparePassword("", req.Password)
		return nil, rejected
	}
	if !s.comparePassword(user.PasswordHash, req.Password) {
		return nil, rejected
	}
	return user, nil
}

func (s *UserService) GetProfile(u *models.User) *models.UserOutcome {
	return models.ToUserOutcome(u)
}

// UpdateProfile applies the provided username and email to u and returns the
// stored record.
func (s *UserService) UpdateProfile(ctx context.Context, u *models.User, payload map[string]any) (*models.User, error) {
	var req models.UpdateProfileRequest
	if err := validation.Decode(validation.UpdateProfile, payload, &req); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	rejected := errors.Rejected("Rejected to update a User", "User already exists")
	if req.Username != nil {
		if dup, err := taken(s.users.FindUserByUsername(ctx, *req.Username)); err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		} else if dup && *req.Username != u.Username {
			return nil, rejected
		}
	}
	if req.Email != nil {
		if dup, err := taken(s.users.FindUserByEmail(ctx, *req.Email)); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		} else if dup && *req.Email != u.Email {
			return nil, rejected
		}
	}

	updated, err := s.users.UpdateUser(ctx, u.ID, models.UserPatch{Username: req.Username, Email: req.Email})
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, store.ErrDuplicate):
		return nil, rejected
	case errors.Is(err, store.ErrNotFound):
		return nil, errors.ErrUnauthorized
	default:
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
}

func (s *UserService) ChangePassword(ctx context.Context, u *models.User, payload map[string]any) (*models.UserOutcome, error) {
	var req models.ChangePasswordRequest
	if err := validation.Decode(validation.ChangePassword, payload, &req); err != nil {
		return nil, err
	}

	if !s.comparePassword(u.PasswordHash, req.CurrentPassword) {
		return nil, errors.NewResponseError(http.StatusUnauthorized, "Rejected to change password", "Incorrect current password")
	}

	hashed, err := s.hash("newPassword", req.NewPassword)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	updated, err := s.users.UpdateUser(ctx, u.ID, models.UserPatch{PasswordHash: &hashed})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	return models.ToUserOutcome(updated), nil
}
