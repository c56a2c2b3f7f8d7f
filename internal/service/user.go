package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fitdesk/internal/domain"
	"fitdesk/pkg/utils"
)

type UserService struct {
	store domain.Store
	cache AccountCache
	log   *zap.Logger
	now   func() time.Time
}

// NewUserService wires the service; cache may be nil.
func NewUserService(store domain.Store, log *zap.Logger, cache AccountCache) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{store: store, cache: cache, log: log, now: time.Now}
}

type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Phone    *string
	Role     string
}

// UpdateUserInput replaces every field; callers resend unchanged values.
// A blank NewPassword keeps the current credential.
type UpdateUserInput struct {
	ID          string
	FullName    string
	Phone       *string
	Role        string
	Status      string
	NewPassword string
}

func (s *UserService) List(ctx context.Context) ([]domain.Account, error) {
	as, err := s.store.Accounts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return as, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.Account, error) {
	a, err := s.store.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.Account, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return nil, domain.Invalid("Email, password and role are required")
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, domain.Invalid("Invalid role")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	a := &domain.Account{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        normalizePhone(in.Phone),
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    s.now(),
	}
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		if err := tx.Accounts().Create(ctx, a); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return provisionProfile(ctx, tx, a.ID, role)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("account created", zap.String("id", a.ID), zap.String("role", role.String()))
	return a, nil
}

func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (*domain.Account, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, domain.Invalid("User id is required")
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, domain.Invalid("Invalid role")
	}
	status, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, domain.Invalid("Invalid status")
	}
	var hash string
	if strings.TrimSpace(in.NewPassword) != "" {
		if hash, err = hashPassword(in.NewPassword); err != nil {
			return nil, err
		}
	}

	var out *domain.Account
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		a, err := tx.Accounts().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find account: %w", err)
		}
		if a == nil {
			return domain.ErrNotFound
		}
		prev := a.Role
		a.FullName = strings.TrimSpace(in.FullName)
		a.Phone = normalizePhone(in.Phone)
		a.Role = role
		a.Status = status
		if hash != "" {
			a.PasswordHash = hash
		}
		if err := tx.Accounts().Update(ctx, a); err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		if prev != role {
			if err := provisionProfile(ctx, tx, a.ID, role); err != nil {
				return err
			}
			if prev == domain.RoleTrainer {
				if err := tx.Profiles().ClearTrainerAssignments(ctx, a.ID); err != nil {
					return fmt.Errorf("unassign demoted trainer: %w", err)
				}
			}
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return out, nil
}

// Delete removes the account together with its profile rows and any
// assignment pointing at it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invalid("User id is required")
	}
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		a, err := tx.Accounts().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find account: %w", err)
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if err := tx.Profiles().DeleteProfiles(ctx, id); err != nil {
			return fmt.Errorf("delete profiles: %w", err)
		}
		if err := tx.Profiles().ClearTrainerAssignments(ctx, id); err != nil {
			return fmt.Errorf("clear assignments: %w", err)
		}
		ok, err := tx.Accounts().Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		if !ok {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("account deleted", zap.String("id", id))
	return nil
}

// EnsureAdmin creates the bootstrap admin when no admin account exists.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	n, err := s.store.Accounts().CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, CreateUserInput{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     domain.RoleAdmin.String(),
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) ResetPassword(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Invalid("Email and password are required")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	a, err := s.store.Accounts().FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if a == nil {
		return domain.ErrNotFound
	}
	a.PasswordHash = hash
	if err := s.store.Accounts().Update(ctx, a); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	s.invalidate(ctx, a.ID)
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("account cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}

// provisionProfile creates the profile row the role requires.
func provisionProfile(ctx context.Context, tx domain.Store, userID string, role domain.Role) error {
	switch role {
	case domain.RoleClient:
		if err := tx.Profiles().CreateClientProfile(ctx, userID); err != nil {
			return fmt.Errorf("create client profile: %w", err)
		}
	case domain.RoleTrainer:
		if err := tx.Profiles().CreateTrainerProfile(ctx, userID); err != nil {
			return fmt.Errorf("create trainer profile: %w", err)
		}
	case domain.RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	h, err := utils.HashPassword(pw)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Invalid("Password is too long")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func normalizePhone(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
