package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fitdesk/internal/domain"
	"fitdesk/internal/feature/account"
)

type AccountRepo struct{ db *gorm.DB }

func NewAccountRepo(db *gorm.DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	m := account.FromAccount(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.CreatedAt, a.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *AccountRepo) first(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var m account.UserModel
	err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a := m.ToAccount()
	return &a, nil
}

func (r *AccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *AccountRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, "email = ? AND status = ?", email, string(domain.StatusActive))
}

func (r *AccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	var ms []account.UserModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return toAccounts(ms), nil
}

func (r *AccountRepo) ListByRole(ctx context.Context, role domain.Role, order domain.AccountOrder) ([]domain.Account, error) {
	var orderBy string
	switch order {
	case domain.NewestFirst:
		orderBy = "created_at DESC"
	case domain.ByFullName:
		orderBy = "full_name ASC"
	default:
		return nil, fmt.Errorf("unknown account order %d", order)
	}
	var ms []account.UserModel
	if err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order(orderBy).Find(&ms).Error; err != nil {
		return nil, err
	}
	return toAccounts(ms), nil
}

func (r *AccountRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&account.UserModel{}).Where("role = ?", string(role)).Count(&n).Error
	return n, err
}

// Update writes every mutable column. Existence is the caller's concern:
// MySQL reports zero affected rows for no-op updates.
func (r *AccountRepo) Update(ctx context.Context, a *domain.Account) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&account.UserModel{}).Where("id = ?", a.ID).
		Updates(map[string]any{
			"full_name":     a.FullName,
			"phone":         a.Phone,
			"role":          string(a.Role),
			"status":        string(a.Status),
			"password_hash": a.PasswordHash,
			"updated_at":    now,
		}).Error
	if err != nil {
		return err
	}
	a.UpdatedAt = now
	return nil
}

func (r *AccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&account.UserModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func toAccounts(ms []account.UserModel) []domain.Account {
	out := make([]domain.Account, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToAccount())
	}
	return out
}
