package account

import (
	"time"

	"fitdesk/internal/domain"
)

type UserModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Email        string  `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string  `gorm:"size:100;not null"`
	FullName     string  `gorm:"size:128;not null;default:''"`
	Phone        *string `gorm:"size:32"`
	Role         string  `gorm:"size:16;not null;index"`
	Status       string  `gorm:"size:16;not null;default:active"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

type ClientModel struct {
	ID                string  `gorm:"primaryKey;size:36"`
	UserID            string  `gorm:"uniqueIndex;size:36;not null"`
	AssignedTrainerID *string `gorm:"size:36;index"`
	Height            *float64
	CurrentWeight     *float64
	TargetWeight      *float64

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ClientModel) TableName() string { return "clients" }

type TrainerModel struct {
	ID     string `gorm:"primaryKey;size:36"`
	UserID string `gorm:"uniqueIndex;size:36;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TrainerModel) TableName() string { return "trainers" }

// Models lists every table owned by the account feature, in migration order.
func Models() []any { return []any{&UserModel{}, &ClientModel{}, &TrainerModel{}} }

func FromAccount(a *domain.Account) UserModel {
	return UserModel{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		FullName:     a.FullName,
		Phone:        a.Phone,
		Role:         string(a.Role),
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m UserModel) ToAccount() domain.Account {
	return domain.Account{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		Phone:        m.Phone,
		Role:         domain.Role(m.Role),
		Status:       domain.Status(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (m ClientModel) ToProfile() domain.ClientProfile {
	return domain.ClientProfile{
		ID:                m.ID,
		UserID:            m.UserID,
		AssignedTrainerID: m.AssignedTrainerID,
		Height:            m.Height,
		CurrentWeight:     m.CurrentWeight,
		TargetWeight:      m.TargetWeight,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
