package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleTrainer, RoleClient}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleAdmin, RoleTrainer, RoleClient:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Status of an account. Inactive accounts never authenticate.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case StatusActive, StatusInactive:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Account) Active() bool { return a != nil && a.Status == StatusActive }

// ClientProfile is the client-only extension of an Account.
type ClientProfile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	AssignedTrainerID *string   `json:"assigned_trainer_id"`
	Height            *float64  `json:"height"`
	CurrentWeight     *float64  `json:"current_weight"`
	TargetWeight      *float64  `json:"target_weight"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TrainerProfile carries no data yet beyond its owner.
type TrainerProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is the identity resolved from a bearer token.
type Principal struct {
	AccountID string
	Email     string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}
