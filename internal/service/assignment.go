package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitdesk/internal/domain"
)

type AssignmentService struct {
	store domain.Store
}

func NewAssignmentService(store domain.Store) *AssignmentService {
	return &AssignmentService{store: store}
}

// ClientAssignment is a client account joined with its profile. Profile
// fields are nil when the profile row is missing.
type ClientAssignment struct {
	UserID            string        `json:"user_id"`
	ClientID          *string       `json:"client_id"`
	FullName          string        `json:"full_name"`
	Email             string        `json:"email"`
	Phone             *string       `json:"phone"`
	Status            domain.Status `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	AssignedTrainerID *string       `json:"assigned_trainer_id"`
	Height            *float64      `json:"height"`
	CurrentWeight     *float64      `json:"current_weight"`
	TargetWeight      *float64      `json:"target_weight"`
}

type TrainerSummary struct {
	ID       string        `json:"id"`
	FullName string        `json:"full_name"`
	Email    string        `json:"email"`
	Status   domain.Status `json:"status"`
}

type Assignments struct {
	Clients  []ClientAssignment
	Trainers []TrainerSummary
}

func (s *AssignmentService) List(ctx context.Context) (*Assignments, error) {
	trainers, err := s.store.Accounts().ListByRole(ctx, domain.RoleTrainer, domain.ByFullName)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	clients, err := s.store.Accounts().ListByRole(ctx, domain.RoleClient, domain.NewestFirst)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	profiles, err := s.store.Profiles().ListClientProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list client profiles: %w", err)
	}
	byUser := make(map[string]domain.ClientProfile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	out := &Assignments{
		Clients:  make([]ClientAssignment, 0, len(clients)),
		Trainers: make([]TrainerSummary, 0, len(trainers)),
	}
	for _, c := range clients {
		row := ClientAssignment{
			UserID:    c.ID,
			FullName:  c.FullName,
			Email:     c.Email,
			Phone:     c.Phone,
			Status:    c.Status,
			CreatedAt: c.CreatedAt,
		}
		if p, ok := byUser[c.ID]; ok {
			id := p.ID
			row.ClientID = &id
			row.AssignedTrainerID = p.AssignedTrainerID
			row.Height = p.Height
			row.CurrentWeight = p.CurrentWeight
			row.TargetWeight = p.TargetWeight
		}
		out.Clients = append(out.Clients, row)
	}
	for _, t := range trainers {
		out.Trainers = append(out.Trainers, TrainerSummary{ID: t.ID, FullName: t.FullName, Email: t.Email, Status: t.Status})
	}
	return out, nil
}

// Assign sets the client's trainer, creating the client profile when it is
// missing. Both ids must reference accounts of the matching role.
func (s *AssignmentService) Assign(ctx context.Context, clientUserID, trainerUserID string) (*domain.ClientProfile, error) {
	clientUserID, trainerUserID = strings.TrimSpace(clientUserID), strings.TrimSpace(trainerUserID)
	if clientUserID == "" || trainerUserID == "" {
		return nil, domain.Invalid("client_user_id and trainer_user_id are required")
	}

	var out *domain.ClientProfile
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		if err := requireRole(ctx, tx, clientUserID, domain.RoleClient, "client_user_id does not reference a client"); err != nil {
			return err
		}
		if err := requireRole(ctx, tx, trainerUserID, domain.RoleTrainer, "trainer_user_id does not reference a trainer"); err != nil {
			return err
		}
		p, err := tx.Profiles().UpsertAssignment(ctx, clientUserID, trainerUserID)
		if err != nil {
			return fmt.Errorf("upsert assignment: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear unassigns the client's trainer. A client without a profile row is a
// no-op.
func (s *AssignmentService) Clear(ctx context.Context, clientUserID string) error {
	clientUserID = strings.TrimSpace(clientUserID)
	if clientUserID == "" {
		return domain.Invalid("clientUserId is required")
	}
	if err := s.store.Profiles().ClearAssignment(ctx, clientUserID); err != nil {
		return fmt.Errorf("clear assignment: %w", err)
	}
	return nil
}

func requireRole(ctx context.Context, tx domain.Store, id string, role domain.Role, msg string) error {
	a, err := tx.Accounts().FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if a == nil || a.Role != role {
		return domain.Invalid(msg)
	}
	return nil
}
