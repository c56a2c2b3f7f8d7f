package domain

import "context"

// AccountOrder selects the sort order of account listings.
type AccountOrder int

const (
	NewestFirst AccountOrder = iota
	ByFullName
)

// AccountRepository finders return (nil, nil) when nothing matches.
type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindActiveByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	ListByRole(ctx context.Context, role Role, order AccountOrder) ([]Account, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) (bool, error)
}

type ProfileRepository interface {
	// CreateClientProfile and CreateTrainerProfile are no-ops when the
	// account already owns a profile of that kind.
	CreateClientProfile(ctx context.Context, userID string) error
	CreateTrainerProfile(ctx context.Context, userID string) error
	FindClientProfile(ctx context.Context, userID string) (*ClientProfile, error)
	ListClientProfiles(ctx context.Context) ([]ClientProfile, error)
	UpsertAssignment(ctx context.Context, clientUserID, trainerUserID string) (*ClientProfile, error)
	ClearAssignment(ctx context.Context, clientUserID string) error
	ClearTrainerAssignments(ctx context.Context, trainerUserID string) error
	DeleteProfiles(ctx context.Context, userID string) error
}

// Store is the single shared handle on the backing store. Tx runs fn against
// a Store bound to one transaction; a non-nil error rolls it back.
type Store interface {
	Accounts() AccountRepository
	Profiles() ProfileRepository
	Tx(ctx context.Context, fn func(Store) error) error
}
