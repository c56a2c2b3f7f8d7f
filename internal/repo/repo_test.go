package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitdesk/internal/domain"
	"fitdesk/internal/repo/repotest"
	"fitdesk/pkg/utils"
)

func newAccount(email string, role domain.Role, created time.Time) *domain.Account {
	return &domain.Account{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: "hash",
		FullName:     email,
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    created,
	}
}

func TestAccountRepo_CreateFind(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))

	a := newAccount("a@x.com", domain.RoleClient, time.Time{})
	require.NoError(t, s.Accounts().Create(ctx, a))
	assert.False(t, a.CreatedAt.IsZero())

	got, err := s.Accounts().FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, domain.RoleClient, got.Role)
	assert.Nil(t, got.Phone)

	missing, err := s.Accounts().FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// email match is exact
	upper, err := s.Accounts().FindByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
	assert.Nil(t, upper)
}

func TestAccountRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))

	require.NoError(t, s.Accounts().Create(ctx, newAccount("dup@x.com", domain.RoleClient, time.Time{})))
	assert.Error(t, s.Accounts().Create(ctx, newAccount("dup@x.com", domain.RoleTrainer, time.Time{})))
}

func TestAccountRepo_FindActiveByEmail(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))

	a := newAccount("off@x.com", domain.RoleClient, time.Time{})
	a.Status = domain.StatusInactive
	require.NoError(t, s.Accounts().Create(ctx, a))

	got, err := s.Accounts().FindActiveByEmail(ctx, "off@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	a.Status = domain.StatusActive
	require.NoError(t, s.Accounts().Update(ctx, a))
	got, err = s.Accounts().FindActiveByEmail(ctx, "off@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestAccountRepo_EmailMatchesExactly(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))
	require.NoError(t, s.Accounts().Create(ctx, newAccount("case@x.com", domain.RoleClient, time.Time{})))

	for _, email := range []string{"Case@x.com", "CASE@X.COM", " case@x.com"} {
		got, err := s.Accounts().FindActiveByEmail(ctx, email)
		require.NoError(t, err)
		assert.Nil(t, got, email)
	}
	require.NoError(t, s.Accounts().Create(ctx, newAccount("CASE@x.com", domain.RoleClient, time.Time{})))
}

func TestEmailCollationSQL(t *testing.T) {
	assert.Contains(t, emailCollationSQL("mysql"), "COLLATE utf8mb4_bin")
	assert.Empty(t, emailCollationSQL("postgres"))
	assert.Empty(t, emailCollationSQL("sqlite"))
}

func TestMigrate_SQLite(t *testing.T) {
	db := repotest.OpenSQLite(t)
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable("users"))
}

func TestAccountRepo_ListOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	old := newAccount("old@x.com", domain.RoleClient, base)
	mid := newAccount("mid@x.com", domain.RoleTrainer, base.Add(time.Hour))
	mid.FullName = "Zed"
	young := newAccount("young@x.com", domain.RoleTrainer, base.Add(2*time.Hour))
	young.FullName = "Amy"
	for _, a := range []*domain.Account{old, mid, young} {
		require.NoError(t, s.Accounts().Create(ctx, a))
	}

	all, err := s.Accounts().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{young.ID, mid.ID, old.ID}, ids(all))

	trainers, err := s.Accounts().ListByRole(ctx, domain.RoleTrainer, domain.ByFullName)
	require.NoError(t, err)
	assert.Equal(t, []string{young.ID, mid.ID}, ids(trainers))

	n, err := s.Accounts().CountByRole(ctx, domain.RoleTrainer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = s.Accounts().ListByRole(ctx, domain.RoleClient, domain.AccountOrder(99))
	assert.Error(t, err)
}

func TestAccountRepo_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))

	a := newAccount("u@x.com", domain.RoleClient, time.Time{})
	require.NoError(t, s.Accounts().Create(ctx, a))

	phone := "555-0100"
	a.FullName, a.Phone, a.Role, a.Status = "Una", &phone, domain.RoleTrainer, domain.StatusInactive
	require.NoError(t, s.Accounts().Update(ctx, a))

	got, err := s.Accounts().FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Una", got.FullName)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "555-0100", *got.Phone)
	assert.Equal(t, domain.RoleTrainer, got.Role)
	assert.Equal(t, domain.StatusInactive, got.Status)

	ok, err := s.Accounts().Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Accounts().Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileRepo_Assignment(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))
	p := s.Profiles()

	// upsert creates the row when missing
	cp, err := p.UpsertAssignment(ctx, "client-1", "trainer-1")
	require.NoError(t, err)
	require.NotNil(t, cp.AssignedTrainerID)
	assert.Equal(t, "trainer-1", *cp.AssignedTrainerID)
	assert.Nil(t, cp.Height)
	firstID := cp.ID

	// and keeps the row on conflict
	cp, err = p.UpsertAssignment(ctx, "client-1", "trainer-2")
	require.NoError(t, err)
	assert.Equal(t, firstID, cp.ID)
	assert.Equal(t, "trainer-2", *cp.AssignedTrainerID)

	require.NoError(t, p.ClearAssignment(ctx, "client-1"))
	require.NoError(t, p.ClearAssignment(ctx, "client-1"))
	require.NoError(t, p.ClearAssignment(ctx, "no-such-client"))

	cp, err = p.FindClientProfile(ctx, "client-1")
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Nil(t, cp.AssignedTrainerID)
}

func TestProfileRepo_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))
	p := s.Profiles()

	require.NoError(t, p.CreateClientProfile(ctx, "c"))
	require.NoError(t, p.CreateClientProfile(ctx, "c"))
	require.NoError(t, p.CreateTrainerProfile(ctx, "t"))
	require.NoError(t, p.CreateTrainerProfile(ctx, "t"))

	all, err := p.ListClientProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProfileRepo_ClearTrainerAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))
	p := s.Profiles()

	_, err := p.UpsertAssignment(ctx, "c1", "t1")
	require.NoError(t, err)
	_, err = p.UpsertAssignment(ctx, "c2", "t1")
	require.NoError(t, err)
	_, err = p.UpsertAssignment(ctx, "c3", "t2")
	require.NoError(t, err)

	require.NoError(t, p.ClearTrainerAssignments(ctx, "t1"))
	all, err := p.ListClientProfiles(ctx)
	require.NoError(t, err)
	assigned := 0
	for _, cp := range all {
		if cp.AssignedTrainerID != nil {
			assigned++
			assert.Equal(t, "t2", *cp.AssignedTrainerID)
		}
	}
	assert.Equal(t, 1, assigned)

	require.NoError(t, p.DeleteProfiles(ctx, "c1"))
	cp, err := p.FindClientProfile(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestStore_TxRollback(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repotest.OpenSQLite(t))
	boom := errors.New("boom")

	a := newAccount("tx@x.com", domain.RoleClient, time.Time{})
	err := s.Tx(ctx, func(tx domain.Store) error {
		if err := tx.Accounts().Create(ctx, a); err != nil {
			return err
		}
		if err := tx.Profiles().CreateClientProfile(ctx, a.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Accounts().FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	cp, err := s.Profiles().FindClientProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func ids(as []domain.Account) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID)
	}
	return out
}
