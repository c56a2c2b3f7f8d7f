package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitdesk/internal/domain"
	"fitdesk/pkg/utils"
)

func strptr(s string) *string { return &s }

func TestCreate_ProvisionsProfileByRole(t *testing.T) {
	st := newMemStore()
	us := NewUserService(st, nil, nil)
	ctx := context.Background()

	client, err := us.Create(ctx, CreateUserInput{
		Email: " a@gym.test ", Password: "pw", FullName: " Ann ", Phone: strptr("  "), Role: "client",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@gym.test", client.Email)
	assert.Equal(t, "Ann", client.FullName)
	assert.Nil(t, client.Phone)
	assert.Equal(t, domain.StatusActive, client.Status)
	assert.True(t, utils.CheckPassword("pw", client.PasswordHash))
	assert.Contains(t, st.data.clients, client.ID)

	trainer := seedAccount(t, us, "t@gym.test", "pw", domain.RoleTrainer)
	assert.Contains(t, st.data.trainers, trainer.ID)

	admin := seedAccount(t, us, "root@gym.test", "pw", domain.RoleAdmin)
	assert.NotContains(t, st.data.clients, admin.ID)
	assert.NotContains(t, st.data.trainers, admin.ID)
}

func TestCreate_Validation(t *testing.T) {
	us := NewUserService(newMemStore(), nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateUserInput
		msg  string
	}{
		{"missing email", CreateUserInput{Password: "pw", Role: "client"}, "Email, password and role are required"},
		{"missing password", CreateUserInput{Email: "x@gym.test", Role: "client"}, "Email, password and role are required"},
		{"missing role", CreateUserInput{Email: "x@gym.test", Password: "pw"}, "Email, password and role are required"},
		{"unknown role", CreateUserInput{Email: "x@gym.test", Password: "pw", Role: "owner"}, "Invalid role"},
		{"long password", CreateUserInput{Email: "x@gym.test", Password: strings.Repeat("p", 80), Role: "client"}, "Password is too long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := us.Create(ctx, tc.in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.msg, ve.Msg)
		})
	}
}

func TestCreate_DuplicateEmailIsNotValidation(t *testing.T) {
	us := NewUserService(newMemStore(), nil, nil)
	seedAccount(t, us, "dup@gym.test", "pw", domain.RoleClient)
	_, err := us.Create(context.Background(), CreateUserInput{Email: "dup@gym.test", Password: "pw", Role: "client"})
	require.Error(t, err)
	assert.False(t, domain.IsValidation(err))
}

func TestCreate_RollsBackWhenProfileFails(t *testing.T) {
	st := newMemStore()
	st.failClientProfile = errors.New("disk full")
	us := NewUserService(st, nil, nil)

	_, err := us.Create(context.Background(), CreateUserInput{Email: "c@gym.test", Password: "pw", Role: "client"})
	require.Error(t, err)
	assert.Empty(t, st.data.accounts)
}

func TestUpdate(t *testing.T) {
	st := newMemStore()
	cache := &memCache{}
	us := NewUserService(st, nil, cache)
	ctx := context.Background()
	acc := seedAccount(t, us, "c@gym.test", "old", domain.RoleClient)

	got, err := us.Update(ctx, UpdateUserInput{
		ID: acc.ID, FullName: "Carla", Phone: strptr(" 555 "), Role: "client", Status: "inactive",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carla", got.FullName)
	assert.Equal(t, "555", *got.Phone)
	assert.Equal(t, domain.StatusInactive, got.Status)
	assert.True(t, utils.CheckPassword("old", st.data.accounts[acc.ID].PasswordHash))
	assert.Equal(t, []string{acc.ID}, cache.invalidated)

	_, err = us.Update(ctx, UpdateUserInput{ID: acc.ID, FullName: "Carla", Role: "client", Status: "active", NewPassword: "new"})
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword("new", st.data.accounts[acc.ID].PasswordHash))

	_, err = us.Update(ctx, UpdateUserInput{ID: "missing", Role: "client", Status: "active"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = us.Update(ctx, UpdateUserInput{ID: acc.ID, Role: "boss", Status: "active"})
	assert.EqualError(t, err, "Invalid role")
	_, err = us.Update(ctx, UpdateUserInput{ID: acc.ID, Role: "client", Status: "gone"})
	assert.EqualError(t, err, "Invalid status")
	_, err = us.Update(ctx, UpdateUserInput{Role: "client", Status: "active"})
	assert.EqualError(t, err, "User id is required")
}

func TestUpdate_RoleChangeProvisionsAndUnassigns(t *testing.T) {
	st := newMemStore()
	us := NewUserService(st, nil, nil)
	as := NewAssignmentService(st)
	ctx := context.Background()

	client := seedAccount(t, us, "c@gym.test", "pw", domain.RoleClient)
	trainer := seedAccount(t, us, "t@gym.test", "pw", domain.RoleTrainer)
	_, err := as.Assign(ctx, client.ID, trainer.ID)
	require.NoError(t, err)

	_, err = us.Update(ctx, UpdateUserInput{ID: trainer.ID, FullName: "T", Role: "client", Status: "active"})
	require.NoError(t, err)
	assert.Contains(t, st.data.clients, trainer.ID)
	assert.Nil(t, st.data.clients[client.ID].AssignedTrainerID)
}

func TestDelete_Cascades(t *testing.T) {
	st := newMemStore()
	us := NewUserService(st, nil, nil)
	as := NewAssignmentService(st)
	ctx := context.Background()

	client := seedAccount(t, us, "c@gym.test", "pw", domain.RoleClient)
	trainer := seedAccount(t, us, "t@gym.test", "pw", domain.RoleTrainer)
	_, err := as.Assign(ctx, client.ID, trainer.ID)
	require.NoError(t, err)

	require.NoError(t, us.Delete(ctx, trainer.ID))
	assert.NotContains(t, st.data.accounts, trainer.ID)
	assert.NotContains(t, st.data.trainers, trainer.ID)
	assert.Nil(t, st.data.clients[client.ID].AssignedTrainerID)

	require.NoError(t, us.Delete(ctx, client.ID))
	assert.NotContains(t, st.data.clients, client.ID)

	assert.ErrorIs(t, us.Delete(ctx, client.ID), domain.ErrNotFound)
	assert.EqualError(t, us.Delete(ctx, " "), "User id is required")
}

func TestListAndGet(t *testing.T) {
	st := newMemStore()
	us := NewUserService(st, nil, nil)
	ctx := context.Background()
	a := seedAccount(t, us, "a@gym.test", "pw", domain.RoleClient)
	seedAccount(t, us, "b@gym.test", "pw", domain.RoleTrainer)

	all, err := us.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := us.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@gym.test", got.Email)
	_, err = us.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	st.failList = errors.New("db down")
	_, err = us.List(ctx)
	assert.Error(t, err)
}

func TestEnsureAdminAndResetPassword(t *testing.T) {
	st := newMemStore()
	us := NewUserService(st, nil, nil)
	ctx := context.Background()

	created, err := us.EnsureAdmin(ctx, "root@gym.test", "pw", "Root")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = us.EnsureAdmin(ctx, "other@gym.test", "pw", "Other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, st.data.accounts, 1)

	require.NoError(t, us.ResetPassword(ctx, "root@gym.test", "fresh"))
	a, _ := st.Accounts().FindByEmail(ctx, "root@gym.test")
	assert.True(t, utils.CheckPassword("fresh", a.PasswordHash))
	assert.ErrorIs(t, us.ResetPassword(ctx, "ghost@gym.test", "x"), domain.ErrNotFound)
}
