package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"fitdesk/internal/domain"
	"fitdesk/pkg/utils"
)

// memStore is an in-memory domain.Store. Tx runs against a copy that is
// committed only when fn succeeds.
type memStore struct {
	mu   *sync.Mutex
	data *memData

	failClientProfile error
	failList          error
}

type memData struct {
	accounts map[string]domain.Account
	clients  map[string]domain.ClientProfile // by user id
	trainers map[string]domain.TrainerProfile
}

func newMemStore() *memStore {
	return &memStore{
		mu: &sync.Mutex{},
		data: &memData{
			accounts: map[string]domain.Account{},
			clients:  map[string]domain.ClientProfile{},
			trainers: map[string]domain.TrainerProfile{},
		},
	}
}

func (d *memData) clone() *memData {
	c := &memData{
		accounts: make(map[string]domain.Account, len(d.accounts)),
		clients:  make(map[string]domain.ClientProfile, len(d.clients)),
		trainers: make(map[string]domain.TrainerProfile, len(d.trainers)),
	}
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.clients {
		c.clients[k] = v
	}
	for k, v := range d.trainers {
		c.trainers[k] = v
	}
	return c
}

func (s *memStore) Accounts() domain.AccountRepository { return memAccounts{s} }
func (s *memStore) Profiles() domain.ProfileRepository { return memProfiles{s} }

func (s *memStore) Tx(ctx context.Context, fn func(domain.Store) error) error {
	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	tx := &memStore{mu: &sync.Mutex{}, data: snapshot, failClientProfile: s.failClientProfile, failList: s.failList}
	if err := fn(tx); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = tx.data
	s.mu.Unlock()
	return nil
}

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.data.accounts {
		if x.Email == a.Email {
			return errors.New("UNIQUE constraint failed: users.email")
		}
	}
	r.s.data.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) find(match func(domain.Account) bool) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.accounts {
		if match(a) {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.ID == id })
}

func (r memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.Email == email })
}

func (r memAccounts) FindActiveByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.Email == email && a.Status == domain.StatusActive })
}

func (r memAccounts) collect(match func(domain.Account) bool) ([]domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failList != nil {
		return nil, r.s.failList
	}
	var out []domain.Account
	for _, a := range r.s.data.accounts {
		if match(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r memAccounts) List(context.Context) ([]domain.Account, error) {
	out, err := r.collect(func(domain.Account) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r memAccounts) ListByRole(_ context.Context, role domain.Role, order domain.AccountOrder) ([]domain.Account, error) {
	out, err := r.collect(func(a domain.Account) bool { return a.Role == role })
	switch order {
	case domain.NewestFirst:
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case domain.ByFullName:
		sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	}
	return out, err
}

func (r memAccounts) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	out, err := r.collect(func(a domain.Account) bool { return a.Role == role })
	return int64(len(out)), err
}

func (r memAccounts) Update(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.accounts[a.ID]; ok {
		r.s.data.accounts[a.ID] = *a
	}
	return nil
}

func (r memAccounts) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.data.accounts[id]
	delete(r.s.data.accounts, id)
	return ok, nil
}

type memProfiles struct{ s *memStore }

func (r memProfiles) CreateClientProfile(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failClientProfile != nil {
		return r.s.failClientProfile
	}
	if _, ok := r.s.data.clients[userID]; !ok {
		r.s.data.clients[userID] = domain.ClientProfile{ID: utils.NewID(), UserID: userID}
	}
	return nil
}

func (r memProfiles) CreateTrainerProfile(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.trainers[userID]; !ok {
		r.s.data.trainers[userID] = domain.TrainerProfile{ID: utils.NewID(), UserID: userID}
	}
	return nil
}

func (r memProfiles) FindClientProfile(_ context.Context, userID string) (*domain.ClientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.clients[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProfiles) ListClientProfiles(context.Context) ([]domain.ClientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.ClientProfile, 0, len(r.s.data.clients))
	for _, p := range r.s.data.clients {
		out = append(out, p)
	}
	return out, nil
}

func (r memProfiles) UpsertAssignment(_ context.Context, clientUserID, trainerUserID string) (*domain.ClientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.clients[clientUserID]
	if !ok {
		p = domain.ClientProfile{ID: utils.NewID(), UserID: clientUserID}
	}
	tid := trainerUserID
	p.AssignedTrainerID = &tid
	r.s.data.clients[clientUserID] = p
	return &p, nil
}

func (r memProfiles) ClearAssignment(_ context.Context, clientUserID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.data.clients[clientUserID]; ok {
		p.AssignedTrainerID = nil
		r.s.data.clients[clientUserID] = p
	}
	return nil
}

func (r memProfiles) ClearTrainerAssignments(_ context.Context, trainerUserID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, p := range r.s.data.clients {
		if p.AssignedTrainerID != nil && *p.AssignedTrainerID == trainerUserID {
			p.AssignedTrainerID = nil
			r.s.data.clients[k] = p
		}
	}
	return nil
}

func (r memProfiles) DeleteProfiles(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.clients, userID)
	delete(r.s.data.trainers, userID)
	return nil
}
