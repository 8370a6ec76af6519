// Package testutil holds in-memory doubles of the PostgreSQL and MongoDB
// stores for tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayush/pokecatch/backend/internal/models"
)

// MemStore mirrors store.PostgresStore: unique email, unique pokemon name
// and owner-filtered deletes, all under one lock.
type MemStore struct {
	mu      sync.Mutex
	users   map[string]*models.User // by email
	pokemon map[string]*models.Pokemon
	caught  map[string]models.CaughtPokemon
	seq     int
	err     error
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:   map[string]*models.User{},
		pokemon: map[string]*models.Pokemon{},
		caught:  map[string]models.CaughtPokemon{},
	}
}

// FailWith makes every later call return err. Pass nil to recover.
func (m *MemStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemStore) CreateUser(_ context.Context, email, hashedPw string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.users[email]; ok {
		return nil, models.ErrDuplicateIdentity
	}
	u := &models.User{ID: uuid.NewString(), Email: email, Password: hashedPw, CreatedAt: time.Now()}
	m.users[email] = u
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (m *MemStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// UserPassword returns the stored digest for email.
func (m *MemStore) UserPassword(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u.Password
	}
	return ""
}

func (m *MemStore) EnsurePokemon(_ context.Context, name string) (*models.Pokemon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.pokemon[name]
	if !ok {
		p = &models.Pokemon{ID: uuid.NewString(), Name: name, CreatedAt: time.Now()}
		m.pokemon[name] = p
	}
	cp := *p
	return &cp, nil
}

func (m *MemStore) CreateCaught(_ context.Context, userID, pokemonID string) (*models.CaughtPokemon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.seq++
	c := models.CaughtPokemon{
		ID:        uuid.NewString(),
		UserID:    userID,
		PokemonID: pokemonID,
		CaughtAt:  time.Unix(int64(m.seq), 0).UTC(),
	}
	m.caught[c.ID] = c
	return &c, nil
}

func (m *MemStore) ListCaught(_ context.Context, userID string) ([]models.CaughtPokemon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.CaughtPokemon{}
	for _, c := range m.caught {
		if c.UserID != userID {
			continue
		}
		for _, p := range m.pokemon {
			if p.ID == c.PokemonID {
				cp := *p
				c.Pokemon = &cp
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CaughtAt.Before(out[j].CaughtAt) })
	return out, nil
}

func (m *MemStore) DeleteCaught(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c, ok := m.caught[id]
	if !ok || c.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.caught, id)
	return nil
}

func (m *MemStore) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *MemStore) PokemonCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pokemon)
}

func (m *MemStore) CaughtCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.caught)
}

// MemJournal mirrors store.MongoStore.
type MemJournal struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (j *MemJournal) FailWith(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.err = err
}

func (j *MemJournal) Record(_ context.Context, ev *models.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.events = append(j.events, *ev)
	return nil
}

// ListByUser returns userID's events, newest first.
func (j *MemJournal) ListByUser(_ context.Context, userID string) ([]models.Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return nil, j.err
	}
	out := []models.Event{}
	for i := len(j.events) - 1; i >= 0; i-- {
		if j.events[i].UserID == userID {
			out = append(out, j.events[i])
		}
	}
	return out, nil
}

func (j *MemJournal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}
