// Package pokemon implements the per-user collection of caught Pokémon.
package pokemon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayush/pokecatch/backend/internal/auth"
	"github.com/ayush/pokecatch/backend/internal/models"
)

// Store persists pokemon and caught records. Every caught-record operation
// is filtered by owner inside the store.
type Store interface {
	// EnsurePokemon returns the row for name, creating it atomically if absent.
	EnsurePokemon(ctx context.Context, name string) (*models.Pokemon, error)
	CreateCaught(ctx context.Context, userID, pokemonID string) (*models.CaughtPokemon, error)
	ListCaught(ctx context.Context, userID string) ([]models.CaughtPokemon, error)
	// DeleteCaught returns models.ErrNotFound unless a record with id owned
	// by userID was deleted.
	DeleteCaught(ctx context.Context, userID, id string) error
}

// Journal records collection activity.
type Journal interface {
	Record(ctx context.Context, ev *models.Event) error
	ListByUser(ctx context.Context, userID string) ([]models.Event, error)
}

// Collection is the ownership-scoped view of the store: every operation
// acts only on records owned by the given identity.
type Collection struct {
	store   Store
	journal Journal
	logger  *zap.SugaredLogger
}

// NewCollection builds a Collection. journal may be nil.
func NewCollection(store Store, journal Journal, logger *zap.SugaredLogger) *Collection {
	return &Collection{store: store, journal: journal, logger: logger}
}

// Catch records a new catch of name for id. Catching the same name again
// creates another record.
func (c *Collection) Catch(ctx context.Context, id auth.Identity, name string) (*models.CaughtPokemon, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("pokemon name is required: %w", models.ErrInvalidInput)
	}

	p, err := c.store.EnsurePokemon(ctx, name)
	if err != nil {
		return nil, err
	}

	rec, err := c.store.CreateCaught(ctx, id.UserID(), p.ID)
	if err != nil {
		return nil, err
	}
	rec.Pokemon = p

	c.record(ctx, &models.Event{
		UserID:      id.UserID(),
		Action:      models.ActionCatch,
		RecordID:    rec.ID,
		PokemonName: p.Name,
	})
	return rec, nil
}

// Release deletes recordID if id owns it. A record that does not exist and
// one owned by someone else both yield models.ErrNotFound.
func (c *Collection) Release(ctx context.Context, id auth.Identity, recordID string) error {
	if _, err := uuid.Parse(recordID); err != nil {
		return models.ErrNotFound
	}

	if err := c.store.DeleteCaught(ctx, id.UserID(), recordID); err != nil {
		return err
	}

	c.record(ctx, &models.Event{
		UserID:   id.UserID(),
		Action:   models.ActionRelease,
		RecordID: recordID,
	})
	return nil
}

// List returns the records owned by id, never nil.
func (c *Collection) List(ctx context.Context, id auth.Identity) ([]models.CaughtPokemon, error) {
	recs, err := c.store.ListCaught(ctx, id.UserID())
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.CaughtPokemon{}
	}
	return recs, nil
}

// History returns id's journal, newest first.
func (c *Collection) History(ctx context.Context, id auth.Identity) ([]models.Event, error) {
	if c.journal == nil {
		return []models.Event{}, nil
	}
	events, err := c.journal.ListByUser(ctx, id.UserID())
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// record journals ev. Failures are logged and do not fail the operation.
func (c *Collection) record(ctx context.Context, ev *models.Event) {
	if c.journal == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := c.journal.Record(ctx, ev); err != nil {
		c.logger.Warnw("journal write failed (non-fatal)",
			"action", ev.Action, "record_id", ev.RecordID, "err", err)
	}
}
