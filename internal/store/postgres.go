package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ayush/pokecatch/backend/internal/models"
)

// DBTX is the subset of pgx used by PostgresStore. *pgxpool.Pool, pgx.Tx and
// pgxmock pools all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore handles users, pokemon and caught_pokemon in PostgreSQL.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email      VARCHAR(255) UNIQUE NOT NULL,
		password   VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS pokemon (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name       VARCHAR(100) UNIQUE NOT NULL,
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS caught_pokemon (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		pokemon_id UUID NOT NULL REFERENCES pokemon(id),
		caught_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS caught_pokemon_user_id_idx ON caught_pokemon (user_id)`,
}

// Migrate creates the tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a user. The unique index on email decides concurrent
// registrations; the loser gets models.ErrDuplicateIdentity.
func (s *PostgresStore) CreateUser(ctx context.Context, email, hashedPassword string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (email, password)
		 VALUES ($1, $2)
		 RETURNING id, email, created_at`,
		email, hashedPassword,
	).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, email, password, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// EnsurePokemon returns the pokemon row for name, creating it on first use.
// The no-op update makes RETURNING yield the existing row on conflict, so
// racing callers all get the single winner.
func (s *PostgresStore) EnsurePokemon(ctx context.Context, name string) (*models.Pokemon, error) {
	var p models.Pokemon
	err := s.db.QueryRow(ctx,
		`INSERT INTO pokemon (name)
		 VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, created_at`,
		name,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ensure pokemon: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) CreateCaught(ctx context.Context, userID, pokemonID string) (*models.CaughtPokemon, error) {
	var c models.CaughtPokemon
	err := s.db.QueryRow(ctx,
		`INSERT INTO caught_pokemon (user_id, pokemon_id)
		 VALUES ($1, $2)
		 RETURNING id, user_id, pokemon_id, caught_at`,
		userID, pokemonID,
	).Scan(&c.ID, &c.UserID, &c.PokemonID, &c.CaughtAt)
	if err != nil {
		return nil, fmt.Errorf("create caught: %w", err)
	}
	return &c, nil
}

// ListCaught returns the user's catches joined with their pokemon, oldest first.
func (s *PostgresStore) ListCaught(ctx context.Context, userID string) ([]models.CaughtPokemon, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.user_id, c.pokemon_id, c.caught_at, p.name, p.created_at
		 FROM caught_pokemon c
		 JOIN pokemon p ON p.id = c.pokemon_id
		 WHERE c.user_id = $1
		 ORDER BY c.caught_at, c.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list caught: %w", err)
	}
	defer rows.Close()

	out := []models.CaughtPokemon{}
	for rows.Next() {
		var c models.CaughtPokemon
		p := &models.Pokemon{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.PokemonID, &c.CaughtAt, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("list caught: scan: %w", err)
		}
		p.ID = c.PokemonID
		c.Pokemon = p
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list caught: %w", err)
	}
	return out, nil
}

// DeleteCaught removes the record only if userID owns it. Missing and
// foreign records both yield models.ErrNotFound.
func (s *PostgresStore) DeleteCaught(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM caught_pokemon WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		if isInvalidText(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("delete caught: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// isInvalidText matches ids that are not valid UUID literals.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
