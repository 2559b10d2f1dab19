package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/exercisetracker/internal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	seq      BIGSERIAL PRIMARY KEY,
	id       TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS exercises (
	seq         BIGSERIAL PRIMARY KEY,
	user_id     TEXT NOT NULL,
	description TEXT NOT NULL,
	duration    DOUBLE PRECISION NOT NULL,
	date        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS exercises_user_id_idx ON exercises (user_id, seq);
`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		logger.Errorf("failed to migrate postgres schema: %v", err)
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// --- UserRepository ---
func (p *PostgresStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, username) VALUES ($1, $2)`, user.ID, user.Username)
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, username FROM users ORDER BY seq`)
	if err != nil {
		p.logger.Errorf("failed to query users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []internal.User{}
	for rows.Next() {
		var u internal.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			p.logger.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *PostgresStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, username FROM users WHERE id = $1`, id)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		p.logger.Errorf("failed to query user: %v", err)
		return nil, err
	}
	return &u, nil
}

// --- ExerciseRepository ---
func (p *PostgresStorage) AddExercise(ctx context.Context, exercise *internal.Exercise) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO exercises (user_id, description, duration, date) VALUES ($1, $2, $3, $4)`,
		exercise.UserID, exercise.Description, exercise.Duration, exercise.Date)
	if err != nil {
		p.logger.Errorf("failed to insert exercise: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListExercises(ctx context.Context, userID string) ([]internal.Exercise, error) {
	rows, err := p.pool.Query(ctx, `SELECT user_id, description, duration, date FROM exercises WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		p.logger.Errorf("failed to query exercises: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := []internal.Exercise{}
	for rows.Next() {
		var e internal.Exercise
		if err := rows.Scan(&e.UserID, &e.Description, &e.Duration, &e.Date); err != nil {
			p.logger.Errorf("failed to scan exercise: %v", err)
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

var _ Store = (*PostgresStorage)(nil)
