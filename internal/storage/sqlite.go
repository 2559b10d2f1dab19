package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourname/exercisetracker/internal"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	id       TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS exercises (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT NOT NULL,
	description TEXT NOT NULL,
	duration    REAL NOT NULL,
	date        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS exercises_user_id_idx ON exercises (user_id, seq);
`

type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(ctx context.Context, path string, logger internal.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open sqlite: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Errorf("failed to connect to sqlite: %v", err)
		return nil, fmt.Errorf("storage: sqlite ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		logger.Errorf("failed to migrate sqlite schema: %v", err)
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return &SQLiteStorage{db: db, logger: logger}, nil
}

// --- UserRepository ---
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username) VALUES (?, ?)`, user.ID, user.Username)
	if err != nil {
		s.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY seq`)
	if err != nil {
		s.logger.Errorf("failed to query users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []internal.User{}
	for rows.Next() {
		var u internal.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username FROM users WHERE id = ?`, id)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		s.logger.Errorf("failed to query user: %v", err)
		return nil, err
	}
	return &u, nil
}

// --- ExerciseRepository ---
func (s *SQLiteStorage) AddExercise(ctx context.Context, exercise *internal.Exercise) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO exercises (user_id, description, duration, date) VALUES (?, ?, ?, ?)`,
		exercise.UserID, exercise.Description, exercise.Duration, exercise.Date)
	if err != nil {
		s.logger.Errorf("failed to insert exercise: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) ListExercises(ctx context.Context, userID string) ([]internal.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, description, duration, date FROM exercises WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		s.logger.Errorf("failed to query exercises: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := []internal.Exercise{}
	for rows.Next() {
		var e internal.Exercise
		if err := rows.Scan(&e.UserID, &e.Description, &e.Duration, &e.Date); err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStorage)(nil)
