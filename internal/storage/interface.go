package storage

import (
	"context"

	"github.com/yourname/exercisetracker/internal"
)

// UserRepository lists users in insertion order.
type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	ListUsers(ctx context.Context) ([]internal.User, error)
	GetUser(ctx context.Context, id string) (*internal.User, error)
}

// ExerciseRepository returns a user's exercises in insertion order.
type ExerciseRepository interface {
	AddExercise(ctx context.Context, exercise *internal.Exercise) error
	ListExercises(ctx context.Context, userID string) ([]internal.Exercise, error)
}

type Store interface {
	UserRepository
	ExerciseRepository
	Close() error
}
