package storage

import (
	"context"
	"sync"

	"github.com/yourname/exercisetracker/internal"
)

type MemoryStorage struct {
	mu        sync.RWMutex
	users     []internal.User
	exercises []internal.Exercise
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) CreateUser(_ context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryStorage) ListUsers(_ context.Context) ([]internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]internal.User, len(s.users))
	copy(users, s.users)
	return users, nil
}

func (s *MemoryStorage) GetUser(_ context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (s *MemoryStorage) AddExercise(_ context.Context, exercise *internal.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises = append(s.exercises, *exercise)
	return nil
}

func (s *MemoryStorage) ListExercises(_ context.Context, userID string) ([]internal.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []internal.Exercise{}
	for _, e := range s.exercises {
		if e.UserID == userID {
			logs = append(logs, e)
		}
	}
	return logs, nil
}

func (s *MemoryStorage) Close() error { return nil }

var _ Store = (*MemoryStorage)(nil)
