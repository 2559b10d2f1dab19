package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yourname/exercisetracker/internal"
)

// FileStorage keeps everything in memory and mirrors it to two JSON files.
// Writes are batched: each mutation nudges a worker that saves after saveDelay of quiet.
type FileStorage struct {
	users         []internal.User
	exercises     []internal.Exercise
	mu            sync.RWMutex
	usersFile     string
	exercisesFile string
	saveUsersChan chan struct{}
	saveExChan    chan struct{}
	shutdownChan  chan struct{}
	closeOnce     sync.Once
	workers       sync.WaitGroup
	saveDelay     time.Duration
	logger        internal.Logger
}

func NewFileStorage(usersFile, exercisesFile string, logger internal.Logger) (*FileStorage, error) {
	return newFileStorage(usersFile, exercisesFile, 500*time.Millisecond, logger)
}

func newFileStorage(usersFile, exercisesFile string, saveDelay time.Duration, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		users:         []internal.User{},
		exercises:     []internal.Exercise{},
		usersFile:     usersFile,
		exercisesFile: exercisesFile,
		saveUsersChan: make(chan struct{}, 1),
		saveExChan:    make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		saveDelay:     saveDelay,
		logger:        logger,
	}

	for _, f := range []string{usersFile, exercisesFile} {
		if dir := filepath.Dir(f); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	if err := loadJSONFile(s.usersFile, &s.users); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := loadJSONFile(s.exercisesFile, &s.exercises); err != nil {
		logger.Errorf("storage: failed to load exercises: %v", err)
		return nil, err
	}

	s.workers.Add(2)
	go s.saveWorker(s.saveUsersChan, s.saveUsers, "users")
	go s.saveWorker(s.saveExChan, s.saveExercises, "exercises")

	return s, nil
}

func loadJSONFile[T any](path string, into *[]T) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var items []T
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if items != nil {
		*into = items
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveUsers() error {
	s.mu.RLock()
	users := make([]internal.User, len(s.users))
	copy(users, s.users)
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.usersFile, users)
}

func (s *FileStorage) saveExercises() error {
	s.mu.RLock()
	exercises := make([]internal.Exercise, len(s.exercises))
	copy(exercises, s.exercises)
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.exercisesFile, exercises)
}

func (s *FileStorage) saveWorker(signal <-chan struct{}, save func() error, name string) {
	defer s.workers.Done()
	timer := time.NewTimer(s.saveDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", name, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the workers, waits for any save in flight, then flushes both
// files synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.workers.Wait()
		if err = s.saveUsers(); err != nil {
			return
		}
		err = s.saveExercises()
	})
	return err
}

// --- UserRepository ---
func (s *FileStorage) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	s.users = append(s.users, *user)
	s.mu.Unlock()
	notify(s.saveUsersChan)
	return nil
}

func (s *FileStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]internal.User, len(s.users))
	copy(users, s.users)
	return users, nil
}

func (s *FileStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
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

// --- ExerciseRepository ---
func (s *FileStorage) AddExercise(ctx context.Context, exercise *internal.Exercise) error {
	s.mu.Lock()
	s.exercises = append(s.exercises, *exercise)
	s.mu.Unlock()
	notify(s.saveExChan)
	return nil
}

func (s *FileStorage) ListExercises(ctx context.Context, userID string) ([]internal.Exercise, error) {
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

var _ Store = (*FileStorage)(nil)
