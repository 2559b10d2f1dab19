package api

import (
	"time"

	"github.com/yourname/exercisetracker/internal"
	"github.com/yourname/exercisetracker/internal/storage"
)

type App interface {
	Logger() internal.Logger
	UserRepo() storage.UserRepository
	ExerciseRepo() storage.ExerciseRepository
	Now() time.Time
	Location() *time.Location
}

type app struct {
	logger   internal.Logger
	store    storage.Store
	clock    func() time.Time
	location *time.Location
}

type Option func(*app)

// WithClock replaces time.Now as the source of default exercise dates.
func WithClock(clock func() time.Time) Option {
	return func(a *app) { a.clock = clock }
}

func WithLocation(loc *time.Location) Option {
	return func(a *app) { a.location = loc }
}

func NewApp(logger internal.Logger, store storage.Store, opts ...Option) App {
	a := &app{
		logger:   logger,
		store:    store,
		clock:    time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *app) Logger() internal.Logger                  { return a.logger }
func (a *app) UserRepo() storage.UserRepository         { return a.store }
func (a *app) ExerciseRepo() storage.ExerciseRepository { return a.store }
func (a *app) Now() time.Time                           { return a.clock() }
func (a *app) Location() *time.Location                 { return a.location }
