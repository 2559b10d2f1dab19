package service

import (
	"context"
	"strconv"
	"time"

	"github.com/yourname/exercisetracker/internal"
	"github.com/yourname/exercisetracker/internal/storage"
)

type LogQuery struct {
	UserID string `form:"userId" validate:"required"`
	From   string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit  string `form:"limit" validate:"omitempty,number"`
}

func ValidateLogQuery(q *LogQuery) error {
	return validateStruct(q)
}

// LogFilter bounds are inclusive; a negative Limit means no limit.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

func (q *LogQuery) Filter() (LogFilter, error) {
	f := LogFilter{Limit: -1}
	verr := &internal.ValidationError{}
	if q.From != "" {
		t, err := time.Parse(dayLayout, q.From)
		if err != nil {
			verr.Add("from", fieldMessageFor("from", "datetime", q.From))
		} else {
			f.From = &t
		}
	}
	if q.To != "" {
		t, err := time.Parse(dayLayout, q.To)
		if err != nil {
			verr.Add("to", fieldMessageFor("to", "datetime", q.To))
		} else {
			f.To = &t
		}
	}
	if q.Limit != "" {
		n, err := strconv.Atoi(q.Limit)
		if err != nil || n < 0 {
			verr.Add("limit", fieldMessageFor("limit", "number", q.Limit))
		} else {
			f.Limit = n
		}
	}
	if len(verr.Errors) > 0 {
		return f, verr
	}
	return f, nil
}

// GetLog resolves the username first, so an unknown userId fails with internal.ErrUserNotFound.
func GetLog(ctx context.Context, userRepo storage.UserRepository, exerciseRepo storage.ExerciseRepository, q *LogQuery) (*internal.Log, error) {
	filter, err := q.Filter()
	if err != nil {
		return nil, err
	}

	user, err := userRepo.GetUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	exercises, err := exerciseRepo.ListExercises(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	log := FilterLog(exercises, filter)
	return &internal.Log{
		UserID:   q.UserID,
		Username: user.Username,
		Count:    len(log),
		Log:      log,
	}, nil
}

// FilterLog keeps insertion order. Entries whose date string cannot be parsed
// are dropped whenever a bound is set.
func FilterLog(exercises []internal.Exercise, f LogFilter) []internal.Exercise {
	out := make([]internal.Exercise, 0, len(exercises))
	for _, e := range exercises {
		if f.From != nil || f.To != nil {
			t, err := ParseDate(e.Date)
			if err != nil {
				continue
			}
			if f.From != nil && t.Before(*f.From) {
				continue
			}
			if f.To != nil && t.After(*f.To) {
				continue
			}
		}
		out = append(out, e)
	}
	if f.Limit >= 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}
