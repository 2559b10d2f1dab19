package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yourname/exercisetracker/internal"
	"github.com/yourname/exercisetracker/internal/storage"
)

// DateLayout renders dates the way the web client expects them,
// e.g. "Wed Jan 01 2020 00:00:00 GMT+0000 (UTC)".
const DateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// parseLayout drops the zone name: some zones are named by a numeric offset
// ("+0330") that time.Parse cannot read back, and the offset alone pins the instant.
const parseLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

type AddExerciseRequest struct {
	UserID      string  `json:"userId" form:"userId" validate:"required"`
	Description string  `json:"description" form:"description" validate:"required"`
	Duration    Numeric `json:"duration" form:"duration" validate:"required"`
	Date        string  `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
}

func ValidateAddExerciseRequest(req *AddExerciseRequest) error {
	return validateStruct(req)
}

// AddExercise stores an exercise under req.UserID without checking the user exists.
// An empty date means now; either way only the rendered string in loc is kept.
func AddExercise(ctx context.Context, exerciseRepo storage.ExerciseRepository, req *AddExerciseRequest, now time.Time, loc *time.Location) (*internal.Exercise, error) {
	duration, err := ParseDuration(string(req.Duration))
	if err != nil {
		verr := &internal.ValidationError{}
		verr.Add("duration", fieldMessageFor("duration", "numeric", string(req.Duration)))
		return nil, verr
	}

	when := now
	if req.Date != "" {
		when, err = time.Parse(dayLayout, req.Date)
		if err != nil {
			verr := &internal.ValidationError{}
			verr.Add("date", fieldMessageFor("date", "datetime", req.Date))
			return nil, verr
		}
	}

	exercise := &internal.Exercise{
		UserID:      req.UserID,
		Description: req.Description,
		Duration:    duration,
		Date:        FormatDate(when, loc),
	}
	if err := exerciseRepo.AddExercise(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	return time.Parse(parseLayout, s)
}

// ParseDuration accepts a decimal or exponent float ("30", "12.5", "1e3"),
// an unsigned 0x/0o/0b integer, and surrounding whitespace. NaN and
// infinities are rejected.
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		if strings.Contains(s, "_") {
			return 0, strconv.ErrSyntax
		}
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, err
		}
		return float64(n), nil
	}
	if strings.ContainsAny(s, "_xXpP") {
		return 0, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
