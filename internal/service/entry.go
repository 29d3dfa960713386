package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/AdrianDanlos/rythm/internal"
)

var validate = validator.New()

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
)

const dateLayout = "2006-01-02"

// EntryRequest is the body of an entry upsert. Any field may be omitted;
// an entry is complete once it has both sleep and mood.
type EntryRequest struct {
	SleepHours *float64 `json:"sleep_hours" validate:"omitempty,gte=0,lte=12"`
	Mood       *int     `json:"mood" validate:"omitempty,gte=1,lte=5"`
	Note       *string  `json:"note" validate:"omitempty,max=1000"`
	Tags       []string `json:"tags" validate:"max=20,dive,max=32,excludesall=;"`
}

func ValidateEntryRequest(body *EntryRequest) error {
	return validate.Struct(body)
}

func ValidateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// NormalizeTags lower-cases and trims tags, dropping blanks and repeats.
func NormalizeTags(tags []string) []string {
	cleaned := lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		return tag, tag != ""
	})
	return lo.Uniq(cleaned)
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// buildEntry turns a validated request into the entry to store. previous
// is the entry currently stored for the date, if any.
func buildEntry(user *internal.User, date string, body *EntryRequest, previous *internal.Entry, now time.Time) *internal.Entry {
	e := &internal.Entry{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		EntryDate:  date,
		SleepHours: body.SleepHours,
		Mood:       body.Mood,
		Note:       normalizeNote(body.Note),
		Tags:       NormalizeTags(body.Tags),
		IsComplete: body.SleepHours != nil && body.Mood != nil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if e.IsComplete {
		completedAt := now
		if previous != nil && previous.IsComplete && previous.CompletedAt != nil {
			completedAt = *previous.CompletedAt
		}
		e.CompletedAt = &completedAt
	}
	return e
}
