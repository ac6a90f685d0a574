package services

import (
	"context"
	"fmt"
	"time"

	"autoshop-backend/models"
	"autoshop-backend/utils"
)

const DefaultNumberAttempts = 1000

// NumberStore is the read side the generator needs. Implementations must see
// the caller's transaction.
type NumberStore interface {
	CountIssuedBetween(ctx context.Context, kind models.DocumentKind, start, end time.Time) (int64, error)
	NumberExists(ctx context.Context, kind models.DocumentKind, number string) (bool, error)
}

// FormatNumber renders a daily sequence number. The sequence is padded to two
// digits but never capped, so the 100th invoice of a day is "100" + date.
func FormatNumber(kind models.DocumentKind, day time.Time, seq int) string {
	date := day.Format("20060102")
	if kind == models.KindQuotation {
		return fmt.Sprintf("QT-%s-%02d", date, seq)
	}
	return fmt.Sprintf("%02d%s", seq, date)
}

// NumberGenerator assigns day-scoped document numbers by counting the day's
// documents and probing forward past any collisions.
//
// Two requests creating documents on the same day can read the same count and
// pick the same candidate. Nothing locks against that; the (kind, number)
// unique index rejects the loser and DocumentService retries the create.
type NumberGenerator struct {
	maxAttempts int
}

func NewNumberGenerator(maxAttempts int) *NumberGenerator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultNumberAttempts
	}
	return &NumberGenerator{maxAttempts: maxAttempts}
}

// Next returns the first free number of kind for the day of issuedOn.
func (g *NumberGenerator) Next(ctx context.Context, store NumberStore, kind models.DocumentKind, issuedOn time.Time) (string, error) {
	start, end := utils.DayRange(issuedOn)

	count, err := store.CountIssuedBetween(ctx, kind, start, end)
	if err != nil {
		return "", fmt.Errorf("count %s documents: %w", kind, err)
	}

	seq := int(count) + 1
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		number := FormatNumber(kind, start, seq)
		exists, err := store.NumberExists(ctx, kind, number)
		if err != nil {
			return "", fmt.Errorf("check %s number %s: %w", kind, number, err)
		}
		if !exists {
			return number, nil
		}
		seq++
	}
	return "", fmt.Errorf("%w: %s on %s after %d attempts",
		ErrNumberExhausted, kind, start.Format(utils.DateLayout), g.maxAttempts)
}
