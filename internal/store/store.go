// Package store provides the durable assessment storage interface and its
// SQLite and PostgreSQL implementations.
package store

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/pair-assessment/internal/model"
)

// ErrNotFound is returned when an assessment id is unknown.
var ErrNotFound = errors.New("assessment not found")

// Adapter is the persistence boundary the session writes through.
type Adapter interface {
	// CreateAssessment stores a fresh, empty assessment and returns its id.
	CreateAssessment(ctx context.Context) (string, error)

	// LoadAssessment returns the flags, names and scores of id.
	LoadAssessment(ctx context.Context, id string) (*model.Assessment, error)

	// UpsertScore writes one (assessment, partner, attribute) rating.
	// Repeating an identical write leaves the same row.
	UpsertScore(ctx context.Context, id string, p model.Partner, attrID string, value int) error

	// SetCompletion sets one partner's done flag.
	SetCompletion(ctx context.Context, id string, p model.Partner, done bool) error

	// SetResultsRevealed sets the reveal flag.
	SetResultsRevealed(ctx context.Context, id string, revealed bool) error

	// SetPartnerNames stores both display names.
	SetPartnerNames(ctx context.Context, id string, names model.PartnerNames) error

	// Close closes the store.
	Close() error
}

// ListParams holds parameters for listing assessments.
type ListParams struct {
	Limit int
}

// Summary is one row of an assessment listing.
type Summary struct {
	ID        string             `json:"id" yaml:"id"`
	Phase     model.Phase        `json:"phase" yaml:"phase"`
	Names     model.PartnerNames `json:"names" yaml:"names"`
	Rated1    int                `json:"partner1_rated" yaml:"partner1_rated"`
	Rated2    int                `json:"partner2_rated" yaml:"partner2_rated"`
	CreatedAt time.Time          `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" yaml:"updated_at"`
}

func newEntropy() *ulid.LockedMonotonicReader {
	return &ulid.LockedMonotonicReader{
		MonotonicReader: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func newID(entropy *ulid.LockedMonotonicReader) string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
