package session

import (
	"context"

	"github.com/rcliao/pair-assessment/internal/model"
)

// EventKind names a durable state change.
type EventKind string

const (
	EventScore      EventKind = "score"
	EventCompletion EventKind = "completion"
	EventReveal     EventKind = "reveal"
	EventNames      EventKind = "names"
)

// Event is emitted after every in-memory mutation that should reach the
// durable copy. Only the fields relevant to Kind are set.
type Event struct {
	Kind         EventKind          `json:"kind"`
	AssessmentID string             `json:"assessment_id"`
	Partner      model.Partner      `json:"partner,omitempty"`
	AttributeID  string             `json:"attribute_id,omitempty"`
	Value        int                `json:"value,omitempty"`
	Done         bool               `json:"done,omitempty"`
	Revealed     bool               `json:"revealed,omitempty"`
	Names        model.PartnerNames `json:"names"`
}

// Notifier receives events. Notify must not block and must not fail.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// Issuer hands out fresh assessment ids.
type Issuer interface {
	CreateAssessment(ctx context.Context) (string, error)
}
