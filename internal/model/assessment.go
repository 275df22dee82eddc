// Package model defines the core assessment data types.
package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Partner identifies one of the two people taking the assessment.
type Partner int

const (
	Partner1 Partner = 1
	Partner2 Partner = 2
)

// Partners lists both partners in display order.
var Partners = []Partner{Partner1, Partner2}

// Valid reports whether p is partner 1 or 2.
func (p Partner) Valid() bool {
	return p == Partner1 || p == Partner2
}

// Attribute is a single rated behaviour within a category.
type Attribute struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// ScaleLevel describes one point of the 1-5 rating scale.
type ScaleLevel struct {
	Value       int    `json:"value" yaml:"value"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

const (
	MinScore = 1
	MaxScore = 5

	MaxNameLength = 30
)

var validate = validator.New()

// ScoreRecord is one durable (partner, attribute) rating.
type ScoreRecord struct {
	Partner     Partner `json:"partner" yaml:"partner" validate:"oneof=1 2"`
	AttributeID string  `json:"attribute_id" yaml:"attribute_id" validate:"required"`
	Value       int     `json:"value" yaml:"value" validate:"min=1,max=5"`
}

// Validate checks the record's shape. Catalog membership is checked by the caller.
func (r ScoreRecord) Validate() error {
	return validate.Struct(r)
}

// PartnerNames holds the optional first names shown in place of "Partner 1/2".
type PartnerNames struct {
	Partner1 string `json:"partner1,omitempty" yaml:"partner1,omitempty" validate:"required,max=30"`
	Partner2 string `json:"partner2,omitempty" yaml:"partner2,omitempty" validate:"required,max=30"`
}

// Validate checks both names are present and short enough.
func (n PartnerNames) Validate() error {
	return validate.Struct(n)
}

// Label returns the display name for p, falling back to "Partner N".
func (n PartnerNames) Label(p Partner) string {
	name := n.Partner1
	if p == Partner2 {
		name = n.Partner2
	}
	if name == "" {
		if p == Partner2 {
			return "Partner 2"
		}
		return "Partner 1"
	}
	return name
}

// Lifecycle is the assessment's gating state: two independent completion
// flags crossed with a single reveal flag.
type Lifecycle struct {
	Partner1Done    bool `json:"partner1_done" yaml:"partner1_done"`
	Partner2Done    bool `json:"partner2_done" yaml:"partner2_done"`
	ResultsRevealed bool `json:"results_revealed" yaml:"results_revealed"`
}

// Done reports whether p has finalized their ratings.
func (l Lifecycle) Done(p Partner) bool {
	if p == Partner2 {
		return l.Partner2Done
	}
	return p == Partner1 && l.Partner1Done
}

// BothDone reports whether reveal is allowed.
func (l Lifecycle) BothDone() bool {
	return l.Partner1Done && l.Partner2Done
}

// Phase is the effective lifecycle state derived from the flags.
type Phase string

const (
	PhaseCollecting      Phase = "collecting"
	PhaseAwaitingSecond  Phase = "awaiting_second_completion"
	PhaseResultsHidden   Phase = "both_complete_results_hidden"
	PhaseResultsRevealed Phase = "results_revealed"
)

// Phase derives the effective state.
func (l Lifecycle) Phase() Phase {
	switch {
	case l.ResultsRevealed:
		return PhaseResultsRevealed
	case l.BothDone():
		return PhaseResultsHidden
	case l.Partner1Done || l.Partner2Done:
		return PhaseAwaitingSecond
	default:
		return PhaseCollecting
	}
}

// PartnerView is what a partner sees while results are hidden.
type PartnerView string

const (
	ViewForm   PartnerView = "form"
	ViewLocked PartnerView = "locked"
	ViewReport PartnerView = "report"
)

// Assessment is the durable copy of one session.
type Assessment struct {
	ID        string        `json:"id" yaml:"id"`
	Lifecycle Lifecycle     `json:"lifecycle" yaml:"lifecycle"`
	Names     PartnerNames  `json:"names" yaml:"names"`
	Scores    []ScoreRecord `json:"scores" yaml:"scores"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at"`
}

// InsightKind classifies a category comparison.
type InsightKind string

const (
	InsightDanger        InsightKind = "danger"
	InsightComplementary InsightKind = "complementary"
	InsightSuccess       InsightKind = "success"
)

// Insight is a strategic recommendation for one category.
type Insight struct {
	Kind     InsightKind `json:"kind" yaml:"kind"`
	Category string      `json:"category" yaml:"category"`
	Title    string      `json:"title" yaml:"title"`
	Body     string      `json:"body" yaml:"body"`
	// Lead is set for complementary insights only.
	Lead Partner `json:"lead,omitempty" yaml:"lead,omitempty"`
}

// Progress summarizes how far a partner is through the battery.
type Progress struct {
	Partner    Partner         `json:"partner" yaml:"partner"`
	Rated      int             `json:"rated" yaml:"rated"`
	Total      int             `json:"total" yaml:"total"`
	Complete   bool            `json:"complete" yaml:"complete"`
	Done       bool            `json:"done" yaml:"done"`
	View       PartnerView     `json:"view" yaml:"view"`
	Categories map[string]bool `json:"categories" yaml:"categories"`
}
