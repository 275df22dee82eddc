// Package session owns one active assessment: the score store, the
// completion evaluator and the reveal lifecycle.
//
// Every mutation updates memory first and then emits an Event to the
// injected Notifier. Persistence happens behind that boundary; the session
// never waits on it and never rolls back because of it.
package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/pair-assessment/internal/catalog"
	"github.com/rcliao/pair-assessment/internal/model"
	"github.com/rcliao/pair-assessment/internal/scoring"
)

// Options wires a session's collaborators. Zero values are usable: the
// default catalog, no persistence and a no-op logger.
type Options struct {
	Catalog  *catalog.Catalog
	Notifier Notifier
	Issuer   Issuer
	Logger   *zap.Logger
}

// Session is a single owned assessment. It is not safe for concurrent use;
// the presentation layer drives it from one goroutine.
type Session struct {
	id       string
	cat      *catalog.Catalog
	scores   map[model.Partner]map[string]int
	life     model.Lifecycle
	names    model.PartnerNames
	notifier Notifier
	issuer   Issuer
	log      *zap.Logger
}

// New returns an empty session for an existing assessment id. An empty id
// means memory-only.
func New(id string, opts Options) *Session {
	s := &Session{
		id:       id,
		cat:      opts.Catalog,
		notifier: opts.Notifier,
		issuer:   opts.Issuer,
		log:      opts.Logger,
	}
	if s.cat == nil {
		s.cat = catalog.Default()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.clear()
	return s
}

// Start issues a fresh assessment id and returns an empty session for it.
// If the issuer fails the session is still returned, memory-only, together
// with an error wrapping ErrPersistence.
func Start(ctx context.Context, opts Options) (*Session, error) {
	s := New("", opts)
	if err := s.issue(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// Restore rebuilds a session from its durable copy. Stored scores that are
// out of range or not in the catalog are skipped with a warning.
func Restore(a *model.Assessment, opts Options) *Session {
	s := New(a.ID, opts)
	s.life = a.Lifecycle
	s.names = a.Names
	for _, r := range a.Scores {
		if err := s.check(r.Partner, r.AttributeID, r.Value); err != nil {
			s.log.Warn("skipping stored score",
				zap.String("assessment_id", a.ID),
				zap.Int("partner", int(r.Partner)),
				zap.String("attribute_id", r.AttributeID),
				zap.Error(err))
			continue
		}
		s.scores[r.Partner][r.AttributeID] = r.Value
	}
	return s
}

// ID returns the assessment id, or "" when memory-only.
func (s *Session) ID() string { return s.id }

// Catalog returns the catalog the session rates against.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

func (s *Session) clear() {
	s.scores = map[model.Partner]map[string]int{
		model.Partner1: {},
		model.Partner2: {},
	}
	s.life = model.Lifecycle{}
	s.names = model.PartnerNames{}
}

func (s *Session) emit(e Event) {
	if s.notifier == nil {
		return
	}
	e.AssessmentID = s.id
	s.notifier.Notify(e)
}

func (s *Session) issue(ctx context.Context) error {
	if s.issuer == nil {
		return nil
	}
	id, err := s.issuer.CreateAssessment(ctx)
	if err != nil {
		s.log.Warn("create assessment failed, continuing memory-only", zap.Error(err))
		return fmt.Errorf("%w: create assessment: %v", ErrPersistence, err)
	}
	s.id = id
	return nil
}

func (s *Session) check(p model.Partner, attrID string, value int) error {
	rec := model.ScoreRecord{Partner: p, AttributeID: attrID, Value: value}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !s.cat.Has(attrID) {
		return fmt.Errorf("%w: unknown attribute %q", ErrInvalidInput, attrID)
	}
	return nil
}

// CheckScore reports whether SetScore would accept the rating, without
// recording it.
func (s *Session) CheckScore(p model.Partner, attrID string, value int) error {
	return s.check(p, attrID, value)
}

// SetScore records partner's rating for attrID. Values outside [1,5],
// unknown attributes and bad partner numbers fail with ErrInvalidInput.
// Re-setting the same value changes nothing and emits nothing.
func (s *Session) SetScore(p model.Partner, attrID string, value int) error {
	if err := s.check(p, attrID, value); err != nil {
		return err
	}
	if prev, ok := s.scores[p][attrID]; ok && prev == value {
		return nil
	}
	s.scores[p][attrID] = value
	s.emit(Event{Kind: EventScore, Partner: p, AttributeID: attrID, Value: value})
	return nil
}

// Score returns partner's rating for attrID; ok is false when not yet rated.
func (s *Session) Score(p model.Partner, attrID string) (int, bool) {
	v, ok := s.scores[p][attrID]
	return v, ok
}

// Scores returns a copy of everything partner has rated.
func (s *Session) Scores(p model.Partner) map[string]int {
	out := make(map[string]int, len(s.scores[p]))
	for k, v := range s.scores[p] {
		out[k] = v
	}
	return out
}

// IsCategoryComplete reports whether every attribute of category is rated by p.
// Unknown categories are never complete.
func (s *Session) IsCategoryComplete(p model.Partner, category string) bool {
	ids := s.cat.AttributeIDsOf(category)
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if _, ok := s.scores[p][id]; !ok {
			return false
		}
	}
	return true
}

// IsPartnerComplete reports whether p has rated every category completely.
func (s *Session) IsPartnerComplete(p model.Partner) bool {
	if !p.Valid() {
		return false
	}
	for _, c := range s.cat.Categories() {
		if !s.IsCategoryComplete(p, c) {
			return false
		}
	}
	return true
}

// Progress summarizes p's ratings for the status view.
func (s *Session) Progress(p model.Partner) model.Progress {
	pr := model.Progress{
		Partner:    p,
		Total:      s.cat.Len(),
		Done:       s.life.Done(p),
		View:       s.PartnerView(p),
		Categories: make(map[string]bool),
	}
	for _, id := range s.cat.AllAttributeIDs() {
		if _, ok := s.scores[p][id]; ok {
			pr.Rated++
		}
	}
	for _, c := range s.cat.Categories() {
		pr.Categories[c] = s.IsCategoryComplete(p, c)
	}
	pr.Complete = pr.Rated == pr.Total
	return pr
}

// Names returns the partner names, possibly empty.
func (s *Session) Names() model.PartnerNames { return s.names }

// SetPartnerNames sets both display names. Each must be non-blank and at
// most 30 characters after trimming.
func (s *Session) SetPartnerNames(p1, p2 string) error {
	names := model.PartnerNames{
		Partner1: strings.TrimSpace(p1),
		Partner2: strings.TrimSpace(p2),
	}
	if err := names.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if names == s.names {
		return nil
	}
	s.names = names
	s.emit(Event{Kind: EventNames, Names: names})
	return nil
}

// ProfileVector returns p's category averages in catalog order.
func (s *Session) ProfileVector(p model.Partner) []scoring.CategoryScore {
	return scoring.ProfileVector(s.scores[p], s.cat)
}

// Insights compares both partners' profiles. It does not depend on the
// reveal state; gating the report is the lifecycle's job.
func (s *Session) Insights() []model.Insight {
	return scoring.Insights(scoring.Compare(s.scores[model.Partner1], s.scores[model.Partner2], s.cat), s.names)
}

// Report returns the shared report. Results must have been revealed.
func (s *Session) Report() (*scoring.Report, error) {
	if !s.life.ResultsRevealed {
		return nil, fmt.Errorf("%w: results are not revealed", ErrPreconditionFailed)
	}
	return scoring.BuildReport(s.id, s.names, s.scores[model.Partner1], s.scores[model.Partner2], s.cat), nil
}

// Snapshot returns the session as a durable record.
func (s *Session) Snapshot() *model.Assessment {
	a := &model.Assessment{ID: s.id, Lifecycle: s.life, Names: s.names}
	for _, p := range model.Partners {
		for _, id := range s.cat.AllAttributeIDs() {
			if v, ok := s.scores[p][id]; ok {
				a.Scores = append(a.Scores, model.ScoreRecord{Partner: p, AttributeID: id, Value: v})
			}
		}
	}
	return a
}
