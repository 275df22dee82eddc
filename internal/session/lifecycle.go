package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rcliao/pair-assessment/internal/model"
)

// State returns the current lifecycle flags.
func (s *Session) State() model.Lifecycle { return s.life }

// Phase returns the effective lifecycle phase.
func (s *Session) Phase() model.Phase { return s.life.Phase() }

// CanReveal reports whether both partners are done.
func (s *Session) CanReveal() bool { return s.life.BothDone() }

// PartnerView is what p should be shown: the report once revealed, the
// rating form until p is done, then a locked waiting screen.
func (s *Session) PartnerView(p model.Partner) model.PartnerView {
	switch {
	case s.life.ResultsRevealed:
		return model.ViewReport
	case s.life.Done(p):
		return model.ViewLocked
	default:
		return model.ViewForm
	}
}

// MarkComplete finalizes p's ratings. Every attribute must be rated first.
func (s *Session) MarkComplete(p model.Partner) error {
	if !p.Valid() {
		return fmt.Errorf("%w: partner %d", ErrInvalidInput, p)
	}
	if !s.IsPartnerComplete(p) {
		return fmt.Errorf("%w: partner %d has unrated attributes", ErrPreconditionFailed, p)
	}
	if s.life.Done(p) {
		return nil
	}
	if p == model.Partner1 {
		s.life.Partner1Done = true
	} else {
		s.life.Partner2Done = true
	}
	s.emit(Event{Kind: EventCompletion, Partner: p, Done: true})
	return nil
}

// Reveal shows the shared results. Both partners must be done.
func (s *Session) Reveal() error {
	if !s.life.BothDone() {
		return fmt.Errorf("%w: both partners must complete before reveal", ErrPreconditionFailed)
	}
	if s.life.ResultsRevealed {
		return nil
	}
	s.life.ResultsRevealed = true
	s.emit(Event{Kind: EventReveal, Revealed: true})
	return nil
}

// BackToAssessments hides the results again. Completion flags are kept, so
// Reveal stays available.
func (s *Session) BackToAssessments() error {
	if !s.life.ResultsRevealed {
		return fmt.Errorf("%w: results are not revealed", ErrPreconditionFailed)
	}
	s.life.ResultsRevealed = false
	s.emit(Event{Kind: EventReveal, Revealed: false})
	return nil
}

// Reset discards every score, both completion flags, the reveal flag and the
// names, then asks the issuer for a fresh assessment id. The reset always
// happens; if no id can be issued the session continues memory-only and the
// returned error wraps ErrPersistence.
func (s *Session) Reset(ctx context.Context) error {
	prev := s.id
	s.clear()
	s.id = ""
	if err := s.issue(ctx); err != nil {
		return err
	}
	s.log.Info("assessment reset", zap.String("previous_id", prev), zap.String("assessment_id", s.id))
	return nil
}
