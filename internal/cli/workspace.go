package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/persist"
	"github.com/rcliao/pair-assessment/internal/session"
	"github.com/rcliao/pair-assessment/internal/store"
)

// workspace is one command's view of an assessment: the store, the
// background dispatcher writing to it and the session on top.
type workspace struct {
	adapter store.Adapter
	disp    *persist.Dispatcher
	sess    *session.Session
}

func (w *workspace) options() session.Options {
	return session.Options{Notifier: w.disp, Issuer: w.adapter, Logger: logger}
}

func openAdapterAndDispatcher(ctx context.Context) (*workspace, error) {
	a, err := openAdapter(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	d := persist.NewDispatcher(a, persist.Options{QueueSize: cfg.QueueSize, Logger: logger})
	return &workspace{adapter: a, disp: d}, nil
}

// loadWorkspace restores the assessment named by --id or $PAIR_ASSESSMENT_ID.
func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	id, err := assessmentID()
	if err != nil {
		return nil, err
	}
	w, err := openAdapterAndDispatcher(cmd.Context())
	if err != nil {
		return nil, err
	}
	a, err := w.adapter.LoadAssessment(cmd.Context(), id)
	if err != nil {
		w.close(cmd)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("assessment %s not found", id)
		}
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	w.sess = session.Restore(a, w.options())
	return w, nil
}

// startWorkspace issues a new assessment. An issuer failure leaves the
// session memory-only and is reported as a warning.
func startWorkspace(cmd *cobra.Command) (*workspace, error) {
	w, err := openAdapterAndDispatcher(cmd.Context())
	if err != nil {
		return nil, err
	}
	s, err := session.Start(cmd.Context(), w.options())
	if err != nil {
		warn(cmd, err)
	}
	w.sess = s
	return w, nil
}

// close drains pending writes and prints persistence failures as warnings.
func (w *workspace) close(cmd *cobra.Command) {
	// Close joins the same failures Failures lists; print them one per line.
	_ = w.disp.Close()
	for _, f := range w.disp.Failures() {
		warn(cmd, f)
	}
	if err := w.adapter.Close(); err != nil {
		warn(cmd, fmt.Errorf("close store: %w", err))
	}
}

func warn(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
}
