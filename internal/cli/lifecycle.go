package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/session"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "reveal",
		Short: "Reveal the shared results (both partners must be done)",
		RunE:  lifecycleRunner(func(cmd *cobra.Command, s *session.Session) error { return s.Reveal() }),
	})
	RootCmd.AddCommand(&cobra.Command{
		Use:   "hide",
		Short: "Hide the results again and go back to the assessments",
		RunE:  lifecycleRunner(func(cmd *cobra.Command, s *session.Session) error { return s.BackToAssessments() }),
	})
	RootCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Start over under a fresh assessment id",
		Long:  "Clear every score, flag and name and continue under a new assessment id. The old assessment stays in the store.",
		RunE: lifecycleRunner(func(cmd *cobra.Command, s *session.Session) error {
			if err := s.Reset(cmd.Context()); err != nil {
				// the session is already cleared and memory-only
				warn(cmd, err)
			}
			return nil
		}),
	})
}

func lifecycleRunner(op func(*cobra.Command, *session.Session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		w, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		if err := op(cmd, w.sess); err != nil {
			w.close(cmd)
			return err
		}
		return showStatus(cmd, w)
	}
}
