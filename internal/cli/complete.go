package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark a partner's assessment as done",
		Long:  "Mark a partner as done. Every attribute must be rated first; after that the partner's form is locked until results are revealed.",
		RunE:  runComplete,
	}

	cmd.Flags().IntP("partner", "p", 0, "Partner: 1 or 2 (required)")
	cmd.MarkFlagRequired("partner")

	RootCmd.AddCommand(cmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("partner")

	w, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	if err := w.sess.MarkComplete(model.Partner(n)); err != nil {
		w.close(cmd)
		return err
	}
	return showStatus(cmd, w)
}
