package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new assessment",
		Long:  "Start a new assessment and print its id. Pass it to later commands with --id or $PAIR_ASSESSMENT_ID.",
		RunE:  runNew,
	}

	cmd.Flags().String("p1", "", "Partner 1 name (set together with --p2)")
	cmd.Flags().String("p2", "", "Partner 2 name (set together with --p1)")

	RootCmd.AddCommand(cmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	p1, _ := cmd.Flags().GetString("p1")
	p2, _ := cmd.Flags().GetString("p2")

	w, err := startWorkspace(cmd)
	if err != nil {
		return err
	}
	if p1 != "" || p2 != "" {
		if err := w.sess.SetPartnerNames(p1, p2); err != nil {
			w.close(cmd)
			return err
		}
	}
	return showStatus(cmd, w)
}
