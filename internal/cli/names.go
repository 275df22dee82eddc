package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "names <partner1> <partner2>",
		Short: "Set partner display names",
		Long:  "Set the names used in insights and reports. Both are required, at most 30 characters each.",
		Args:  cobra.ExactArgs(2),
		RunE:  runNames,
	})
}

func runNames(cmd *cobra.Command, args []string) error {
	w, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	if err := w.sess.SetPartnerNames(args[0], args[1]); err != nil {
		w.close(cmd)
		return err
	}
	return showStatus(cmd, w)
}
