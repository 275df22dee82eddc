package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored assessments",
		RunE:  runList,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output assessment ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	rows, err := s.ListAssessments(cmd.Context(), store.ListParams{Limit: limit})
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	if idsOnly {
		for _, r := range rows {
			fmt.Fprintln(cmd.OutOrStdout(), r.ID)
		}
		return nil
	}

	return render(cmd, rows, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tPHASE\tP1\tP2\tUPDATED")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Phase, r.Rated1, r.Rated2, r.UpdatedAt.Format("2006-01-02 15:04"))
		}
	})
}
