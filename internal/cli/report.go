package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/model"
	"github.com/rcliao/pair-assessment/internal/scoring"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "report",
		Short: "Show the shared results",
		Long:  "Show category averages, insights and the partnership contract. Results must be revealed first.",
		RunE:  runReport,
	})
}

func runReport(cmd *cobra.Command, args []string) error {
	w, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	rep, err := w.sess.Report()
	w.close(cmd)
	if err != nil {
		return err
	}
	return render(cmd, rep, func(out io.Writer) { reportText(out, rep) })
}

func reportText(w io.Writer, r *scoring.Report) {
	p1, p2 := r.Names.Label(model.Partner1), r.Names.Label(model.Partner2)
	fmt.Fprintf(w, "CATEGORY\t%s\t%s\n", p1, p2)
	for _, row := range r.Categories {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.Category, scoring.FormatAverage(row.Partner1), scoring.FormatAverage(row.Partner2))
	}
	fmt.Fprintf(w, "\nalignment\t%.2f\n", r.Alignment)

	fmt.Fprintln(w, "\nINSIGHTS")
	if len(r.Insights) == 0 {
		fmt.Fprintln(w, "none")
	}
	for _, in := range r.Insights {
		fmt.Fprintf(w, "[%s] %s\n  %s\n", in.Kind, in.Title, in.Body)
	}

	fmt.Fprintln(w, "\nCONTRACT")
	for i, c := range r.Contract {
		fmt.Fprintf(w, "%d. %s: %s\n", i+1, c.Title, c.Text)
	}
}
