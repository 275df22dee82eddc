package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/model"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE:  runStats,
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	return render(cmd, stats, func(w io.Writer) {
		fmt.Fprintf(w, "db\t%s\n", stats.DBPath)
		fmt.Fprintf(w, "size\t%d bytes\n", stats.DBSizeBytes)
		fmt.Fprintf(w, "assessments\t%d\n", stats.TotalAssessments)
		fmt.Fprintf(w, "scores\t%d\n", stats.TotalScores)
		phases := make([]string, 0, len(stats.Phases))
		for p := range stats.Phases {
			phases = append(phases, string(p))
		}
		sort.Strings(phases)
		for _, p := range phases {
			fmt.Fprintf(w, "  %s\t%d\n", p, stats.Phases[model.Phase(p)])
		}
	})
}
