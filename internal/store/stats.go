package store

import (
	"context"
	"os"

	"github.com/rcliao/pair-assessment/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath           string              `json:"db_path" yaml:"db_path"`
	DBSizeBytes      int64               `json:"db_size_bytes" yaml:"db_size_bytes"`
	TotalAssessments int                 `json:"total_assessments" yaml:"total_assessments"`
	TotalScores      int                 `json:"total_scores" yaml:"total_scores"`
	Phases           map[model.Phase]int `json:"phases" yaml:"phases"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Phases: map[model.Phase]int{}}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&st.TotalAssessments)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`).Scan(&st.TotalScores)

	rows, err := s.db.QueryContext(ctx, `
		SELECT partner1_completed, partner2_completed, results_revealed, COUNT(*)
		FROM assessments
		GROUP BY partner1_completed, partner2_completed, results_revealed`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var p1, p2, rev, n int
		if err := rows.Scan(&p1, &p2, &rev, &n); err != nil {
			return st, err
		}
		phase := model.Lifecycle{Partner1Done: p1 != 0, Partner2Done: p2 != 0, ResultsRevealed: rev != 0}.Phase()
		st.Phases[phase] += n
	}

	return st, rows.Err()
}
