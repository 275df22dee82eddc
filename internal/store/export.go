package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/pair-assessment/internal/model"
)

// ExportAll returns every assessment with its scores, oldest first. A
// non-empty id restricts the export to that assessment.
func (s *SQLiteStore) ExportAll(ctx context.Context, id string) ([]model.Assessment, error) {
	query := `SELECT id FROM assessments ORDER BY created_at, id`
	args := []interface{}{}
	if id != "" {
		query = `SELECT id FROM assessments WHERE id = ?`
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var aid string
		if err := rows.Scan(&aid); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, aid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Assessment, 0, len(ids))
	for _, aid := range ids {
		a, err := s.LoadAssessment(ctx, aid)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

// Import stores assessments from an export. Assessments whose id already
// exists are skipped. Every score record is validated before anything is
// written; an invalid record aborts the whole import.
func (s *SQLiteStore) Import(ctx context.Context, assessments []model.Assessment) (int, error) {
	for _, a := range assessments {
		for _, r := range a.Scores {
			if err := r.Validate(); err != nil {
				return 0, fmt.Errorf("assessment %s: %w", a.ID, err)
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, a := range assessments {
		id := a.ID
		if id == "" {
			id = newID(s.entropy)
		}
		created := a.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		updated := a.UpdatedAt
		if updated.IsZero() {
			updated = created
		}

		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO assessments
			 (id, partner1_completed, partner2_completed, results_revealed, partner1_name, partner2_name, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, boolInt(a.Lifecycle.Partner1Done), boolInt(a.Lifecycle.Partner2Done), boolInt(a.Lifecycle.ResultsRevealed),
			nullable(a.Names.Partner1), nullable(a.Names.Partner2),
			created.UTC().Format(time.RFC3339), updated.UTC().Format(time.RFC3339))
		if err != nil {
			return 0, fmt.Errorf("insert assessment: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}

		for _, r := range a.Scores {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO scores (assessment_id, partner_number, attribute_id, score_value, updated_at)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT (assessment_id, partner_number, attribute_id)
				 DO UPDATE SET score_value = excluded.score_value`,
				id, int(r.Partner), r.AttributeID, r.Value, updated.UTC().Format(time.RFC3339))
			if err != nil {
				return 0, fmt.Errorf("insert score: %w", err)
			}
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
