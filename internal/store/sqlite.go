package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/pair-assessment/internal/model"
)

// SQLiteStore implements Adapter using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *ulid.LockedMonotonicReader
}

var _ Adapter = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: newEntropy(),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessments (
		id                 TEXT PRIMARY KEY,
		partner1_completed INTEGER NOT NULL DEFAULT 0,
		partner2_completed INTEGER NOT NULL DEFAULT 0,
		results_revealed   INTEGER NOT NULL DEFAULT 0,
		partner1_name      TEXT,
		partner2_name      TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at DESC);

	CREATE TABLE IF NOT EXISTS scores (
		assessment_id  TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
		partner_number INTEGER NOT NULL CHECK (partner_number IN (1, 2)),
		attribute_id   TEXT NOT NULL,
		score_value    INTEGER NOT NULL CHECK (score_value BETWEEN 1 AND 5),
		updated_at     TEXT NOT NULL,
		PRIMARY KEY (assessment_id, partner_number, attribute_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateAssessment(ctx context.Context) (string, error) {
	id := newID(s.entropy)
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assessments (id, created_at, updated_at) VALUES (?, ?, ?)`,
		id, now, now)
	if err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) LoadAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := scanAssessment(s.db.QueryRowContext(ctx,
		`SELECT id, partner1_completed, partner2_completed, results_revealed,
		        partner1_name, partner2_name, created_at, updated_at
		 FROM assessments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT partner_number, attribute_id, score_value
		 FROM scores WHERE assessment_id = ?
		 ORDER BY partner_number, attribute_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r model.ScoreRecord
		if err := rows.Scan(&r.Partner, &r.AttributeID, &r.Value); err != nil {
			return nil, err
		}
		a.Scores = append(a.Scores, r)
	}
	return a, rows.Err()
}

func (s *SQLiteStore) UpsertScore(ctx context.Context, id string, p model.Partner, attrID string, value int) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := touch(ctx, tx, id, now); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO scores (assessment_id, partner_number, attribute_id, score_value, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (assessment_id, partner_number, attribute_id)
		 DO UPDATE SET score_value = excluded.score_value, updated_at = excluded.updated_at`,
		id, int(p), attrID, value, now)
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) SetCompletion(ctx context.Context, id string, p model.Partner, done bool) error {
	col := "partner1_completed"
	if p == model.Partner2 {
		col = "partner2_completed"
	} else if p != model.Partner1 {
		return fmt.Errorf("set completion: invalid partner %d", p)
	}
	return s.update(ctx, id, "UPDATE assessments SET "+col+" = ?, updated_at = ? WHERE id = ?", done)
}

func (s *SQLiteStore) SetResultsRevealed(ctx context.Context, id string, revealed bool) error {
	return s.update(ctx, id, `UPDATE assessments SET results_revealed = ?, updated_at = ? WHERE id = ?`, revealed)
}

func (s *SQLiteStore) SetPartnerNames(ctx context.Context, id string, names model.PartnerNames) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE assessments SET partner1_name = ?, partner2_name = ?, updated_at = ? WHERE id = ?`,
		nullable(names.Partner1), nullable(names.Partner2), now, id)
	if err != nil {
		return fmt.Errorf("set names: %w", err)
	}
	return requireRow(res, id)
}

// update runs a single-flag UPDATE whose placeholders are (flag, updated_at, id).
func (s *SQLiteStore) update(ctx context.Context, id, query string, flag bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, query, boolInt(flag), now, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// ListAssessments returns the most recent assessments first.
func (s *SQLiteStore) ListAssessments(ctx context.Context, p ListParams) ([]Summary, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.partner1_completed, a.partner2_completed, a.results_revealed,
		       a.partner1_name, a.partner2_name, a.created_at, a.updated_at,
		       (SELECT COUNT(*) FROM scores WHERE assessment_id = a.id AND partner_number = 1),
		       (SELECT COUNT(*) FROM scores WHERE assessment_id = a.id AND partner_number = 2)
		FROM assessments a
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		var p1, p2, rev int
		var n1, n2 sql.NullString
		var created, updated string
		if err := rows.Scan(&sm.ID, &p1, &p2, &rev, &n1, &n2, &created, &updated, &sm.Rated1, &sm.Rated2); err != nil {
			return nil, err
		}
		sm.Phase = model.Lifecycle{Partner1Done: p1 != 0, Partner2Done: p2 != 0, ResultsRevealed: rev != 0}.Phase()
		sm.Names = model.PartnerNames{Partner1: n1.String, Partner2: n2.String}
		sm.CreatedAt, _ = time.Parse(time.RFC3339, created)
		sm.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row scanner) (*model.Assessment, error) {
	var a model.Assessment
	var p1, p2, rev int
	var n1, n2 sql.NullString
	var created, updated string

	if err := row.Scan(&a.ID, &p1, &p2, &rev, &n1, &n2, &created, &updated); err != nil {
		return nil, err
	}
	a.Lifecycle = model.Lifecycle{Partner1Done: p1 != 0, Partner2Done: p2 != 0, ResultsRevealed: rev != 0}
	a.Names = model.PartnerNames{Partner1: n1.String, Partner2: n2.String}
	a.CreatedAt, _ = time.Parse(time.RFC3339, created)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &a, nil
}

func touch(ctx context.Context, tx *sql.Tx, id, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE assessments SET updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
