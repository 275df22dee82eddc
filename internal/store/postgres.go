package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/rcliao/pair-assessment/internal/model"
)

// PostgresStore implements Adapter on a PostgreSQL pool. The schema mirrors
// the hosted store the web app used: one assessments row with the lifecycle
// flags and a scores table keyed by (assessment, partner, attribute).
type PostgresStore struct {
	pool    *pgxpool.Pool
	entropy *ulid.LockedMonotonicReader
}

var _ Adapter = (*PostgresStore)(nil)

// NewPostgresStore connects to databaseURL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &PostgresStore{pool: pool, entropy: newEntropy()}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS assessments (
		id                 TEXT PRIMARY KEY,
		partner1_completed BOOLEAN NOT NULL DEFAULT FALSE,
		partner2_completed BOOLEAN NOT NULL DEFAULT FALSE,
		results_revealed   BOOLEAN NOT NULL DEFAULT FALSE,
		partner1_name      TEXT,
		partner2_name      TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS scores (
		assessment_id  TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
		partner_number SMALLINT NOT NULL CHECK (partner_number IN (1, 2)),
		attribute_id   TEXT NOT NULL,
		score_value    SMALLINT NOT NULL CHECK (score_value BETWEEN 1 AND 5),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (assessment_id, partner_number, attribute_id)
	);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) CreateAssessment(ctx context.Context) (string, error) {
	id := newID(s.entropy)
	_, err := s.pool.Exec(ctx, `INSERT INTO assessments (id) VALUES ($1)`, id)
	if err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) LoadAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	const query = `
		SELECT id, partner1_completed, partner2_completed, results_revealed,
		       COALESCE(partner1_name, ''), COALESCE(partner2_name, ''), created_at, updated_at
		FROM assessments WHERE id = $1`

	var a model.Assessment
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Lifecycle.Partner1Done,
		&a.Lifecycle.Partner2Done,
		&a.Lifecycle.ResultsRevealed,
		&a.Names.Partner1,
		&a.Names.Partner2,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT partner_number, attribute_id, score_value
		FROM scores WHERE assessment_id = $1
		ORDER BY partner_number, attribute_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var partner, value int16
		var attr string
		if err := rows.Scan(&partner, &attr, &value); err != nil {
			return nil, err
		}
		a.Scores = append(a.Scores, model.ScoreRecord{Partner: model.Partner(partner), AttributeID: attr, Value: int(value)})
	}
	return &a, rows.Err()
}

func (s *PostgresStore) UpsertScore(ctx context.Context, id string, p model.Partner, attrID string, value int) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE assessments SET updated_at = NOW() WHERE id = $1`, id)
		if err := requireTag(tag, err, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO scores (assessment_id, partner_number, attribute_id, score_value, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (assessment_id, partner_number, attribute_id)
			DO UPDATE SET score_value = EXCLUDED.score_value, updated_at = EXCLUDED.updated_at`,
			id, int16(p), attrID, int16(value))
		if err != nil {
			return fmt.Errorf("upsert score: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) SetCompletion(ctx context.Context, id string, p model.Partner, done bool) error {
	var query string
	switch p {
	case model.Partner1:
		query = `UPDATE assessments SET partner1_completed = $1, updated_at = NOW() WHERE id = $2`
	case model.Partner2:
		query = `UPDATE assessments SET partner2_completed = $1, updated_at = NOW() WHERE id = $2`
	default:
		return fmt.Errorf("set completion: invalid partner %d", p)
	}
	tag, err := s.pool.Exec(ctx, query, done, id)
	return requireTag(tag, err, id)
}

func (s *PostgresStore) SetResultsRevealed(ctx context.Context, id string, revealed bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE assessments SET results_revealed = $1, updated_at = NOW() WHERE id = $2`, revealed, id)
	return requireTag(tag, err, id)
}

func (s *PostgresStore) SetPartnerNames(ctx context.Context, id string, names model.PartnerNames) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE assessments SET partner1_name = $1, partner2_name = $2, updated_at = NOW() WHERE id = $3`,
		nullable(names.Partner1), nullable(names.Partner2), id)
	return requireTag(tag, err, id)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func requireTag(tag pgconn.CommandTag, err error, id string) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
