package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/okian/tripboard/internal/domain/model"
)

// PostgresStore keeps records in one Postgres table. Section feedback is a
// JSONB array.
type PostgresStore struct {
	db    *sql.DB
	table string // quoted
}

// NewPostgresStore wraps db and creates the table if it does not exist.
func NewPostgresStore(ctx context.Context, db *sql.DB, table string) (*PostgresStore, error) {
	s := &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
	if _, err := db.ExecContext(ctx, s.schema()); err != nil {
		return nil, fmt.Errorf("create table %s: %w", s.table, err)
	}
	return s, nil
}

func (s *PostgresStore) schema() string {
	return `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		id UUID PRIMARY KEY,
		person_name TEXT NOT NULL,
		section_feedback JSONB NOT NULL DEFAULT '[]'::jsonb,
		lodging_preference TEXT,
		lodging_constraints TEXT,
		dietary_restrictions TEXT,
		dietary_preferences TEXT,
		private_budget TEXT,
		private_pace TEXT,
		private_kids TEXT,
		private_other TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
}

const recordColumns = `id, person_name, section_feedback, lodging_preference, lodging_constraints,
	dietary_restrictions, dietary_preferences, private_budget, private_pace, private_kids, private_other`

// ListAll returns every record ordered by created_at descending.
func (s *PostgresStore) ListAll(ctx context.Context) ([]model.FeedbackRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+`, created_at FROM `+s.table+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer rows.Close()

	var out []model.FeedbackRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return out, nil
}

// Insert writes one row. created_at is left to the database default.
func (s *PostgresStore) Insert(ctx context.Context, rec model.FeedbackRecord) error {
	args, err := insertArgs(rec)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+s.table+` (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.FeedbackRecord, error) {
	var (
		rec      model.FeedbackRecord
		sections []byte
		lodging  sql.NullString
		text     [7]sql.NullString
		created  time.Time
	)
	err := row.Scan(&rec.ID, &rec.PersonName, &sections, &lodging,
		&text[0], &text[1], &text[2], &text[3], &text[4], &text[5], &text[6], &created)
	if err != nil {
		return rec, err
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &rec.SectionFeedback); err != nil {
			return rec, fmt.Errorf("decode section_feedback: %w", err)
		}
	}
	if lodging.Valid {
		p := model.LodgingPreference(lodging.String)
		rec.LodgingPreference = &p
	}
	rec.LodgingConstraints = nullable(text[0])
	rec.DietaryRestrictions = nullable(text[1])
	rec.DietaryPreferences = nullable(text[2])
	rec.PrivateBudget = nullable(text[3])
	rec.PrivatePace = nullable(text[4])
	rec.PrivateKids = nullable(text[5])
	rec.PrivateOther = nullable(text[6])
	rec.CreatedAt = created
	return rec, nil
}

func insertArgs(rec model.FeedbackRecord) ([]any, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	sections := rec.SectionFeedback
	if sections == nil {
		sections = []model.SectionFeedback{}
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("encode section_feedback: %w", err)
	}
	var lodging sql.NullString
	if rec.LodgingPreference != nil {
		lodging = sql.NullString{String: string(*rec.LodgingPreference), Valid: true}
	}
	return []any{
		rec.ID,
		rec.PersonName,
		string(raw),
		lodging,
		toNull(rec.LodgingConstraints),
		toNull(rec.DietaryRestrictions),
		toNull(rec.DietaryPreferences),
		toNull(rec.PrivateBudget),
		toNull(rec.PrivatePace),
		toNull(rec.PrivateKids),
		toNull(rec.PrivateOther),
	}, nil
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func toNull(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
