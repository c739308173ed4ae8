package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
)

type journalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Save(ctx context.Context, rec *entity.EditRecord) error {
	query := `
		INSERT INTO edit_journal (id, session_id, prompt, masked, outcome, error, source_name, result_name, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.SessionID, rec.Prompt, rec.Masked, rec.Outcome,
		nullString(rec.Error), nullString(rec.SourceName), nullString(rec.ResultName),
		rec.DurationMs, rec.At,
	)
	if err != nil {
		return fmt.Errorf("failed to save edit record: %w", err)
	}
	return nil
}

func (r *journalRepository) Recent(ctx context.Context, limit int) ([]*entity.EditRecord, error) {
	query := `
		SELECT id, session_id, prompt, masked, outcome, error, source_name, result_name, duration_ms, created_at
		FROM edit_journal
		ORDER BY created_at DESC
		LIMIT $1`

	return r.query(ctx, query, limit)
}

func (r *journalRepository) BySession(ctx context.Context, sessionID string) ([]*entity.EditRecord, error) {
	query := `
		SELECT id, session_id, prompt, masked, outcome, error, source_name, result_name, duration_ms, created_at
		FROM edit_journal
		WHERE session_id = $1
		ORDER BY created_at ASC`

	return r.query(ctx, query, sessionID)
}

func (r *journalRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.EditRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edit journal: %w", err)
	}
	defer rows.Close()

	var records []*entity.EditRecord
	for rows.Next() {
		var (
			rec                             entity.EditRecord
			errText, sourceName, resultName sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Prompt, &rec.Masked, &rec.Outcome,
			&errText, &sourceName, &resultName, &rec.DurationMs, &rec.At,
		); err != nil {
			return nil, fmt.Errorf("failed to scan edit record: %w", err)
		}
		rec.Error = errText.String
		rec.SourceName = sourceName.String
		rec.ResultName = resultName.String
		rec.Duration = time.Duration(rec.DurationMs) * time.Millisecond
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
