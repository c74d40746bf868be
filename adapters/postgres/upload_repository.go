package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/internal/errors"
	"solarweb/ports"

	"github.com/jmoiron/sqlx"
)

// uploadRepository implements ports.UploadRepository on any sqlx database.
// Queries are written with ? placeholders and rebound for the driver.
type uploadRepository struct {
	db *sqlx.DB
}

// NewUploadRepository creates a new upload history repository
func NewUploadRepository(db *sqlx.DB) ports.UploadRepository {
	return &uploadRepository{db: db}
}

type uploadRow struct {
	ID         string    `db:"id"`
	AnalysisID string    `db:"analysis_id"`
	Kind       string    `db:"kind"`
	Filename   string    `db:"filename"`
	Size       int64     `db:"size"`
	UploadedAt time.Time `db:"uploaded_at"`
}

func (row uploadRow) record() *ports.UploadRecord {
	return &ports.UploadRecord{
		ID:         core.ID(row.ID),
		AnalysisID: core.AnalysisID(row.AnalysisID),
		Kind:       analysis.Kind(row.Kind),
		Filename:   row.Filename,
		Size:       row.Size,
		UploadedAt: core.NewTimestamp(row.UploadedAt),
	}
}

// Create inserts a new upload record, assigning an ID and time when missing
func (r *uploadRepository) Create(ctx context.Context, record *ports.UploadRecord) error {
	if record.ID.IsEmpty() {
		record.ID = core.NewID()
	}
	if record.UploadedAt.IsZero() {
		record.UploadedAt = core.Now()
	}

	query := r.db.Rebind(`INSERT INTO upload_history (
		id, analysis_id, kind, filename, size, uploaded_at
	) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		record.ID.String(), record.AnalysisID.String(), string(record.Kind),
		record.Filename, record.Size, record.UploadedAt.Time().UTC(),
	)
	if err != nil {
		return errors.DatabaseError("failed to create upload record", err)
	}
	return nil
}

// ListRecent returns the most recent uploads, newest first
func (r *uploadRepository) ListRecent(ctx context.Context, limit int) ([]*ports.UploadRecord, error) {
	query := r.db.Rebind(`SELECT id, analysis_id, kind, filename, size, uploaded_at
	FROM upload_history
	ORDER BY uploaded_at DESC, id DESC
	LIMIT ?`)

	var rows []uploadRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.DatabaseError("failed to list upload records", err)
	}

	records := make([]*ports.UploadRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

// GetByAnalysisID returns the upload that created the given analysis
func (r *uploadRepository) GetByAnalysisID(ctx context.Context, id core.AnalysisID) (*ports.UploadRecord, error) {
	query := r.db.Rebind(`SELECT id, analysis_id, kind, filename, size, uploaded_at
	FROM upload_history
	WHERE analysis_id = ?
	ORDER BY uploaded_at DESC
	LIMIT 1`)

	var row uploadRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound(fmt.Sprintf("upload for analysis %s", id))
		}
		return nil, errors.DatabaseError("failed to get upload record", err)
	}
	return row.record(), nil
}

// DeleteByAnalysisID removes the history of an analysis. Deleting an unknown
// analysis is not an error.
func (r *uploadRepository) DeleteByAnalysisID(ctx context.Context, id core.AnalysisID) error {
	query := r.db.Rebind(`DELETE FROM upload_history WHERE analysis_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id.String()); err != nil {
		return errors.DatabaseError("failed to delete upload records", err)
	}
	return nil
}
