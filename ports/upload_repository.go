package ports

import (
	"context"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
)

// UploadRecord is one file forwarded to the analysis service through this front-end
type UploadRecord struct {
	ID         core.ID         `json:"id" db:"id"`
	AnalysisID core.AnalysisID `json:"analysis_id" db:"analysis_id"`
	Kind       analysis.Kind   `json:"kind" db:"kind"`
	Filename   string          `json:"filename" db:"filename"`
	Size       int64           `json:"size" db:"size"`
	UploadedAt core.Timestamp  `json:"uploaded_at" db:"-"`
}

// UploadRepository stores the local upload history
type UploadRepository interface {
	Create(ctx context.Context, record *UploadRecord) error
	ListRecent(ctx context.Context, limit int) ([]*UploadRecord, error)
	GetByAnalysisID(ctx context.Context, id core.AnalysisID) (*UploadRecord, error)
	DeleteByAnalysisID(ctx context.Context, id core.AnalysisID) error
}
