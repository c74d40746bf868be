package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"solarweb/domain/core"
	"solarweb/internal/errors"
	"solarweb/ports"
)

// UploadRepository keeps the upload history in process memory. It is used
// when no DATABASE_URL is configured; history is lost on restart.
type UploadRepository struct {
	mu      sync.RWMutex
	records []ports.UploadRecord
}

var _ ports.UploadRepository = (*UploadRepository)(nil)

// NewUploadRepository creates an empty in-memory repository
func NewUploadRepository() *UploadRepository {
	return &UploadRepository{}
}

func (r *UploadRepository) Create(ctx context.Context, record *ports.UploadRecord) error {
	if record.ID.IsEmpty() {
		record.ID = core.NewID()
	}
	if record.UploadedAt.IsZero() {
		record.UploadedAt = core.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *UploadRepository) ListRecent(ctx context.Context, limit int) ([]*ports.UploadRecord, error) {
	r.mu.RLock()
	sorted := make([]ports.UploadRecord, len(r.records))
	copy(sorted, r.records)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UploadedAt.Time().Equal(sorted[j].UploadedAt.Time()) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].UploadedAt.After(sorted[j].UploadedAt)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]*ports.UploadRecord, len(sorted))
	for i := range sorted {
		out[i] = &sorted[i]
	}
	return out, nil
}

func (r *UploadRepository) GetByAnalysisID(ctx context.Context, id core.AnalysisID) (*ports.UploadRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *ports.UploadRecord
	for i := range r.records {
		rec := r.records[i]
		if rec.AnalysisID != id {
			continue
		}
		if found == nil || rec.UploadedAt.After(found.UploadedAt) {
			found = &rec
		}
	}
	if found == nil {
		return nil, errors.NotFound(fmt.Sprintf("upload for analysis %s", id))
	}
	return found, nil
}

func (r *UploadRepository) DeleteByAnalysisID(ctx context.Context, id core.AnalysisID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.AnalysisID != id {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}
