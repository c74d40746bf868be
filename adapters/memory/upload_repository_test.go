package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/internal/errors"
	"solarweb/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRecentNewestFirst(t *testing.T) {
	repo := NewUploadRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new", "mid"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		require.NoError(t, repo.Create(ctx, &ports.UploadRecord{
			AnalysisID: core.AnalysisID(id),
			Kind:       analysis.KindEnergy,
			UploadedAt: core.NewTimestamp(base.Add(offsets[i])),
		}))
	}

	records, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, core.AnalysisID("new"), records[0].AnalysisID)
	assert.Equal(t, core.AnalysisID("mid"), records[1].AnalysisID)
	assert.Equal(t, core.AnalysisID("old"), records[2].AnalysisID)

	records, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetAndDelete(t *testing.T) {
	repo := NewUploadRepository()
	ctx := context.Background()

	rec := &ports.UploadRecord{AnalysisID: "a1", Kind: analysis.KindSolar, Filename: "x.csv"}
	require.NoError(t, repo.Create(ctx, rec))
	assert.False(t, rec.ID.IsEmpty())

	got, err := repo.GetByAnalysisID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "x.csv", got.Filename)

	require.NoError(t, repo.DeleteByAnalysisID(ctx, "a1"))
	_, err = repo.GetByAnalysisID(ctx, "a1")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestConcurrentCreate(t *testing.T) {
	repo := NewUploadRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Create(ctx, &ports.UploadRecord{AnalysisID: "c", Kind: analysis.KindEnergy})
		}()
	}
	wg.Wait()

	records, err := repo.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, records, 50)
}
