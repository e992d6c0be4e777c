package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankastocks/cse-analyzer/internal/database"
)

type samplePayload struct {
	OverallScore   float64  `msgpack:"overall_score"`
	Recommendation string   `msgpack:"recommendation"`
	Notes          []string `msgpack:"notes"`
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "history_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.Migrate())
	return repo
}

func TestSaveAndGet(t *testing.T) {
	repo := newTestRepository(t)

	payload := samplePayload{OverallScore: 82.5, Recommendation: "STRONG BUY", Notes: []string{"strong fundamentals"}}
	id, err := repo.Save("LIOC", "recommendation", 82.5, "STRONG BUY", payload)
	require.NoError(t, err)
	assert.Positive(t, id)

	record, err := repo.Get(id)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "LIOC", record.Ticker)
	assert.Equal(t, "recommendation", record.AnalysisType)
	assert.InDelta(t, 82.5, record.OverallScore, 0.001)
	assert.WithinDuration(t, time.Now().UTC(), record.CreatedAt, time.Minute)

	var decoded samplePayload
	require.NoError(t, record.Decode(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestGet_MissingReturnsNil(t *testing.T) {
	repo := newTestRepository(t)

	record, err := repo.Get(9999)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestList_MostRecentFirst(t *testing.T) {
	repo := newTestRepository(t)

	for i, ticker := range []string{"AAA", "BBB", "CCC"} {
		_, err := repo.Save(ticker, "fundamental", float64(50+i), "HOLD", samplePayload{})
		require.NoError(t, err)
	}

	records, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Same-second inserts fall back to id ordering.
	assert.Equal(t, "CCC", records[0].Ticker)
	assert.Equal(t, "AAA", records[2].Ticker)

	limited, err := repo.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDelete(t *testing.T) {
	repo := newTestRepository(t)

	id, err := repo.Save("LIOC", "technical", 60, "HOLD", samplePayload{})
	require.NoError(t, err)

	deleted, err := repo.Delete(id)
	require.NoError(t, err)
	assert.True(t, deleted)

	record, err := repo.Get(id)
	require.NoError(t, err)
	assert.Nil(t, record)

	deleted, err = repo.Delete(id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPruneOlderThan(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Save("LIOC", "recommendation", 70, "BUY", samplePayload{})
	require.NoError(t, err)

	// Cutoff in the past removes nothing.
	deleted, err := repo.PruneOlderThan(time.Now().UTC().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)

	// Cutoff in the future removes the row.
	deleted, err = repo.PruneOlderThan(time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	records, err := repo.List(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
