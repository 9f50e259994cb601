package datastore

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/satwatch/internal/config"
)

func newTestHistoryStore(t *testing.T) *ParquetHistoryStore {
	t.Helper()
	cfg := &config.StorageConfig{
		HistoryBasePath:  t.TempDir(),
		CompressionCodec: "zstd",
	}
	store, err := NewParquetHistoryStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestParquetHistoryStore_EmptyHistory(t *testing.T) {
	store := newTestHistoryStore(t)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	all, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParquetHistoryStore_AppendAndReadBack(t *testing.T) {
	store := newTestHistoryStore(t)

	hash := "abc123"
	first := CheckHistoryRecord{
		CheckTimestamp: time.Now().Add(-time.Hour).UnixMilli(),
		RunID:          "20250823-110000",
		SourceURL:      "https://satsuite.collegeboard.org/sat/dates-deadlines",
		TestDateCount:  2,
		TestDates:      []string{"October 4, 2025", "November 8, 2025"},
		StateHash:      &hash,
	}
	require.NoError(t, store.Append(first))

	second := CheckHistoryRecord{
		CheckTimestamp: time.Now().UnixMilli(),
		RunID:          "20250823-120000",
		SourceURL:      first.SourceURL,
		TestDateCount:  3,
		TestDates:      []string{"October 4, 2025", "November 8, 2025", "December 6, 2025"},
		DatesAdded:     []string{"December 6, 2025"},
		ThresholdHit:   false,
	}
	require.NoError(t, store.Append(second))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "20250823-110000", all[0].RunID)
	assert.Equal(t, []string{"December 6, 2025"}, all[1].DatesAdded)

	latest, err := store.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "20250823-120000", latest.RunID)
	assert.Equal(t, int32(3), latest.TestDateCount)
}

func TestNewParquetHistoryStore_RequiresBasePath(t *testing.T) {
	_, err := NewParquetHistoryStore(&config.StorageConfig{}, zerolog.Nop())
	assert.Error(t, err)
}
