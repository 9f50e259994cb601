package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/datastore"
	"github.com/aleister1102/satwatch/internal/models"
)

const datesPage = `
<html><body>
<table class="cb-table cb-no-margin-top">
  <tr><th>SAT Test Date</th><th>Deadline</th></tr>
  <tr><th scope="row">October 4, 2025</th><td>x</td></tr>
  <tr><th scope="row">November 8, 2025</th><td>x</td></tr>
</table>
</body></html>`

func newTestService(t *testing.T, pageURL string, threshold int) (*MonitoringService, *datastore.StateStore) {
	t.Helper()
	dir := t.TempDir()

	monitorCfg := config.NewDefaultMonitorConfig()
	monitorCfg.URL = pageURL
	monitorCfg.DateThreshold = threshold

	stateStore := datastore.NewStateStore(&config.StateConfig{FilePath: filepath.Join(dir, "sat_monitor_state.json")}, zerolog.Nop())
	require.NoError(t, stateStore.EnsureDefault())

	historyStore, err := datastore.NewParquetHistoryStore(&config.StorageConfig{HistoryBasePath: filepath.Join(dir, "history")}, zerolog.Nop())
	require.NoError(t, err)

	svc, err := NewMonitoringServiceBuilder(&monitorCfg, zerolog.Nop()).
		WithStateStore(stateStore).
		WithHistoryStore(historyStore).
		Build()
	require.NoError(t, err)
	return svc, stateStore
}

func TestRunCheck_ExtractsAndPersistsState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Sat, 23 Aug 2025 10:00:00 GMT")
		_, _ = w.Write([]byte(datesPage))
	}))
	defer server.Close()

	svc, stateStore := newTestService(t, server.URL, 7)

	result, err := svc.RunCheck(context.Background(), "20250823-120000")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TestDateCount)
	assert.False(t, result.ThresholdHit)
	assert.True(t, result.Diff.HasChanges(), "first check adds all dates")

	state, err := stateStore.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, state.TestDateCount)
	assert.Equal(t, []string{"October 4, 2025", "November 8, 2025"}, state.TestDates)
	assert.Equal(t, "Sat, 23 Aug 2025 10:00:00 GMT", state.LastModified)
	assert.NotEmpty(t, state.Timestamp)
}

func TestRunCheck_ThresholdHit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(datesPage))
	}))
	defer server.Close()

	svc, _ := newTestService(t, server.URL, 1)

	result, err := svc.RunCheck(context.Background(), "run-1")
	require.NoError(t, err)
	assert.True(t, result.ThresholdHit, "2 dates with threshold 1 must alert")
}

func TestRunCheck_SecondRunNoChanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(datesPage))
	}))
	defer server.Close()

	svc, _ := newTestService(t, server.URL, 7)

	_, err := svc.RunCheck(context.Background(), "run-1")
	require.NoError(t, err)

	result, err := svc.RunCheck(context.Background(), "run-2")
	require.NoError(t, err)
	assert.False(t, result.Diff.HasChanges(), "same page content must report no changes")
}

func TestRunCheck_NotModifiedShortCircuits(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-Modified-Since") != "" {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Last-Modified", "Sat, 23 Aug 2025 10:00:00 GMT")
		_, _ = w.Write([]byte(datesPage))
	}))
	defer server.Close()

	svc, _ := newTestService(t, server.URL, 7)

	_, err := svc.RunCheck(context.Background(), "run-1")
	require.NoError(t, err)

	result, err := svc.RunCheck(context.Background(), "run-2")
	require.NoError(t, err)
	assert.True(t, result.NotModified)
	assert.Equal(t, 2, result.TestDateCount, "count carried over from previous state")
	assert.Equal(t, 2, requests)
}

func TestRunCheck_EmptyExtractionFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><table class="cb-table cb-no-margin-top"><tr><th>Header</th></tr></table></body></html>`))
	}))
	defer server.Close()

	svc, stateStore := newTestService(t, server.URL, 7)

	_, err := svc.RunCheck(context.Background(), "run-1")
	require.Error(t, err, "a page with no extractable dates must fail the check")

	state, loadErr := stateStore.Load()
	require.NoError(t, loadErr)
	assert.True(t, state.Equal(models.NewDefaultStateRecord()), "failed check must not overwrite state")
}
