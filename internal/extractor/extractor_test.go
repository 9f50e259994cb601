package extractor

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
)

const datesPageHTML = `
<html><body>
<table class="cb-table cb-no-margin-top">
  <tr><th>SAT Test Date</th><th>Registration Deadline</th></tr>
  <tr><th scope="row">October 4, 2025</th><td>September 19, 2025</td></tr>
  <tr><th scope="row">November 8, 2025</th><td>October 24, 2025</td></tr>
  <tr><th scope="row">
      December 6, 2025
  </th><td>November 21, 2025</td></tr>
  <tr><th scope="row">Anticipated dates</th><td>TBD</td></tr>
</table>
<table class="cb-table">
  <tr><th>Other</th></tr>
  <tr><th scope="row">January 1, 1999</th></tr>
</table>
</body></html>`

func newTestExtractor(t *testing.T) *DatesExtractor {
	t.Helper()
	cfg := config.NewDefaultMonitorConfig()
	return NewDatesExtractor(&cfg, zerolog.Nop())
}

func TestExtractTestDates(t *testing.T) {
	dates, err := newTestExtractor(t).ExtractTestDates([]byte(datesPageHTML))
	require.NoError(t, err)
	assert.Equal(t, []string{"October 4, 2025", "November 8, 2025", "December 6, 2025"}, dates)
}

func TestExtractTestDates_SkipsHeaderAndNonDateCells(t *testing.T) {
	dates, err := newTestExtractor(t).ExtractTestDates([]byte(datesPageHTML))
	require.NoError(t, err)
	assert.NotContains(t, dates, "SAT Test Date")
	assert.NotContains(t, dates, "Anticipated dates")
}

func TestExtractTestDates_TableMissing(t *testing.T) {
	_, err := newTestExtractor(t).ExtractTestDates([]byte(`<html><body><p>maintenance</p></body></html>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExtractTestDates_EmptyTable(t *testing.T) {
	html := `<table class="cb-table cb-no-margin-top"><tr><th>SAT Test Date</th></tr></table>`
	dates, err := newTestExtractor(t).ExtractTestDates([]byte(html))
	require.NoError(t, err)
	assert.Empty(t, dates)
}
