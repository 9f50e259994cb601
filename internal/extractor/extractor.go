package extractor

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
)

// DatesExtractor pulls the test-date strings out of the fetched HTML page.
type DatesExtractor struct {
	tableSelector string
	logger        zerolog.Logger
}

// NewDatesExtractor creates a new DatesExtractor.
func NewDatesExtractor(cfg *config.MonitorConfig, logger zerolog.Logger) *DatesExtractor {
	return &DatesExtractor{
		tableSelector: cfg.TableSelector,
		logger:        logger.With().Str("component", "DatesExtractor").Logger(),
	}
}

// ExtractTestDates parses the page and returns the date strings from the
// first matching dates table, in document order. The first row is the table
// header and is skipped. Cells without a digit are labels, not dates.
func (de *DatesExtractor) ExtractTestDates(htmlContent []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, common.WrapError(err, "parsing HTML content")
	}

	table := doc.Find(de.tableSelector).First()
	if table.Length() == 0 {
		de.logger.Warn().Str("selector", de.tableSelector).Msg("Dates table not found in page")
		return nil, common.WrapError(common.ErrNotFound, "dates table")
	}

	dates := []string{}
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		cell := row.Find(`th[scope="row"]`).First()
		if cell.Length() == 0 {
			return
		}
		text := strings.TrimSpace(cell.Text())
		if text == "" || !containsDigit(text) {
			return
		}
		dates = append(dates, normalizeWhitespace(text))
	})

	de.logger.Debug().Int("date_count", len(dates)).Msg("Extracted test dates from page")
	return dates, nil
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// normalizeWhitespace collapses runs of whitespace (including newlines inside
// table cells) into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
