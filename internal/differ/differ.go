package differ

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/aleister1102/satwatch/internal/models"
)

// DatesDiffer compares the previously persisted test dates with the freshly
// extracted ones.
type DatesDiffer struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	logger zerolog.Logger
}

// NewDatesDiffer creates a new DatesDiffer.
func NewDatesDiffer(logger zerolog.Logger) *DatesDiffer {
	return &DatesDiffer{
		dmp:    diffmatchpatch.New(),
		logger: logger.With().Str("component", "DatesDiffer").Logger(),
	}
}

// Diff computes added, removed and unchanged dates. Membership decides change,
// not position, so a reordered list with the same dates reports no changes.
func (dd *DatesDiffer) Diff(previous, current []string) models.DatesDiffResult {
	prevSet := make(map[string]struct{}, len(previous))
	for _, d := range previous {
		prevSet[d] = struct{}{}
	}
	currSet := make(map[string]struct{}, len(current))
	for _, d := range current {
		currSet[d] = struct{}{}
	}

	result := models.DatesDiffResult{}
	for _, d := range current {
		if _, ok := prevSet[d]; ok {
			result.Unchanged = append(result.Unchanged, d)
		} else {
			result.Added = append(result.Added, d)
		}
	}
	for _, d := range previous {
		if _, ok := currSet[d]; !ok {
			result.Removed = append(result.Removed, d)
		}
	}

	if result.HasChanges() {
		result.TextDiff = dd.renderTextDiff(previous, current)
		dd.logger.Debug().
			Int("added", len(result.Added)).
			Int("removed", len(result.Removed)).
			Msg("Test date list changed")
	}
	return result
}

// renderTextDiff produces a line-oriented unified-style rendering of the
// change, for logs and notification bodies.
func (dd *DatesDiffer) renderTextDiff(previous, current []string) string {
	oldText := strings.Join(previous, "\n")
	newText := strings.Join(current, "\n")

	chars1, chars2, lineArray := dd.dmp.DiffLinesToChars(oldText, newText)
	diffs := dd.dmp.DiffMain(chars1, chars2, false)
	diffs = dd.dmp.DiffCharsToLines(diffs, lineArray)

	var sb strings.Builder
	for _, diff := range diffs {
		prefix := "  "
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimRight(diff.Text, "\n"), "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
