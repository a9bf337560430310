package output

import (
	"strconv"
	"strings"
)

// RenderSummary renders the one-line outcome of an export run, for example
// "2 exported, 1 failed". Zero counts are left out.
func RenderSummary(exported, failed, skipped int) string {
	if exported == 0 && failed == 0 && skipped == 0 {
		return "Nothing exported"
	}

	parts := make([]string, 0, 3)
	if exported > 0 {
		parts = append(parts, statusStyle(StatusExported).Render(strconv.Itoa(exported)+" "+StatusExported))
	}
	if failed > 0 {
		parts = append(parts, statusStyle(StatusFailed).Render(strconv.Itoa(failed)+" "+StatusFailed))
	}
	if skipped > 0 {
		parts = append(parts, statusStyle(StatusSkipped).Render(strconv.Itoa(skipped)+" "+StatusSkipped))
	}
	return StyleSummary.Render("Summary: ") + strings.Join(parts, ", ")
}
