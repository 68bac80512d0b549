package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/pagestore"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// renderPage prints one cached page as a bordered table.
func renderPage(w io.Writer, page int, records []consent.Record, state pagestore.State) {
	fmt.Fprintln(w, headingStyle.Render(
		fmt.Sprintf("Page %d of %d (%d consents)", page, state.PageCount(), state.Total),
	))

	if len(records) == 0 {
		fmt.Fprintln(w, "(no consents on this page)")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Name, r.Email, strings.Join(r.ConsentGivenFor, ", ")})
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "EMAIL", "CONSENT GIVEN FOR").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func pageResponse(page int, records []consent.Record, state pagestore.State) consent.PageResponse {
	return consent.PageResponse{
		Data:     records,
		Total:    state.Total,
		Page:     page,
		PageSize: state.PageSize,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
