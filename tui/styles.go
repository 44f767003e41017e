package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/framesrc/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	plainStyle       = lipgloss.NewStyle()
	hostStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	thirdPartyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// categoryOrder is the display order for page errors, most actionable first.
var categoryOrder = []result.ErrorCategory{
	result.Category4xx,
	result.Category5xx,
	result.CategoryTimeout,
	result.CategoryDNSFailure,
	result.CategoryConnectionRefused,
	result.CategoryNotHTML,
	result.CategoryDisallowed,
	result.CategoryCanceled,
	result.CategoryUnknown,
}

// RenderSummary produces a Lip Gloss styled summary of scan results: one
// table of sources per class, then failed pages grouped by category.
func RenderSummary(res *result.Result) string {
	if res == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if len(res.Sources) == 0 {
		builder.WriteString(successStyle.Render("No script sources found."))
		builder.WriteString("\n")
	}

	grouped := make(map[result.SourceClass][]result.SourceReport)
	for _, report := range res.Sources {
		grouped[report.Class] = append(grouped[report.Class], report)
	}

	for _, class := range result.ClassOrder {
		reports := grouped[class]
		if len(reports) == 0 {
			continue
		}

		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", result.FormatClass(class), len(reports))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(reports))
		for _, report := range reports {
			party := ""
			if report.ThirdParty {
				party = "3rd"
			}
			rows = append(rows, []string{report.Short, report.Host, party, report.FoundOn})
		}

		builder.WriteString(table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Name", "Host", "", "Found On").
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 1:
					return hostStyle
				case col == 2:
					return thirdPartyStyle
				case col == 3:
					return dimStyle
				}
				return plainStyle
			}).
			Rows(rows...).
			Render())
		builder.WriteString("\n\n")
	}

	if len(res.Errors) > 0 {
		builder.WriteString(renderPageErrors(res.Errors))
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %d sources on %d pages, %d pages failed (%s)",
		res.Stats.SourcesFound,
		res.Stats.PagesScanned,
		res.Stats.PageErrors,
		res.Stats.Duration.Round(time.Millisecond),
	)))
	builder.WriteString("\n")

	return builder.String()
}

func renderPageErrors(pageErrors []result.PageError) string {
	grouped := make(map[result.ErrorCategory][]result.PageError)
	for _, pageErr := range pageErrors {
		cat := pageErr.ErrorCategory
		if cat == "" {
			cat = result.CategoryUnknown
		}
		grouped[cat] = append(grouped[cat], pageErr)
	}

	var builder strings.Builder
	for _, cat := range categoryOrder {
		errs := grouped[cat]
		if len(errs) == 0 {
			continue
		}

		builder.WriteString(errorStyle.Render(fmt.Sprintf("## %s (%d)", result.FormatCategory(cat), len(errs))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(errs))
		for _, pageErr := range errs {
			status := pageErr.Error
			if pageErr.StatusCode != 0 {
				status = fmt.Sprintf("%d", pageErr.StatusCode)
			}
			rows = append(rows, []string{pageErr.URL, status})
		}

		builder.WriteString(table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Page", "Status").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 1 {
					return statusErrorStyle
				}
				return plainStyle
			}).
			Rows(rows...).
			Render())
		builder.WriteString("\n\n")
	}
	return builder.String()
}
