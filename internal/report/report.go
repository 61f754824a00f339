// Package report renders offer tables and change summaries. Pure
// presentation: no state beyond the output writer.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"sjsage522/offerwatch/internal/scraper"
	"sjsage522/offerwatch/internal/snapshot"
)

const (
	brandWidthMin = 6
	brandWidthMax = 28
	titleWidthMax = 60
)

// Reporter writes tables and summaries to a single output stream
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// PrintTable renders the offer list as an aligned table, or a single
// "no offers found" line when the list is empty. The brand column width
// follows the data within [6, 28]; titles are snipped at 60.
func (r *Reporter) PrintTable(offers []scraper.Offer) {
	if len(offers) == 0 {
		fmt.Fprintln(r.out, "No offers found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"Brand", "Discount", "Title"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Brand", WidthMin: brandWidthMin, WidthMax: brandWidthMax, WidthMaxEnforcer: snip},
		{Name: "Title", WidthMax: titleWidthMax, WidthMaxEnforcer: snip},
	})

	for _, o := range offers {
		t.AppendRow(table.Row{o.Brand, formatDiscount(o.DiscountPercent), o.Title})
	}

	t.SetStyle(table.StyleLight)
	t.Render()
}

// PrintChanges renders the added/removed summary beneath the table
func (r *Reporter) PrintChanges(changes snapshot.Changes) {
	if changes.Empty() {
		fmt.Fprintln(r.out, "No changes since last run.")
		return
	}

	fmt.Fprintln(r.out, "Changes since last run:")
	for _, o := range changes.Added {
		fmt.Fprintf(r.out, "  + %s: %s\n", o.Brand, o.Title)
	}
	for _, o := range changes.Removed {
		fmt.Fprintf(r.out, "  - %s: %s\n", o.Brand, o.Title)
	}
}

// PrintSaved reports where the snapshot landed
func (r *Reporter) PrintSaved(count int, jsonPath, csvPath string) {
	fmt.Fprintf(r.out, "Saved %d offers to: %s and %s\n", count, jsonPath, csvPath)
}

func formatDiscount(percent *int) string {
	if percent == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *percent)
}

// snip truncates over-wide cells with an ellipsis marker instead of
// letting the table wrap them across lines.
func snip(col string, maxLen int) string {
	runes := []rune(col)
	if len(runes) <= maxLen {
		return col
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
