package pages

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"franchiseops/internal/money"
	"franchiseops/internal/views/components"
	"franchiseops/internal/views/layout"
	"franchiseops/models"
)

// CostReportLine is one row of the cost breakdown.
type CostReportLine struct {
	Order     int
	Name      string
	Quantity  float64
	Unit      string
	UnitPrice float64
	YieldRate float64
	LineCost  float64
	Note      string
}

// CostReportData aggregates what the cost breakdown renders.
type CostReportData struct {
	RecipeName    string
	TemplateName  string
	Currency      string
	TotalCost     float64
	CostPerUnit   *float64
	YieldQuantity *float64
	YieldUnit     string
	RunID         string
	CalculatedAt  time.Time
	Lines         []CostReportLine
}

// NewCostReportData projects a stored cost version for rendering.
func NewCostReportData(recipe models.Recipe, template models.PriceTemplate, version models.CostVersion) CostReportData {
	data := CostReportData{
		RecipeName:    recipe.Name,
		TemplateName:  template.Name,
		Currency:      version.Currency,
		TotalCost:     version.TotalCost,
		CostPerUnit:   version.CostPerUnit,
		YieldQuantity: recipe.YieldQuantity,
		YieldUnit:     recipe.YieldUnit,
		RunID:         version.RunID,
		CalculatedAt:  version.CalculatedAt,
		Lines:         make([]CostReportLine, 0, len(version.Lines)),
	}
	for i, line := range version.Lines {
		data.Lines = append(data.Lines, CostReportLine{
			Order:     i + 1,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Unit:      line.Unit,
			UnitPrice: line.UnitPrice,
			YieldRate: line.YieldRate,
			LineCost:  line.LineCost,
			Note:      line.Note,
		})
	}
	return data
}

// UnlinkedCount counts lines that carry a note.
func (d CostReportData) UnlinkedCount() int {
	count := 0
	for _, line := range d.Lines {
		if line.Note != "" {
			count++
		}
	}
	return count
}

// FormatReportQuantity renders a quantity using two decimal places and a trailing unit.
func FormatReportQuantity(value float64, unit string) string {
	if strings.EqualFold(unit, "ea") || strings.EqualFold(unit, "pc") {
		return fmt.Sprintf("%.0f %s", value, unit)
	}
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", value, unit))
}

// FormatUnitPrice renders a per-unit price with full stored precision.
func FormatUnitPrice(value float64, currency string) string {
	return strings.TrimSpace(fmt.Sprintf("%.6f %s", value, currency))
}

// FormatReportDate renders the supplied time using a report-friendly layout.
func FormatReportDate(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format("02 Jan 2006 15:04 MST")
}

// CostReport renders the full cost breakdown page.
func CostReport(data CostReportData) templ.Component {
	return layout.Layout(data.RecipeName+" · "+data.TemplateName, CostReportPartial(data))
}

// CostReportPartial renders the cost breakdown for HTMX swaps.
func CostReportPartial(data CostReportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		header := `<section id="cost-report" data-run="` + templ.EscapeString(data.RunID) + `" class="space-y-6">` +
			`<header><h1 class="text-2xl font-semibold">` + templ.EscapeString(data.RecipeName) + `</h1>` +
			`<p class="text-sm text-stone-500">` + templ.EscapeString(data.TemplateName) + ` · calculated ` +
			templ.EscapeString(FormatReportDate(data.CalculatedAt)) + `</p></header><div class="grid grid-cols-3 gap-4">`
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}

		perUnit := "n/a"
		perUnitCaption := "recipe yield not set"
		if data.CostPerUnit != nil {
			perUnit = money.Format(*data.CostPerUnit, data.Currency)
			perUnitCaption = ""
			if data.YieldQuantity != nil {
				perUnitCaption = "yield " + FormatReportQuantity(*data.YieldQuantity, data.YieldUnit)
			}
		}
		cards := []templ.Component{
			components.StatCard("Total cost", money.Format(data.TotalCost, data.Currency), "", fmt.Sprintf("%d lines", len(data.Lines))),
			components.StatCard("Cost per unit", perUnit, "", perUnitCaption),
			components.StatCard("Unlinked lines", fmt.Sprintf("%d", data.UnlinkedCount()), "", "priced at zero"),
		}
		for _, card := range cards {
			if err := card.Render(ctx, w); err != nil {
				return err
			}
		}

		var rows strings.Builder
		rows.WriteString(`</div><table class="w-full text-sm"><thead><tr><th>#</th><th>Ingredient</th><th>Quantity</th><th>Unit price</th><th>Yield</th><th>Line cost</th><th></th></tr></thead><tbody>`)
		for _, line := range data.Lines {
			rowClass := ""
			if line.Note != "" {
				rowClass = ` class="bg-amber-50"`
			}
			fmt.Fprintf(&rows, `<tr%s><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%.0f%%</td><td>%s</td><td>%s</td></tr>`,
				rowClass,
				line.Order,
				templ.EscapeString(line.Name),
				templ.EscapeString(FormatReportQuantity(line.Quantity, line.Unit)),
				templ.EscapeString(FormatUnitPrice(line.UnitPrice, data.Currency)),
				line.YieldRate,
				templ.EscapeString(money.Format(line.LineCost, data.Currency)),
				templ.EscapeString(line.Note),
			)
		}
		rows.WriteString(`</tbody></table></section>`)
		_, err := io.WriteString(w, rows.String())
		return err
	})
}
