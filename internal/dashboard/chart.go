package dashboard

import (
	"fmt"
	"strings"

	"github.com/go-analyze/charts"
)

// Chart colors per category, matching the web dashboard palette.
var chartColors = map[string]string{
	"food":        "#3b82f6",
	"transport":   "#a855f7",
	"credit card": "#10b981",
}

const defaultChartColor = "#9ca3af"

// Slice is one wedge of the expense distribution chart.
type Slice struct {
	Name  string
	Value float64
	Color string
}

// ChartColor returns the display color for a category name.
func ChartColor(category string) string {
	if color, ok := chartColors[strings.ToLower(category)]; ok {
		return color
	}
	return defaultChartColor
}

// ChartData converts the period's buckets into chart slices, preserving
// bucket order.
func ChartData(buckets []Bucket) []Slice {
	slices := make([]Slice, 0, len(buckets))
	for _, b := range buckets {
		slices = append(slices, Slice{
			Name:  b.Name,
			Value: b.Total.InexactFloat64(),
			Color: ChartColor(b.Name),
		})
	}
	return slices
}

// RenderChart renders the period's expense distribution as a PNG pie chart.
func RenderChart(vm ViewModel) ([]byte, error) {
	if len(vm.Buckets) == 0 {
		return nil, fmt.Errorf("no expenses to chart")
	}

	slices := ChartData(vm.Buckets)
	values := make([]float64, 0, len(slices))
	names := make([]string, 0, len(slices))
	for _, s := range slices {
		values = append(values, s.Value)
		names = append(names, s.Name)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Expense Distribution - %s %d", MonthNames[vm.Period.Month], vm.Period.Year),
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
