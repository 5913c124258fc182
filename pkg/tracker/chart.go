package tracker

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 640
	chartHeight = 640
)

// RenderPieChart renders the analysis as a PNG pie chart, one slice per
// category labeled with its share of the total.
func RenderPieChart(a *Analysis) ([]byte, error) {
	if a.Empty() {
		return nil, fmt.Errorf("%w: nothing to render for an empty period", ErrInvalidInput)
	}

	values := make([]chart.Value, 0, len(a.Categories))
	for _, ct := range a.Categories {
		values = append(values, chart.Value{
			Value: float64(ct.Amount),
			Label: fmt.Sprintf("%s (%s)", ct.Category, FormatPercent(a.Share(ct.Amount))),
		})
	}

	pie := chart.PieChart{
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render pie chart: %w", err)
	}

	return buf.Bytes(), nil
}
