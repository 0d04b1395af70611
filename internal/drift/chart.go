package drift

import (
	"math"
)

// Figure is a minimal plotly-compatible figure description. It carries no
// rendering state and is fully re-derivable from the season table, so the
// presentation layer can hand it to any plotly frontend as-is.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single plotted series.
type Trace struct {
	Type string    `json:"type"`
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// Layout holds the figure titles.
type Layout struct {
	Title string `json:"title"`
	XAxis Axis   `json:"xaxis"`
	YAxis Axis   `json:"yaxis"`
}

// Axis is a single axis title.
type Axis struct {
	Title string `json:"title"`
}

// buildFigure renders the season table as a bar chart of seasonal
// transport with a horizontal mean line over the in-control seasons. The
// mean trace is omitted when the overall average is NaN.
func buildFigure(seasons []SeasonEstimate, overallAvg float64) Figure {
	labels := make([]string, len(seasons))
	values := make([]float64, len(seasons))
	for i, s := range seasons {
		labels[i] = s.Season
		values[i] = s.TransportKgPerM
	}

	fig := Figure{
		Data: []Trace{
			{Type: "bar", Name: "Qt (kg/m)", X: labels, Y: values},
		},
		Layout: Layout{
			Title: "Seasonal snow transport",
			XAxis: Axis{Title: "season"},
			YAxis: Axis{Title: "Qt (kg/m)"},
		},
	}

	if !math.IsNaN(overallAvg) {
		mean := make([]float64, len(seasons))
		for i := range mean {
			mean[i] = overallAvg
		}
		fig.Data = append(fig.Data, Trace{
			Type: "scatter",
			Name: "mean (controlled seasons)",
			X:    labels,
			Y:    mean,
		})
	}
	return fig
}
