package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bondsim/internal/analysis"
)

const floorDB = -300

// PlotResponse draws the magnitude in dB over a log frequency axis.
func PlotResponse(points []analysis.Point, caption string, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	data := analysis.Magnitudes(points)
	for i, v := range data {
		if math.IsInf(v, -1) {
			data[i] = floorDB
		}
	}
	caption = fmt.Sprintf("%s  |H| dB, %.3g..%.3g Hz (log)", caption, points[0].Freq, points[len(points)-1].Freq)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
