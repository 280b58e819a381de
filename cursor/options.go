package cursor

import "github.com/openyolo/assetgen/canvas"

// contourStroke outlines polygons with sharp corners: round joins
// keep acute angles from growing miter spikes.
func contourStroke(w float64) canvas.StrokeOptions {
	opts := canvas.DefaultStroke(w)
	opts.Join = canvas.Round
	return opts
}

// barStroke draws straight bars with flat ends.
func barStroke(w float64) canvas.StrokeOptions {
	opts := canvas.DefaultStroke(w)
	opts.TrailCap = canvas.ButtCap
	return opts
}
