package chart

// CameraGraphs holds the piecewise camera-motion curves. Evaluated by
// the renderer (out of scope here); the gameplay core only carries and
// exposes them via RenderState.
type CameraGraphs struct {
	Zoom      Graph
	RotationX Graph
	ShiftX    Graph
}

// ValuesAt evaluates all camera graphs at absolute pulse p.
func (g *CameraGraphs) ValuesAt(p Pulse) (zoom, rotX, shiftX float64) {
	return g.Zoom.ValueAt(p), g.RotationX.ValueAt(p), g.ShiftX.ValueAt(p)
}
