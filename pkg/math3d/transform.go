package math3d

// Transform bundles the matrices of one world -> view -> projection pipeline
// with the viewport size in pixels.
//
// Combined is never written here; the renderer composes it as
// World · View · Projection.
type Transform struct {
	World      Matrix
	View       Matrix
	Projection Matrix
	Combined   Matrix
	W, H       float32
}

// NewTransform returns a Transform with identity matrices for a w x h viewport.
func NewTransform(w, h float32) Transform {
	return Transform{
		World:      Identity(),
		View:       Identity(),
		Projection: Identity(),
		Combined:   Identity(),
		W:          w,
		H:          h,
	}
}
