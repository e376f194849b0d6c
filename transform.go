package photomark

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform maps an object's local geometry (0..w, 0..h) onto
// the canvas. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Translate(X, Y)
//
// The pivot is the bounds center for OriginCenter objects and (0, 0)
// otherwise.
func computeLocalTransform(o *SceneObject) [6]float64 {
	sx, sy := o.ScaleX, o.ScaleY
	var px, py float64
	if o.Origin == OriginCenter {
		w, h := o.localSize()
		px, py = w/2, h/2
	}
	return [6]float64{sx, 0, 0, sy, o.X - px*sx, o.Y - py*sy}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// scaleTransform returns the uniform scale matrix used for export multipliers.
func scaleTransform(s float64) [6]float64 {
	return [6]float64{s, 0, 0, s, 0, 0}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Transform returns the object's local-to-canvas matrix.
func (o *SceneObject) Transform() [6]float64 {
	return computeLocalTransform(o)
}

// CanvasToLocal converts canvas coordinates to the object's local space.
func (o *SceneObject) CanvasToLocal(cx, cy float64) (lx, ly float64) {
	return transformPoint(invertAffine(computeLocalTransform(o)), cx, cy)
}

// LocalToCanvas converts local coordinates to canvas coordinates.
func (o *SceneObject) LocalToCanvas(lx, ly float64) (cx, cy float64) {
	return transformPoint(computeLocalTransform(o), lx, ly)
}
