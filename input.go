package photomark

// HitTest returns the topmost interactive object containing the canvas point
// (x, y), or nil.
func (c *Canvas) HitTest(x, y float64) *SceneObject {
	list := c.stack.PaintList()
	// Iterate backward (reverse paint order): topmost object first.
	for i := len(list) - 1; i >= 0; i-- {
		o := list[i]
		if !o.Interactive {
			continue
		}
		if o.Contains(x, y) {
			return o
		}
	}
	return nil
}

// SelectAt makes the topmost object at (x, y) active. A miss clears the
// selection. Returns the new active object.
func (c *Canvas) SelectAt(x, y float64) *SceneObject {
	hit := c.HitTest(x, y)
	if hit == nil || !hit.Selectable {
		c.active = nil
		return nil
	}
	c.active = hit
	return hit
}

// MoveActive drags the active object by (dx, dy).
func (c *Canvas) MoveActive(dx, dy float64) bool {
	if c.active == nil || (dx == 0 && dy == 0) {
		return false
	}
	c.active.MoveBy(dx, dy)
	c.changed()
	return true
}

// ScaleActive multiplies the active object's scale by (sx, sy).
func (c *Canvas) ScaleActive(sx, sy float64) bool {
	if c.active == nil || sx == 0 || sy == 0 {
		return false
	}
	c.active.SetScale(c.active.ScaleX*sx, c.active.ScaleY*sy)
	c.changed()
	return true
}

// SetActiveText replaces the active text object's content.
func (c *Canvas) SetActiveText(s string) bool {
	if c.active == nil || !c.active.SetText(s) {
		return false
	}
	c.changed()
	return true
}
