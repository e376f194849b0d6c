package photomark

// Stacking owns the scene's objects and their paint order. Backgrounds paint
// first in insertion order, then interactive objects ascending by StackKey
// with ties broken by insertion order.
type Stacking struct {
	objects []*SceneObject // insertion order
	sorted  []*SceneObject // reused buffer for paint order
	dirty   bool
	nextSeq uint64
}

// NewStacking returns an empty stacking manager.
func NewStacking() *Stacking {
	return &Stacking{}
}

// Add inserts obj. Interactive objects receive NextKey() as their stack key;
// backgrounds keep BackgroundKey. Adding an object twice is a no-op.
// Panics if obj is nil.
func (s *Stacking) Add(obj *SceneObject) {
	if obj == nil {
		panic("photomark: Stacking.Add with nil object")
	}
	if s.Contains(obj) {
		return
	}
	if obj.IsBackground() {
		obj.StackKey = BackgroundKey
	} else {
		obj.StackKey = s.NextKey()
	}
	s.nextSeq++
	obj.seq = s.nextSeq
	s.objects = append(s.objects, obj)
	s.dirty = true
}

// Remove detaches obj. Reports whether it was present.
func (s *Stacking) Remove(obj *SceneObject) bool {
	for i, o := range s.objects {
		if o == obj {
			copy(s.objects[i:], s.objects[i+1:])
			s.objects[len(s.objects)-1] = nil
			s.objects = s.objects[:len(s.objects)-1]
			s.dirty = true
			return true
		}
	}
	return false
}

// Contains reports whether obj is managed by s.
func (s *Stacking) Contains(obj *SceneObject) bool {
	for _, o := range s.objects {
		if o == obj {
			return true
		}
	}
	return false
}

// keyRange returns the min and max stack key over non-background objects,
// each defaulting to 0.
func (s *Stacking) keyRange() (lo, hi int) {
	for _, o := range s.objects {
		if o.IsBackground() {
			continue
		}
		if o.StackKey < lo {
			lo = o.StackKey
		}
		if o.StackKey > hi {
			hi = o.StackKey
		}
	}
	return lo, hi
}

// NextKey returns max(StackKey over non-background objects, 0) + 1.
func (s *Stacking) NextKey() int {
	_, hi := s.keyRange()
	return hi + 1
}

// BringToFront gives obj a key above every other non-background object.
// The key is computed before the change, so obj's own key counts.
func (s *Stacking) BringToFront(obj *SceneObject) bool {
	if obj == nil || obj.IsBackground() || !s.Contains(obj) {
		return false
	}
	obj.StackKey = s.NextKey()
	s.dirty = true
	return true
}

// SendBackward gives obj a key below every other non-background object.
// It still paints above backgrounds.
func (s *Stacking) SendBackward(obj *SceneObject) bool {
	if obj == nil || obj.IsBackground() || !s.Contains(obj) {
		return false
	}
	lo, _ := s.keyRange()
	obj.StackKey = lo - 1
	s.dirty = true
	return true
}

// Reorder rebuilds the paint order. Uses insertion sort: zero allocations,
// stable, and O(n) when keys are already sorted, which is the common case.
func (s *Stacking) Reorder() {
	n := len(s.objects)
	if cap(s.sorted) < n {
		s.sorted = make([]*SceneObject, n)
	}
	s.sorted = s.sorted[:0]
	for _, o := range s.objects {
		if o.IsBackground() {
			s.sorted = append(s.sorted, o)
		}
	}
	bg := len(s.sorted)
	for _, o := range s.objects {
		if !o.IsBackground() {
			s.sorted = append(s.sorted, o)
		}
	}
	for i := bg + 1; i < n; i++ {
		key := s.sorted[i]
		j := i - 1
		for j >= bg && stackAfter(s.sorted[j], key) {
			s.sorted[j+1] = s.sorted[j]
			j--
		}
		s.sorted[j+1] = key
	}
	s.dirty = false
}

func stackAfter(a, b *SceneObject) bool {
	if a.StackKey != b.StackKey {
		return a.StackKey > b.StackKey
	}
	return a.seq > b.seq
}

// PaintList returns objects in paint order. The slice is reused by the next
// Reorder; callers must not retain it.
func (s *Stacking) PaintList() []*SceneObject {
	if s.dirty || len(s.sorted) != len(s.objects) {
		s.Reorder()
	}
	return s.sorted
}

// Objects returns a copy of the objects in insertion order.
func (s *Stacking) Objects() []*SceneObject {
	out := make([]*SceneObject, len(s.objects))
	copy(out, s.objects)
	return out
}

// Backgrounds returns the background objects in insertion order.
func (s *Stacking) Backgrounds() []*SceneObject {
	var out []*SceneObject
	for _, o := range s.objects {
		if o.IsBackground() {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of managed objects.
func (s *Stacking) Len() int {
	return len(s.objects)
}

// Clear removes every object.
func (s *Stacking) Clear() {
	for i := range s.objects {
		s.objects[i] = nil
	}
	s.objects = s.objects[:0]
	s.sorted = s.sorted[:0]
	s.dirty = true
}
