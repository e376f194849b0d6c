package photomark

import (
	"image"
	"testing"
)

func newTestBackground() *SceneObject {
	return NewBackgroundImage(image.NewRGBA(image.Rect(0, 0, 100, 50)), "bg")
}

func paintKinds(list []*SceneObject) []Kind {
	out := make([]Kind, len(list))
	for i, o := range list {
		out[i] = o.Kind
	}
	return out
}

func TestNextKeyEmpty(t *testing.T) {
	s := NewStacking()
	if got := s.NextKey(); got != 1 {
		t.Errorf("NextKey on empty = %d, want 1", got)
	}
}

func TestAddAssignsIncreasingKeys(t *testing.T) {
	s := NewStacking()
	a, b, c := NewRectangle(), NewCircle(), NewText("")
	s.Add(a)
	s.Add(b)
	s.Add(c)
	if a.StackKey != 1 || b.StackKey != 2 || c.StackKey != 3 {
		t.Errorf("keys = %d, %d, %d, want 1, 2, 3", a.StackKey, b.StackKey, c.StackKey)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestAddIsMaxKeyPlusOne(t *testing.T) {
	s := NewStacking()
	a, b := NewRectangle(), NewCircle()
	s.Add(a)
	s.Add(b)
	a.StackKey = 5
	b.StackKey = -3
	c := NewTriangle()
	s.Add(c)
	if c.StackKey != 6 {
		t.Errorf("new key = %d, want 6", c.StackKey)
	}
	list := s.PaintList()
	if list[len(list)-1] != c {
		t.Error("newest object should paint last")
	}
}

func TestAddAllNegativeKeys(t *testing.T) {
	s := NewStacking()
	a := NewRectangle()
	s.Add(a)
	a.StackKey = -7
	b := NewCircle()
	s.Add(b)
	if b.StackKey != 1 {
		t.Errorf("key with only negative keys = %d, want 1", b.StackKey)
	}
}

func TestBackgroundExcludedFromKeyMath(t *testing.T) {
	s := NewStacking()
	bg := newTestBackground()
	s.Add(bg)
	if bg.StackKey != BackgroundKey {
		t.Errorf("background key = %d, want BackgroundKey", bg.StackKey)
	}
	if got := s.NextKey(); got != 1 {
		t.Errorf("NextKey with only a background = %d, want 1", got)
	}
	r := NewRectangle()
	s.Add(r)
	if !s.SendBackward(r) {
		t.Fatal("SendBackward = false")
	}
	if r.StackKey != -1 {
		t.Errorf("lone send-backward key = %d, want -1", r.StackKey)
	}
}

func TestAddTwiceIsNoop(t *testing.T) {
	s := NewStacking()
	r := NewRectangle()
	s.Add(r)
	s.Add(r)
	if s.Len() != 1 || r.StackKey != 1 {
		t.Errorf("Len = %d key = %d, want 1 and 1", s.Len(), r.StackKey)
	}
}

func TestAddNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil object")
		}
	}()
	NewStacking().Add(nil)
}

func TestBringToFrontOwnKeyCounts(t *testing.T) {
	s := NewStacking()
	a, b, c := NewRectangle(), NewCircle(), NewTriangle()
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.BringToFront(c)
	if c.StackKey != 4 {
		t.Errorf("front key of current top = %d, want 4", c.StackKey)
	}
	s.BringToFront(a)
	if a.StackKey != 5 {
		t.Errorf("front key = %d, want 5", a.StackKey)
	}
	list := s.PaintList()
	if list[len(list)-1] != a {
		t.Error("object brought to front should paint last")
	}
}

func TestSendBackwardStrictlyLowestBehindNothingButBackground(t *testing.T) {
	s := NewStacking()
	bg := newTestBackground()
	a, b, c := NewRectangle(), NewCircle(), NewTriangle()
	s.Add(a)
	s.Add(bg)
	s.Add(b)
	s.Add(c)
	s.SendBackward(b)
	for _, o := range []*SceneObject{a, c} {
		if b.StackKey >= o.StackKey {
			t.Errorf("sent-back key %d not below %d", b.StackKey, o.StackKey)
		}
	}
	list := s.PaintList()
	if list[0] != bg {
		t.Errorf("paint[0] = %v, want background", list[0].Kind)
	}
	if list[1] != b {
		t.Errorf("paint[1] = %v, want the sent-back circle", list[1].Kind)
	}
}

func TestReorderIgnoresOrdinaryKeysForBackground(t *testing.T) {
	s := NewStacking()
	r := NewRectangle()
	s.Add(r)
	r.StackKey = BackgroundKey // even an equal key cannot push it behind the background
	bg := newTestBackground()
	s.Add(bg)
	list := s.PaintList()
	if list[0] != bg {
		t.Error("background must paint first")
	}
}

func TestReorderTiesByInsertionOrder(t *testing.T) {
	s := NewStacking()
	a, b, c := NewRectangle(), NewCircle(), NewTriangle()
	s.Add(a)
	s.Add(b)
	s.Add(c)
	a.StackKey, b.StackKey, c.StackKey = 2, 2, 1
	s.Reorder()
	got := paintKinds(s.PaintList())
	want := []Kind{KindTriangle, KindRectangle, KindCircle}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paint order = %v, want %v", got, want)
		}
	}
}

func TestReorderMultipleBackgroundsInsertionOrder(t *testing.T) {
	s := NewStacking()
	bg1, bg2 := newTestBackground(), newTestBackground()
	r := NewRectangle()
	s.Add(r)
	s.Add(bg1)
	s.Add(bg2)
	list := s.PaintList()
	if list[0] != bg1 || list[1] != bg2 || list[2] != r {
		t.Errorf("paint order = %v", paintKinds(list))
	}
	if got := s.Backgrounds(); len(got) != 2 {
		t.Errorf("Backgrounds = %d, want 2", len(got))
	}
}

func TestRemoveAndContains(t *testing.T) {
	s := NewStacking()
	a, b := NewRectangle(), NewCircle()
	s.Add(a)
	s.Add(b)
	if !s.Remove(a) {
		t.Fatal("Remove = false")
	}
	if s.Remove(a) {
		t.Error("second Remove should be false")
	}
	if s.Contains(a) || !s.Contains(b) {
		t.Error("Contains mismatch after Remove")
	}
	if list := s.PaintList(); len(list) != 1 || list[0] != b {
		t.Errorf("paint list after remove = %v", paintKinds(list))
	}
}

func TestStackingReorderRejectsUnmanaged(t *testing.T) {
	s := NewStacking()
	r := NewRectangle()
	if s.BringToFront(r) || s.SendBackward(r) {
		t.Error("reordering an object not in the stack should fail")
	}
	bg := newTestBackground()
	s.Add(bg)
	if s.BringToFront(bg) || s.SendBackward(bg) {
		t.Error("backgrounds cannot be reordered")
	}
}

func TestObjectsInsertionOrderAndClear(t *testing.T) {
	s := NewStacking()
	a, b := NewRectangle(), NewCircle()
	s.Add(a)
	s.Add(b)
	s.BringToFront(a)
	objs := s.Objects()
	if objs[0] != a || objs[1] != b {
		t.Error("Objects should keep insertion order")
	}
	s.Clear()
	if s.Len() != 0 || len(s.PaintList()) != 0 {
		t.Error("Clear should empty the stack")
	}
}
