package source

import "testing"

func TestSpanEmptyAndLen(t *testing.T) {
	s := Span{File: 1, Start: 5, End: 5}
	if !s.Empty() {
		t.Errorf("expected empty span")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}

	s2 := Span{File: 1, Start: 5, End: 9}
	if s2.Empty() {
		t.Errorf("expected non-empty span")
	}
	if s2.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s2.Len())
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	got := a.Cover(b)
	want := Span{File: 1, Start: 5, End: 20}
	if got != want {
		t.Errorf("Cover() = %+v, want %+v", got, want)
	}

	// Different files: left operand returned unchanged.
	c := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(c); got != a {
		t.Errorf("Cover() across files = %+v, want %+v", got, a)
	}
}

func TestSpanOrdering(t *testing.T) {
	a := Span{File: 1, Start: 0, End: 5}
	b := Span{File: 1, Start: 5, End: 10}
	if !a.IsLeftThan(b) {
		t.Errorf("expected a to be left of b")
	}
	if !b.IsRightThan(a) {
		t.Errorf("expected b to be right of a")
	}
	c := Span{File: 2, Start: 0, End: 5}
	if a.IsLeftThan(c) {
		t.Errorf("spans from different files should not compare")
	}
}

func TestSpanString(t *testing.T) {
	s := Span{File: 3, Start: 1, End: 4}
	if got, want := s.String(), "3:1-4"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
