package core

import (
	"testing"
	"time"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"apart horizontally", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"touching edge", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), false},
		{"contained", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() reversed = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxIntersection(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Box
		ok     bool
		expect Box
	}{
		{
			name:   "partial overlap",
			a:      Box{X: 0, Y: 0, W: 4, H: 4},
			b:      Box{X: 2, Y: 1, W: 4, H: 2},
			ok:     true,
			expect: Box{X: 2, Y: 1, W: 2, H: 2},
		},
		{
			name: "touching does not overlap",
			a:    Box{X: 0, Y: 0, W: 2, H: 2},
			b:    Box{X: 2, Y: 0, W: 2, H: 2},
		},
		{
			name: "empty box never overlaps",
			a:    Box{X: 0, Y: 0, W: 0, H: 5},
			b:    Box{X: -1, Y: -1, W: 5, H: 5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.a.Intersection(tc.b)
			if ok != tc.ok {
				t.Fatalf("Intersection ok = %v, expected %v", ok, tc.ok)
			}
			if ok && got != tc.expect {
				t.Errorf("Intersection = %+v, expected %+v", got, tc.expect)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
	if ClampF(-0.5, 0, 1) != 0 || ClampF(1.5, 0, 1) != 1 {
		t.Error("ClampF out of range")
	}
}

func TestFrameTimeAdvance(t *testing.T) {
	var ft FrameTime

	ft = ft.Advance(100 * time.Millisecond)
	if ft.SecondsPassed != 0 {
		t.Errorf("first frame should report no elapsed time, got %f", ft.SecondsPassed)
	}

	ft = ft.Advance(125 * time.Millisecond)
	if ft.SecondsPassed < 0.0249 || ft.SecondsPassed > 0.0251 {
		t.Errorf("SecondsPassed = %f, expected 0.025", ft.SecondsPassed)
	}
	if ft.Previous != 125*time.Millisecond {
		t.Errorf("Previous = %v, expected 125ms", ft.Previous)
	}
}

func TestFixedFrameTime(t *testing.T) {
	ft := FixedFrameTime(60, 60)
	if ft.Previous != time.Second {
		t.Errorf("tick 60 at 60Hz should be 1s, got %v", ft.Previous)
	}
	if FixedFrameTime(1, 0).Previous != time.Second/60 {
		t.Error("zero tick rate should fall back to 60Hz")
	}
}

func TestPlayerIDOther(t *testing.T) {
	if Player1.Other() != Player2 || Player2.Other() != Player1 {
		t.Error("Other() should swap sides")
	}
	if Player1.Index() != 0 || Player2.Index() != 1 {
		t.Error("Index() should be zero based")
	}
}
