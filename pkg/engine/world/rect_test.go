package world

import (
	"testing"
)

func TestRect_Tiles_RowMajor(t *testing.T) {
	got := R(1, 2, 2, 2).Tiles()
	want := []Tile{T(1, 2), T(2, 2), T(1, 3), T(2, 3)}
	if len(got) != len(want) {
		t.Fatalf("Tiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tiles()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRect_Tiles_Empty(t *testing.T) {
	if got := R(0, 0, 0, 5).Tiles(); got != nil {
		t.Errorf("Tiles() of zero-width rect = %v, want nil", got)
	}
}

func TestRect_Intersects(t *testing.T) {
	cases := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlap", R(0, 0, 3, 3), R(2, 2, 3, 3), true},
		{"touching edges", R(0, 0, 2, 2), R(2, 0, 2, 2), false},
		{"contained", R(0, 0, 10, 10), R(4, 4, 1, 1), true},
		{"empty", R(0, 0, 3, 3), R(1, 1, 0, 0), false},
		{"disjoint", R(0, 0, 1, 1), R(5, 5, 1, 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Intersects(tc.a); got != tc.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect("1, 2,3,4")
	if err != nil {
		t.Fatalf("ParseRect: %v", err)
	}
	if r != R(1, 2, 3, 4) {
		t.Errorf("ParseRect = %v, want 1,2,3,4", r)
	}
	if _, err := ParseRect("1,2,3"); err == nil {
		t.Error("ParseRect(\"1,2,3\") = nil error, want error")
	}
	if _, err := ParseRect("a,2,3,4"); err == nil {
		t.Error("ParseRect(\"a,2,3,4\") = nil error, want error")
	}
}

func TestTile_Neighbors_NoDiagonals(t *testing.T) {
	n := T(5, 5).Neighbors()
	want := []Tile{T(5, 4), T(6, 5), T(5, 6), T(4, 5)}
	for i := range want {
		if n[i] != want[i] {
			t.Errorf("Neighbors()[%d] = %v, want %v", i, n[i], want[i])
		}
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"up": Up, "Right": Right, "2": Down, " left ": Left} {
		got, ok := ParseDirection(in)
		if !ok || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v, true", in, got, ok, want)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection(\"sideways\") ok = true, want false")
	}
}

func TestDirection_Opposite(t *testing.T) {
	for _, d := range AllDirections() {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v.Opposite().Opposite() = %v", d, d.Opposite().Opposite())
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx+ox != 0 || dy+oy != 0 {
			t.Errorf("%v and its opposite deltas don't cancel", d)
		}
	}
}
