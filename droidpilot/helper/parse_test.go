package helper

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.5
}

func TestResolveBoxSinglePoint(t *testing.T) {
	cases := []struct {
		box   string
		w, h  int
		wantX float64
		wantY float64
	}{
		{"0.5,0.5", 1000, 2000, 500, 1000},
		{"0,0", 1080, 2400, 0, 0},
		{"1,1", 1080, 2400, 1080, 2400},
		{"[0.25, 0.75]", 1000, 1000, 250, 750},
		{"(0.1,0.9)", 500, 500, 50, 450},
	}

	for _, c := range cases {
		pt := ResolveBox(c.box, c.w, c.h)
		if pt == nil {
			t.Fatalf("ResolveBox(%q) returned nil", c.box)
		}
		if !almostEqual(pt.X, c.wantX) || !almostEqual(pt.Y, c.wantY) {
			t.Errorf("ResolveBox(%q) = (%v, %v), want (%v, %v)", c.box, pt.X, pt.Y, c.wantX, c.wantY)
		}
	}
}

func TestResolveBoxThousandScale(t *testing.T) {
	pt := ResolveBox("[500,500]", 1080, 2400)
	if pt == nil {
		t.Fatal("expected resolved point")
	}
	if !almostEqual(pt.X, 540) || !almostEqual(pt.Y, 1200) {
		t.Errorf("got (%v, %v), want (540, 1200)", pt.X, pt.Y)
	}
}

func TestResolveBoxCentroid(t *testing.T) {
	// Two corners average to the box center before scaling.
	pt := ResolveBox("0.2,0.2,0.4,0.6", 1000, 1000)
	if pt == nil {
		t.Fatal("expected resolved point")
	}
	if !almostEqual(pt.X, 300) || !almostEqual(pt.Y, 400) {
		t.Errorf("got (%v, %v), want (300, 400)", pt.X, pt.Y)
	}

	pt = ResolveBox("[100,200,300,400]", 1000, 1000)
	if pt == nil {
		t.Fatal("expected resolved point")
	}
	if !almostEqual(pt.X, 200) || !almostEqual(pt.Y, 300) {
		t.Errorf("got (%v, %v), want (200, 300)", pt.X, pt.Y)
	}
}

func TestResolveBoxMalformed(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"[]",
		"abc",
		"0.5",
		"0.5,0.5,0.5",
		"0.1,0.2,0.3,0.4,0.5",
		"0.5,def",
		"-0.1,0.5",
		"1001,500",
		"NaN,NaN",
		"Inf,0.5",
		"0.5,-Inf",
	}
	for _, box := range cases {
		if pt := ResolveBox(box, 1080, 2400); pt != nil {
			t.Errorf("ResolveBox(%q) = %+v, want nil", box, pt)
		}
	}
}

func TestResolveBoxBadScreenSize(t *testing.T) {
	if pt := ResolveBox("0.5,0.5", 0, 2400); pt != nil {
		t.Errorf("expected nil for zero width, got %+v", pt)
	}
	if pt := ResolveBox("0.5,0.5", 1080, -1); pt != nil {
		t.Errorf("expected nil for negative height, got %+v", pt)
	}
}

func TestEscapeShellText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"O'Brien", `O\'Brien`},
		{`say "hi"`, `say \"hi\"`},
		{`a\b`, `a\\b`},
		{"plain", "plain"},
		{"", ""},
	}
	for _, c := range cases {
		if got := EscapeShellText(c.in); got != c.want {
			t.Errorf("EscapeShellText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
