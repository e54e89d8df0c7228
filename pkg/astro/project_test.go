package astro

import (
	"math"
	"testing"
)

func TestProjectZenithAtOrigin(t *testing.T) {
	for az := 0.0; az < 360; az += 30 {
		p := Project(HorizontalPosition{AltDeg: 90, AzDeg: az})
		if math.Hypot(p.X, p.Y) > 1e-12 {
			t.Errorf("az %v: zenith projected to (%v,%v), want origin", az, p.X, p.Y)
		}
		if !p.Visible {
			t.Errorf("az %v: zenith not visible", az)
		}
	}
}

func TestProjectHorizonOnUnitCircle(t *testing.T) {
	for az := 0.0; az < 360; az += 45 {
		p := Project(HorizontalPosition{AltDeg: 0, AzDeg: az})
		if r := math.Hypot(p.X, p.Y); math.Abs(r-1) > 1e-12 {
			t.Errorf("az %v: horizon radius = %v, want 1", az, r)
		}
		if !p.Visible {
			t.Errorf("az %v: horizon point not visible", az)
		}
	}
}

func TestProjectOrientation(t *testing.T) {
	// North up (negative screen y), East right, using y-down screen space.
	north := Project(HorizontalPosition{AltDeg: 45, AzDeg: 0})
	if !(north.Y < 0 && math.Abs(north.X) < 1e-12) {
		t.Errorf("north at (%v,%v), want on negative y axis", north.X, north.Y)
	}
	east := Project(HorizontalPosition{AltDeg: 45, AzDeg: 90})
	if !(east.X > 0 && math.Abs(east.Y) < 1e-12) {
		t.Errorf("east at (%v,%v), want on positive x axis", east.X, east.Y)
	}
	south := Project(HorizontalPosition{AltDeg: 45, AzDeg: 180})
	if !(south.Y > 0 && math.Abs(south.X) < 1e-12) {
		t.Errorf("south at (%v,%v), want on positive y axis", south.X, south.Y)
	}
	west := Project(HorizontalPosition{AltDeg: 45, AzDeg: 270})
	if !(west.X < 0 && math.Abs(west.Y) < 1e-12) {
		t.Errorf("west at (%v,%v), want on negative x axis", west.X, west.Y)
	}
}

func TestProjectVisibilityGate(t *testing.T) {
	p := Project(HorizontalPosition{AltDeg: -0.1, AzDeg: 123})
	if p.Visible {
		t.Error("point below the horizon reported visible")
	}
	// Direction is still defined for invisible points (crescent geometry).
	if math.Hypot(p.X, p.Y) <= 1 {
		t.Error("below-horizon point projected inside the disc")
	}
}

func TestProjectRadiusMonotonicInZenithDistance(t *testing.T) {
	prev := -1.0
	for alt := 89.0; alt >= -89; alt -= 1 {
		p := Project(HorizontalPosition{AltDeg: alt, AzDeg: 10})
		r := math.Hypot(p.X, p.Y)
		if r <= prev {
			t.Fatalf("radius not strictly increasing at alt %v: %v <= %v", alt, r, prev)
		}
		prev = r
	}
}

func TestProjectNadirClamped(t *testing.T) {
	p := Project(HorizontalPosition{AltDeg: -90, AzDeg: 0})
	if math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) || math.IsNaN(p.X) || math.IsNaN(p.Y) {
		t.Errorf("nadir produced non-finite projection (%v,%v)", p.X, p.Y)
	}
	if p.Visible {
		t.Error("nadir reported visible")
	}
}
