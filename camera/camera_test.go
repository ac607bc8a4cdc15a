package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNew(t *testing.T) {
	cam := New(r3.Vec{Y: 2}, 20)

	if cam.Distance != 20 {
		t.Errorf("expected distance 20, got %f", cam.Distance)
	}
	if cam.Target != (r3.Vec{Y: 2}) {
		t.Errorf("expected target (0, 2, 0), got %+v", cam.Target)
	}
}

func TestPositionAtDistance(t *testing.T) {
	cam := New(r3.Vec{X: 1, Y: 2, Z: 3}, 15)

	testCases := []struct{ yaw, pitch float64 }{
		{0, 0},
		{math.Pi / 2, 0.3},
		{4, -0.7},
	}

	for _, tc := range testCases {
		cam.Yaw, cam.Pitch = tc.yaw, tc.pitch
		d := r3.Norm(r3.Sub(cam.Position(), cam.Target))
		if math.Abs(d-15) > 1e-9 {
			t.Errorf("yaw=%v pitch=%v: eye at distance %v, want 15", tc.yaw, tc.pitch, d)
		}
	}
}

func TestPositionLevel(t *testing.T) {
	cam := New(r3.Vec{}, 10)
	cam.Yaw, cam.Pitch = 0, 0

	p := cam.Position()
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Errorf("expected eye at (10, 0, 0), got %+v", p)
	}
}

func TestRotateClampsPitchAndWrapsYaw(t *testing.T) {
	cam := New(r3.Vec{}, 10)

	cam.Rotate(0, 10)
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("expected pitch clamped to %v, got %v", cam.MaxPitch, cam.Pitch)
	}

	cam.Rotate(0, -20)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("expected pitch clamped to %v, got %v", cam.MinPitch, cam.Pitch)
	}

	cam.Yaw = 0.5
	cam.Rotate(-1, 0)
	if cam.Yaw < 0 || cam.Yaw >= 2*math.Pi {
		t.Errorf("expected yaw wrapped into [0, 2pi), got %v", cam.Yaw)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(r3.Vec{}, 10)

	cam.ZoomBy(1000)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected distance clamped to %v, got %v", cam.MinDistance, cam.Distance)
	}

	cam.ZoomBy(0.00001)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected distance clamped to %v, got %v", cam.MaxDistance, cam.Distance)
	}

	before := cam.Distance
	cam.ZoomBy(0)
	if cam.Distance != before {
		t.Error("zero zoom factor should be ignored")
	}
}

func TestFrame(t *testing.T) {
	cam := New(r3.Vec{}, 10)
	cam.Frame(r3.Box{Min: r3.Vec{X: -2, Y: 0, Z: -2}, Max: r3.Vec{X: 2, Y: 8, Z: 2}})

	if cam.Target != (r3.Vec{Y: 4}) {
		t.Errorf("expected target (0, 4, 0), got %+v", cam.Target)
	}
	if cam.Distance <= 4 {
		t.Errorf("expected distance beyond box radius, got %v", cam.Distance)
	}
}
