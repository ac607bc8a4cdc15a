// Package camera provides an orbit camera for viewing stems.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera orbits a target point at a fixed distance.
// Yaw rotates around the vertical axis, pitch tilts above the ground plane.
type Camera struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Orbit angles in radians
	Yaw, Pitch float64

	// Distance from the target
	Distance float64

	// Constraints
	MinDistance, MaxDistance float64
	MinPitch, MaxPitch       float64
}

// New creates a camera looking at target from the given distance,
// slightly raised and turned.
func New(target r3.Vec, distance float64) *Camera {
	c := &Camera{
		Target:      target,
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 8,
		MinDistance: 1,
		MaxDistance: 500,
		MinPitch:    -math.Pi/2 + 0.05,
		MaxPitch:    math.Pi/2 - 0.05,
	}
	c.SetDistance(distance)
	return c
}

// Position returns the camera eye position in world coordinates.
func (c *Camera) Position() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: c.Distance * cp * math.Cos(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * cp * math.Sin(c.Yaw),
	}
	return r3.Add(c.Target, offset)
}

// Rotate changes the orbit angles. Pitch is clamped and yaw wraps to [0, 2*Pi).
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw = normalizeHeading(c.Yaw + dYaw)
	c.Pitch = clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the current distance by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Frame retargets the camera on the center of box and backs off far
// enough to keep it in view.
func (c *Camera) Frame(box r3.Box) {
	c.Target = r3.Scale(0.5, r3.Add(box.Min, box.Max))
	radius := 0.5 * r3.Norm(r3.Sub(box.Max, box.Min))
	c.SetDistance(radius * 2.5)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeHeading wraps a heading to [0, 2*Pi).
func normalizeHeading(h float64) float64 {
	const twoPi = 2 * math.Pi
	h = math.Mod(h, twoPi)
	if h < 0 {
		h += twoPi
	}
	return h
}
