package preview

import (
	"math"

	"github.com/figment3d/figment/pkg/math3d"
)

// Camera is a perspective camera with Euler orientation. Matrices are
// cached and recomputed only when a parameter changes.
type Camera struct {
	Position math3d.Vec3

	Pitch float64
	Yaw   float64

	FOV         float64
	AspectRatio float64
	Near        float64
	Far         float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates a camera looking down -Z from a short distance.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 5),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// LookAt points the camera at a target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.viewDirty = true
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
		c.projDirty = true // force viewProj rebuild below
	}
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
		c.projDirty = false
	}
	return c.viewProjMatrix
}

// WorldToScreen projects a world point to pixel coordinates. visible
// is false when the point falls outside the frustum, but the returned
// coordinates are still the real projection for any point in front of
// the camera, so lines with one off-screen endpoint land in the right
// place.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clip.W <= 0 {
		return 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	visible = ndc.X >= -1 && ndc.X <= 1 && ndc.Y >= -1 && ndc.Y <= 1 && ndc.Z >= -1 && ndc.Z <= 1

	// Points near the W=0 plane project arbitrarily far out; clamp so
	// the coordinates stay bounded.
	const limit = 16
	nx := math.Max(-limit, math.Min(limit, ndc.X))
	ny := math.Max(-limit, math.Min(limit, ndc.Y))

	x = (nx + 1) * 0.5 * float64(screenWidth)
	y = (1 - ny) * 0.5 * float64(screenHeight)
	return x, y, visible
}
