package sapling

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera controls the debug view: the world-space point shown at the center
// of the screen and the zoom applied on top of Scene.PixelsPerUnit. The view
// looks down the Z axis, so only X and Y are used.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64

	followTarget *Transform
	followOffset Vec3
	followLerp   float64

	scrollTween *scrollAnim
}

func newCamera() *Camera {
	return &Camera{Zoom: 1.0}
}

// Follow makes the camera track the world origin of target plus offset.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(target *Transform, offset Vec3, lerp float64) {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// update advances follow and scroll. Called from Scene.Step after world
// matrices are resolved, so following never forces a recompute.
func (c *Camera) update(dt float32) {
	if c.followTarget != nil && !c.followTarget.IsDisposed() {
		target := c.followTarget.Origin().Add(c.followOffset)
		c.X += (target[0] - c.X) * c.followLerp
		c.Y += (target[1] - c.Y) * c.followLerp
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}
}

// WorldToScreen projects a world point onto a screen of the given size.
// Screen Y grows downwards.
func (c *Camera) WorldToScreen(v Vec3, ppu float64, width, height int) (sx, sy float64) {
	s := ppu * c.Zoom
	sx = float64(width)/2 + (v[0]-c.X)*s
	sy = float64(height)/2 - (v[1]-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates back to the world XY plane
// (Z = 0).
func (c *Camera) ScreenToWorld(sx, sy, ppu float64, width, height int) Vec3 {
	s := ppu * c.Zoom
	if s == 0 {
		return Vec3{c.X, c.Y, 0}
	}
	return Vec3{
		c.X + (sx-float64(width)/2)/s,
		c.Y - (sy-float64(height)/2)/s,
		0,
	}
}
