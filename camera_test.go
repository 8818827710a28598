package sapling

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestCameraWorldToScreen(t *testing.T) {
	c := newCamera()
	sx, sy := c.WorldToScreen(Vec3{1, 2, 5}, 10, 200, 100)
	assertNear(t, "sx", sx, 110)
	assertNear(t, "sy", sy, 30)

	c.X, c.Y, c.Zoom = 1, 2, 2
	sx, sy = c.WorldToScreen(Vec3{1, 2, 0}, 10, 200, 100)
	assertNear(t, "centered sx", sx, 100)
	assertNear(t, "centered sy", sy, 50)
}

func TestCameraScreenToWorldRoundTrip(t *testing.T) {
	c := newCamera()
	c.X, c.Y, c.Zoom = -3, 4, 1.5
	v := Vec3{2, -1, 0}
	sx, sy := c.WorldToScreen(v, 64, 1280, 720)
	assertVec3(t, "world", c.ScreenToWorld(sx, sy, 64, 1280, 720), v)
}

func TestCameraFollow(t *testing.T) {
	s := NewScene()
	target := NewTransform("target")
	target.SetLocalOrigin(Vec3{4, -2, 7})
	s.Root().AddChild(target)

	s.Camera().Follow(target, Vec3{1, 1, 0}, 1.0)
	if err := s.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "X", s.Camera().X, 5)
	assertNear(t, "Y", s.Camera().Y, -1)

	s.Camera().Unfollow()
	target.SetLocalOrigin(Vec3{100, 100, 0})
	if err := s.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "X after unfollow", s.Camera().X, 5)
}

func TestCameraFollowDisposedTarget(t *testing.T) {
	c := newCamera()
	target := NewTransform("target")
	target.SetLocalOrigin(Vec3{3, 3, 0})
	c.Follow(target, Vec3{}, 1.0)
	target.Dispose()
	c.update(0.1)
	if c.X != 0 || c.Y != 0 {
		t.Errorf("camera moved toward a disposed target: (%v, %v)", c.X, c.Y)
	}
}

func TestCameraScrollTo(t *testing.T) {
	c := newCamera()
	c.ScrollTo(10, -20, 1.0, ease.Linear)
	if !c.Scrolling() {
		t.Fatal("expected scroll in progress")
	}
	c.update(0.5)
	c.update(0.5)
	if c.Scrolling() {
		t.Error("scroll should be finished")
	}
	if c.X < 9.99 || c.X > 10.01 || c.Y < -20.01 || c.Y > -19.99 {
		t.Errorf("camera at (%v, %v), want ~(10, -20)", c.X, c.Y)
	}
}
