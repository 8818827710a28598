package sapling

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
)

const defaultPixelsPerUnit = 64

// Animation is advanced by the Scene once per frame during the update phase.
// Finished animations are dropped.
type Animation interface {
	Update(dt float32)
	Done() bool
}

// Scene is the top-level object that owns the transform tree and runs the
// per-frame pipeline. It implements ebiten.Game.
//
// Each frame runs three phases in order:
//
//  1. the update func and animations mutate transforms and joint buffers;
//  2. the physics func writes physics-driven transforms;
//  3. every world matrix is resolved, so reads after Step see fresh values.
type Scene struct {
	root  *Transform
	debug bool

	// ClearColor fills the screen before the debug skeleton is drawn.
	ClearColor color.RGBA
	// PixelsPerUnit scales world units to screen pixels in Draw.
	PixelsPerUnit float64
	// ShowStats prints the last frame's counters in the top-left corner.
	ShowStats bool
	// ScreenshotDir receives the captures queued with Screenshot.
	ScreenshotDir string

	camera          *Camera
	screenshotQueue []string

	updateFunc  func() error
	physicsFunc func(dt float64) error
	animations  []Animation

	frame    uint64
	lastWork WorkCounters
}

var _ ebiten.Game = (*Scene)(nil)

// NewScene creates a new scene with a pre-created root transform.
func NewScene() *Scene {
	return &Scene{
		root:          NewTransform("root"),
		ClearColor:    color.RGBA{R: 0x1e, G: 0x1e, B: 0x28, A: 0xff},
		PixelsPerUnit: defaultPixelsPerUnit,
		ScreenshotDir: defaultScreenshotDir,
		camera:        newCamera(),
	}
}

// Camera returns the debug view camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Root returns the scene's root transform.
func (s *Scene) Root() *Transform {
	return s.root
}

// SetUpdateFunc sets the gameplay callback run at the start of every frame.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetPhysicsFunc sets the physics step run after gameplay and animation.
// The physics step should write poses with Transform.ApplyPhysicsPose.
func (s *Scene) SetPhysicsFunc(fn func(dt float64) error) {
	s.physicsFunc = fn
}

// AddAnimation registers an animation advanced every frame until Done.
func (s *Scene) AddAnimation(a Animation) {
	s.animations = append(s.animations, a)
}

// NumAnimations returns the number of running animations.
func (s *Scene) NumAnimations() int {
	return len(s.animations)
}

// Frame returns the number of completed frames.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// LastWork returns the transform work counted during the last frame.
func (s *Scene) LastWork() WorkCounters {
	return s.lastWork
}

// Update advances one frame at the current ebiten tick rate.
func (s *Scene) Update() error {
	return s.Step(1.0 / float64(ebiten.TPS()))
}

// Step advances one frame of dt seconds through the three phases.
func (s *Scene) Step(dt float64) error {
	var stats debugStats
	var t0 time.Time

	if s.debug {
		t0 = time.Now()
	}

	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return errors.Wrap(err, "update phase")
		}
	}
	s.advanceAnimations(float32(dt))

	if s.debug {
		stats.updateTime = time.Since(t0)
		t0 = time.Now()
	}

	if s.physicsFunc != nil {
		if err := s.physicsFunc(dt); err != nil {
			return errors.Wrap(err, "physics phase")
		}
	}

	if s.debug {
		stats.physicsTime = time.Since(t0)
		t0 = time.Now()
	}

	resolveSubtree(s.root)
	s.camera.update(float32(dt))

	if s.debug {
		stats.resolveTime = time.Since(t0)
	}

	s.lastWork = frameStats
	frameStats = WorkCounters{}
	stats.work = s.lastWork
	s.debugLog(stats)
	s.frame++
	return nil
}

func (s *Scene) advanceAnimations(dt float32) {
	kept := s.animations[:0]
	for _, a := range s.animations {
		a.Update(dt)
		if !a.Done() {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(s.animations); i++ {
		s.animations[i] = nil
	}
	s.animations = kept
}

// resolveSubtree reads every world matrix so that none stays stale.
func resolveSubtree(t *Transform) {
	t.Matrix()
	for _, c := range t.children {
		resolveSubtree(c)
	}
}

// Layout returns the outside size unchanged.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

var (
	bonePlainColor   = color.RGBA{R: 0x9a, G: 0x9a, B: 0xa8, A: 0xff}
	boneJointColor   = color.RGBA{R: 0xff, G: 0xa5, B: 0x3c, A: 0xff}
	bonePhysicsColor = color.RGBA{R: 0x50, G: 0xb4, B: 0xff, A: 0xff}
)

// Draw renders a debug skeleton: the XY projection of every world origin
// through the scene camera, with a line from each transform to its parent.
// Joint members, physics-driven and plain transforms use different colors.
// Queued screenshots are written afterwards.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor)

	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	project := func(v Vec3) (float32, float32) {
		x, y := s.camera.WorldToScreen(v, s.PixelsPerUnit, w, h)
		return float32(x), float32(y)
	}
	drawBones(screen, s.root, project)

	if s.ShowStats {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f\nTPS: %.1f\ninvalidations: %d\nrecomputes: %d\njoint passes: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			s.lastWork.Invalidations, s.lastWork.Recomputes, s.lastWork.JointPasses))
	}

	s.flushScreenshots(screen)
}

func drawBones(screen *ebiten.Image, t *Transform, project func(Vec3) (float32, float32)) {
	x0, y0 := project(t.Origin())
	for _, c := range t.children {
		x1, y1 := project(c.Origin())
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, boneColor(c), true)
		drawBones(screen, c, project)
	}
	vector.DrawFilledRect(screen, x0-3, y0-3, 6, 6, boneColor(t), false)
}

func boneColor(t *Transform) color.RGBA {
	switch {
	case t.IsPhysicsDriven():
		return bonePhysicsColor
	case t.JointHierarchy() != nil:
		return boneJointColor
	default:
		return bonePlainColor
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-transform
// access panics, joint parent indexes are validated, tree depth and child count
// warnings are printed, and per-frame stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that
// transform operations (which lack a Scene pointer) can check it cheaply.
// Only valid with a single Scene; multiple Scenes with differing debug modes
// will reflect whichever called SetDebugMode last.
var globalDebug bool
