package sapling

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 components of a plain transform's
// local pose simultaneously. Create one via the convenience constructors
// (TweenLocalOrigin, TweenLocalScale, TweenLocalRotation) and call Update(dt)
// each frame, or register it with Scene.AddAnimation. Values are written
// through the transform's setters, so propagation runs as usual. If the
// target transform is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	apply  func(values [3]float64)
	target *Transform
	done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target. If the target has been disposed, the group finishes and no writes
// occur.
func (g *TweenGroup) Update(dt float32) {
	if g.done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.done = true
		return
	}

	var values [3]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.done = allDone
	g.apply(values)
}

// Done reports whether every tween has finished.
func (g *TweenGroup) Done() bool {
	return g.done
}

// TweenLocalOrigin creates a TweenGroup that animates the local origin to the
// given target over the specified duration using the easing function.
func TweenLocalOrigin(t *Transform, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := t.LocalOrigin()
	g := &TweenGroup{count: 3, target: t}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	g.apply = func(v [3]float64) { t.SetLocalOrigin(Vec3{v[0], v[1], v[2]}) }
	return g
}

// TweenLocalScale creates a TweenGroup that animates the local scale to the
// given target over the specified duration using the easing function.
func TweenLocalScale(t *Transform, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := t.LocalScale()
	g := &TweenGroup{count: 3, target: t}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	g.apply = func(v [3]float64) { t.SetLocalScale(Vec3{v[0], v[1], v[2]}) }
	return g
}

// TweenLocalRotation creates a TweenGroup that slerps the local rotation
// to the target rotation over the specified duration using the easing
// function.
func TweenLocalRotation(t *Transform, to Quat, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := t.LocalRotation()
	g := &TweenGroup{count: 1, target: t}
	g.tweens[0] = gween.New(0, 1, duration, fn)
	g.apply = func(v [3]float64) { t.SetLocalRotation(mgl64.QuatSlerp(from, to, v[0])) }
	return g
}

// --- Joint animation ---

// jointTrack drives one component of one joint slot from a start to an end
// value. Rotation tracks use a single 0→1 tween as the slerp amount.
type jointTrack struct {
	index    int
	kind     trackKind
	tweens   [3]*gween.Tween
	from, to Pose
	values   [3]float64
	finished bool
}

type trackKind uint8

const (
	trackOrigin trackKind = iota
	trackRotation
	trackScale
)

// JointAnimator plays simple from→to tracks on the slots of a joint
// hierarchy. Each Update writes the interpolated local poses directly into
// the hierarchy's slots and runs one batch UpdateJointHierarchy.
//
// Channels without a track keep the pose the joint had when its first track
// was added. With Loop set, finished tracks restart in the opposite
// direction (ping-pong) and the animator never finishes.
type JointAnimator struct {
	Loop bool

	h        *JointHierarchy
	tracks   []*jointTrack
	base     map[int]Pose
	pose     map[int]Pose
	duration float32
	fn       ease.TweenFunc
	done     bool
}

// NewJointAnimator creates an animator for h. Every track added afterwards
// uses the given duration and easing function.
func NewJointAnimator(h *JointHierarchy, duration float32, fn ease.TweenFunc) *JointAnimator {
	if fn == nil {
		fn = ease.Linear
	}
	return &JointAnimator{
		h:        h,
		base:     make(map[int]Pose),
		pose:     make(map[int]Pose),
		duration: duration,
		fn:       fn,
	}
}

// Hierarchy returns the animated joint hierarchy.
func (a *JointAnimator) Hierarchy() *JointHierarchy {
	return a.h
}

// AddOriginTrack animates the local origin of the joint at index.
func (a *JointAnimator) AddOriginTrack(index int, from, to Vec3) {
	tr := a.newTrack(index, trackOrigin)
	tr.from.Origin, tr.to.Origin = from, to
	a.startTrack(tr)
}

// AddRotationTrack slerps the local rotation of the joint at index.
func (a *JointAnimator) AddRotationTrack(index int, from, to Quat) {
	tr := a.newTrack(index, trackRotation)
	tr.from.Rotation, tr.to.Rotation = from, to
	a.startTrack(tr)
}

// AddScaleTrack animates the local scale of the joint at index.
func (a *JointAnimator) AddScaleTrack(index int, from, to Vec3) {
	tr := a.newTrack(index, trackScale)
	tr.from.Scale, tr.to.Scale = from, to
	a.startTrack(tr)
}

func (a *JointAnimator) newTrack(index int, kind trackKind) *jointTrack {
	a.h.checkIndex(index)
	if _, ok := a.base[index]; !ok {
		a.base[index] = a.h.poseAt(index)
	}
	tr := &jointTrack{index: index, kind: kind}
	a.tracks = append(a.tracks, tr)
	a.done = false
	return tr
}

func (a *JointAnimator) startTrack(tr *jointTrack) {
	switch tr.kind {
	case trackRotation:
		tr.tweens[0] = gween.New(0, 1, a.duration, a.fn)
	case trackOrigin:
		for i := 0; i < 3; i++ {
			tr.tweens[i] = gween.New(float32(tr.from.Origin[i]), float32(tr.to.Origin[i]), a.duration, a.fn)
		}
	case trackScale:
		for i := 0; i < 3; i++ {
			tr.tweens[i] = gween.New(float32(tr.from.Scale[i]), float32(tr.to.Scale[i]), a.duration, a.fn)
		}
	}
	tr.finished = false
}

// Update advances every track by dt seconds, writes the resulting local
// poses into the hierarchy and runs the batch world update.
func (a *JointAnimator) Update(dt float32) {
	if a.done {
		return
	}
	if a.h.Released() {
		a.done = true
		return
	}

	for index, p := range a.base {
		a.pose[index] = p
	}
	allDone := true
	for _, tr := range a.tracks {
		if tr.finished && a.Loop {
			tr.from, tr.to = tr.to, tr.from
			a.startTrack(tr)
		}
		if !tr.finished {
			tr.advance(dt)
		}
		if !tr.finished {
			allDone = false
		}

		p := a.pose[tr.index]
		switch tr.kind {
		case trackOrigin:
			p.Origin = Vec3{tr.values[0], tr.values[1], tr.values[2]}
		case trackRotation:
			p.Rotation = mgl64.QuatSlerp(tr.from.Rotation, tr.to.Rotation, tr.values[0])
		case trackScale:
			p.Scale = Vec3{tr.values[0], tr.values[1], tr.values[2]}
		}
		a.pose[tr.index] = p
	}
	for index, p := range a.pose {
		a.h.setPose(index, p)
	}
	a.done = allDone && !a.Loop

	a.h.UpdateJointHierarchy(a.h.ParentIndexes())
}

// Done reports whether every track has finished. A looping animator is never
// done.
func (a *JointAnimator) Done() bool {
	return a.done
}

func (tr *jointTrack) advance(dt float32) {
	n := 3
	if tr.kind == trackRotation {
		n = 1
	}
	finished := true
	for i := 0; i < n; i++ {
		val, f := tr.tweens[i].Update(dt)
		tr.values[i] = float64(val)
		if !f {
			finished = false
		}
	}
	tr.finished = finished
}
