package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/sapling"
)

// demo is the rig shown by run and printed by dump: a three-joint arm driven
// by a looping joint animator, and a pendulum driven by a fake physics step.
type demo struct {
	arm      *sapling.JointHierarchy
	animator *sapling.JointAnimator

	pivot sapling.Vec3
	body  *sapling.Transform
	wheel *sapling.Transform
	time  float64
}

const (
	pendulumLength    = 2.0
	pendulumAmplitude = 0.6
	wheelOffset       = 0.6
)

func buildDemo(scene *sapling.Scene) *demo {
	root := scene.Root()
	d := &demo{pivot: sapling.Vec3{3, 2, 0}}

	// Arm: shoulder is the joint root, the locked chain follows it.
	shoulder := sapling.NewTransform("shoulder")
	shoulder.SetLocalOrigin(sapling.Vec3{-4, -2, 0})
	root.AddChild(shoulder)

	upper := lockedJoint(shoulder, "upper", sapling.Vec3{0, 1.5, 0})
	lower := lockedJoint(upper, "lower", sapling.Vec3{0, 1.5, 0})
	hand := lockedJoint(lower, "hand", sapling.Vec3{0, 1, 0})

	sword := sapling.NewTransform("sword")
	sword.SetLocalOrigin(sapling.Vec3{0.5, 0, 0})
	hand.AddChild(sword)

	if shoulder.ConstructJointHierarchy() {
		d.arm = shoulder.JointHierarchy()
		d.animator = sapling.NewJointAnimator(d.arm, 1.5, ease.InOutQuad)
		d.animator.Loop = true
		d.animator.AddRotationTrack(1, rotZ(-0.6), rotZ(0.6))
		d.animator.AddRotationTrack(2, rotZ(0.4), rotZ(-0.8))
		scene.AddAnimation(d.animator)
	}

	// Pendulum: the body is a rigid body with an ordinary lamp child and a
	// wheel that the physics step positions on its own.
	pivot := sapling.NewTransform("pivot")
	pivot.SetLocalOrigin(d.pivot)
	root.AddChild(pivot)

	d.body = sapling.NewTransform("body")
	d.body.SetPhysicsKind(sapling.PhysicsRigidBody)
	root.AddChild(d.body)

	lamp := sapling.NewTransform("lamp")
	lamp.SetLocalOrigin(sapling.Vec3{0, -0.5, 0})
	d.body.AddChild(lamp)

	d.wheel = sapling.NewTransform("wheel")
	d.wheel.SetPhysicsKind(sapling.PhysicsVehicleWheel)
	d.body.AddChild(d.wheel)

	d.stepPhysics(0)
	scene.SetPhysicsFunc(func(dt float64) error {
		d.stepPhysics(dt)
		return nil
	})
	return d
}

func lockedJoint(parent *sapling.Transform, name string, origin sapling.Vec3) *sapling.Transform {
	j := sapling.NewTransform(name)
	j.SetLocalOrigin(origin)
	j.SetLocked(true)
	parent.AddChild(j)
	return j
}

// stepPhysics advances the pendulum and writes the body and wheel poses the
// way a physics engine would.
func (d *demo) stepPhysics(dt float64) {
	d.time += dt
	angle := pendulumAmplitude * math.Sin(d.time*2)

	bodyOrigin := d.pivot.Add(sapling.Vec3{
		math.Sin(angle) * pendulumLength,
		-math.Cos(angle) * pendulumLength,
		0,
	})
	d.body.ApplyPhysicsPose(bodyOrigin, mgl64.Rotate3DZ(angle))

	offset := mgl64.Rotate3DZ(angle).Mul3x1(sapling.Vec3{wheelOffset, 0, 0})
	d.wheel.ApplyPhysicsPose(bodyOrigin.Add(offset), mgl64.Rotate3DZ(-d.time*4))
}

func rotZ(angle float64) sapling.Quat {
	return mgl64.QuatRotate(angle, sapling.Vec3{0, 0, 1})
}
