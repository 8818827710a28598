package sapling

// --- Local accessors ---
//
// Local reads and writes go through the live authority: the transform's own
// pose, or its slot in a joint hierarchy.

// LocalPose returns the local origin, rotation and scale.
func (t *Transform) LocalPose() Pose {
	return t.local.pose()
}

// LocalOrigin returns the origin relative to the parent.
func (t *Transform) LocalOrigin() Vec3 {
	return t.local.pose().Origin
}

// LocalScale returns the scale relative to the parent.
func (t *Transform) LocalScale() Vec3 {
	return t.local.pose().Scale
}

// LocalRotation returns the rotation relative to the parent.
func (t *Transform) LocalRotation() Quat {
	return t.local.pose().Rotation
}

// LocalAxis returns the local rotation as an orthonormal basis.
func (t *Transform) LocalAxis() Mat3 {
	return rotationBasis(t.local.pose().Rotation)
}

// LocalAngles returns the local rotation as roll (X), pitch (Y) and yaw (Z)
// in radians.
func (t *Transform) LocalAngles() Vec3 {
	return quatToEuler(t.local.pose().Rotation)
}

// LocalMatrix returns the affine matrix relative to the parent.
func (t *Transform) LocalMatrix() Mat3x4 {
	return t.local.matrix()
}

// --- Local setters ---

// SetLocalPose sets origin, rotation and scale at once.
func (t *Transform) SetLocalPose(p Pose) {
	t.setLocalPose(p, t)
}

// SetLocalOrigin sets the origin relative to the parent.
func (t *Transform) SetLocalOrigin(origin Vec3) {
	p := t.local.pose()
	p.Origin = origin
	t.setLocalPose(p, t)
}

// SetLocalScale sets the scale relative to the parent.
func (t *Transform) SetLocalScale(scale Vec3) {
	p := t.local.pose()
	p.Scale = scale
	t.setLocalPose(p, t)
}

// SetLocalRotation sets the rotation relative to the parent.
func (t *Transform) SetLocalRotation(rotation Quat) {
	p := t.local.pose()
	p.Rotation = rotation
	t.setLocalPose(p, t)
}

// SetLocalAxis sets the rotation from an orthonormal basis.
func (t *Transform) SetLocalAxis(axis Mat3) {
	t.SetLocalRotation(quatFromBasis(axis))
}

// SetLocalAngles sets the rotation from roll (X), pitch (Y) and yaw (Z) in
// radians.
func (t *Transform) SetLocalAngles(angles Vec3) {
	t.SetLocalRotation(eulerToQuat(angles))
}

// SetLocalOriginRotation sets origin and rotation at once.
func (t *Transform) SetLocalOriginRotation(origin Vec3, rotation Quat) {
	p := t.local.pose()
	p.Origin = origin
	p.Rotation = rotation
	t.setLocalPose(p, t)
}

// SetLocalOriginAxis sets origin and rotation basis at once.
func (t *Transform) SetLocalOriginAxis(origin Vec3, axis Mat3) {
	t.SetLocalOriginRotation(origin, quatFromBasis(axis))
}

// SetLocalOriginRotationScale sets origin, rotation and scale at once.
func (t *Transform) SetLocalOriginRotationScale(origin Vec3, rotation Quat, scale Vec3) {
	t.setLocalPose(Pose{Origin: origin, Rotation: rotation, Scale: scale}, t)
}

// setLocalPose writes the live authority and invalidates the world matrix on
// behalf of instigatedBy.
func (t *Transform) setLocalPose(p Pose, instigatedBy *Transform) {
	if globalDebug {
		debugCheckDisposed(t, "SetLocal")
	}
	t.local.setPose(p)
	t.InvalidateWorldMatrix(instigatedBy)
}
